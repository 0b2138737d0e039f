package ai

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"yourspace/internal/middleware"
	"yourspace/internal/models"
	"yourspace/internal/observability"
	"yourspace/internal/sanitize"

	"go.opentelemetry.io/otel/attribute"
)

const (
	MessageGenerated   = "Code generated successfully"
	MessageUnparseable = "Could not extract code from AI response"
	messageErrorPrefix = "Error generating code: "
)

// ErrNotConfigured means no generation backend is available at all.
var ErrNotConfigured = errors.New("ai: generation backend not configured")

var (
	htmlFence = regexp.MustCompile("(?s)```html\\s*\\n(.*?)\\n```")
	cssFence  = regexp.MustCompile("(?s)```css\\s*\\n(.*?)\\n```")
	styleTag  = regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)
)

// Result is the body returned to the profile editor.
type Result struct {
	HTML    string `json:"html"`
	CSS     string `json:"css"`
	Message string `json:"message"`
}

// Backend sends one system+user exchange to a model and returns its raw text.
type Backend interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

// CodeGenerator is what HTTP handlers depend on.
type CodeGenerator interface {
	GenerateProfileCode(ctx context.Context, prompt string, kind Kind) (*Result, error)
	Configured() bool
	Provider() string
}

// Generator turns a free-form prompt into sanitized profile code.
type Generator struct {
	backend Backend
	policy  *sanitize.Policy
	prompts *promptSet
	timeout time.Duration
}

// NewGenerator builds a Generator. A nil backend yields a generator that
// reports itself as not configured.
func NewGenerator(backend Backend, policy *sanitize.Policy, timeout time.Duration) *Generator {
	if policy == nil {
		policy = sanitize.NewPolicy()
	}
	return &Generator{
		backend: backend,
		policy:  policy,
		prompts: mustLoadPrompts(),
		timeout: timeout,
	}
}

func (g *Generator) Configured() bool { return g != nil && g.backend != nil }

func (g *Generator) Provider() string {
	if !g.Configured() {
		return ""
	}
	return g.backend.Name()
}

// GenerateProfileCode validates the prompt, calls the backend and extracts
// the requested fenced blocks. Backend failures come back as a Result with
// an error message; only a blank prompt or a missing backend return an error.
func (g *Generator) GenerateProfileCode(ctx context.Context, prompt string, kind Kind) (*Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, models.NewValidationError("Prompt cannot be empty")
	}
	if kind == "" {
		kind = KindBoth
	}
	if !g.Configured() {
		return nil, models.NewUnavailableError("AI service is not configured", ErrNotConfigured)
	}

	provider := g.backend.Name()
	ctx, span := observability.StartSpan(ctx, "ai.generate_profile_code",
		attribute.String("ai.provider", provider),
		attribute.String("ai.kind", string(kind)),
	)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := g.backend.Complete(ctx, g.prompts.System(kind), g.prompts.UserTurn(prompt, kind))
	observability.AIGenerationLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	observability.EndSpan(span, err)

	if err != nil {
		observability.AIGenerations.WithLabelValues(provider, "error").Inc()
		middleware.Logger.WarnContext(ctx, "AI backend call failed",
			slog.String("provider", provider),
			slog.String("error", err.Error()))
		return &Result{Message: messageErrorPrefix + err.Error()}, nil
	}

	res := g.extract(raw, kind)
	outcome := "ok"
	if res.Message == MessageUnparseable {
		outcome = "unparseable"
	}
	observability.AIGenerations.WithLabelValues(provider, outcome).Inc()
	return res, nil
}

// extract pulls the requested blocks out of raw model output and sanitizes them.
// Small local models often ignore the fence convention and inline a <style>
// block instead, so that shape is accepted as a fallback.
func (g *Generator) extract(raw string, kind Kind) *Result {
	var html, css string
	if kind.wantsHTML() {
		if m := htmlFence.FindStringSubmatch(raw); m != nil {
			html = strings.TrimSpace(m[1])
		}
	}
	if kind.wantsCSS() {
		if m := cssFence.FindStringSubmatch(raw); m != nil {
			css = strings.TrimSpace(m[1])
		}
	}

	if html == "" && css == "" && !strings.Contains(raw, "```") {
		if m := styleTag.FindStringSubmatch(raw); m != nil {
			if kind.wantsCSS() {
				css = strings.TrimSpace(m[1])
			}
			if kind.wantsHTML() {
				html = strings.TrimSpace(styleTag.ReplaceAllString(raw, ""))
			}
		}
	}

	res := &Result{
		HTML: g.policy.HTML(html),
		CSS:  g.policy.CSS(css),
	}
	if res.HTML == "" && res.CSS == "" {
		res.Message = MessageUnparseable
	} else {
		res.Message = MessageGenerated
	}
	return res
}
