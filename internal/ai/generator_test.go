package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"yourspace/internal/models"
	"yourspace/internal/sanitize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backendStub is a stub for Backend.
type backendStub struct {
	name       string
	completeFn func(ctx context.Context, system, user string) (string, error)
}

func (b *backendStub) Name() string { return b.name }
func (b *backendStub) Complete(ctx context.Context, system, user string) (string, error) {
	return b.completeFn(ctx, system, user)
}

func replying(text string) *backendStub {
	return &backendStub{
		name: "stub",
		completeFn: func(context.Context, string, string) (string, error) {
			return text, nil
		},
	}
}

func TestGenerate_EmptyPromptIsValidationError(t *testing.T) {
	called := false
	backend := &backendStub{name: "stub", completeFn: func(context.Context, string, string) (string, error) {
		called = true
		return "", nil
	}}
	gen := NewGenerator(backend, sanitize.NewPolicy(), time.Second)

	for _, prompt := range []string{"", "   \n"} {
		_, err := gen.GenerateProfileCode(context.Background(), prompt, KindBoth)
		require.Error(t, err)
		assert.True(t, models.HasCode(err, models.CodeValidation))
	}
	assert.False(t, called)
}

func TestGenerate_UnconfiguredIsUnavailable(t *testing.T) {
	gen := NewGenerator(nil, nil, time.Second)
	assert.False(t, gen.Configured())
	assert.Empty(t, gen.Provider())

	_, err := gen.GenerateProfileCode(context.Background(), "pink theme", KindCSS)
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeUnavailable))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerate_BlankPromptWinsOverMissingBackend(t *testing.T) {
	_, err := NewGenerator(nil, nil, time.Second).GenerateProfileCode(context.Background(), "", KindBoth)
	assert.True(t, models.HasCode(err, models.CodeValidation))
}

func TestGenerate_CSSOnly(t *testing.T) {
	raw := "Here you go!\n```css\nbody { background: pink; }\n```\n```html\n<p>ignored</p>\n```"
	gen := NewGenerator(replying(raw), sanitize.NewPolicy(), time.Second)

	res, err := gen.GenerateProfileCode(context.Background(), "pink theme", KindCSS)
	require.NoError(t, err)
	assert.Equal(t, "body { background: pink; }", res.CSS)
	assert.Empty(t, res.HTML)
	assert.Equal(t, MessageGenerated, res.Message)
}

func TestGenerate_BothSanitized(t *testing.T) {
	raw := "```html\n<div onclick=\"steal()\">hi</div><script>alert(1)</script>\n```\n" +
		"```css\n/* x */ .a { color: red; } @import url(evil.css);\n```"
	gen := NewGenerator(replying(raw), sanitize.NewPolicy(), time.Second)

	res, err := gen.GenerateProfileCode(context.Background(), "retro", KindBoth)
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "hi")
	assert.NotContains(t, strings.ToLower(res.HTML), "<script")
	assert.NotContains(t, strings.ToLower(res.HTML), "onclick")
	assert.Contains(t, res.CSS, ".a { color: red; }")
	assert.NotContains(t, res.CSS, "@import")
	assert.NotContains(t, res.CSS, "/*")
}

func TestGenerate_Unparseable(t *testing.T) {
	gen := NewGenerator(replying("I cannot help with that."), sanitize.NewPolicy(), time.Second)

	res, err := gen.GenerateProfileCode(context.Background(), "retro", KindHTML)
	require.NoError(t, err)
	assert.Empty(t, res.HTML)
	assert.Empty(t, res.CSS)
	assert.Equal(t, MessageUnparseable, res.Message)
}

func TestGenerate_StyleTagFallback(t *testing.T) {
	raw := "<style>h1 { color: lime; }</style>\n<h1>Hey</h1>"
	gen := NewGenerator(replying(raw), sanitize.NewPolicy(), time.Second)

	res, err := gen.GenerateProfileCode(context.Background(), "green", KindBoth)
	require.NoError(t, err)
	assert.Equal(t, "h1 { color: lime; }", res.CSS)
	assert.Contains(t, res.HTML, "<h1>Hey</h1>")
	assert.NotContains(t, res.HTML, "style")
}

func TestGenerate_BackendFailureBecomesMessage(t *testing.T) {
	backend := &backendStub{name: "stub", completeFn: func(context.Context, string, string) (string, error) {
		return "", errors.New("connection refused")
	}}
	gen := NewGenerator(backend, sanitize.NewPolicy(), time.Second)

	res, err := gen.GenerateProfileCode(context.Background(), "retro", KindBoth)
	require.NoError(t, err)
	assert.Empty(t, res.HTML)
	assert.Empty(t, res.CSS)
	assert.Equal(t, "Error generating code: connection refused", res.Message)
}

func TestGenerate_PromptsFollowKind(t *testing.T) {
	var gotSystem, gotUser string
	backend := &backendStub{name: "stub", completeFn: func(_ context.Context, system, user string) (string, error) {
		gotSystem, gotUser = system, user
		return "", nil
	}}
	gen := NewGenerator(backend, sanitize.NewPolicy(), time.Second)

	_, err := gen.GenerateProfileCode(context.Background(), "  sparkly stars ", KindHTML)
	require.NoError(t, err)
	assert.Equal(t, "Create html code for: sparkly stars", gotUser)
	assert.Contains(t, gotSystem, "NEVER include <script> tags")
	assert.Contains(t, gotSystem, "```html```")
	assert.NotContains(t, gotSystem, "```css")
}

func TestGenerate_TimeoutBoundsBackend(t *testing.T) {
	backend := &backendStub{name: "slow", completeFn: func(ctx context.Context, _, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	gen := NewGenerator(backend, sanitize.NewPolicy(), 20*time.Millisecond)

	res, err := gen.GenerateProfileCode(context.Background(), "retro", KindBoth)
	require.NoError(t, err)
	assert.Contains(t, res.Message, "context deadline exceeded")
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{"": KindBoth, "HTML": KindHTML, " css ": KindCSS, "both": KindBoth}
	for in, want := range tests {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseKind("js")
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeValidation))
}

func TestLoadPrompts_RequiresAllFormats(t *testing.T) {
	_, err := loadPrompts([]byte("base: x\nuser: y\nformats:\n  html: h\n"))
	assert.Error(t, err)

	p, err := loadPrompts(promptsYAML)
	require.NoError(t, err)
	assert.Len(t, p.Formats, 3)
}
