// Package sanitize turns untrusted profile HTML and CSS into a safe subset.
//
// HTML goes through a bluemonday allow-list. CSS goes through a textual
// filter that removes known script vectors; it does not parse CSS grammar
// and is a weaker guarantee than the HTML allow-list.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// AllowedElements is the element allow-list for profile HTML.
var AllowedElements = []string{
	"div", "span", "p",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"img", "a", "ul", "ol", "li", "br",
	"strong", "em", "table", "tr", "td",
}

// AllowedStyles is the CSS property allow-list for inline style attributes.
var AllowedStyles = []string{
	"background", "background-color", "color",
	"font-size", "font-family", "font-weight",
	"text-align", "padding", "margin",
	"border", "border-radius", "width", "height",
	"display", "position", "top", "left", "right", "bottom",
}

// ProfileStyles are extra sizing properties accepted on profile pages.
var ProfileStyles = []string{"max-width", "min-width", "max-height", "min-height"}

var (
	jsScheme     = regexp.MustCompile(`(?i)javascript\s*:`)
	eventHandler = regexp.MustCompile(`(?i)\b(on[a-z]+)\s*=`)

	cssScriptBlock = regexp.MustCompile(`(?is)<script[^>]*>.*?</script\s*>`)
	cssScriptTag   = regexp.MustCompile(`(?i)</?script[^>]*>`)
	cssExpression  = regexp.MustCompile(`(?i)expression\s*\(`)
	cssImport      = regexp.MustCompile(`(?i)@import[^;\n]*;?`)
	cssComment     = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// Option customizes a Policy at construction time.
type Option func(*settings)

type settings struct {
	styles []string
}

// WithExtraStyles allows additional inline CSS properties.
func WithExtraStyles(props ...string) Option {
	return func(s *settings) {
		s.styles = append(s.styles, props...)
	}
}

// Policy is an immutable sanitizer configuration. Build it once and share
// it; all methods are safe for concurrent use.
type Policy struct {
	html     *bluemonday.Policy
	cssRules []*regexp.Regexp
}

// NewPolicy builds the sanitizer allow-lists.
func NewPolicy(opts ...Option) *Policy {
	cfg := settings{styles: append([]string(nil), AllowedStyles...)}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := bluemonday.NewPolicy()
	p.AllowElements(AllowedElements...)
	p.AllowStyles(cfg.styles...).Globally()
	p.AllowAttrs("class", "title").Globally()
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt", "width", "height").OnElements("img")
	p.AllowAttrs("colspan", "rowspan").Matching(bluemonday.Integer).OnElements("td")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)
	p.RequireNoFollowOnLinks(true)
	p.SkipElementsContent("script", "style", "iframe", "object", "embed", "template", "noscript")

	return &Policy{
		html: p,
		cssRules: []*regexp.Regexp{
			cssScriptBlock,
			cssScriptTag,
			jsScheme,
			cssExpression,
			cssImport,
			cssComment,
		},
	}
}

// HTML sanitizes untrusted markup. It never fails; the worst case is an
// empty string. Callers enforce length limits before calling.
func (p *Policy) HTML(raw string) string {
	if raw == "" {
		return ""
	}
	out := p.html.Sanitize(raw)

	// Text nodes and attribute values may still spell out script vectors
	// literally; neutralize them until nothing changes.
	for {
		next := jsScheme.ReplaceAllString(out, "")
		next = eventHandler.ReplaceAllString(next, "$1&#61;")
		if next == out {
			break
		}
		out = next
	}
	return out
}

// CSS strips script blocks, javascript: schemes, expression() calls,
// @import directives and comments. Passes repeat until the output is
// stable so fragments rebuilt by a previous removal are caught too.
func (p *Policy) CSS(raw string) string {
	out := raw
	for {
		next := out
		for _, rule := range p.cssRules {
			next = rule.ReplaceAllString(next, "")
		}
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}
