// Package ai generates profile HTML and CSS through a pluggable text generation backend.
package ai

import (
	"strings"

	"yourspace/internal/models"
)

// Kind selects which fenced blocks are requested and extracted.
type Kind string

const (
	KindHTML Kind = "html"
	KindCSS  Kind = "css"
	KindBoth Kind = "both"
)

// ParseKind accepts html, css or both in any case. Empty means both.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindBoth, nil
	case KindHTML, KindCSS, KindBoth:
		return k, nil
	default:
		return "", models.NewValidationError("Type must be one of html, css or both")
	}
}

func (k Kind) wantsHTML() bool { return k == KindHTML || k == KindBoth }
func (k Kind) wantsCSS() bool  { return k == KindCSS || k == KindBoth }
