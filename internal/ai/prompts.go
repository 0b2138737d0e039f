package ai

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yml
var promptsYAML []byte

type promptSet struct {
	Base    string            `yaml:"base"`
	Formats map[string]string `yaml:"formats"`
	User    string            `yaml:"user"`
}

func loadPrompts(raw []byte) (*promptSet, error) {
	var p promptSet
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	if strings.TrimSpace(p.Base) == "" || strings.TrimSpace(p.User) == "" {
		return nil, fmt.Errorf("parse prompts: base and user templates are required")
	}
	for _, k := range []Kind{KindHTML, KindCSS, KindBoth} {
		if strings.TrimSpace(p.Formats[string(k)]) == "" {
			return nil, fmt.Errorf("parse prompts: missing output format for %q", k)
		}
	}
	return &p, nil
}

func mustLoadPrompts() *promptSet {
	p, err := loadPrompts(promptsYAML)
	if err != nil {
		panic(err)
	}
	return p
}

// System returns the instruction sent ahead of every request of this kind.
func (p *promptSet) System(kind Kind) string {
	return strings.TrimRight(p.Base, "\n") + "\n\n" + p.Formats[string(kind)]
}

func (p *promptSet) UserTurn(prompt string, kind Kind) string {
	return strings.NewReplacer("{{kind}}", string(kind), "{{prompt}}", prompt).Replace(p.User)
}
