// Package actions resolves the transfer action for a destination path.
//
// The mapper walks configured path-prefix rules in order and falls back to a
// default kind when none match. Working-directory destinations resolve
// through the same rules; the category only exists so callers can audit which
// kind of attempt asked for the mapping.
package actions

import (
	"fmt"
	"strings"

	"stagehand/internal/config"
	"stagehand/internal/harvest"
	"stagehand/internal/services"
)

// Transfer action kinds understood by the default remote client.
const (
	KindNone           = "none"
	KindCopy           = "copy"
	KindRemoteTransfer = "remote_transfer"
)

// Rule maps a destination path prefix to an action kind.
type Rule struct {
	Prefix string
	Kind   string
}

// Mapper is the default harvest.ActionMapper implementation.
type Mapper struct {
	rules       []Rule
	defaultKind string
}

var _ harvest.ActionMapper = (*Mapper)(nil)

// NewMapper builds a mapper from explicit rules. An empty default kind falls
// back to remote transfer.
func NewMapper(rules []Rule, defaultKind string) *Mapper {
	if defaultKind == "" {
		defaultKind = KindRemoteTransfer
	}
	return &Mapper{rules: rules, defaultKind: defaultKind}
}

// NewMapperFromConfig builds a mapper from the configured harvest path rules.
func NewMapperFromConfig(cfg *config.Config) *Mapper {
	rules := make([]Rule, 0, len(cfg.Harvest.PathRules))
	for _, rule := range cfg.Harvest.PathRules {
		rules = append(rules, Rule{Prefix: rule.Prefix, Kind: rule.Action})
	}
	return NewMapper(rules, cfg.Harvest.DefaultAction)
}

// Action resolves the transfer action for one destination path.
func (m *Mapper) Action(path string, category harvest.Category) (harvest.Action, error) {
	switch category {
	case harvest.CategoryOutput, harvest.CategoryWorkDir:
	default:
		return harvest.Action{}, services.Wrap(services.ErrValidation, "actions", "resolve",
			fmt.Sprintf("cannot map category %q", category), nil)
	}
	if strings.TrimSpace(path) == "" {
		return harvest.Action{}, services.Wrap(services.ErrValidation, "actions", "resolve", "destination path is empty", nil)
	}
	for _, rule := range m.rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return harvest.Action{Kind: rule.Kind}, nil
		}
	}
	return harvest.Action{Kind: m.defaultKind}, nil
}
