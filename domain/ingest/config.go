package ingest

import (
	"tabula/domain/policy"
)

// DefaultPreviewLimit bounds how many data rows are materialized for
// interactive display when the config does not say otherwise. It never
// bounds the final dataset.
const DefaultPreviewLimit = 50

// Config holds the operator-adjustable structural assumptions and the
// missing-value remediation policy for one ingestion session.
type Config struct {
	SkipRows  int `json:"skip_rows"`
	HeaderRow int `json:"header_row"` // relative to post-skip rows

	// TargetColumn defaults to the last resolved column. FeatureColumns
	// defaults to all columns except the target; the target is always
	// removed from the feature set when both are configured.
	TargetColumn   string   `json:"target_column,omitempty"`
	FeatureColumns []string `json:"feature_columns,omitempty"`

	PreviewLimit int `json:"preview_limit,omitempty"`

	GlobalStrategy   policy.Strategy            `json:"global_strategy,omitempty"`
	ColumnStrategies map[string]policy.Strategy `json:"column_strategies,omitempty"`

	// DisableTargetDropFallback turns off the conservative rule that feature
	// level drop-row implies target drop when no target rule is configured.
	DisableTargetDropFallback bool `json:"disable_target_drop_fallback,omitempty"`
}

// Roles is the resolved target/feature split for a given structure.
type Roles struct {
	Target   string
	Features []string
}

// ResolveRoles applies the target/feature defaulting rules against a resolved
// structure. Configured feature names not present in the header are dropped
// silently; they cannot govern cells that do not exist.
func (c Config) ResolveRoles(s *Structure) Roles {
	names := s.Names()

	target := c.TargetColumn
	if target != "" {
		if _, ok := s.IndexOf(target); !ok {
			target = ""
		}
	}
	if target == "" && len(names) > 0 {
		target = names[len(names)-1]
	}

	var features []string
	if len(c.FeatureColumns) > 0 {
		for _, f := range c.FeatureColumns {
			if _, ok := s.IndexOf(f); !ok {
				continue
			}
			if f == target {
				continue
			}
			features = append(features, f)
		}
	} else {
		for _, n := range names {
			if n == target {
				continue
			}
			features = append(features, n)
		}
	}

	return Roles{Target: target, Features: features}
}

// PolicyInput assembles the policy resolver input for the resolved roles.
func (c Config) PolicyInput(roles Roles) policy.Input {
	return policy.Input{
		Features:           roles.Features,
		Target:             roles.Target,
		Global:             c.GlobalStrategy,
		Overrides:          c.ColumnStrategies,
		TargetDropFallback: !c.DisableTargetDropFallback,
	}
}

func (c Config) previewLimit() int {
	if c.PreviewLimit > 0 {
		return c.PreviewLimit
	}
	return DefaultPreviewLimit
}
