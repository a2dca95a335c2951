package policy

// Input carries everything the resolver needs to merge the global fallback
// strategy with per-column overrides.
type Input struct {
	Features  []string
	Target    string
	Global    Strategy
	Overrides map[string]Strategy

	// TargetDropFallback enables the conservative rule that an explicit
	// drop-row on any feature implies dropping rows with a missing target,
	// even when no target strategy was configured.
	TargetDropFallback bool
}

// Resolution is the effective per-column policy table. It is computed once,
// before any data pass runs, so the imputation engine stays a pure function
// of one resolved structure.
type Resolution struct {
	// Features maps each feature column to its effective strategy,
	// Order preserves the configured feature order.
	Features map[string]Strategy
	Order    []string

	// DropCols lists features whose effective strategy is drop-row.
	DropCols   []string
	GlobalDrop bool

	Target     string
	TargetDrop bool
}

// Resolve merges the global strategy with per-column overrides into one
// effective strategy per feature and resolves the target drop rule.
//
// Per feature: override if present, else global, else leave-as-is.
// For the target: an explicit override wins; otherwise the global strategy
// applies; otherwise, when the fallback is enabled, any feature-level
// drop-row implies target drop so a dropped-feature row cannot leave a
// dirty target behind.
func Resolve(in Input) Resolution {
	res := Resolution{
		Features:   make(map[string]Strategy, len(in.Features)),
		Order:      append([]string(nil), in.Features...),
		Target:     in.Target,
		GlobalDrop: in.Global.Kind == KindDropRow,
	}

	for _, col := range in.Features {
		res.Features[col] = effective(in.Overrides, col, in.Global)
		if res.Features[col].IsDrop() {
			res.DropCols = append(res.DropCols, col)
		}
	}

	res.TargetDrop = resolveTargetDrop(in, res)
	return res
}

func effective(overrides map[string]Strategy, col string, global Strategy) Strategy {
	if s, ok := overrides[col]; ok && !s.IsZero() {
		return s
	}
	if !global.IsZero() {
		return global
	}
	return Leave()
}

func resolveTargetDrop(in Input, res Resolution) bool {
	if res.GlobalDrop {
		return true
	}
	if in.Target == "" {
		return false
	}
	if s, ok := in.Overrides[in.Target]; ok && !s.IsZero() {
		return s.IsDrop()
	}
	if !in.Global.IsZero() {
		return in.Global.Kind == KindDropRow
	}
	// No explicit target rule anywhere: fall back to feature-level drops.
	return in.TargetDropFallback && len(res.DropCols) > 0
}
