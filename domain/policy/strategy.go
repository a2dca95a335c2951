package policy

import (
	"fmt"

	"tabula/domain/core"
)

// StrategyKind selects the missing-value remediation behavior for a column.
type StrategyKind string

const (
	KindLeave    StrategyKind = "leave-as-is"
	KindDropRow  StrategyKind = "drop-row"
	KindZero     StrategyKind = "zero"
	KindMean     StrategyKind = "mean"
	KindMedian   StrategyKind = "median"
	KindMode     StrategyKind = "mode"
	KindConstant StrategyKind = "constant"
)

// Strategy is a tagged union over StrategyKind. Value carries the literal for
// constant strategies and is ignored for every other kind.
type Strategy struct {
	Kind  StrategyKind `json:"kind"`
	Value string       `json:"value,omitempty"`
}

// Constructors for the non-constant kinds
func Leave() Strategy   { return Strategy{Kind: KindLeave} }
func DropRow() Strategy { return Strategy{Kind: KindDropRow} }
func Zero() Strategy    { return Strategy{Kind: KindZero} }
func Mean() Strategy    { return Strategy{Kind: KindMean} }
func Median() Strategy  { return Strategy{Kind: KindMedian} }
func Mode() Strategy    { return Strategy{Kind: KindMode} }

// Constant builds a constant-replacement strategy carrying the literal value
func Constant(value string) Strategy {
	return Strategy{Kind: KindConstant, Value: value}
}

// IsZero reports whether the strategy is the zero value (unset).
func (s Strategy) IsZero() bool {
	return s.Kind == ""
}

// IsDrop reports whether the strategy removes rows instead of imputing.
func (s Strategy) IsDrop() bool {
	return s.Kind == KindDropRow
}

// Imputes reports whether the strategy replaces missing cells with a value.
// Leave-as-is and drop-row never produce replacements.
func (s Strategy) Imputes() bool {
	switch s.Kind {
	case KindZero, KindMean, KindMedian, KindMode, KindConstant:
		return true
	}
	return false
}

func (s Strategy) String() string {
	if s.Kind == KindConstant {
		return fmt.Sprintf("constant(%q)", s.Value)
	}
	return string(s.Kind)
}

// ParseKind validates a strategy name received from configuration surfaces.
func ParseKind(name string) (StrategyKind, error) {
	switch StrategyKind(name) {
	case KindLeave, KindDropRow, KindZero, KindMean, KindMedian, KindMode, KindConstant:
		return StrategyKind(name), nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownStrategy, name)
}
