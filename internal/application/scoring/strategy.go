package scoring

import (
	"errors"
	"fmt"
)

// ErrUnknownStrategy is returned for an unrecognised strategy name
var ErrUnknownStrategy = errors.New("unknown scoring strategy")

// Strategy adjusts a rule score with a learned model. Adjust is only
// called when Enabled reports true.
type Strategy interface {
	Name() string
	Enabled() bool
	Adjust(in *Input) (delta float64, reason string)
}

// NopStrategy leaves rule scores untouched
type NopStrategy struct{}

func (NopStrategy) Name() string                    { return "rules" }
func (NopStrategy) Enabled() bool                   { return false }
func (NopStrategy) Adjust(*Input) (float64, string) { return 0, "" }

// NewStrategy resolves a configured strategy name
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case "", "none", "rules":
		return NopStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}
