package optimize

import (
	"slices"
	"strings"

	"github.com/matzehuels/qtranspile/pkg/circuit"
	qerrors "github.com/matzehuels/qtranspile/pkg/errors"
)

// Pass transforms one circuit into another without modifying its input.
type Pass interface {
	Name() string
	Run(c circuit.Circuit) circuit.Circuit
}

// Sequence applies passes in order.
type Sequence []Pass

// Name joins the member pass names with '+'.
func (s Sequence) Name() string {
	names := make([]string, len(s))
	for i, p := range s {
		names[i] = p.Name()
	}
	return strings.Join(names, "+")
}

// Run feeds c through every pass in order.
func (s Sequence) Run(c circuit.Circuit) circuit.Circuit {
	for _, p := range s {
		c = p.Run(c)
	}
	return c
}

// Pass names accepted by [Lookup].
const (
	NameCancel = "cancel"
	NameMerge  = "merge"
)

// registry maps pass names to constructors.
var registry = map[string]func() Pass{
	NameCancel: func() Pass { return Cancellation{} },
	NameMerge:  func() Pass { return RotationMerge{} },
}

// DefaultNames is the pass order used when the caller does not choose one.
var DefaultNames = []string{NameCancel, NameMerge}

// Default returns cancellation followed by rotation merging.
func Default() Sequence {
	return Sequence{Cancellation{}, RotationMerge{}}
}

// Names returns the registered pass names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the pass registered under name.
func Lookup(name string) (Pass, bool) {
	ctor, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Resolve turns a list of pass names into a sequence, keeping the given
// order. Repeated names run repeatedly. An unknown name is an INVALID_PASS
// error.
func Resolve(names []string) (Sequence, error) {
	seq := make(Sequence, 0, len(names))
	for _, n := range names {
		p, ok := Lookup(n)
		if !ok {
			return nil, qerrors.New(qerrors.ErrCodeInvalidPass,
				"unknown pass %q (must be one of: %s)", n, strings.Join(Names(), ", "))
		}
		seq = append(seq, p)
	}
	return seq, nil
}
