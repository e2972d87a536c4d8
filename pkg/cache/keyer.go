package cache

import (
	"slices"
	"strings"
)

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey identifies the result of transpiling the source with hash
	// sourceHash for the backend with hash backendHash using the given passes
	// in order.
	ResultKey(sourceHash, backendHash string, passes []string) string
}

// DefaultKeyer produces keys of the form "result:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey implements Keyer. Pass names are lowercased; their order is part
// of the key because passes do not commute.
func (DefaultKeyer) ResultKey(sourceHash, backendHash string, passes []string) string {
	normalized := slices.Clone(passes)
	for i, p := range normalized {
		normalized[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return hashKey("result", sourceHash, backendHash, normalized)
}
