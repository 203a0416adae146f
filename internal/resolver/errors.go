package resolver

import (
	"fmt"
	"strings"
)

// CycleError reports a reference chain that revisits a coordinate.
type CycleError struct {
	Chain    []Coordinate // visited coordinates, in order
	Repeated Coordinate   // the coordinate that was reached a second time
}

func (e *CycleError) Error() string {
	path := append(chainStrings(e.Chain), e.Repeated.String())
	return fmt.Sprintf("reference cycle: %s", strings.Join(path, " -> "))
}

// UnresolvedError reports a reference to a coordinate with no variant.
type UnresolvedError struct {
	Chain   []Coordinate // visited coordinates; the last one is Missing
	Missing Coordinate
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved reference: %s has no variant", strings.Join(chainStrings(e.Chain), " -> "))
}

func chainStrings(chain []Coordinate) []string {
	out := make([]string, len(chain))
	for i, c := range chain {
		out[i] = c.String()
	}
	return out
}
