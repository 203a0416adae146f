package corpus

import (
	"fmt"
	"strings"
)

// UnitID identifies a written unit, an atomic glyph piece.
type UnitID string

// Written is the form of a variant: either a Literal sequence of written
// units or a Reference to another variant's form. The interface is sealed;
// Literal and Reference are its only implementations.
type Written interface {
	isWritten()
	String() string
}

// UnitRef is one element of a Literal. Position is empty unless the
// element was authored with an explicit position ("A.init").
type UnitRef struct {
	Unit     UnitID
	Position Position
}

// ParseUnitRef parses "A" or "A.init".
func ParseUnitRef(s string) (UnitRef, error) {
	if s == "" {
		return UnitRef{}, fmt.Errorf("empty written unit")
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		pos, err := ParsePosition(s[i+1:])
		if err != nil {
			return UnitRef{}, fmt.Errorf("written unit %q: %w", s, err)
		}
		if i == 0 {
			return UnitRef{}, fmt.Errorf("written unit %q: missing unit before position", s)
		}
		return UnitRef{Unit: UnitID(s[:i]), Position: pos}, nil
	}
	return UnitRef{Unit: UnitID(s)}, nil
}

// String returns the authored form of the reference.
func (u UnitRef) String() string {
	if u.Position == "" {
		return string(u.Unit)
	}
	return string(u.Unit) + "." + string(u.Position)
}

// Literal is a concrete, ordered sequence of written units.
type Literal []UnitRef

func (Literal) isWritten() {}

// String renders the literal as space-separated authored units.
func (l Literal) String() string {
	parts := make([]string, len(l))
	for i, u := range l {
		parts[i] = u.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Reference points at the form of another variant of the same character.
// Locale is empty when the reference carries the active locale forward.
type Reference struct {
	Position Position
	FVS      FVS
	Locale   LocaleID
}

func (Reference) isWritten() {}

// String renders the reference as "-> position fvs [locale]".
func (r Reference) String() string {
	if r.Locale == "" {
		return fmt.Sprintf("-> %s %d", r.Position, r.FVS)
	}
	return fmt.Sprintf("-> %s %d %s", r.Position, r.FVS, r.Locale)
}

// Lit builds a Literal from authored unit strings. It panics on malformed
// input and is meant for tests and static tables.
func Lit(units ...string) Literal {
	l := make(Literal, len(units))
	for i, s := range units {
		u, err := ParseUnitRef(s)
		if err != nil {
			panic(err)
		}
		l[i] = u
	}
	return l
}

// Ref builds a Reference. An optional locale may be given.
func Ref(pos Position, fvs FVS, locale ...LocaleID) Reference {
	r := Reference{Position: pos, FVS: fvs}
	if len(locale) > 0 {
		r.Locale = locale[0]
	}
	return r
}
