// Package resolver turns a variant's written form into the concrete sequence of
// written units it renders as, following references across positions, FVS
// slots and locales.
package resolver

import (
	"fmt"
	"strings"

	"github.com/mongfont/mongdata/internal/corpus"
)

// Coordinate addresses one variant of a character, as seen from a locale.
// An empty Locale means the variant's own form with no locale in effect.
type Coordinate struct {
	Character corpus.CharacterName
	Position  corpus.Position
	FVS       corpus.FVS
	Locale    corpus.LocaleID
}

// String renders the coordinate without the character name, which is shared
// by every coordinate of a chain.
func (c Coordinate) String() string {
	if c.Locale == "" {
		return fmt.Sprintf("(%s, %d)", c.Position, c.FVS)
	}
	return fmt.Sprintf("(%s, %d, %s)", c.Position, c.FVS, c.Locale)
}

// ResolvedUnit is a written unit paired with the position it renders in.
type ResolvedUnit struct {
	Unit     corpus.UnitID
	Position corpus.Position
}

// Resolution is the outcome of following a coordinate to a literal form.
type Resolution struct {
	Origin Coordinate
	// Chain lists every visited coordinate, origin first and the coordinate
	// holding the literal last.
	Chain []Coordinate
	Units []ResolvedUnit
	// Conditions are the rule conditions of the origin's locale data. The
	// conditions of referenced variants do not carry over.
	Conditions []corpus.Condition
}

// UnitString renders the resolved units as "A.medi I.medi".
func (r *Resolution) UnitString() string {
	parts := make([]string, len(r.Units))
	for i, u := range r.Units {
		parts[i] = string(u.Unit) + "." + string(u.Position)
	}
	return strings.Join(parts, " ")
}

// Resolver resolves coordinates against a registry. It holds no per-call
// state and may be shared between goroutines.
type Resolver struct {
	reg   *corpus.Registry
	limit int
}

// New creates a resolver for the registry's corpus.
func New(reg *corpus.Registry) *Resolver {
	return &Resolver{
		reg:   reg,
		limit: reg.Corpus().VariantCount()*(len(corpus.LocaleIDs)+1) + 1,
	}
}

// Resolve follows the written form at c until it reaches a literal.
// It returns a *CycleError when a coordinate repeats and an *UnresolvedError
// when a coordinate has no variant. An unknown character is reported with
// corpus.ErrNotFound.
func (r *Resolver) Resolve(c Coordinate) (*Resolution, error) {
	ch, err := r.reg.Character(c.Character)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", c, err)
	}

	visited := make(map[Coordinate]bool)
	chain := make([]Coordinate, 0, 2)
	cur := c
	for steps := 1; ; steps++ {
		if steps > r.limit {
			// the visited set bounds every chain, so this is a resolver bug
			panic(fmt.Sprintf("resolver: chain from %s %s exceeded %d steps", c.Character, c, r.limit))
		}
		if visited[cur] {
			return nil, &CycleError{Chain: chain, Repeated: cur}
		}
		visited[cur] = true
		chain = append(chain, cur)

		v := ch.Variant(cur.Position, cur.FVS)
		if v == nil {
			return nil, &UnresolvedError{Chain: chain, Missing: cur}
		}

		switch w := v.WrittenFor(cur.Locale).(type) {
		case corpus.Literal:
			return &Resolution{
				Origin:     c,
				Chain:      chain,
				Units:      pair(w, cur.Position),
				Conditions: r.originConditions(ch, c),
			}, nil
		case corpus.Reference:
			next := Coordinate{Character: c.Character, Position: w.Position, FVS: w.FVS, Locale: cur.Locale}
			if w.Locale != "" {
				next.Locale = w.Locale
			}
			cur = next
		default:
			panic(fmt.Sprintf("resolver: unexpected written form %T", w))
		}
	}
}

func pair(lit corpus.Literal, pos corpus.Position) []ResolvedUnit {
	out := make([]ResolvedUnit, len(lit))
	for i, u := range lit {
		out[i] = ResolvedUnit{Unit: u.Unit, Position: pos}
		if u.Position != "" {
			out[i].Position = u.Position
		}
	}
	return out
}

func (r *Resolver) originConditions(ch *corpus.Character, c Coordinate) []corpus.Condition {
	if c.Locale == "" {
		return nil
	}
	v := ch.Variant(c.Position, c.FVS)
	if v == nil {
		return nil
	}
	if ld := v.LocaleData(c.Locale); ld != nil {
		return ld.RuleConditions()
	}
	return nil
}

// Outcome is the result of resolving one coordinate in a batch.
type Outcome struct {
	Coordinate Coordinate
	Resolution *Resolution
	Err        error
}

// Coordinates lists every coordinate of the character that has data: each
// variant's own form, then the form seen from each locale it carries data
// for, in declaration order.
func Coordinates(ch *corpus.Character) []Coordinate {
	out := make([]Coordinate, 0, ch.VariantCount())
	for _, pv := range ch.Positions {
		for _, v := range pv.Variants {
			base := Coordinate{Character: ch.Name, Position: pv.Position, FVS: v.FVS}
			out = append(out, base)
			for _, ld := range v.Locales {
				lc := base
				lc.Locale = ld.Locale
				out = append(out, lc)
			}
		}
	}
	return out
}

// ResolveCharacter resolves every coordinate of the character.
func (r *Resolver) ResolveCharacter(ch *corpus.Character) []Outcome {
	coords := Coordinates(ch)
	out := make([]Outcome, len(coords))
	for i, c := range coords {
		res, err := r.Resolve(c)
		out[i] = Outcome{Coordinate: c, Resolution: res, Err: err}
	}
	return out
}

// ResolveAll resolves every coordinate of every character in declaration
// order.
func (r *Resolver) ResolveAll() []Outcome {
	var out []Outcome
	for _, ch := range r.reg.Corpus().Characters {
		out = append(out, r.ResolveCharacter(ch)...)
	}
	return out
}
