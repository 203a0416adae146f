package resolver

import (
	"errors"
	"testing"

	"github.com/mongfont/mongdata/internal/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// variant builds a variant with locale data for each listed locale.
func variant(fvs corpus.FVS, w corpus.Written, locales ...*corpus.VariantLocaleData) *corpus.Variant {
	return &corpus.Variant{FVS: fvs, Written: w, Locales: locales}
}

func character(name corpus.CharacterName, positions map[corpus.Position][]*corpus.Variant) *corpus.Character {
	ch := &corpus.Character{Name: name}
	for _, p := range corpus.Positions {
		if vs, ok := positions[p]; ok {
			ch.Positions = append(ch.Positions, &corpus.PositionVariants{Position: p, Variants: vs})
		}
	}
	return ch
}

func newResolver(chars ...*corpus.Character) *Resolver {
	return New(corpus.NewRegistry(&corpus.Corpus{Characters: chars}))
}

func coord(name corpus.CharacterName, pos corpus.Position, fvs corpus.FVS, locale ...corpus.LocaleID) Coordinate {
	c := Coordinate{Character: name, Position: pos, FVS: fvs}
	if len(locale) > 0 {
		c.Locale = locale[0]
	}
	return c
}

func TestResolve(t *testing.T) {
	t.Parallel()

	x := character("X", map[corpus.Position][]*corpus.Variant{
		corpus.Isol: {
			variant(0, corpus.Ref(corpus.Init, 0),
				&corpus.VariantLocaleData{Locale: corpus.MNG, Conditions: []corpus.Condition{corpus.ConditionDefault, corpus.ConditionParticle}},
				&corpus.VariantLocaleData{Locale: corpus.TOD, Written: corpus.Ref(corpus.Fina, 0, corpus.MNG)}),
		},
		corpus.Init: {
			variant(0, corpus.Lit("N", "A.fina"),
				&corpus.VariantLocaleData{Locale: corpus.TOD, Written: corpus.Lit("Nt")}),
		},
		corpus.Medi: {variant(0, corpus.Lit("A"))},
		corpus.Fina: {
			variant(0, corpus.Ref(corpus.Medi, 0),
				&corpus.VariantLocaleData{Locale: corpus.MNG, Written: corpus.Lit("Aa"), Conditions: []corpus.Condition{corpus.ConditionPostBowed}}),
		},
	})
	r := newResolver(x)

	tests := map[string]struct {
		coord     Coordinate
		wantUnits []ResolvedUnit
		wantChain []Coordinate
		wantConds []corpus.Condition
	}{
		"literal carries the referenced position": {
			coord:     coord("X", corpus.Fina, 0),
			wantUnits: []ResolvedUnit{{Unit: "A", Position: corpus.Medi}},
			wantChain: []Coordinate{coord("X", corpus.Fina, 0), coord("X", corpus.Medi, 0)},
		},
		"explicit unit position wins": {
			coord:     coord("X", corpus.Init, 0),
			wantUnits: []ResolvedUnit{{Unit: "N", Position: corpus.Init}, {Unit: "A", Position: corpus.Fina}},
			wantChain: []Coordinate{coord("X", corpus.Init, 0)},
		},
		"locale override used": {
			coord:     coord("X", corpus.Fina, 0, corpus.MNG),
			wantUnits: []ResolvedUnit{{Unit: "Aa", Position: corpus.Fina}},
			wantChain: []Coordinate{coord("X", corpus.Fina, 0, corpus.MNG)},
			wantConds: []corpus.Condition{corpus.ConditionPostBowed},
		},
		"locale carries forward through reference": {
			coord:     coord("X", corpus.Isol, 0, corpus.MNG),
			wantUnits: []ResolvedUnit{{Unit: "N", Position: corpus.Init}, {Unit: "A", Position: corpus.Fina}},
			wantChain: []Coordinate{coord("X", corpus.Isol, 0, corpus.MNG), coord("X", corpus.Init, 0, corpus.MNG)},
			wantConds: []corpus.Condition{corpus.ConditionParticle},
		},
		"explicit reference locale replaces the active one": {
			coord:     coord("X", corpus.Isol, 0, corpus.TOD),
			wantUnits: []ResolvedUnit{{Unit: "Aa", Position: corpus.Fina}},
			wantChain: []Coordinate{coord("X", corpus.Isol, 0, corpus.TOD), coord("X", corpus.Fina, 0, corpus.MNG)},
		},
		"locale without data falls back to base form": {
			coord:     coord("X", corpus.Init, 0, corpus.SIB),
			wantUnits: []ResolvedUnit{{Unit: "N", Position: corpus.Init}, {Unit: "A", Position: corpus.Fina}},
			wantChain: []Coordinate{coord("X", corpus.Init, 0, corpus.SIB)},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res, err := r.Resolve(tt.coord)
			require.NoError(t, err)
			assert.Equal(t, tt.coord, res.Origin)
			assert.Equal(t, tt.wantUnits, res.Units)
			assert.Equal(t, tt.wantChain, res.Chain)
			assert.Equal(t, tt.wantConds, res.Conditions)
		})
	}
}

func TestResolve_Cycle(t *testing.T) {
	t.Parallel()

	y := character("Y", map[corpus.Position][]*corpus.Variant{
		corpus.Medi: {variant(0, corpus.Ref(corpus.Fina, 0))},
		corpus.Fina: {variant(0, corpus.Ref(corpus.Medi, 0))},
	})
	r := newResolver(y)

	_, err := r.Resolve(coord("Y", corpus.Medi, 0))
	require.Error(t, err)

	var cycle *CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, []Coordinate{coord("Y", corpus.Medi, 0), coord("Y", corpus.Fina, 0)}, cycle.Chain)
	assert.Equal(t, coord("Y", corpus.Medi, 0), cycle.Repeated)
	assert.Equal(t, "reference cycle: (medi, 0) -> (fina, 0) -> (medi, 0)", err.Error())

	// deterministic on every call
	_, again := r.Resolve(coord("Y", corpus.Medi, 0))
	assert.Equal(t, err, again)
}

func TestResolve_SelfReference(t *testing.T) {
	t.Parallel()

	z := character("Z", map[corpus.Position][]*corpus.Variant{
		corpus.Init: {variant(1, corpus.Ref(corpus.Init, 1))},
	})
	_, err := newResolver(z).Resolve(coord("Z", corpus.Init, 1))

	var cycle *CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Len(t, cycle.Chain, 1)
}

func TestResolve_CycleThroughLocaleSwitch(t *testing.T) {
	t.Parallel()

	// (medi,0,MNG) -> (fina,0,MNG) -> explicit TOD -> (medi,0,TOD) -> (fina,0,TOD) -> explicit TOD again
	w := character("W", map[corpus.Position][]*corpus.Variant{
		corpus.Medi: {variant(0, corpus.Ref(corpus.Fina, 0))},
		corpus.Fina: {variant(0, corpus.Ref(corpus.Medi, 0, corpus.TOD))},
	})
	_, err := newResolver(w).Resolve(coord("W", corpus.Medi, 0, corpus.MNG))

	var cycle *CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, coord("W", corpus.Medi, 0, corpus.TOD), cycle.Repeated)
	assert.Len(t, cycle.Chain, 4)
}

func TestResolve_Unresolved(t *testing.T) {
	t.Parallel()

	x := character("X", map[corpus.Position][]*corpus.Variant{
		corpus.Fina: {variant(0, corpus.Ref(corpus.Medi, 3))},
	})
	r := newResolver(x)

	_, err := r.Resolve(coord("X", corpus.Fina, 0))
	var unresolved *UnresolvedError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, coord("X", corpus.Medi, 3), unresolved.Missing)
	assert.Equal(t, []Coordinate{coord("X", corpus.Fina, 0), coord("X", corpus.Medi, 3)}, unresolved.Chain)
	assert.Equal(t, "unresolved reference: (fina, 0) -> (medi, 3) has no variant", err.Error())

	_, err = r.Resolve(coord("X", corpus.Isol, 0))
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, []Coordinate{coord("X", corpus.Isol, 0)}, unresolved.Chain)

	_, err = r.Resolve(coord("Q", corpus.Isol, 0))
	assert.True(t, errors.Is(err, corpus.ErrNotFound))
}

func TestResolve_Termination(t *testing.T) {
	t.Parallel()

	// a long acyclic chain init 4 -> 3 -> 2 -> 1 -> 0
	var vs []*corpus.Variant
	for fvs := corpus.FVS(0); fvs <= corpus.MaxFVS; fvs++ {
		if fvs == 0 {
			vs = append(vs, variant(0, corpus.Lit("A")))
			continue
		}
		vs = append(vs, variant(fvs, corpus.Ref(corpus.Init, fvs-1)))
	}
	ch := character("C", map[corpus.Position][]*corpus.Variant{corpus.Init: vs})
	r := newResolver(ch)

	res, err := r.Resolve(coord("C", corpus.Init, corpus.MaxFVS))
	require.NoError(t, err)
	assert.Len(t, res.Chain, 5)
	assert.LessOrEqual(t, len(res.Chain), ch.VariantCount())
	assert.Equal(t, "A.init", res.UnitString())
}

func TestResolveAll(t *testing.T) {
	t.Parallel()

	x := character("X", map[corpus.Position][]*corpus.Variant{
		corpus.Medi: {variant(0, corpus.Lit("A"), &corpus.VariantLocaleData{Locale: corpus.MNG})},
		corpus.Fina: {variant(0, corpus.Ref(corpus.Medi, 1))},
	})
	y := character("Y", map[corpus.Position][]*corpus.Variant{
		corpus.Isol: {variant(0, corpus.Lit("I"))},
	})
	out := newResolver(x, y).ResolveAll()

	require.Len(t, out, 4)
	assert.Equal(t, coord("X", corpus.Medi, 0), out[0].Coordinate)
	assert.Equal(t, coord("X", corpus.Medi, 0, corpus.MNG), out[1].Coordinate)
	assert.Equal(t, coord("X", corpus.Fina, 0), out[2].Coordinate)
	assert.Equal(t, coord("Y", corpus.Isol, 0), out[3].Coordinate)

	assert.NoError(t, out[0].Err)
	assert.NoError(t, out[1].Err)
	var unresolved *UnresolvedError
	assert.True(t, errors.As(out[2].Err, &unresolved))
	assert.Nil(t, out[2].Resolution)
	assert.Equal(t, "I.isol", out[3].Resolution.UnitString())
}

func TestCoordinate_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(medi, 0)", coord("X", corpus.Medi, 0).String())
	assert.Equal(t, "(fina, 2, MNGx)", coord("X", corpus.Fina, 2, corpus.MNGx).String())
}
