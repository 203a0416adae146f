// Package validation checks a loaded corpus for authoring defects: default
// uniqueness, condition vocabularies, alias categories, written-unit support
// and reference soundness. Every violation is collected; nothing stops at
// the first one.
package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mongfont/mongdata/internal/corpus"
	"github.com/mongfont/mongdata/internal/resolver"
	"golang.org/x/sync/errgroup"
)

// Validator runs every check over a corpus.
type Validator struct {
	reg      *corpus.Registry
	resolver *resolver.Resolver
	workers  int
	// locale declaration order, used to order per-locale checks
	localeOrder map[corpus.LocaleID]int
	onCharacter func(name corpus.CharacterName)
}

// Option configures a Validator.
type Option func(*Validator)

// WithWorkers sets how many characters are checked concurrently.
func WithWorkers(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.workers = n
		}
	}
}

// WithProgress registers a callback invoked after each character is checked.
// It may be called from several goroutines at once.
func WithProgress(fn func(name corpus.CharacterName)) Option {
	return func(v *Validator) {
		v.onCharacter = fn
	}
}

// New creates a validator over the registry.
func New(reg *corpus.Registry, opts ...Option) *Validator {
	v := &Validator{
		reg:         reg,
		resolver:    resolver.New(reg),
		workers:     4,
		localeOrder: make(map[corpus.LocaleID]int),
	}
	for i, l := range reg.Corpus().Locales {
		if _, ok := v.localeOrder[l.ID]; !ok {
			v.localeOrder[l.ID] = i
		}
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks the whole corpus. Characters are checked concurrently and
// the result is sorted by character name. The error is non-nil only when ctx
// is cancelled.
func (v *Validator) Validate(ctx context.Context) (*Report, error) {
	start := time.Now()
	c := v.reg.Corpus()
	perChar := make([][]*Violation, len(c.Characters))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)
	for i, ch := range c.Characters {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perChar[i] = v.CheckCharacter(ch)
			if v.onCharacter != nil {
				v.onCharacter(ch.Name)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("validating corpus: %w", err)
	}

	report := &Report{Characters: len(c.Characters), Variants: c.VariantCount()}
	for _, vs := range perChar {
		report.Add(vs...)
	}
	report.Add(v.CheckParticles()...)
	sortViolations(report.Violations)

	slog.Debug("corpus validated",
		"characters", report.Characters,
		"violations", len(report.Violations),
		"workers", v.workers,
		"elapsed", time.Since(start))
	return report, nil
}

// collector accumulates the violations of one check pass.
type collector struct {
	ch  corpus.CharacterName
	out []*Violation
}

func (c *collector) add(v *Violation) {
	v.Character = c.ch
	c.out = append(c.out, v)
}

// CheckCharacter runs every per-character check. It only reads the corpus.
func (v *Validator) CheckCharacter(ch *corpus.Character) []*Violation {
	col := &collector{ch: ch.Name}
	locales := v.charLocales(ch)

	for _, id := range locales {
		v.checkLocaleDeclared(col, id)
		v.checkAlias(col, ch, id)
	}

	outcomes := v.resolver.ResolveCharacter(ch)
	cycles := make(map[string]bool)
	for _, pv := range ch.Positions {
		for _, variant := range pv.Variants {
			v.checkWritten(col, pv.Position, variant)
		}
		for _, id := range locales {
			v.checkConditions(col, pv, id)
			v.checkDefault(col, pv, id)
		}
		for _, o := range outcomes {
			if o.Coordinate.Position == pv.Position && o.Err != nil {
				v.reference(col, o, cycles)
			}
		}
	}
	return col.out
}

// charLocales returns the locales the character carries data for, declared
// locales in declaration order first, then undeclared ones as first seen.
func (v *Validator) charLocales(ch *corpus.Character) []corpus.LocaleID {
	seen := make(map[corpus.LocaleID]bool)
	var declared, undeclared []corpus.LocaleID
	for _, pv := range ch.Positions {
		for _, variant := range pv.Variants {
			for _, ld := range variant.Locales {
				if seen[ld.Locale] {
					continue
				}
				seen[ld.Locale] = true
				if _, ok := v.localeOrder[ld.Locale]; ok {
					declared = append(declared, ld.Locale)
				} else {
					undeclared = append(undeclared, ld.Locale)
				}
			}
		}
	}
	sort.Slice(declared, func(i, j int) bool {
		return v.localeOrder[declared[i]] < v.localeOrder[declared[j]]
	})
	return append(declared, undeclared...)
}

func (v *Validator) checkLocaleDeclared(col *collector, id corpus.LocaleID) {
	if _, err := v.reg.Locale(id); err != nil {
		col.add(&Violation{
			Kind:    LocaleNotFound,
			Locale:  id,
			Subject: string(id),
			Message: fmt.Sprintf("variant data for locale %s, which the locales table does not declare", id),
			Hint:    "declare the locale in the locales table or remove its variant data",
		})
	}
}

// checkAlias requires a categorized alias for the locale's namespace unless
// the character has a global alias. A character without any alias entry is
// treated as having an empty per-namespace mapping.
func (v *Validator) checkAlias(col *collector, ch *corpus.Character, id corpus.LocaleID) {
	a, ok := v.reg.Alias(ch.Name)
	if ok && a.IsGlobal() {
		return
	}
	ns := id.Namespace()
	alias, err := v.reg.AliasFor(ch.Name, ns)
	if err != nil {
		col.add(&Violation{
			Kind:    MissingLocaleAlias,
			Locale:  id,
			Message: fmt.Sprintf("no alias for namespace %s", ns),
			Hint:    fmt.Sprintf("add a %s alias for the character in the aliases table", ns),
		})
		return
	}
	if !v.reg.Categorized(ns, alias) {
		col.add(&Violation{
			Kind:    UncategorizedAlias,
			Locale:  id,
			Subject: alias,
			Message: fmt.Sprintf("alias %q is in no category of namespace %s", alias, ns),
			Hint:    "add the alias to one of the locale's categories",
		})
	}
}

// checkWritten checks the base form and every override of a variant.
func (v *Validator) checkWritten(col *collector, pos corpus.Position, variant *corpus.Variant) {
	v.checkLiteral(col, pos, variant.FVS, "", variant.Written)
	v.checkTargetLocale(col, pos, variant.FVS, "", variant.Written)
	for _, ld := range variant.Locales {
		if ld.Written != nil {
			v.checkLiteral(col, pos, variant.FVS, ld.Locale, ld.Written)
			v.checkTargetLocale(col, pos, variant.FVS, ld.Locale, ld.Written)
		}
	}
}

// checkTargetLocale reports a reference that switches to an undeclared
// locale. Resolution would carry that locale forward and silently fall back
// to base forms.
func (v *Validator) checkTargetLocale(col *collector, pos corpus.Position, fvs corpus.FVS, id corpus.LocaleID, w corpus.Written) {
	ref, ok := w.(corpus.Reference)
	if !ok || ref.Locale == "" {
		return
	}
	if _, err := v.reg.Locale(ref.Locale); err == nil {
		return
	}
	col.add(&Violation{
		Kind:     LocaleNotFound,
		Position: pos,
		Locale:   id,
		FVS:      []corpus.FVS{fvs},
		Subject:  string(ref.Locale),
		Message:  fmt.Sprintf("reference to (%s, %d) names locale %s, which the locales table does not declare", ref.Position, ref.FVS, ref.Locale),
		Hint:     "declare the locale in the locales table or drop it from the reference",
	})
}

func (v *Validator) checkLiteral(col *collector, pos corpus.Position, fvs corpus.FVS, id corpus.LocaleID, w corpus.Written) {
	lit, ok := w.(corpus.Literal)
	if !ok {
		return
	}
	for _, ref := range lit {
		unit, err := v.reg.Unit(ref.Unit)
		if err != nil {
			col.add(&Violation{
				Kind:     UnknownWrittenUnit,
				Position: pos,
				Locale:   id,
				FVS:      []corpus.FVS{fvs},
				Subject:  string(ref.Unit),
				Message:  fmt.Sprintf("written unit %q is not registered", ref.Unit),
				Hint:     "add the unit to the writtenUnits table or fix the spelling",
			})
			continue
		}
		at := pos
		if ref.Position != "" {
			at = ref.Position
		}
		if _, ok := unit.Supports(at); !ok {
			col.add(&Violation{
				Kind:     UnsupportedPosition,
				Position: pos,
				Locale:   id,
				FVS:      []corpus.FVS{fvs},
				Subject:  ref.String(),
				Message:  fmt.Sprintf("written unit %q does not support position %s", ref.Unit, at),
				Hint:     fmt.Sprintf("declare %s support for %s or use another unit", at, ref.Unit),
			})
		}
	}
}

func (v *Validator) checkConditions(col *collector, pv *corpus.PositionVariants, id corpus.LocaleID) {
	loc, err := v.reg.Locale(id)
	if err != nil {
		// reported once as LocaleNotFound
		return
	}
	for _, variant := range pv.Variants {
		ld := variant.LocaleData(id)
		if ld == nil {
			continue
		}
		for _, cond := range ld.RuleConditions() {
			if loc.HasCondition(cond) {
				continue
			}
			col.add(&Violation{
				Kind:     UndeclaredCondition,
				Position: pv.Position,
				Locale:   id,
				FVS:      []corpus.FVS{variant.FVS},
				Subject:  string(cond),
				Message:  fmt.Sprintf("condition %q is not declared by locale %s", cond, id),
				Hint:     fmt.Sprintf("add %q to the conditions of %s", cond, id),
			})
		}
	}
}

func (v *Validator) checkDefault(col *collector, pv *corpus.PositionVariants, id corpus.LocaleID) {
	hasData := false
	var defaults []corpus.FVS
	for _, variant := range pv.Variants {
		if variant.LocaleData(id) == nil {
			continue
		}
		hasData = true
		if variant.IsDefaultFor(id) {
			defaults = append(defaults, variant.FVS)
		}
	}
	if !hasData {
		return
	}
	switch len(defaults) {
	case 1:
	case 0:
		col.add(&Violation{
			Kind:     MissingDefaultVariant,
			Position: pv.Position,
			Locale:   id,
			Message:  fmt.Sprintf("no default variant for %s", id),
			Hint:     "mark exactly one variant default for the locale",
		})
	default:
		col.add(&Violation{
			Kind:     AmbiguousDefaultVariant,
			Position: pv.Position,
			Locale:   id,
			FVS:      defaults,
			Message:  fmt.Sprintf("%d default variants for %s: FVS %s", len(defaults), id, fvsList(defaults)),
			Hint:     "keep the default marker on one variant only",
		})
	}
}

// reference turns a failed resolution into a violation. A cycle entered at
// any of its own coordinates is reported once, from the first of them;
// seen holds the cycles already reported for the character.
func (v *Validator) reference(col *collector, o resolver.Outcome, seen map[string]bool) {
	c := o.Coordinate
	var cycle *resolver.CycleError
	var unresolved *resolver.UnresolvedError
	switch {
	case errors.As(o.Err, &cycle):
		if key, ok := cycleKey(cycle); ok {
			if seen[key] {
				return
			}
			seen[key] = true
		}
		col.add(&Violation{
			Kind:     ReferenceCycle,
			Position: c.Position,
			Locale:   c.Locale,
			FVS:      []corpus.FVS{c.FVS},
			Chain:    append(append([]resolver.Coordinate(nil), cycle.Chain...), cycle.Repeated),
			Message:  o.Err.Error(),
			Hint:     "point one reference of the chain at a literal form",
		})
	case errors.As(o.Err, &unresolved):
		col.add(&Violation{
			Kind:     UnresolvedReference,
			Position: c.Position,
			Locale:   c.Locale,
			FVS:      []corpus.FVS{c.FVS},
			Chain:    unresolved.Chain,
			Message:  o.Err.Error(),
			Hint:     fmt.Sprintf("define a variant at %s %d or fix the reference", unresolved.Missing.Position, unresolved.Missing.FVS),
		})
	default:
		// only reachable for unknown characters, which CheckCharacter never passes
		col.add(&Violation{
			Kind:     UnresolvedReference,
			Position: c.Position,
			Locale:   c.Locale,
			FVS:      []corpus.FVS{c.FVS},
			Message:  o.Err.Error(),
		})
	}
}

// cycleKey identifies the cycle of err by its (position, fvs) slots,
// starting from the smallest rotation, so chains entering the same loop at
// different slots or under different locales share a key. A chain that
// reaches the loop from outside has no key.
func cycleKey(err *resolver.CycleError) (string, bool) {
	if len(err.Chain) == 0 || !sameSlot(err.Chain[0], err.Repeated) {
		return "", false
	}
	slots := make([]string, len(err.Chain))
	for i, c := range err.Chain {
		slots[i] = fmt.Sprintf("%s/%d", c.Position, c.FVS)
	}
	best := ""
	for i := range slots {
		rotated := strings.Join(append(append([]string(nil), slots[i:]...), slots[:i]...), " ")
		if best == "" || rotated < best {
			best = rotated
		}
	}
	return best, true
}

func sameSlot(a, b resolver.Coordinate) bool {
	return a.Position == b.Position && a.FVS == b.FVS
}

// CheckParticles validates the particle tables. Particle violations carry no
// character.
func (v *Validator) CheckParticles() []*Violation {
	col := &collector{}
	for _, table := range v.reg.Corpus().Particles {
		loc, err := v.reg.Locale(table.Locale)
		if err != nil {
			col.add(&Violation{
				Kind:    LocaleNotFound,
				Locale:  table.Locale,
				Subject: string(table.Locale),
				Message: fmt.Sprintf("particle table for locale %s, which the locales table does not declare", table.Locale),
				Hint:    "declare the locale or remove its particle table",
			})
		} else if !loc.HasCondition(corpus.ConditionParticle) {
			col.add(&Violation{
				Kind:    UndeclaredCondition,
				Locale:  table.Locale,
				Subject: string(corpus.ConditionParticle),
				Message: fmt.Sprintf("locale %s has particles but does not declare the %q condition", table.Locale, corpus.ConditionParticle),
				Hint:    fmt.Sprintf("add %q to the conditions of %s", corpus.ConditionParticle, table.Locale),
			})
		}

		ns := table.Locale.Namespace()
		for _, p := range table.Particles {
			letters := strings.Fields(p.Word)
			for _, alias := range letters {
				if !v.reg.KnownAlias(ns, alias) {
					col.add(&Violation{
						Kind:    UnknownParticleAlias,
						Locale:  table.Locale,
						Subject: p.Word,
						Message: fmt.Sprintf("particle %q uses alias %q, which no character has in namespace %s", p.Word, alias, ns),
					})
				}
			}
			for _, idx := range p.Indices {
				if idx < 0 || idx >= len(letters) {
					col.add(&Violation{
						Kind:    ParticleIndexOutOfRange,
						Locale:  table.Locale,
						Subject: p.Word,
						Message: fmt.Sprintf("particle %q index %d is out of range (word has %d letters)", p.Word, idx, len(letters)),
					})
				}
			}
		}
	}
	return col.out
}
