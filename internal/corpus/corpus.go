// Package corpus defines the in-memory model of the Mongolian glyph data corpus:
// locales and their condition vocabularies, written units, character aliases,
// and the per-position, per-FVS variants of every character. It also loads the
// authored tables and builds the lookup registry used by the resolver and the
// validator.
//
// A corpus is immutable once loaded. Every table keeps its declaration order
// so that exports are stable.
package corpus

// CharacterName is the canonical Unicode name of a character.
type CharacterName string

// Corpus is the full set of authored tables.
type Corpus struct {
	Locales      []*Locale
	WrittenUnits []*WrittenUnit
	Aliases      []*AliasEntry
	Characters   []*Character
	Particles    []*ParticleTable // optional auxiliary table
	Ligatures    *Value           // optional auxiliary table, carried through opaquely
}

// Locale is a writing system profile with its condition vocabulary and
// categorized character aliases.
type Locale struct {
	ID         LocaleID
	Conditions []Condition
	Categories []AliasCategory
}

// AliasCategory is a named group of aliases (e.g. masculine vowels).
type AliasCategory struct {
	Name    string
	Aliases []string
}

// HasCondition reports whether c is in the locale's declared vocabulary.
func (l *Locale) HasCondition(c Condition) bool {
	for _, d := range l.Conditions {
		if d == c {
			return true
		}
	}
	return false
}

// HasAlias reports whether alias appears in any of the locale's categories.
func (l *Locale) HasAlias(alias string) bool {
	for _, cat := range l.Categories {
		for _, a := range cat.Aliases {
			if a == alias {
				return true
			}
		}
	}
	return false
}

// WrittenUnit is an atomic glyph piece and the positions it may occupy.
type WrittenUnit struct {
	ID      UnitID
	Support []UnitSupport
}

// UnitSupport declares that a written unit may occupy a position.
type UnitSupport struct {
	Position Position
	Archaic  bool
}

// Supports returns the support entry for p, if declared.
func (u *WrittenUnit) Supports(p Position) (UnitSupport, bool) {
	for _, s := range u.Support {
		if s.Position == p {
			return s, true
		}
	}
	return UnitSupport{}, false
}

// AliasEntry binds a character to its alias.
type AliasEntry struct {
	Character CharacterName
	Alias     Alias
}

// Alias is either one global alias shared by every locale, or a mapping from
// locale namespace to alias.
type Alias struct {
	Global     string
	Namespaces []NamespaceAlias
}

// NamespaceAlias is the alias of a character within one locale namespace.
type NamespaceAlias struct {
	Namespace Namespace
	Alias     string
}

// IsGlobal reports whether the alias applies to every locale.
func (a *Alias) IsGlobal() bool {
	return a.Global != ""
}

// For returns the alias for the namespace.
func (a *Alias) For(ns Namespace) (string, bool) {
	if a.IsGlobal() {
		return a.Global, true
	}
	for _, na := range a.Namespaces {
		if na.Namespace == ns {
			return na.Alias, true
		}
	}
	return "", false
}

// Character owns the variants of one abstract letter.
type Character struct {
	Name      CharacterName
	Positions []*PositionVariants
}

// PositionVariants holds the variants of a character at one joining position.
type PositionVariants struct {
	Position Position
	Variants []*Variant
}

// At returns the variants at position p, or nil.
func (c *Character) At(p Position) *PositionVariants {
	for _, pv := range c.Positions {
		if pv.Position == p {
			return pv
		}
	}
	return nil
}

// Variant returns the variant at (p, fvs), or nil.
func (c *Character) Variant(p Position, fvs FVS) *Variant {
	pv := c.At(p)
	if pv == nil {
		return nil
	}
	for _, v := range pv.Variants {
		if v.FVS == fvs {
			return v
		}
	}
	return nil
}

// VariantCount returns the number of variants across all positions.
func (c *Character) VariantCount() int {
	n := 0
	for _, pv := range c.Positions {
		n += len(pv.Variants)
	}
	return n
}

// Variant is one glyph form of a character at a position, selected by FVS.
type Variant struct {
	FVS     FVS
	Written Written
	// Default marks the variant as the fallback for every locale it carries
	// data for. Newer corpus revisions use this instead of the per-locale marker.
	Default bool
	Locales []*VariantLocaleData
}

// VariantLocaleData scopes a variant to one locale.
type VariantLocaleData struct {
	Locale     LocaleID
	Written    Written // override; nil when the variant's own form applies
	Conditions []Condition
	Default    bool
	GB         string // legacy GB index, passed through
	EAC        string // legacy EAC index, passed through
}

// LocaleData returns the variant's data for the locale, or nil.
func (v *Variant) LocaleData(id LocaleID) *VariantLocaleData {
	for _, ld := range v.Locales {
		if ld.Locale == id {
			return ld
		}
	}
	return nil
}

// WrittenFor returns the form that applies in the locale: the locale
// override if one is declared, otherwise the variant's own form. An empty
// locale selects the variant's own form.
func (v *Variant) WrittenFor(id LocaleID) Written {
	if id != "" {
		if ld := v.LocaleData(id); ld != nil && ld.Written != nil {
			return ld.Written
		}
	}
	return v.Written
}

// IsDefaultFor reports whether the variant is the default render for the
// locale under any of the supported encodings: the per-locale flag, the
// legacy "default" condition token, or the variant-level flag. A variant
// without data for the locale is never its default.
func (v *Variant) IsDefaultFor(id LocaleID) bool {
	ld := v.LocaleData(id)
	if ld == nil {
		return false
	}
	return v.Default || ld.Default || ld.HasLegacyDefault()
}

// HasLegacyDefault reports whether the conditions carry the "default" token.
func (ld *VariantLocaleData) HasLegacyDefault() bool {
	for _, c := range ld.Conditions {
		if c == ConditionDefault {
			return true
		}
	}
	return false
}

// RuleConditions returns the conditions without the legacy default marker.
func (ld *VariantLocaleData) RuleConditions() []Condition {
	var out []Condition
	for _, c := range ld.Conditions {
		if c != ConditionDefault {
			out = append(out, c)
		}
	}
	return out
}

// ParticleTable lists the particle words of one locale.
type ParticleTable struct {
	Locale    LocaleID
	Particles []Particle
}

// Particle is a space-separated alias sequence and the indices of the
// letters that take the particle form.
type Particle struct {
	Word    string
	Indices []int
}

// VariantCount returns the number of variants in the corpus.
func (c *Corpus) VariantCount() int {
	n := 0
	for _, ch := range c.Characters {
		n += ch.VariantCount()
	}
	return n
}
