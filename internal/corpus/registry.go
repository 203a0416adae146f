package corpus

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by registry lookups for unknown identifiers.
	ErrNotFound = errors.New("not found")
	// ErrMissing is returned when a character has no alias for a namespace.
	ErrMissing = errors.New("missing")
)

// Registry indexes a corpus for constant-time lookups. It is built once and
// never mutated, so it is safe for concurrent readers.
type Registry struct {
	corpus     *Corpus
	units      map[UnitID]*WrittenUnit
	locales    map[LocaleID]*Locale
	aliases    map[CharacterName]*Alias
	characters map[CharacterName]*Character
	// known aliases per namespace, across every character
	namespaceAliases map[Namespace]map[string]bool
	// categorized aliases per namespace, across every locale in it
	categorized map[Namespace]map[string]bool
}

// NewRegistry indexes c. When an identifier is declared twice the first
// declaration wins.
func NewRegistry(c *Corpus) *Registry {
	r := &Registry{
		corpus:           c,
		units:            make(map[UnitID]*WrittenUnit, len(c.WrittenUnits)),
		locales:          make(map[LocaleID]*Locale, len(c.Locales)),
		aliases:          make(map[CharacterName]*Alias, len(c.Aliases)),
		characters:       make(map[CharacterName]*Character, len(c.Characters)),
		namespaceAliases: make(map[Namespace]map[string]bool),
		categorized:      make(map[Namespace]map[string]bool),
	}
	for _, u := range c.WrittenUnits {
		if _, ok := r.units[u.ID]; !ok {
			r.units[u.ID] = u
		}
	}
	for _, l := range c.Locales {
		if _, ok := r.locales[l.ID]; !ok {
			r.locales[l.ID] = l
		}
		ns := l.ID.Namespace()
		set := r.categorized[ns]
		if set == nil {
			set = make(map[string]bool)
			r.categorized[ns] = set
		}
		for _, cat := range l.Categories {
			for _, a := range cat.Aliases {
				set[a] = true
			}
		}
	}
	for _, e := range c.Aliases {
		if _, ok := r.aliases[e.Character]; ok {
			continue
		}
		r.aliases[e.Character] = &e.Alias
		if e.Alias.IsGlobal() {
			for _, id := range LocaleIDs {
				r.addNamespaceAlias(id.Namespace(), e.Alias.Global)
			}
			continue
		}
		for _, na := range e.Alias.Namespaces {
			r.addNamespaceAlias(na.Namespace, na.Alias)
		}
	}
	for _, ch := range c.Characters {
		if _, ok := r.characters[ch.Name]; !ok {
			r.characters[ch.Name] = ch
		}
	}
	return r
}

func (r *Registry) addNamespaceAlias(ns Namespace, alias string) {
	set := r.namespaceAliases[ns]
	if set == nil {
		set = make(map[string]bool)
		r.namespaceAliases[ns] = set
	}
	set[alias] = true
}

// Corpus returns the indexed corpus.
func (r *Registry) Corpus() *Corpus {
	return r.corpus
}

// Unit looks up a written unit.
func (r *Registry) Unit(id UnitID) (*WrittenUnit, error) {
	if u, ok := r.units[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("written unit %q: %w", id, ErrNotFound)
}

// Locale looks up a declared locale.
func (r *Registry) Locale(id LocaleID) (*Locale, error) {
	if l, ok := r.locales[id]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("locale %q: %w", id, ErrNotFound)
}

// Character looks up a character by name.
func (r *Registry) Character(name CharacterName) (*Character, error) {
	if ch, ok := r.characters[name]; ok {
		return ch, nil
	}
	return nil, fmt.Errorf("character %q: %w", name, ErrNotFound)
}

// Alias returns the alias entry of a character, if any.
func (r *Registry) Alias(name CharacterName) (*Alias, bool) {
	a, ok := r.aliases[name]
	return a, ok
}

// AliasFor returns the alias of a character in a namespace. A character
// with a global alias has it in every namespace.
func (r *Registry) AliasFor(name CharacterName, ns Namespace) (string, error) {
	a, ok := r.aliases[name]
	if !ok {
		return "", fmt.Errorf("alias of %q: %w", name, ErrMissing)
	}
	alias, ok := a.For(ns)
	if !ok {
		return "", fmt.Errorf("alias of %q in %s: %w", name, ns, ErrMissing)
	}
	return alias, nil
}

// Categorized reports whether alias belongs to a category of any locale in
// the namespace.
func (r *Registry) Categorized(ns Namespace, alias string) bool {
	return r.categorized[ns][alias]
}

// KnownAlias reports whether some character uses alias in the namespace.
func (r *Registry) KnownAlias(ns Namespace, alias string) bool {
	return r.namespaceAliases[ns][alias]
}
