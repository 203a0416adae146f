package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mongfont/mongdata/internal/corpus"
	"github.com/mongfont/mongdata/internal/resolver"
)

// Kind classifies a violation.
type Kind int

const (
	// MissingDefaultVariant: a (character, position) with locale data has no default for the locale.
	MissingDefaultVariant Kind = iota
	// AmbiguousDefaultVariant: more than one variant is the default for the locale.
	AmbiguousDefaultVariant
	// UndeclaredCondition: a condition is not in the locale's vocabulary.
	UndeclaredCondition
	// MissingLocaleAlias: the character has no alias for the locale's namespace.
	MissingLocaleAlias
	// UncategorizedAlias: the alias is in none of the namespace's categories.
	UncategorizedAlias
	// ReferenceCycle: a reference chain revisits a coordinate.
	ReferenceCycle
	// UnresolvedReference: a reference targets a coordinate with no variant.
	UnresolvedReference
	// UnknownWrittenUnit: a literal names a written unit that is not registered.
	UnknownWrittenUnit
	// UnsupportedPosition: a written unit is used at a position it does not support.
	UnsupportedPosition
	// LocaleNotFound: data is keyed by a locale the locales table does not declare.
	LocaleNotFound
	// UnknownParticleAlias: a particle word uses an alias no character has.
	UnknownParticleAlias
	// ParticleIndexOutOfRange: a particle index addresses no letter of its word.
	ParticleIndexOutOfRange
)

var kindNames = [...]string{
	MissingDefaultVariant:   "MissingDefaultVariant",
	AmbiguousDefaultVariant: "AmbiguousDefaultVariant",
	UndeclaredCondition:     "UndeclaredCondition",
	MissingLocaleAlias:      "MissingLocaleAlias",
	UncategorizedAlias:      "UncategorizedAlias",
	ReferenceCycle:          "ReferenceCycle",
	UnresolvedReference:     "UnresolvedReference",
	UnknownWrittenUnit:      "UnknownWrittenUnit",
	UnsupportedPosition:     "UnsupportedPosition",
	LocaleNotFound:          "LocaleNotFound",
	UnknownParticleAlias:    "UnknownParticleAlias",
	ParticleIndexOutOfRange: "ParticleIndexOutOfRange",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Violation is one authoring defect found in the corpus. Fields that do not
// apply to the kind are left zero.
type Violation struct {
	Kind      Kind
	Character corpus.CharacterName // empty for particle table violations
	Position  corpus.Position
	Locale    corpus.LocaleID
	FVS       []corpus.FVS          // the variants involved
	Subject   string                // offending token: condition, alias, unit or particle word
	Chain     []resolver.Coordinate // reference chain for cycle and unresolved violations
	Message   string
	Hint      string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	var sb strings.Builder
	sb.WriteString(v.Kind.String())
	if loc := v.Location(); loc != "" {
		sb.WriteString(" at ")
		sb.WriteString(loc)
	}
	sb.WriteString(": ")
	sb.WriteString(v.Message)
	return sb.String()
}

// Location renders the character, position and locale the violation is
// attached to.
func (v *Violation) Location() string {
	var parts []string
	if v.Character != "" {
		parts = append(parts, string(v.Character))
	}
	if v.Position != "" {
		parts = append(parts, string(v.Position))
	}
	if v.Locale != "" {
		parts = append(parts, string(v.Locale))
	}
	return strings.Join(parts, " / ")
}

// FormatFull returns a detailed multi-line description.
func (v *Violation) FormatFull() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  Kind: %s\n", v.Kind))
	if loc := v.Location(); loc != "" {
		sb.WriteString(fmt.Sprintf("  Location: %s\n", loc))
	}
	if len(v.FVS) > 0 {
		sb.WriteString(fmt.Sprintf("  FVS: %s\n", fvsList(v.FVS)))
	}
	if len(v.Chain) > 0 {
		parts := make([]string, len(v.Chain))
		for i, c := range v.Chain {
			parts[i] = c.String()
		}
		sb.WriteString(fmt.Sprintf("  Chain: %s\n", strings.Join(parts, " -> ")))
	}
	sb.WriteString(fmt.Sprintf("  Error: %s\n", v.Message))
	if v.Hint != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", v.Hint))
	}
	return sb.String()
}

func fvsList(fvs []corpus.FVS) string {
	parts := make([]string, len(fvs))
	for i, f := range fvs {
		parts[i] = f.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Report is the outcome of validating a corpus.
type Report struct {
	Violations []*Violation
	Characters int // characters checked
	Variants   int // variants checked
}

// Valid reports whether no violation was found.
func (r *Report) Valid() bool {
	return len(r.Violations) == 0
}

// HasErrors returns true if there are any violations.
func (r *Report) HasErrors() bool {
	return len(r.Violations) > 0
}

// Add appends violations to the report.
func (r *Report) Add(vs ...*Violation) {
	r.Violations = append(r.Violations, vs...)
}

// CountByKind returns the number of violations of each kind present.
func (r *Report) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, v := range r.Violations {
		counts[v.Kind]++
	}
	return counts
}

// Filter returns the violations of the given kind.
func (r *Report) Filter(kind Kind) []*Violation {
	var out []*Violation
	for _, v := range r.Violations {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}

// sortViolations orders violations by character name, keeping emission order
// within a character. Violations without a character come last.
func sortViolations(vs []*Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i].Character, vs[j].Character
		if (a == "") != (b == "") {
			return b == ""
		}
		return a < b
	})
}
