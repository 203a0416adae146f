package corpus

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a joining position: where in a word a letter form occurs.
type Position string

const (
	Isol Position = "isol"
	Init Position = "init"
	Medi Position = "medi"
	Fina Position = "fina"
)

// Positions lists every joining position in canonical order.
var Positions = []Position{Isol, Init, Medi, Fina}

// ParsePosition converts a token into a Position.
func ParsePosition(s string) (Position, error) {
	switch p := Position(s); p {
	case Isol, Init, Medi, Fina:
		return p, nil
	default:
		return "", fmt.Errorf("unknown joining position %q (want one of isol, init, medi, fina)", s)
	}
}

// Index returns the canonical sort index of the position, or -1.
func (p Position) Index() int {
	for i, q := range Positions {
		if p == q {
			return i
		}
	}
	return -1
}

// FVS is a free variation selector index. Zero means no selector.
type FVS int

// MaxFVS is the highest selector index a variant may use.
const MaxFVS FVS = 4

// ParseFVS converts a decimal token into an FVS index in the range 0-4.
func ParseFVS(s string) (FVS, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid FVS %q: not an integer", s)
	}
	return checkFVS(n)
}

func checkFVS(n int) (FVS, error) {
	if n < 0 || n > int(MaxFVS) {
		return 0, fmt.Errorf("invalid FVS %d (want 0-%d)", n, MaxFVS)
	}
	return FVS(n), nil
}

// String returns the decimal form used as a table key.
func (f FVS) String() string {
	return strconv.Itoa(int(f))
}

// LocaleID names a target writing system profile.
type LocaleID string

const (
	MNG  LocaleID = "MNG"
	MNGx LocaleID = "MNGx"
	TOD  LocaleID = "TOD"
	TODx LocaleID = "TODx"
	SIB  LocaleID = "SIB"
	MCH  LocaleID = "MCH"
	MCHx LocaleID = "MCHx"
)

// LocaleIDs lists every locale the corpus format recognizes.
var LocaleIDs = []LocaleID{MNG, MNGx, TOD, TODx, SIB, MCH, MCHx}

// ParseLocaleID converts a token into a LocaleID.
func ParseLocaleID(s string) (LocaleID, error) {
	for _, id := range LocaleIDs {
		if string(id) == s {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown locale %q", s)
}

// Namespace returns the locale with the trailing "x" of the extended
// (Ali Gali) variant removed.
func (id LocaleID) Namespace() Namespace {
	return Namespace(strings.TrimSuffix(string(id), "x"))
}

// Extended reports whether the locale is the Ali Gali variant of its base script.
func (id LocaleID) Extended() bool {
	return strings.HasSuffix(string(id), "x")
}

// Namespace groups a base locale with its extended variant.
type Namespace string

// ParseNamespace converts a token into a Namespace.
func ParseNamespace(s string) (Namespace, error) {
	for _, id := range LocaleIDs {
		if !id.Extended() && string(id) == s {
			return Namespace(s), nil
		}
	}
	return "", fmt.Errorf("unknown locale namespace %q", s)
}

// Condition is a contextual rule name declared by a locale.
type Condition string

const (
	// ConditionDefault is the historical default marker. It is not a rule
	// and never needs to be declared by a locale.
	ConditionDefault Condition = "default"

	ConditionParticle         Condition = "particle"
	ConditionDevsger          Condition = "devsger"
	ConditionChachlag         Condition = "chachlag"
	ConditionMasculineOnset   Condition = "masculine_onset"
	ConditionPostBowed        Condition = "post_bowed"
	ConditionFeminine         Condition = "feminine"
	ConditionMarked           Condition = "marked"
	ConditionOnset            Condition = "onset"
	ConditionMasculineDevsger Condition = "masculine_devsger"
	ConditionChachlagOnset    Condition = "chachlag_onset"
	ConditionChachlagDevsger  Condition = "chachlag_devsger"
	ConditionDotless          Condition = "dotless"
	ConditionPostWa           Condition = "post_wa"
)

var knownConditions = map[Condition]bool{
	ConditionDefault:          true,
	ConditionParticle:         true,
	ConditionDevsger:          true,
	ConditionChachlag:         true,
	ConditionMasculineOnset:   true,
	ConditionPostBowed:        true,
	ConditionFeminine:         true,
	ConditionMarked:           true,
	ConditionOnset:            true,
	ConditionMasculineDevsger: true,
	ConditionChachlagOnset:    true,
	ConditionChachlagDevsger:  true,
	ConditionDotless:          true,
	ConditionPostWa:           true,
}

// ParseCondition converts a token into a Condition.
func ParseCondition(s string) (Condition, error) {
	c := Condition(s)
	if !knownConditions[c] {
		return "", fmt.Errorf("unknown condition %q", s)
	}
	return c, nil
}
