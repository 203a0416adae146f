package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gobwas/glob"
	"github.com/mongfont/mongdata/internal/cli/shared"
	"github.com/mongfont/mongdata/internal/corpus"
	clierrors "github.com/mongfont/mongdata/internal/errors"
	"github.com/mongfont/mongdata/internal/resolver"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <character-pattern>",
	Short: "Show the written units each variant renders as",
	Long: `Resolve every variant of the characters whose name matches the pattern,
following references to a literal written form. The pattern is a glob:
"*" matches any run of characters, "?" one character, "[AE]" a class.

Without --locale each variant is shown as authored and as seen from each
locale it carries data for. With --locale every variant is shown as seen from
that locale.`,
	Example: `  mongdata resolve "MONGOLIAN LETTER A"
  mongdata resolve "MONGOLIAN LETTER *" --locale TOD
  mongdata resolve "*VOWEL SEPARATOR" --json`,
	Args:    checkArgs(cobra.ExactArgs(1)),
	GroupID: shared.GroupInspection,
	RunE: func(cmd *cobra.Command, args []string) error {
		localeFlag, _ := cmd.Flags().GetString("locale")
		asJSON, _ := cmd.Flags().GetBool("json")

		pattern, err := glob.Compile(args[0])
		if err != nil {
			return clierrors.InvalidPattern(args[0], err)
		}
		var locale corpus.LocaleID
		if localeFlag != "" {
			if locale, err = corpus.ParseLocaleID(localeFlag); err != nil {
				return clierrors.InvalidLocale(localeFlag)
			}
		}

		p := newPipeline(cmd, configFrom(cmd), 1)
		c, err := p.load()
		if err != nil {
			return err
		}

		res := resolver.New(corpus.NewRegistry(c))
		var entries []resolveEntry
		for _, ch := range c.Characters {
			if !pattern.Match(string(ch.Name)) {
				continue
			}
			for _, coord := range resolveCoordinates(ch, locale) {
				resolution, err := res.Resolve(coord)
				entries = append(entries, newResolveEntry(coord, resolution, err))
			}
		}
		if len(entries) == 0 {
			return clierrors.NoCharactersMatched(args[0])
		}

		if asJSON {
			err = writeResolveJSON(cmd.OutOrStdout(), entries)
		} else {
			err = writeResolveText(cmd.OutOrStdout(), entries)
		}
		if err != nil {
			return err
		}

		for _, e := range entries {
			if e.Error != "" {
				return NewExitError(ExitValidationFailed)
			}
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringP("locale", "l", "", "Resolve every variant as seen from this locale")
	resolveCmd.Flags().Bool("json", false, "Print the resolutions as JSON")
}

// resolveCoordinates lists the coordinates to show for ch. With a locale,
// every variant is viewed from it, whether or not it has data for it.
func resolveCoordinates(ch *corpus.Character, locale corpus.LocaleID) []resolver.Coordinate {
	if locale == "" {
		return resolver.Coordinates(ch)
	}
	var out []resolver.Coordinate
	for _, pv := range ch.Positions {
		for _, v := range pv.Variants {
			out = append(out, resolver.Coordinate{Character: ch.Name, Position: pv.Position, FVS: v.FVS, Locale: locale})
		}
	}
	return out
}

type resolvedUnitJSON struct {
	Unit     string `json:"unit"`
	Position string `json:"position"`
}

// resolveEntry is one printed resolution.
type resolveEntry struct {
	Character  string             `json:"character"`
	Position   string             `json:"position"`
	FVS        int                `json:"fvs"`
	Locale     string             `json:"locale,omitempty"`
	Units      []resolvedUnitJSON `json:"units,omitempty"`
	Conditions []string           `json:"conditions,omitempty"`
	Chain      []string           `json:"chain"`
	Error      string             `json:"error,omitempty"`
}

func newResolveEntry(c resolver.Coordinate, res *resolver.Resolution, err error) resolveEntry {
	e := resolveEntry{
		Character: string(c.Character),
		Position:  string(c.Position),
		FVS:       int(c.FVS),
		Locale:    string(c.Locale),
	}
	if err != nil {
		e.Error = err.Error()
		e.Chain = chainOf(err)
		return e
	}
	for _, u := range res.Units {
		e.Units = append(e.Units, resolvedUnitJSON{Unit: string(u.Unit), Position: string(u.Position)})
	}
	for _, cond := range res.Conditions {
		e.Conditions = append(e.Conditions, string(cond))
	}
	e.Chain = coordStrings(res.Chain)
	return e
}

func chainOf(err error) []string {
	var cycle *resolver.CycleError
	var unresolved *resolver.UnresolvedError
	switch {
	case errors.As(err, &cycle):
		return append(coordStrings(cycle.Chain), cycle.Repeated.String())
	case errors.As(err, &unresolved):
		return coordStrings(unresolved.Chain)
	default:
		return []string{}
	}
}

func coordStrings(chain []resolver.Coordinate) []string {
	out := make([]string, len(chain))
	for i, c := range chain {
		out[i] = c.String()
	}
	return out
}

func writeResolveJSON(w io.Writer, entries []resolveEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding resolutions: %w", err)
	}
	return nil
}

// writeResolveText prints one block per character:
//
//	MONGOLIAN LETTER A
//	  init  0         A.init
//	  medi  1  MNG    A.medi A.medi  [onset]
func writeResolveText(w io.Writer, entries []resolveEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	current := ""
	for _, e := range entries {
		if e.Character != current {
			if current != "" {
				fmt.Fprintln(tw)
			}
			fmt.Fprintln(tw, locatorColor.Sprint(e.Character))
			current = e.Character
		}

		form := strings.Join(unitNames(e.Units), " ")
		if e.Error != "" {
			form = failColor.Sprint("error: ") + e.Error
		}
		if len(e.Conditions) > 0 {
			form += "  [" + strings.Join(e.Conditions, ", ") + "]"
		}
		if len(e.Chain) > 1 && e.Error == "" {
			form += "  via " + strings.Join(e.Chain[1:], " -> ")
		}
		fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\n", e.Position, e.FVS, e.Locale, form)
	}
	return tw.Flush()
}

func unitNames(units []resolvedUnitJSON) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.Unit + "." + u.Position
	}
	return out
}
