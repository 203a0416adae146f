package corpus

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeError describes a malformed authored table entry.
type DecodeError struct {
	File    string // table file the entry came from
	Line    int    // 1-based line number, 0 if unknown
	Column  int    // 1-based column number, 0 if unknown
	Path    string // location within the table (e.g. variants["MONGOLIAN LETTER A"].isol.1)
	Message string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf(":%d:%d", e.Line, e.Column))
		}
		sb.WriteString(": ")
	}
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	return sb.String()
}

// decoder walks yaml.Node trees. Working at the node level keeps mapping
// order, which plain map decoding would lose.
type decoder struct {
	file string
}

func (d *decoder) fail(n *yaml.Node, path, format string, args ...any) error {
	e := &DecodeError{File: d.file, Path: path, Message: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Line, e.Column = n.Line, n.Column
	}
	return e
}

// deref unwraps document and alias nodes.
func deref(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar " + strconv.Quote(n.Value)
	default:
		return "node"
	}
}

// child appends a key to a diagnostic path.
func child(path, key string) string {
	simple := key != ""
	for _, r := range key {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			simple = false
			break
		}
	}
	if simple {
		if path == "" {
			return key
		}
		return path + "." + key
	}
	return fmt.Sprintf("%s[%q]", path, key)
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// mapping calls fn for each key/value pair in declaration order. A null
// node is treated as an empty mapping.
func (d *decoder) mapping(n *yaml.Node, path string, fn func(key string, keyNode, val *yaml.Node) error) error {
	n = deref(n)
	if isNull(n) {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return d.fail(n, path, "expected a mapping, got %s", kindName(n))
	}
	seen := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return d.fail(k, path, "mapping keys must be scalars")
		}
		if k.ShortTag() == "!!merge" {
			return d.fail(k, path, "merge keys are not supported")
		}
		if seen[k.Value] {
			return d.fail(k, path, "duplicate key %q", k.Value)
		}
		seen[k.Value] = true
		if err := fn(k.Value, k, v); err != nil {
			return err
		}
	}
	return nil
}

// fields decodes a mapping with a fixed set of keys.
func (d *decoder) fields(n *yaml.Node, path string, handlers map[string]func(*yaml.Node, string) error) error {
	return d.mapping(n, path, func(key string, keyNode, val *yaml.Node) error {
		h, ok := handlers[key]
		if !ok {
			return d.fail(keyNode, path, "unknown field %q", key)
		}
		return h(val, child(path, key))
	})
}

func (d *decoder) sequence(n *yaml.Node, path string, fn func(i int, item *yaml.Node) error) error {
	n = deref(n)
	if isNull(n) {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		return d.fail(n, path, "expected a sequence, got %s", kindName(n))
	}
	for i, item := range n.Content {
		if err := fn(i, item); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) str(n *yaml.Node, path string) (string, error) {
	n = deref(n)
	if isNull(n) || n.Kind != yaml.ScalarNode {
		if n == nil {
			return "", d.fail(nil, path, "expected a string")
		}
		return "", d.fail(n, path, "expected a string, got %s", kindName(n))
	}
	return n.Value, nil
}

func (d *decoder) integer(n *yaml.Node, path string) (int, error) {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() != "!!int" {
		if n == nil {
			return 0, d.fail(nil, path, "expected an integer")
		}
		return 0, d.fail(n, path, "expected an integer, got %s", kindName(n))
	}
	v, err := strconv.ParseInt(n.Value, 0, 64)
	if err != nil {
		return 0, d.fail(n, path, "invalid integer %q", n.Value)
	}
	return int(v), nil
}

func (d *decoder) boolean(n *yaml.Node, path string) (bool, error) {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() != "!!bool" {
		if n == nil {
			return false, d.fail(nil, path, "expected a boolean")
		}
		return false, d.fail(n, path, "expected a boolean, got %s", kindName(n))
	}
	v, err := strconv.ParseBool(n.Value)
	if err != nil {
		return false, d.fail(n, path, "invalid boolean %q", n.Value)
	}
	return v, nil
}

func (d *decoder) stringList(n *yaml.Node, path string) ([]string, error) {
	var out []string
	err := d.sequence(n, path, func(i int, item *yaml.Node) error {
		s, err := d.str(item, index(path, i))
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	return out, err
}

func (d *decoder) conditions(n *yaml.Node, path string) ([]Condition, error) {
	var out []Condition
	err := d.sequence(n, path, func(i int, item *yaml.Node) error {
		s, err := d.str(item, index(path, i))
		if err != nil {
			return err
		}
		c, err := ParseCondition(s)
		if err != nil {
			return d.fail(deref(item), index(path, i), "%v", err)
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

// written decodes a literal unit list or a [position, fvs, locale?] reference.
func (d *decoder) written(n *yaml.Node, path string) (Written, error) {
	n = deref(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil, d.fail(n, path, "expected a written-unit list or a [position, fvs, locale] reference")
	}
	if len(n.Content) == 0 {
		return nil, d.fail(n, path, "empty written form")
	}
	if first := deref(n.Content[0]); first != nil && first.Kind == yaml.ScalarNode {
		if pos, err := ParsePosition(first.Value); err == nil {
			return d.reference(n, pos, path)
		}
	}
	lit := make(Literal, 0, len(n.Content))
	for i, item := range n.Content {
		s, err := d.str(item, index(path, i))
		if err != nil {
			return nil, err
		}
		u, err := ParseUnitRef(s)
		if err != nil {
			return nil, d.fail(deref(item), index(path, i), "%v", err)
		}
		lit = append(lit, u)
	}
	return lit, nil
}

func (d *decoder) reference(n *yaml.Node, pos Position, path string) (Written, error) {
	if len(n.Content) < 2 || len(n.Content) > 3 {
		return nil, d.fail(n, path, "reference must be [position, fvs] or [position, fvs, locale], got %d elements", len(n.Content))
	}
	v, err := d.integer(n.Content[1], index(path, 1))
	if err != nil {
		return nil, err
	}
	fvs, err := checkFVS(v)
	if err != nil {
		return nil, d.fail(deref(n.Content[1]), index(path, 1), "%v", err)
	}
	ref := Reference{Position: pos, FVS: fvs}
	if len(n.Content) == 3 {
		s, err := d.str(n.Content[2], index(path, 2))
		if err != nil {
			return nil, err
		}
		if ref.Locale, err = ParseLocaleID(s); err != nil {
			return nil, d.fail(deref(n.Content[2]), index(path, 2), "%v", err)
		}
	}
	return ref, nil
}

func (d *decoder) locales(root *yaml.Node) ([]*Locale, error) {
	var out []*Locale
	err := d.mapping(root, "", func(key string, keyNode, val *yaml.Node) error {
		id, err := ParseLocaleID(key)
		if err != nil {
			return d.fail(keyNode, "", "%v", err)
		}
		loc := &Locale{ID: id}
		path := child("", key)
		err = d.fields(val, path, map[string]func(*yaml.Node, string) error{
			"conditions": func(n *yaml.Node, p string) (err error) {
				loc.Conditions, err = d.conditions(n, p)
				return err
			},
			"categories": func(n *yaml.Node, p string) error {
				return d.mapping(n, p, func(name string, _, aliases *yaml.Node) error {
					list, err := d.stringList(aliases, child(p, name))
					if err != nil {
						return err
					}
					loc.Categories = append(loc.Categories, AliasCategory{Name: name, Aliases: list})
					return nil
				})
			},
		})
		if err != nil {
			return err
		}
		out = append(out, loc)
		return nil
	})
	return out, err
}

func (d *decoder) writtenUnits(root *yaml.Node) ([]*WrittenUnit, error) {
	var out []*WrittenUnit
	err := d.mapping(root, "", func(key string, keyNode, val *yaml.Node) error {
		if key == "" || strings.ContainsAny(key, ". ") {
			return d.fail(keyNode, "", "invalid written unit ID %q", key)
		}
		unit := &WrittenUnit{ID: UnitID(key)}
		path := child("", key)
		err := d.mapping(val, path, func(posKey string, posNode, attrs *yaml.Node) error {
			pos, err := ParsePosition(posKey)
			if err != nil {
				return d.fail(posNode, path, "%v", err)
			}
			support := UnitSupport{Position: pos}
			err = d.fields(attrs, child(path, posKey), map[string]func(*yaml.Node, string) error{
				"archaic": func(n *yaml.Node, p string) (err error) {
					support.Archaic, err = d.boolean(n, p)
					return err
				},
			})
			if err != nil {
				return err
			}
			unit.Support = append(unit.Support, support)
			return nil
		})
		if err != nil {
			return err
		}
		out = append(out, unit)
		return nil
	})
	return out, err
}

func (d *decoder) aliases(root *yaml.Node) ([]*AliasEntry, error) {
	var out []*AliasEntry
	err := d.mapping(root, "", func(key string, _, val *yaml.Node) error {
		entry := &AliasEntry{Character: CharacterName(key)}
		path := child("", key)
		n := deref(val)
		if n != nil && n.Kind == yaml.ScalarNode && !isNull(n) {
			if n.Value == "" {
				return d.fail(n, path, "empty global alias")
			}
			entry.Alias.Global = n.Value
			out = append(out, entry)
			return nil
		}
		err := d.mapping(val, path, func(nsKey string, nsNode, aliasNode *yaml.Node) error {
			ns, err := ParseNamespace(nsKey)
			if err != nil {
				return d.fail(nsNode, path, "%v", err)
			}
			alias, err := d.str(aliasNode, child(path, nsKey))
			if err != nil {
				return err
			}
			entry.Alias.Namespaces = append(entry.Alias.Namespaces, NamespaceAlias{Namespace: ns, Alias: alias})
			return nil
		})
		if err != nil {
			return err
		}
		out = append(out, entry)
		return nil
	})
	return out, err
}

func (d *decoder) characters(root *yaml.Node) ([]*Character, error) {
	var out []*Character
	err := d.mapping(root, "", func(name string, _, positions *yaml.Node) error {
		ch := &Character{Name: CharacterName(name)}
		path := child("", name)
		err := d.mapping(positions, path, func(posKey string, posNode, slots *yaml.Node) error {
			pos, err := ParsePosition(posKey)
			if err != nil {
				return d.fail(posNode, path, "%v", err)
			}
			pv := &PositionVariants{Position: pos}
			posPath := child(path, posKey)
			err = d.mapping(slots, posPath, func(fvsKey string, fvsNode, body *yaml.Node) error {
				fvs, err := ParseFVS(fvsKey)
				if err != nil {
					return d.fail(fvsNode, posPath, "%v", err)
				}
				v, err := d.variant(body, fvs, child(posPath, fvsKey))
				if err != nil {
					return err
				}
				pv.Variants = append(pv.Variants, v)
				return nil
			})
			if err != nil {
				return err
			}
			ch.Positions = append(ch.Positions, pv)
			return nil
		})
		if err != nil {
			return err
		}
		out = append(out, ch)
		return nil
	})
	return out, err
}

func (d *decoder) variant(n *yaml.Node, fvs FVS, path string) (*Variant, error) {
	v := &Variant{FVS: fvs}
	err := d.fields(n, path, map[string]func(*yaml.Node, string) error{
		"written": func(n *yaml.Node, p string) (err error) {
			v.Written, err = d.written(n, p)
			return err
		},
		"default": func(n *yaml.Node, p string) (err error) {
			v.Default, err = d.boolean(n, p)
			return err
		},
		"locales": func(n *yaml.Node, p string) error {
			return d.mapping(n, p, func(key string, keyNode, body *yaml.Node) error {
				id, err := ParseLocaleID(key)
				if err != nil {
					return d.fail(keyNode, p, "%v", err)
				}
				ld, err := d.localeData(body, id, child(p, key))
				if err != nil {
					return err
				}
				v.Locales = append(v.Locales, ld)
				return nil
			})
		},
	})
	if err != nil {
		return nil, err
	}
	if v.Written == nil {
		return nil, d.fail(deref(n), path, "missing required field \"written\"")
	}
	return v, nil
}

func (d *decoder) localeData(n *yaml.Node, id LocaleID, path string) (*VariantLocaleData, error) {
	ld := &VariantLocaleData{Locale: id}
	err := d.fields(n, path, map[string]func(*yaml.Node, string) error{
		"written": func(n *yaml.Node, p string) (err error) {
			ld.Written, err = d.written(n, p)
			return err
		},
		"conditions": func(n *yaml.Node, p string) (err error) {
			ld.Conditions, err = d.conditions(n, p)
			return err
		},
		"default": func(n *yaml.Node, p string) (err error) {
			ld.Default, err = d.boolean(n, p)
			return err
		},
		"gb": func(n *yaml.Node, p string) (err error) {
			ld.GB, err = d.str(n, p)
			return err
		},
		"eac": func(n *yaml.Node, p string) (err error) {
			ld.EAC, err = d.str(n, p)
			return err
		},
	})
	if err != nil {
		return nil, err
	}
	return ld, nil
}

func (d *decoder) particles(root *yaml.Node) ([]*ParticleTable, error) {
	var out []*ParticleTable
	err := d.mapping(root, "", func(key string, keyNode, words *yaml.Node) error {
		id, err := ParseLocaleID(key)
		if err != nil {
			return d.fail(keyNode, "", "%v", err)
		}
		table := &ParticleTable{Locale: id}
		path := child("", key)
		err = d.mapping(words, path, func(word string, _, indices *yaml.Node) error {
			p := Particle{Word: word}
			wordPath := child(path, word)
			err := d.sequence(indices, wordPath, func(i int, item *yaml.Node) error {
				v, err := d.integer(item, index(wordPath, i))
				if err != nil {
					return err
				}
				p.Indices = append(p.Indices, v)
				return nil
			})
			if err != nil {
				return err
			}
			table.Particles = append(table.Particles, p)
			return nil
		})
		if err != nil {
			return err
		}
		out = append(out, table)
		return nil
	})
	return out, err
}

// value converts a node into an order-preserving generic Value.
func (d *decoder) value(n *yaml.Node, path string) (*Value, error) {
	n = deref(n)
	if n == nil {
		return &Value{Kind: ScalarValue, Tag: "!!null"}, nil
	}
	switch n.Kind {
	case yaml.ScalarNode:
		tag := n.ShortTag()
		switch tag {
		case "!!str", "!!int", "!!float", "!!bool", "!!null":
		default:
			return nil, d.fail(n, path, "unsupported scalar tag %s", tag)
		}
		if tag == "!!null" {
			return &Value{Kind: ScalarValue, Tag: tag}, nil
		}
		return &Value{Kind: ScalarValue, Tag: tag, Scalar: n.Value}, nil
	case yaml.SequenceNode:
		v := &Value{Kind: SequenceValue}
		for i, item := range n.Content {
			iv, err := d.value(item, index(path, i))
			if err != nil {
				return nil, err
			}
			v.Items = append(v.Items, iv)
		}
		return v, nil
	case yaml.MappingNode:
		v := &Value{Kind: MappingValue}
		err := d.mapping(n, path, func(key string, _, val *yaml.Node) error {
			mv, err := d.value(val, child(path, key))
			if err != nil {
				return err
			}
			v.Members = append(v.Members, Member{Key: key, Value: mv})
			return nil
		})
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, d.fail(n, path, "unsupported node")
	}
}
