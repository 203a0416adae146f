package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mongfont/mongdata/internal/corpus"
)

// object is a JSON object that keeps insertion order.
type object struct {
	keys []string
	vals []any
}

func (o *object) set(key string, val any) {
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, val)
}

// MarshalJSON writes the members in insertion order.
func (o *object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.vals[i])
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func locales(c *corpus.Corpus) *object {
	root := &object{}
	for _, l := range c.Locales {
		o := &object{}
		conds := make([]string, 0, len(l.Conditions))
		for _, cond := range l.Conditions {
			conds = append(conds, string(cond))
		}
		o.set("conditions", conds)
		if len(l.Categories) > 0 {
			cats := &object{}
			for _, cat := range l.Categories {
				cats.set(cat.Name, nonNil(cat.Aliases))
			}
			o.set("categories", cats)
		}
		root.set(string(l.ID), o)
	}
	return root
}

func writtenUnits(c *corpus.Corpus) *object {
	root := &object{}
	for _, u := range c.WrittenUnits {
		o := &object{}
		for _, s := range u.Support {
			attrs := &object{}
			if s.Archaic {
				attrs.set("archaic", true)
			}
			o.set(string(s.Position), attrs)
		}
		root.set(string(u.ID), o)
	}
	return root
}

func aliases(c *corpus.Corpus) *object {
	root := &object{}
	for _, e := range c.Aliases {
		if e.Alias.IsGlobal() {
			root.set(string(e.Character), e.Alias.Global)
			continue
		}
		o := &object{}
		for _, na := range e.Alias.Namespaces {
			o.set(string(na.Namespace), na.Alias)
		}
		root.set(string(e.Character), o)
	}
	return root
}

func variants(c *corpus.Corpus) *object {
	root := &object{}
	for _, ch := range c.Characters {
		positions := &object{}
		for _, pv := range ch.Positions {
			slots := &object{}
			for _, v := range pv.Variants {
				slots.set(v.FVS.String(), variant(v))
			}
			positions.set(string(pv.Position), slots)
		}
		root.set(string(ch.Name), positions)
	}
	return root
}

func variant(v *corpus.Variant) *object {
	o := &object{}
	o.set("written", written(v.Written))
	if v.Default {
		o.set("default", true)
	}
	if len(v.Locales) > 0 {
		locs := &object{}
		for _, ld := range v.Locales {
			locs.set(string(ld.Locale), localeData(ld))
		}
		o.set("locales", locs)
	}
	return o
}

func localeData(ld *corpus.VariantLocaleData) *object {
	o := &object{}
	if ld.Written != nil {
		o.set("written", written(ld.Written))
	}
	if len(ld.Conditions) > 0 {
		conds := make([]string, len(ld.Conditions))
		for i, cond := range ld.Conditions {
			conds[i] = string(cond)
		}
		o.set("conditions", conds)
	}
	if ld.Default {
		o.set("default", true)
	}
	if ld.GB != "" {
		o.set("gb", ld.GB)
	}
	if ld.EAC != "" {
		o.set("eac", ld.EAC)
	}
	return o
}

// written encodes a literal as its unit strings and a reference as
// [position, fvs] or [position, fvs, locale].
func written(w corpus.Written) []any {
	switch w := w.(type) {
	case corpus.Literal:
		out := make([]any, len(w))
		for i, u := range w {
			out[i] = u.String()
		}
		return out
	case corpus.Reference:
		out := []any{string(w.Position), int(w.FVS)}
		if w.Locale != "" {
			out = append(out, string(w.Locale))
		}
		return out
	default:
		panic(fmt.Sprintf("export: unexpected written form %T", w))
	}
}

func particles(c *corpus.Corpus) *object {
	root := &object{}
	for _, t := range c.Particles {
		words := &object{}
		for _, p := range t.Particles {
			words.set(p.Word, nonNil(p.Indices))
		}
		root.set(string(t.Locale), words)
	}
	return root
}

// value converts a generic Value back into JSON-encodable form. YAML-only
// scalar spellings (hex integers, "True") are normalized.
func value(v *corpus.Value) (any, error) {
	switch v.Kind {
	case corpus.SequenceValue:
		out := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			iv, err := value(item)
			if err != nil {
				return nil, err
			}
			out = append(out, iv)
		}
		return out, nil
	case corpus.MappingValue:
		o := &object{}
		for _, m := range v.Members {
			mv, err := value(m.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", m.Key, err)
			}
			o.set(m.Key, mv)
		}
		return o, nil
	}

	switch v.Tag {
	case "!!null":
		return nil, nil
	case "!!bool":
		b, err := strconv.ParseBool(v.Scalar)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q", v.Scalar)
		}
		return b, nil
	case "!!int":
		n, err := strconv.ParseInt(v.Scalar, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", v.Scalar)
		}
		return n, nil
	case "!!float":
		f, err := strconv.ParseFloat(v.Scalar, 64)
		if err != nil {
			return nil, fmt.Errorf("float %q has no JSON form", v.Scalar)
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			// keep it a float when read back
			s += ".0"
		}
		return json.Number(s), nil
	default:
		return v.Scalar, nil
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
