package envelope

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteToon renders the envelope as TOON (Token-Oriented Object Notation),
// a compact indentation-based alternative to JSON meant to cost fewer LLM
// tokens per byte of structure. No library in the example corpus implements
// this format (see DESIGN.md); this is a minimal from-scratch encoder of
// the same JSON tree the other three serializers already produce, covering
// objects, arrays of primitives (inline comma list), arrays of uniform
// objects (tabular header + rows), and arrays of mixed shape (indented
// list).
func WriteToon(w io.Writer, env Envelope) error {
	v, err := ToJSONValue(env)
	if err != nil {
		return err
	}
	var b strings.Builder
	encodeToonValue(&b, "", v, 0)
	_, err = io.WriteString(w, b.String())
	return err
}

func encodeToonValue(b *strings.Builder, key string, v any, indent int) {
	pad := strings.Repeat("  ", indent)
	switch val := v.(type) {
	case map[string]any:
		childIndent := indent
		if key != "" {
			fmt.Fprintf(b, "%s%s:\n", pad, key)
			childIndent = indent + 1
		}
		for _, k := range sortedKeys(val) {
			encodeToonValue(b, k, val[k], childIndent)
		}
	case []any:
		encodeToonArray(b, key, val, indent)
	default:
		fmt.Fprintf(b, "%s%s: %s\n", pad, key, scalarToon(val))
	}
}

func encodeToonArray(b *strings.Builder, key string, arr []any, indent int) {
	pad := strings.Repeat("  ", indent)
	if len(arr) == 0 {
		fmt.Fprintf(b, "%s%s[0]:\n", pad, key)
		return
	}

	if allScalars(arr) {
		parts := make([]string, len(arr))
		for i, e := range arr {
			parts[i] = scalarToon(e)
		}
		fmt.Fprintf(b, "%s%s[%d]: %s\n", pad, key, len(arr), strings.Join(parts, ","))
		return
	}

	fields, uniform := commonObjectFields(arr)
	if uniform {
		fmt.Fprintf(b, "%s%s[%d]{%s}:\n", pad, key, len(arr), strings.Join(fields, ","))
		rowPad := strings.Repeat("  ", indent+1)
		for _, e := range arr {
			obj := e.(map[string]any)
			cells := make([]string, len(fields))
			for i, f := range fields {
				cells[i] = scalarToon(obj[f])
			}
			fmt.Fprintf(b, "%s%s\n", rowPad, strings.Join(cells, ","))
		}
		return
	}

	fmt.Fprintf(b, "%s%s[%d]:\n", pad, key, len(arr))
	for _, e := range arr {
		encodeToonValue(b, "-", e, indent+1)
	}
}

func allScalars(arr []any) bool {
	for _, e := range arr {
		switch e.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}

// commonObjectFields returns the sorted union of keys if every element is a
// map with exactly that key set (the "tabular" case); otherwise false.
func commonObjectFields(arr []any) ([]string, bool) {
	first, ok := arr[0].(map[string]any)
	if !ok {
		return nil, false
	}
	fields := sortedKeys(first)
	for _, e := range arr[1:] {
		m, ok := e.(map[string]any)
		if !ok || len(m) != len(fields) {
			return nil, false
		}
		for _, f := range fields {
			if _, ok := m[f]; !ok {
				return nil, false
			}
		}
	}
	return fields, true
}

func scalarToon(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		if strings.ContainsAny(t, ",\n:") {
			return strconv.Quote(t)
		}
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
