// Package knowledge loads heterogeneous knowledge-base fragments and merges
// them into one immutable, queryable index. Fragments are either an ordered
// list of FAQ items or a nested config object; later fragments extend or
// override earlier ones.
package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
)

// FAQItem is a keyword-triggered fact list.
type FAQItem struct {
	Keywords []string `json:"keywords"`
	Facts    []string `json:"facts"`
}

// Index is the merged, read-only view over all loaded fragments. It is
// immutable after Load; a reload builds a fresh Index and the owner swaps
// the reference.
type Index struct {
	faq    []FAQItem
	config map[string]any
}

// Load parses raw JSON fragments and merges them in order. FAQ arrays
// concatenate; config objects deep-merge (see merge rules on deepMerge).
func Load(fragments ...[]byte) (*Index, error) {
	idx := &Index{config: map[string]any{}}
	for i, raw := range fragments {
		var probe any
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, fmt.Errorf("knowledge: fragment %d: %w", i, err)
		}
		switch doc := probe.(type) {
		case []any:
			items, err := parseFAQ(raw)
			if err != nil {
				return nil, fmt.Errorf("knowledge: fragment %d: %w", i, err)
			}
			idx.faq = append(idx.faq, items...)
		case map[string]any:
			idx.config = deepMerge(idx.config, doc)
		default:
			return nil, fmt.Errorf("knowledge: fragment %d: expected array or object, got %T", i, probe)
		}
	}
	return idx, nil
}

// LoadFiles reads and merges fragment files in order. Missing files are
// skipped so a deployment can run with only a subset of the fragments.
func LoadFiles(paths ...string) (*Index, error) {
	var fragments [][]byte
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("knowledge: read %s: %w", p, err)
		}
		fragments = append(fragments, raw)
	}
	return Load(fragments...)
}

func parseFAQ(raw []byte) ([]FAQItem, error) {
	var items []FAQItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// deepMerge merges b into a and returns the result. Rules: object keys merge
// recursively; arrays of primitives union with first-seen order preserved;
// arrays of objects concatenate without deduplication; scalars and
// mismatched types overwrite.
func deepMerge(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, bv := range b {
		av, exists := out[k]
		if !exists {
			out[k] = bv
			continue
		}
		switch bval := bv.(type) {
		case map[string]any:
			if aval, ok := av.(map[string]any); ok {
				out[k] = deepMerge(aval, bval)
				continue
			}
		case []any:
			if aval, ok := av.([]any); ok {
				out[k] = mergeArrays(aval, bval)
				continue
			}
		}
		out[k] = bv
	}
	return out
}

func mergeArrays(a, b []any) []any {
	if allPrimitives(a) && allPrimitives(b) {
		out := make([]any, 0, len(a)+len(b))
		seen := make(map[any]bool, len(a)+len(b))
		for _, v := range append(append([]any{}, a...), b...) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
		return out
	}
	out := make([]any, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func allPrimitives(vals []any) bool {
	for _, v := range vals {
		switch v.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}
