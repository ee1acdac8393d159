package knowledge

import (
	"sort"
	"strings"
)

// DefaultLimit caps search results when the caller does not say otherwise.
const DefaultLimit = 3

// genericPackagePhrases trigger package facts without counting keyword hits.
var genericPackagePhrases = []string{"пакет", "вместе", "חבילה", "יחד", "combo"}

// configRule is one rung of the domain ladder evaluated against the merged
// config. Each rule contributes at most one fact; rules run in fixed order
// and are skipped once the result set is full.
type configRule struct {
	name string
	eval func(idx *Index, query string) string
}

var configRules = []configRule{
	{"packages", (*Index).packageFact},
	{"pricing", (*Index).pricingFact},
	{"services", (*Index).servicesFact},
	{"time_of_day", modifierRule("time_of_day")},
	{"duration", modifierRule("duration")},
	{"geo", modifierRule("geo")},
	{"availability", modifierRule("availability")},
	{"negotiation", modifierRule("negotiation")},
}

// Search returns up to limit facts for the query: FAQ items first, then the
// config ladder. Output is deterministic for identical fragments and query;
// no I/O happens here — everything was merged at load time.
func (idx *Index) Search(query string, limit int) []string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := strings.ToLower(query)
	facts := make([]string, 0, limit)
	seen := make(map[string]bool)

	add := func(fact string) {
		if fact == "" || seen[fact] || len(facts) >= limit {
			return
		}
		seen[fact] = true
		facts = append(facts, fact)
	}

	for _, item := range idx.faq {
		if len(facts) >= limit {
			return facts
		}
		if anyKeywordIn(q, item.Keywords) {
			for _, fact := range item.Facts {
				add(fact)
			}
		}
	}

	for _, rule := range configRules {
		if len(facts) >= limit {
			break
		}
		add(rule.eval(idx, q))
	}

	return facts
}

// packageFact fires when the query either hits enough of a package's own
// keywords or uses a generic package phrase.
func (idx *Index) packageFact(query string) string {
	items := idx.configMap("packages", "items")
	if len(items) == 0 {
		return ""
	}
	phrases := idx.configStrings("packages", "phrases")
	if len(phrases) == 0 {
		phrases = genericPackagePhrases
	}
	genericHit := anyKeywordIn(query, phrases)

	for _, id := range sortedKeys(items) {
		item, ok := items[id].(map[string]any)
		if !ok {
			continue
		}
		minHits := intValue(item["min_hits"], 2)
		hits := 0
		for _, kw := range stringList(item["keywords"]) {
			if strings.Contains(query, strings.ToLower(kw)) {
				hits++
			}
		}
		if hits >= minHits || (genericHit && hits > 0) {
			return stringValue(item["say"])
		}
	}
	if genericHit {
		// Generic phrase with no keyword hit: surface the first package.
		for _, id := range sortedKeys(items) {
			if item, ok := items[id].(map[string]any); ok {
				if say := stringValue(item["say"]); say != "" {
					return say
				}
			}
		}
	}
	return ""
}

// pricingFact surfaces the price line of the first service whose keywords
// appear in the query.
func (idx *Index) pricingFact(query string) string {
	items := idx.configMap("pricing", "items")
	for _, id := range sortedKeys(items) {
		item, ok := items[id].(map[string]any)
		if !ok {
			continue
		}
		if anyKeywordIn(query, stringList(item["keywords"])) {
			return stringValue(item["say"])
		}
	}
	return ""
}

// servicesFact lists the service catalog when the query names any of it.
func (idx *Index) servicesFact(query string) string {
	list := idx.configStrings("services", "list")
	if len(list) == 0 {
		return ""
	}
	keywords := idx.configStrings("services", "keywords")
	if !anyKeywordIn(query, keywords) {
		return ""
	}
	return "שירותים: " + strings.Join(list, ", ")
}

func modifierRule(name string) func(idx *Index, query string) string {
	return func(idx *Index, query string) string {
		mod := idx.configMap("modifiers", name)
		if mod == nil {
			return ""
		}
		if anyKeywordIn(query, stringList(mod["keywords"])) {
			return stringValue(mod["say"])
		}
		return ""
	}
}

// ---------- config navigation helpers ----------

func (idx *Index) configMap(path ...string) map[string]any {
	cur := idx.config
	for _, key := range path {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

func (idx *Index) configStrings(path ...string) []string {
	if len(path) == 0 {
		return nil
	}
	parent := idx.configMap(path[:len(path)-1]...)
	if parent == nil {
		return nil
	}
	return stringList(parent[path[len(path)-1]])
}

func stringList(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func intValue(v any, fallback int) int {
	if f, ok := v.(float64); ok {
		return int(f)
	}
	return fallback
}

func anyKeywordIn(query string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(query, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
