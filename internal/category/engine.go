package category

import "strings"

// Other is the category of last resort.
const Other = "Other"

// Rule pairs a category with the keyword substrings that select it.
// Rule order is significant: the first matching category wins, so more
// specific categories must be listed before generic ones.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Engine resolves transaction categories from immutable rule tables and
// a snapshot of learned merchant mappings. Resolution performs no I/O
// and has no side effects.
type Engine struct {
	rules   []Rule
	bank    map[string]string
	learned map[string]string
}

// NewEngine builds an Engine from an ordered rule list, an issuer
// category table, and learned mappings keyed by merchant pattern.
func NewEngine(rules []Rule, bankCategories map[string]string, learned map[string]string) *Engine {
	e := &Engine{
		rules:   make([]Rule, len(rules)),
		bank:    make(map[string]string, len(bankCategories)),
		learned: make(map[string]string, len(learned)),
	}
	for i, r := range rules {
		kws := make([]string, len(r.Keywords))
		for j, kw := range r.Keywords {
			kws[j] = strings.ToLower(kw)
		}
		e.rules[i] = Rule{Category: r.Category, Keywords: kws}
	}
	for k, v := range bankCategories {
		e.bank[k] = v
	}
	for k, v := range learned {
		e.learned[strings.ToUpper(k)] = v
	}
	return e
}

// Resolve returns the category for one transaction. Priority order:
// learned mapping for the exact pattern, first keyword rule whose
// keyword occurs in the description (case-insensitive), issuer category
// mapped through the bank table, then Other.
func (e *Engine) Resolve(pattern, description, bankCategory string) string {
	if c, ok := e.learned[strings.ToUpper(pattern)]; ok {
		return c
	}

	desc := strings.ToLower(description)
	for _, r := range e.rules {
		for _, kw := range r.Keywords {
			if kw != "" && strings.Contains(desc, kw) {
				return r.Category
			}
		}
	}

	if bankCategory != "" {
		if c, ok := e.bank[bankCategory]; ok {
			return c
		}
	}
	return Other
}
