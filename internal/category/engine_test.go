package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_LearnedMappingWins(t *testing.T) {
	learned := map[string]string{"WHOLE FOODS": "Dining"}
	e := NewEngine(DefaultRules(), DefaultBankCategories(), learned)

	// Keyword rules say Grocery and the issuer says Groceries, but the
	// learned mapping takes priority over both.
	got := e.Resolve("WHOLE FOODS", "WHOLE FOODS MARKET 10001", "Groceries")
	assert.Equal(t, "Dining", got)
}

func TestResolve_LearnedPatternCaseInsensitive(t *testing.T) {
	e := NewEngine(nil, nil, map[string]string{"netflix.com": "Subscriptions"})

	assert.Equal(t, "Subscriptions", e.Resolve("NETFLIX.COM", "whatever", ""))
}

func TestResolve_KeywordOrder(t *testing.T) {
	rules := []Rule{
		{Category: "First", Keywords: []string{"coffee"}},
		{Category: "Second", Keywords: []string{"blue bottle"}},
	}
	e := NewEngine(rules, nil, nil)
	assert.Equal(t, "First", e.Resolve("BLUE BOTTLE COFFEE", "BLUE BOTTLE COFFEE", ""))

	reversed := []Rule{rules[1], rules[0]}
	e = NewEngine(reversed, nil, nil)
	assert.Equal(t, "Second", e.Resolve("BLUE BOTTLE COFFEE", "BLUE BOTTLE COFFEE", ""))
}

func TestResolve_KeywordCaseInsensitive(t *testing.T) {
	rules := []Rule{{Category: "Dining", Keywords: []string{"CAFE"}}}
	e := NewEngine(rules, nil, nil)

	assert.Equal(t, "Dining", e.Resolve("X", "corner cafe downtown", ""))
	assert.Equal(t, "Dining", e.Resolve("X", "CORNER CAFE DOWNTOWN", ""))
}

func TestResolve_BankCategoryTable(t *testing.T) {
	e := NewEngine(nil, DefaultBankCategories(), nil)

	assert.Equal(t, "Dining", e.Resolve("X", "no keyword here", "Restaurants"))
	assert.Equal(t, "Healthcare", e.Resolve("X", "no keyword here", "Health and Fitness"))

	// Unknown issuer categories do not pass through.
	assert.Equal(t, Other, e.Resolve("X", "no keyword here", "Pets"))
	assert.Equal(t, Other, e.Resolve("X", "no keyword here", ""))
}

func TestResolve_DefaultRules(t *testing.T) {
	e := NewEngine(DefaultRules(), DefaultBankCategories(), nil)

	cases := []struct {
		desc string
		want string
	}{
		{"PAYROLL ACME CORP", "Income"},
		{"AMERICAN AIRLINES TICKETS", "Airlines"}, // Airlines beats Entertainment's "tickets"
		{"NETFLIX.COM 8665797172", "Subscriptions"},
		{"STARBUCKS STORE 03125", "Dining"},
		{"SHELL OIL 57444123", "Gas"},
		{"ZELLE PAYMENT TO ALEX", "Transfer"},
		{"CVS PHARMACY 10023", "Healthcare"},
		{"UNKNOWN MERCHANT LLC", Other},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, e.Resolve("", tc.desc, ""))
		})
	}
}
