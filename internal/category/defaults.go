package category

// DefaultRules returns the built-in ordered keyword rules. Transfer is
// last so that payment plumbing never shadows a real spending category.
func DefaultRules() []Rule {
	return []Rule{
		{Category: "Income", Keywords: []string{
			"payroll", "salary", "interest paid", "platinum lululemon credit",
			"platinum amex credit", "cashback", "refund", "reimbursement",
		}},
		{Category: "Travel", Keywords: []string{
			"amex fine hotels", "hotel collectn", "amextravel", "airbnb", "vrbo",
			"booking.com",
		}},
		{Category: "Airlines", Keywords: []string{
			"american airlines", "delta", "united airlines", "southwest",
			"jetblue", "airline",
		}},
		{Category: "Software/Tech", Keywords: []string{
			"digitalocean", "supabase", "jetbrains", "github", "aws",
			"google cloud", "vercel", "openai",
		}},
		{Category: "Subscriptions", Keywords: []string{
			"membership fee", "spotify", "netflix", "hulu", "apple music",
			"youtube premium", "apple.com/bill", "apple services", "nytimes",
			"aplpay nytimes",
		}},
		{Category: "Insurance", Keywords: []string{
			"geico", "state farm", "progressive", "bcbs", "blue cross",
			"insurance", "ethos",
		}},
		{Category: "Grocery", Keywords: []string{
			"grocery", "burbage", "food lion", "kroger", "whole foods",
			"trader joe", "publix", "safeway", "harris teeter", "wegmans",
		}},
		{Category: "Dining", Keywords: []string{
			"restaurant", "sugar", "malagon", "southbound", "tippling",
			"by the way", "merci", "cafe", "coffee", "one trick pony",
			"starbucks", "pizza", "burger", "grill", "bar", "bistro", "diner",
			"tst*", "fsp*blue",
		}},
		{Category: "Shopping", Keywords: []string{
			"amazon", "aplpay amazon", "amazon mktpl", "mktpl", "target",
			"walmart", "retail", "store", "shop", "mall", "lululemon", "j crew",
		}},
		{Category: "Gas", Keywords: []string{
			"circle k", "shell", "exxonmobil", "bp", "chevron", "gas station",
			"fuel", "citgo", "marathon", "sunoco", "wawa", "buc-ee", "qt ",
			"refuel", "parkers",
		}},
		{Category: "Sports/Exercise", Keywords: []string{
			"gym", "fitness", "yoga", "crossfit", "peloton", "strava",
			"marathon", "race", "running", "cycling", "swim", "athletic",
			"sports", "workout",
		}},
		{Category: "Transportation", Keywords: []string{
			"uber", "lyft", "transit", "airport parking", "chs airport",
			"toll", "ultrasignup",
		}},
		{Category: "Utilities", Keywords: []string{
			"dominion", "comcast", "xfinity", "electric", "power", "water",
			"gas company", "internet", "phone", "cellular", "verizon", "at&t",
		}},
		{Category: "Healthcare", Keywords: []string{
			"pharmacy", "cvs", "walgreens", "medical", "doctor", "hospital",
		}},
		{Category: "Entertainment", Keywords: []string{
			"movie", "theater", "concert", "show", "tickets",
		}},
		{Category: "Transfer", Keywords: []string{
			"check paid", "check number", "check deposit", "mobile payment",
			"autopay payment", "applecard gsbank", "amex epayment", "amex dps",
			"venmo", "zelle", "transfer to", "transfer from", "funds transfer",
			"overdraft transfer", "payment received", "capital one",
			"pmt*charleston",
		}},
	}
}

// DefaultBankCategories returns the issuer category normalization
// table. Issuer categories missing from the table do not resolve; the
// transaction falls through to Other.
func DefaultBankCategories() map[string]string {
	return map[string]string{
		"Restaurants":        "Dining",
		"Food and Drink":     "Dining",
		"Groceries":          "Grocery",
		"Gas Stations":       "Gas",
		"Entertainment":      "Entertainment",
		"Shopping":           "Shopping",
		"Travel":             "Travel",
		"Transportation":     "Transportation",
		"Health and Fitness": "Healthcare",
		"Services":           "Other",
	}
}
