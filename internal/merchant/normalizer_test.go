package merchant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_StripsPrefixAndState(t *testing.T) {
	n := New(DefaultConfig())

	got := n.Normalize("FSP*TWO BLOKES BREWIMOUNT PLEASAN       SC")
	assert.Equal(t, "TWO BLOKES BREWIMOUNT PLEASAN", got)
}

func TestNormalize_Prefixes(t *testing.T) {
	n := New(DefaultConfig())

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"tst lowercase", "tst* one trick pony", "ONE TRICK PONY"},
		{"square with space", "SQ *BLUE BOTTLE COFFEE", "BLUE BOTTLE COFFEE"},
		{"ctlp", "CTLP*CHS AIRPORT PARKING", "CHS AIRPORT PARKING"},
		{"stacked prefixes", "TST*FSP*CAFE", "CAFE"},
		{"prefix not at start kept", "CAFE TST*", "CAFE TST*"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, n.Normalize(tc.in))
		})
	}
}

func TestNormalize_TrailingNoise(t *testing.T) {
	n := New(DefaultConfig())

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"state token", "ONE TRICK PONY CHARLESTON SC", "ONE TRICK PONY CHARLESTON"},
		{"zip", "HARRIS TEETER 29464", "HARRIS TEETER"},
		{"zip plus four", "WHOLE FOODS 10001-1234", "WHOLE FOODS"},
		{"state then zip", "HARRIS TEETER MOUNT PLEASANT SC 29464", "HARRIS TEETER MOUNT PLEASANT"},
		{"reference id run", "NETFLIX.COM 8665797172", "NETFLIX.COM"},
		{"short digits kept", "QT 123", "QT 123"},
		{"state mid-string kept", "SC FARMERS MARKET", "SC FARMERS MARKET"},
		{"whitespace collapsed", "  netflix.com   866579\t7172  ", "NETFLIX.COM 866579 7172"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, n.Normalize(tc.in))
		})
	}
}

func TestNormalize_FallbackWhenStrippedEmpty(t *testing.T) {
	n := New(DefaultConfig())

	// Stripping would leave nothing; the collapsed uppercased raw
	// string comes back instead.
	assert.Equal(t, "12345", n.Normalize("12345"))
	assert.Equal(t, "FSP*", n.Normalize("FSP*"))
	assert.Equal(t, "SC", n.Normalize("sc"))
	assert.Equal(t, "", n.Normalize("   "))
}

func TestNormalize_Idempotent(t *testing.T) {
	n := New(DefaultConfig())

	corpus := []string{
		"FSP*TWO BLOKES BREWIMOUNT PLEASAN       SC",
		"HARRIS TEETER MOUNT PLEASANT SC 29464",
		"SQ *BLUE BOTTLE COFFEE",
		"tst* one trick pony charleston sc",
		"NETFLIX.COM 8665797172",
		"netflix.com",
		"12345",
		"FSP*",
		"  spaced   out   merchant  ",
		"WHOLE FOODS 10001-1234",
		"AMERICAN AIRLINES 00123456789 TX",
	}
	for _, raw := range corpus {
		once := n.Normalize(raw)
		assert.Equal(t, once, n.Normalize(once), "normalize not idempotent for %q", raw)
	}
}

func TestNormalize_NeverEmptyForNonEmptyInput(t *testing.T) {
	n := New(DefaultConfig())

	for _, raw := range []string{"a", "1", "99999", "TST*", "SQ *", "GA", "-"} {
		assert.NotEmpty(t, n.Normalize(raw), "empty pattern for %q", raw)
	}
}

func TestNormalize_MinIDRunConfigurable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinIDRun = 4
	n := New(cfg)

	assert.Equal(t, "AMZN MKTP", n.Normalize("AMZN MKTP 1234"))

	// Default keeps four-digit tokens.
	assert.Equal(t, "AMZN MKTP 1234", New(DefaultConfig()).Normalize("AMZN MKTP 1234"))
}

func TestNew_ZeroMinIDRunUsesDefault(t *testing.T) {
	n := New(Config{Prefixes: []string{"FSP*"}, States: USStates()})

	require.Equal(t, "NETFLIX.COM", n.Normalize("NETFLIX.COM 8665797172"))
	assert.Equal(t, "QT 123", n.Normalize("QT 123"))
}
