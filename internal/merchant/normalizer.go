package merchant

import "strings"

// Config holds the rule tables for merchant normalization.
type Config struct {
	Prefixes []string // payment-processor prefixes stripped from the start
	States   []string // 2-letter abbreviations stripped from the end
	MinIDRun int      // minimum digit-run length treated as a reference ID
}

// DefaultConfig returns the built-in normalization rules.
func DefaultConfig() Config {
	return Config{
		Prefixes: []string{"FSP*", "TST*", "CTLP*", "SQ *"},
		States:   USStates(),
		MinIDRun: 5,
	}
}

// Normalizer reduces a raw merchant or description string to a canonical
// merchant pattern. Normalization is deterministic and idempotent:
// normalizing an already-normalized pattern yields the pattern itself.
type Normalizer struct {
	prefixes []string
	states   map[string]struct{}
	minIDRun int
}

// New creates a Normalizer from a Config. A zero MinIDRun falls back to
// the default run length.
func New(cfg Config) *Normalizer {
	n := &Normalizer{
		prefixes: make([]string, len(cfg.Prefixes)),
		states:   make(map[string]struct{}, len(cfg.States)),
		minIDRun: cfg.MinIDRun,
	}
	for i, p := range cfg.Prefixes {
		n.prefixes[i] = strings.ToUpper(p)
	}
	for _, s := range cfg.States {
		n.states[strings.ToUpper(s)] = struct{}{}
	}
	if n.minIDRun < 1 {
		n.minIDRun = DefaultConfig().MinIDRun
	}
	return n
}

// Normalize converts a raw string to its merchant pattern: processor
// prefixes stripped from the front, trailing state / ZIP / reference-ID
// tokens stripped from the back, whitespace collapsed, uppercased.
// Stripping repeats until stable. If it would empty the string, the
// collapsed uppercased raw string is returned instead, so the result is
// never empty for non-empty input.
func (n *Normalizer) Normalize(raw string) string {
	base := collapse(strings.ToUpper(raw))
	if base == "" {
		return ""
	}

	s := base
	for {
		stripped := false
		for _, p := range n.prefixes {
			if strings.HasPrefix(s, p) {
				s = strings.TrimLeft(s[len(p):], " ")
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}

	fields := strings.Fields(s)
	for len(fields) > 0 {
		last := fields[len(fields)-1]
		if !n.isNoise(last) {
			break
		}
		fields = fields[:len(fields)-1]
	}

	if len(fields) == 0 {
		return base
	}
	return strings.Join(fields, " ")
}

// isNoise reports whether a trailing token is a state abbreviation, a
// ZIP code, or a long digit run.
func (n *Normalizer) isNoise(tok string) bool {
	if _, ok := n.states[tok]; ok {
		return true
	}
	if isZip(tok) {
		return true
	}
	return len(tok) >= n.minIDRun && allDigits(tok)
}

// isZip matches 5-digit ZIP codes, optionally with a -4 suffix.
func isZip(tok string) bool {
	if len(tok) == 5 {
		return allDigits(tok)
	}
	if len(tok) == 10 && tok[5] == '-' {
		return allDigits(tok[:5]) && allDigits(tok[6:])
	}
	return false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
