package extraction

import "strings"

// Strategy proposes a value for one field. An empty string means the strategy
// found nothing and the next one should be tried.
type Strategy func(p *page) string

// firstOf runs strategies in priority order and returns the first non-empty
// result. Later strategies are not evaluated once one succeeds.
func firstOf(p *page, strategies ...Strategy) string {
	for _, s := range strategies {
		if v := strings.TrimSpace(s(p)); v != "" {
			return v
		}
	}
	return ""
}

// literal always yields v; used as the final link of a chain that must not be empty.
func literal(v string) Strategy {
	return func(*page) string { return v }
}
