// Package match implements the contact-matching heuristic that reconciles
// an order's billing email/phone against CRM contact records.
package match

// NormalizePhone strips every non-digit character from a phone string,
// preserving digit order. An empty input maps to an empty output. No
// locale or country-code handling, purely character filtering.
func NormalizePhone(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
