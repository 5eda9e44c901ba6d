package domain

import "strings"

// MinSuffixLen is the shortest normalized phone length allowed to participate
// in last-digits fallback matching. Shorter suffixes collide too often.
const MinSuffixLen = 4

// NormalizePhone reduces a free-form phone string to its digits. A leading
// "+" carries no information once the digits are compared directly.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneCandidates builds the ordered list of exact-lookup variants for a raw
// phone string: the string as entered, its normalized form, the normalized
// form with an explicit "+", and the normalized form carrying the business
// dial prefix (with any trunk "0" dropped) when it is not already present.
// Duplicates and empties are skipped so callers can query the list as-is.
func PhoneCandidates(raw, countryCode string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	normalized := NormalizePhone(trimmed)

	candidates := []string{trimmed, normalized, "+" + normalized}
	if countryCode != "" && normalized != "" && !strings.HasPrefix(normalized, countryCode) {
		national := strings.TrimPrefix(normalized, "0")
		candidates = append(candidates, countryCode+national)
		if national != normalized {
			candidates = append(candidates, countryCode+normalized)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" || c == "+" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// PhonesMatch is the fuzzy fallback used after every exact candidate has
// missed: one normalized number containing the other, or equal last four
// digits when both are long enough.
func PhonesMatch(rawA, rawB string) bool {
	a := NormalizePhone(rawA)
	b := NormalizePhone(rawB)
	if a == "" || b == "" {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	if len(a) >= MinSuffixLen && len(b) >= MinSuffixLen {
		return a[len(a)-MinSuffixLen:] == b[len(b)-MinSuffixLen:]
	}
	return false
}
