package normalize

import "strings"

// Variants expands a requested location name into the spellings it may appear
// under upstream: the traditional/simplified 臺/台 swap, and 市/縣 suffix
// augmentation when no such suffix is present. Upstream naming is not
// consistent between "臺北市" and "台北市", or between city and county forms.
func Variants(location string) []string {
	if location == "" {
		return nil
	}

	variants := []string{location}
	if strings.Contains(location, "臺") {
		variants = append(variants, strings.ReplaceAll(location, "臺", "台"))
	} else if strings.Contains(location, "台") {
		variants = append(variants, strings.ReplaceAll(location, "台", "臺"))
	}

	for _, base := range variants[:len(variants):len(variants)] {
		if !strings.HasSuffix(base, "市") && !strings.HasSuffix(base, "縣") {
			variants = append(variants, base+"市", base+"縣")
		}
	}
	return variants
}

// MatchesLocation reports whether a candidate upstream name matches the
// requested location. An exact-equality pass over the variants short-circuits
// first; otherwise bidirectional substring containment counts as a match, so
// a district name matches its city and vice versa. An empty request matches
// everything.
func MatchesLocation(candidate, requested string) bool {
	if requested == "" {
		return true
	}
	if candidate == "" {
		return false
	}

	variants := Variants(requested)
	for _, v := range variants {
		if candidate == v {
			return true
		}
	}
	for _, v := range variants {
		if strings.Contains(candidate, v) || strings.Contains(v, candidate) {
			return true
		}
	}
	return false
}

// matchesAnyLocation reports whether any of the candidate names matches.
func matchesAnyLocation(candidates []string, requested string) bool {
	if requested == "" {
		return true
	}
	for _, c := range candidates {
		if MatchesLocation(c, requested) {
			return true
		}
	}
	return false
}
