package normalize

import (
	"sort"
	"testing"
)

func TestVariants(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     []string
	}{
		{"traditional with suffix", "臺北市", []string{"臺北市", "台北市"}},
		{"simplified with suffix", "台北市", []string{"台北市", "臺北市"}},
		{"no suffix", "台北", []string{"台北", "臺北", "台北市", "台北縣", "臺北市", "臺北縣"}},
		{"county suffix", "宜蘭縣", []string{"宜蘭縣"}},
		{"no special chars", "高雄", []string{"高雄", "高雄市", "高雄縣"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Variants(tt.location)
			sort.Strings(got)
			want := append([]string(nil), tt.want...)
			sort.Strings(want)
			if len(got) != len(want) {
				t.Fatalf("Variants(%q) = %v, want %v", tt.location, got, tt.want)
			}
			for i := range got {
				if got[i] != want[i] {
					t.Errorf("Variants(%q) = %v, want %v", tt.location, got, tt.want)
					break
				}
			}
		})
	}
}

func TestMatchesLocation(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		requested string
		want      bool
	}{
		{"exact", "臺北市", "臺北市", true},
		{"character variant", "臺北市", "台北市", true},
		{"reverse character variant", "台北市", "臺北市", true},
		{"suffix added", "臺北市", "臺北", true},
		{"district under city", "臺北市信義區", "臺北市", true},
		{"city under district request", "臺北市", "臺北市信義區", true},
		{"no match", "高雄市", "臺北市", false},
		{"empty request matches all", "高雄市", "", true},
		{"empty candidate", "", "臺北市", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesLocation(tt.candidate, tt.requested); got != tt.want {
				t.Errorf("MatchesLocation(%q, %q) = %v, want %v", tt.candidate, tt.requested, got, tt.want)
			}
		})
	}
}

func TestCharacterVariantsMatchSameSet(t *testing.T) {
	upstream := []string{"臺北市", "台中市", "高雄市", "基隆市"}

	matchSet := func(requested string) []string {
		var matched []string
		for _, name := range upstream {
			if MatchesLocation(name, requested) {
				matched = append(matched, name)
			}
		}
		return matched
	}

	pairs := [][2]string{
		{"臺北市", "台北市"},
		{"臺中", "台中"},
		{"臺北", "台北"},
	}
	for _, pair := range pairs {
		a, b := matchSet(pair[0]), matchSet(pair[1])
		if len(a) != len(b) {
			t.Fatalf("matches for %q (%v) differ from %q (%v)", pair[0], a, pair[1], b)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("matches for %q (%v) differ from %q (%v)", pair[0], a, pair[1], b)
			}
		}
	}
}

func TestSuffixedQueryIsSubsetOfUnsuffixed(t *testing.T) {
	upstream := []string{"臺北市", "臺北市信義區", "新北市", "臺東縣"}

	matchSet := func(requested string) map[string]bool {
		matched := map[string]bool{}
		for _, name := range upstream {
			if MatchesLocation(name, requested) {
				matched[name] = true
			}
		}
		return matched
	}

	base := matchSet("臺北")
	for _, suffix := range []string{"市", "縣"} {
		for name := range matchSet("臺北" + suffix) {
			if !base[name] {
				t.Errorf("suffixed query 臺北%s matched %q which unsuffixed query missed", suffix, name)
			}
		}
	}
}
