package normalize

import "testing"

func TestFieldResolverAliasOrder(t *testing.T) {
	obj := map[string]any{
		"ElementName": "MaxT",
		"elementName": "Wx",
	}
	key, ok := elementNameField.key(obj)
	if !ok || key != "elementName" {
		t.Errorf("key = %q, want the higher-priority alias elementName", key)
	}
}

func TestFieldResolverTokenFallback(t *testing.T) {
	obj := map[string]any{
		"WeatherElems": []any{map[string]any{}},
		"LocationName": "臺北市",
	}
	key, ok := weatherElementField.key(obj)
	if !ok || key != "WeatherElems" {
		t.Errorf("key = %q, want token-scan hit WeatherElems", key)
	}
}

func TestFieldResolverWantListRejectsScalars(t *testing.T) {
	obj := map[string]any{
		"weatherElement": "not a list",
	}
	if _, ok := weatherElementField.lookupList(obj); ok {
		t.Error("scalar value should not satisfy a list-valued role")
	}
}

func TestFieldResolverDefault(t *testing.T) {
	key, ok := elementNameField.key(map[string]any{"foo": 1})
	if ok {
		t.Error("default resolution should not report a confirmed hit")
	}
	if key != "elementName" {
		t.Errorf("key = %q, want the hardcoded default", key)
	}
}

func TestFieldResolverMissing(t *testing.T) {
	if _, ok := timeField.lookup(map[string]any{"other": 1}); ok {
		t.Error("expected no resolution for a role without default")
	}
}

func TestFieldResolverSkipsEmptyValues(t *testing.T) {
	obj := map[string]any{
		"weatherElement": []any{},
		"WeatherElement": []any{map[string]any{"elementName": "Wx"}},
	}
	key, ok := weatherElementField.key(obj)
	if !ok || key != "WeatherElement" {
		t.Errorf("key = %q, want empty first alias skipped", key)
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *float64
	}{
		{"number", 25.5, ptr(25.5)},
		{"integer string", "30", ptr(30)},
		{"decimal string", "27.5", ptr(27.5)},
		{"unknown marker", "未知", nil},
		{"empty string", "", nil},
		{"mixed text", "30%", nil},
		{"two dots", "1.2.3", nil},
		{"lone dot", ".", nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toFloat(tt.in)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("toFloat(%v) = %v, want nil", tt.in, *got)
			case tt.want != nil && got == nil:
				t.Errorf("toFloat(%v) = nil, want %v", tt.in, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("toFloat(%v) = %v, want %v", tt.in, *got, *tt.want)
			}
		})
	}
}

func TestDisplayValue(t *testing.T) {
	if got := displayValue(25.0); got != "25" {
		t.Errorf("displayValue(25.0) = %q, want 25", got)
	}
	if got := displayValue("晴"); got != "晴" {
		t.Errorf("displayValue string = %q", got)
	}
}

func ptr(f float64) *float64 { return &f }
