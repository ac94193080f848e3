package normalize

import "strings"

// fieldResolver locates one structural role inside a generic JSON object when
// the upstream key spelling is not fixed. Resolution tries the ordered alias
// list first, then a case-insensitive token scan over the available keys, then
// the hardcoded default. Keeping the fallback policy in one type keeps it
// testable apart from any one endpoint schema.
type fieldResolver struct {
	aliases  []string
	tokens   []string
	fallback string
	wantList bool
}

var (
	weatherElementField = fieldResolver{
		aliases:  []string{"weatherElement", "WeatherElement", "weather_element", "Weather_Element"},
		tokens:   []string{"element", "weather"},
		wantList: true,
	}
	elementNameField = fieldResolver{
		aliases:  []string{"elementName", "ElementName", "name", "Name", "element_name", "Element_Name"},
		tokens:   []string{"name", "element"},
		fallback: "elementName",
	}
	timeField = fieldResolver{
		aliases: []string{"time", "Time"},
	}
	startTimeField = fieldResolver{
		aliases: []string{"startTime", "StartTime"},
	}
	endTimeField = fieldResolver{
		aliases: []string{"endTime", "EndTime"},
	}
	elementValueField = fieldResolver{
		aliases: []string{"elementValue", "ElementValue"},
	}
	parameterField = fieldResolver{
		aliases: []string{"parameter", "Parameter"},
	}
)

// key returns the concrete key under which the role lives in obj, or the
// resolver's default when nothing is found.
func (r fieldResolver) key(obj map[string]any) (string, bool) {
	for _, alias := range r.aliases {
		if v, ok := obj[alias]; ok && !emptyValue(v) {
			if r.wantList {
				if _, isList := v.([]any); !isList {
					continue
				}
			}
			return alias, true
		}
	}

	for key, v := range obj {
		lower := strings.ToLower(key)
		for _, token := range r.tokens {
			if strings.Contains(lower, token) {
				if r.wantList {
					if _, isList := v.([]any); !isList {
						continue
					}
				}
				return key, true
			}
		}
	}

	if r.fallback != "" {
		return r.fallback, false
	}
	return "", false
}

// lookup resolves the role and returns its value.
func (r fieldResolver) lookup(obj map[string]any) (any, bool) {
	key, ok := r.key(obj)
	if !ok && key == "" {
		return nil, false
	}
	v, present := obj[key]
	if !present || emptyValue(v) {
		return nil, false
	}
	return v, true
}

// lookupString resolves the role to a string value.
func (r fieldResolver) lookupString(obj map[string]any) (string, bool) {
	v, ok := r.lookup(obj)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// lookupList resolves the role to a list value.
func (r fieldResolver) lookupList(obj map[string]any) ([]any, bool) {
	v, ok := r.lookup(obj)
	if !ok {
		return nil, false
	}
	l, ok := v.([]any)
	return l, ok
}

func emptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

// firstString returns the first present non-empty string among the given keys.
func firstString(obj map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}
