package normalize

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/twweather/taiwan-weather-mcp/internal/models"
)

var (
	ErrLocationNotFound = errors.New("no matching location")
	ErrMissingStructure = errors.New("missing expected structure")
)

// compositeDescription is the verbose 7-day element surfaced by default.
const compositeDescription = "天氣預報綜合描述"

// ForecastRequest carries the caller's forecast arguments. ElementTypes only
// applies to the 7-day schema.
type ForecastRequest struct {
	Location     string
	ForecastType string
	ElementTypes []string
}

// timeKey identifies one forecast window. Times are compared as opaque
// strings; output ordering is lexicographic on (start, end).
type timeKey struct {
	start string
	end   string
}

// periodAccum folds every weather element sharing one time window into the
// canonical fields plus a full-fidelity raw element map.
type periodAccum struct {
	weather     string
	weatherCode string
	description string
	comfort     string
	maxT        *float64
	minT        *float64
	pop         *float64
	elements    map[string]any
}

// Forecast normalizes a validated forecast payload into per-location results.
// The schema variant is detected from the records shape: the 36-hour endpoint
// nests locations under records.location, the 7-day endpoint under
// records.Locations with old and new sub-variants.
func Forecast(records map[string]any, req ForecastRequest) ([]models.ForecastResult, error) {
	if locations, ok := records["location"].([]any); ok {
		return forecast36H(locations, req), nil
	}
	if _, ok := records["Locations"]; ok {
		return forecast7D(records, req), nil
	}
	return nil, fmt.Errorf("%w: records carry no location data", ErrMissingStructure)
}

// Collapse applies the single/multi result shaping: one match is returned
// unwrapped, several are wrapped under a locations list, zero is a not-found
// failure naming the request.
func Collapse(results []models.ForecastResult, requested string) (any, error) {
	switch len(results) {
	case 0:
		if requested != "" {
			return nil, fmt.Errorf("%w: 找不到 %s 的天氣預報資料", ErrLocationNotFound, requested)
		}
		return nil, fmt.Errorf("%w: 無法取得天氣預報資料", ErrLocationNotFound)
	case 1:
		return results[0], nil
	default:
		return models.ForecastResultSet{Locations: results}, nil
	}
}

func forecast36H(locations []any, req ForecastRequest) []models.ForecastResult {
	results := make([]models.ForecastResult, 0, len(locations))
	for _, entry := range locations {
		loc, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name := asString(loc["locationName"])
		if !MatchesLocation(name, req.Location) {
			continue
		}

		accums := foldElements(loc, nil)
		periods := make([]models.ForecastPeriod, 0, len(accums))
		for _, key := range sortedKeys(accums) {
			acc := accums[key]
			weather := acc.weather
			if weather == "" {
				weather = unknownValue
			}
			periods = append(periods, models.ForecastPeriod{
				StartTime:                key.start,
				EndTime:                  key.end,
				Weather:                  weather,
				WeatherCode:              acc.weatherCode,
				MaxTemperature:           acc.maxT,
				MinTemperature:           acc.minT,
				PrecipitationProbability: acc.pop,
				ComfortIndex:             acc.comfort,
			})
		}
		if len(periods) == 0 {
			continue
		}
		results = append(results, models.ForecastResult{
			Location:     name,
			ForecastType: "36h",
			Forecasts:    periods,
		})
	}
	return results
}

func forecast7D(records map[string]any, req ForecastRequest) []models.ForecastResult {
	locations := flattenLocationGroups(records["Locations"])

	results := make([]models.ForecastResult, 0, len(locations))
	for _, entry := range locations {
		loc, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, ok := firstString(loc, "LocationName", "locationName")
		if !ok {
			continue
		}

		// A nested district that matches the request supersedes its parent.
		if req.Location != "" && !MatchesLocation(name, req.Location) {
			district, districtName := matchingDistrict(loc, req.Location)
			if district == nil {
				continue
			}
			loc = district
			name = districtName
		}

		var available []string
		accums := foldElements(loc, &available)

		result := models.ForecastResult{
			Location:              name,
			ForecastType:          "7d",
			AvailableElementTypes: available,
		}

		defaultMode := len(req.ElementTypes) == 0 ||
			(len(req.ElementTypes) == 1 && req.ElementTypes[0] == compositeDescription)

		// Elements run on their own time windows (the temperature elements are
		// daily, the composite twice-daily), so a window is surfaced only when
		// the element being shown actually covers it.
		for _, key := range sortedKeys(accums) {
			acc := accums[key]
			if defaultMode {
				if acc.description == "" {
					continue
				}
				result.Forecasts = append(result.Forecasts, models.ForecastPeriod{
					StartTime:          key.start,
					EndTime:            key.end,
					WeatherDescription: acc.description,
				})
				continue
			}

			requested := map[string]any{}
			for _, want := range req.ElementTypes {
				if raw, ok := acc.elements[want]; ok {
					requested[want] = raw
				}
			}
			if len(requested) == 0 {
				continue
			}
			result.Forecasts = append(result.Forecasts, models.ForecastPeriod{
				StartTime:       key.start,
				EndTime:         key.end,
				WeatherElements: requested,
			})
		}
		if len(result.Forecasts) == 0 {
			continue
		}

		if len(req.ElementTypes) == 0 && len(available) > 0 {
			sample := available
			if len(sample) > 5 {
				sample = sample[:5]
			}
			result.Message = fmt.Sprintf(
				"目前只顯示天氣預報綜合描述。您也可以查詢其他天氣資料類型，例如：%s等。請在查詢時指定 element_types 參數。",
				strings.Join(sample, "、"))
		}
		results = append(results, result)
	}
	return results
}

// flattenLocationGroups handles both 7-day sub-variants: Locations as a list
// of groups each carrying a Location list, or a single group object.
func flattenLocationGroups(v any) []any {
	switch groups := v.(type) {
	case []any:
		var out []any
		for _, g := range groups {
			if group, ok := g.(map[string]any); ok {
				out = append(out, asList(group["Location"])...)
			}
		}
		return out
	case map[string]any:
		return asList(groups["Location"])
	default:
		return nil
	}
}

func matchingDistrict(loc map[string]any, requested string) (map[string]any, string) {
	for _, d := range asList(loc["Districts"]) {
		district, ok := d.(map[string]any)
		if !ok {
			continue
		}
		name, _ := firstString(district, "DistrictName", "districtName")
		if name != "" && MatchesLocation(name, requested) {
			return district, name
		}
	}
	return nil, ""
}

// foldElements walks every weather element of a location and accumulates one
// periodAccum per time window. A missing structural role on an element skips
// that element, never the location. When names is non-nil the element names
// are also collected in encounter order for the availability hint.
func foldElements(loc map[string]any, names *[]string) map[timeKey]*periodAccum {
	accums := map[timeKey]*periodAccum{}

	elements, ok := weatherElementField.lookupList(loc)
	if !ok {
		return accums
	}

	seen := map[string]bool{}
	for _, e := range elements {
		element, ok := e.(map[string]any)
		if !ok {
			continue
		}
		elementName, _ := elementNameField.lookupString(element)
		if elementName == "" {
			elementName = unknownValue
		}
		if names != nil && !seen[elementName] {
			seen[elementName] = true
			*names = append(*names, elementName)
		}

		periods, ok := timeField.lookupList(element)
		if !ok {
			continue
		}
		for _, p := range periods {
			period, ok := p.(map[string]any)
			if !ok {
				continue
			}
			start, okStart := startTimeField.lookupString(period)
			end, okEnd := endTimeField.lookupString(period)
			if !okStart || !okEnd {
				continue
			}

			key := timeKey{start: start, end: end}
			acc := accums[key]
			if acc == nil {
				acc = &periodAccum{elements: map[string]any{}}
				accums[key] = acc
			}
			acc.elements[elementName] = element
			acc.absorb(elementName, period)
		}
	}
	return accums
}

// absorb extracts the canonical fields for one element within one time
// window, handling the 36-hour parameter sub-object and every observed
// 7-day elementValue sub-variant. Alias entries for legacy element names are
// kept deliberately; it is unclear which upstream payload versions are still
// live.
func (acc *periodAccum) absorb(elementName string, period map[string]any) {
	if values, ok := elementValueField.lookupList(period); ok {
		acc.absorbElementValue(elementName, period, values)
		return
	}
	if param := asMap(mustLookup(parameterField, period)); param != nil {
		acc.absorbParameter(elementName, param)
	}
}

func (acc *periodAccum) absorbElementValue(elementName string, period map[string]any, values []any) {
	first := asMap(values[0])

	switch elementName {
	case compositeDescription:
		if first == nil {
			return
		}
		description, ok := firstString(first, "value", "Value", "WeatherDescription", "weatherDescription")
		if !ok {
			description = fmt.Sprintf("%v", first)
		}
		acc.description = description
		if acc.weather == "" {
			acc.weather = description
		}
	case "天氣現象":
		if first == nil {
			return
		}
		if w, ok := first["Weather"].(string); ok {
			acc.weather = w
			acc.weatherCode = asString(first["WeatherCode"])
			return
		}
		if w, ok := first["value"].(string); ok {
			acc.weather = w
			if len(values) > 1 {
				acc.weatherCode = asString(asMap(values[1])["value"])
			}
		}
	case "Wx":
		if first == nil {
			return
		}
		if w, ok := first["value"].(string); ok {
			acc.weather = w
			if len(values) > 1 {
				acc.weatherCode = asString(asMap(values[1])["value"])
			}
		}
	case "MaxT":
		if v, ok := first["value"]; ok {
			acc.maxT = toFloat(v)
		}
	case "MinT":
		if v, ok := first["value"]; ok {
			acc.minT = toFloat(v)
		}
	case "最高溫度":
		acc.maxT = extractTemperature(period, "MaxTemperature")
	case "最低溫度":
		acc.minT = extractTemperature(period, "MinTemperature")
	case "PoP", "降雨機率":
		if first == nil {
			return
		}
		if v, ok := pickValue(first, "value", "Value", "parameterName", "ParameterName"); ok {
			acc.pop = toFloat(v)
		}
	case "12小時降雨機率":
		if first == nil {
			return
		}
		if v, ok := first["ProbabilityOfPrecipitation"]; ok {
			acc.pop = toFloat(v)
		}
	case "CI":
		if first != nil {
			acc.comfort = asString(first["value"])
		}
	}
}

func (acc *periodAccum) absorbParameter(elementName string, param map[string]any) {
	name := asString(param["parameterName"])
	if name == "" {
		return
	}
	switch elementName {
	case "Wx":
		acc.weather = name
		acc.weatherCode = asString(param["parameterValue"])
	case "MaxT":
		acc.maxT = toFloat(name)
	case "MinT":
		acc.minT = toFloat(name)
	case "PoP":
		acc.pop = toFloat(name)
	case "CI":
		acc.comfort = name
	}
}

// extractTemperature covers the observed spellings for the verbose 7-day
// temperature elements: list or object values under four container keys, with
// the canonical field name tried before the generic fallbacks.
func extractTemperature(period map[string]any, canonical string) *float64 {
	for _, containerKey := range []string{"elementValue", "ElementValue", "parameter", "Parameter"} {
		container, present := period[containerKey]
		if !present || emptyValue(container) {
			continue
		}
		switch c := container.(type) {
		case []any:
			if first := asMap(c[0]); first != nil {
				if v, ok := pickValue(first, canonical, "value", "Value", "parameterName", "ParameterName"); ok {
					return toFloat(v)
				}
			}
		case map[string]any:
			if v, ok := pickValue(c, "parameterName", "ParameterName", "value", "Value"); ok {
				return toFloat(v)
			}
		}
		return nil
	}
	return nil
}

func pickValue(obj map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func mustLookup(r fieldResolver, obj map[string]any) any {
	v, _ := r.lookup(obj)
	return v
}

func sortedKeys(accums map[timeKey]*periodAccum) []timeKey {
	keys := make([]timeKey, 0, len(accums))
	for key := range accums {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].start != keys[j].start {
			return keys[i].start < keys[j].start
		}
		return keys[i].end < keys[j].end
	})
	return keys
}
