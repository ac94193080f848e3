package cwa

import (
	"fmt"
	"strconv"
	"strings"
)

// unknownValue marks readings the upstream encodes with out-of-band sentinels.
const unknownValue = "未知"

// reshapeRainfall flattens the rainfall endpoint's Station list into the
// canonical records.location shape shared by the other endpoints. Bookkeeping
// keys inside RainfallElement are dropped. When no Station field is present
// the records pass through unchanged for the normalizer to reject.
func reshapeRainfall(records map[string]any) map[string]any {
	stations, ok := records["Station"].([]any)
	if !ok {
		return records
	}

	locations := make([]any, 0, len(stations))
	for _, entry := range stations {
		station, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		elements := make([]any, 0)
		if rainfall, ok := station["RainfallElement"].(map[string]any); ok {
			for name, value := range rainfall {
				if name == "RecordTime" || name == "Status" {
					continue
				}
				elements = append(elements, map[string]any{
					"elementName":  name,
					"elementValue": value,
				})
			}
		}

		locations = append(locations, map[string]any{
			"locationName": str(station["CountyName"]),
			"time": map[string]any{
				"obsTime": str(asMap(station["ObsTime"])["DateTime"]),
			},
			"weatherElement": elements,
		})
	}

	return map[string]any{"location": locations}
}

// reshapeObservation converts live station snapshots into the canonical
// records.location shape: sentinel readings become an explicit unknown marker
// and the display name is composed from county, town, and station name.
func reshapeObservation(records map[string]any) (map[string]any, error) {
	stations, ok := records["Station"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing Station data", ErrInvalidResponse)
	}

	locations := make([]any, 0, len(stations))
	for _, entry := range stations {
		station, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		obsTime := unknownValue
		if t := str(asMap(station["ObsTime"])["DateTime"]); t != "" {
			obsTime = t
		}

		geo := asMap(station["GeoInfo"])
		county := strOr(geo["CountyName"], unknownValue)
		town := strOr(geo["TownName"], unknownValue)
		stationName := strOr(station["StationName"], unknownValue)

		readings := map[string]any{}
		if we, ok := station["WeatherElement"].(map[string]any); ok {
			now := asMap(we["Now"])
			readings = map[string]any{
				"TEMP":                  scrubSentinel(we["AirTemperature"]),
				"HUMD":                  scrubSentinel(we["RelativeHumidity"]),
				"PRES":                  scrubSentinel(we["AirPressure"]),
				"WDIR":                  scrubSentinel(we["WindDirection"]),
				"WDSD":                  scrubSentinel(we["WindSpeed"]),
				"24R":                   scrubSentinel(now["Precipitation"]),
				"Weather":               strOr(we["Weather"], unknownValue),
				"VisibilityDescription": strOr(we["VisibilityDescription"], unknownValue),
				"SunshineDuration":      scrubSentinel(we["SunshineDuration"]),
				"UVIndex":               scrubSentinel(we["UVIndex"]),
			}
		}

		elements := make([]any, 0, len(readings))
		for name, value := range readings {
			elements = append(elements, map[string]any{
				"elementName":  name,
				"elementValue": value,
			})
		}

		locations = append(locations, map[string]any{
			"locationName": fmt.Sprintf("%s%s %s", county, town, stationName),
			"countyName":   county,
			"townName":     town,
			"stationName":  stationName,
			"time": map[string]any{
				"obsTime": obsTime,
			},
			"weatherElement": elements,
		})
	}

	records["location"] = locations
	return records, nil
}

// reshapeWarnings synthesizes the legacy flat record list when the newer
// location/hazardConditions/hazards shape is returned, so downstream logic
// never needs to know which variant arrived. Neither shape present means no
// active warnings, not an error.
func reshapeWarnings(records map[string]any) map[string]any {
	if _, ok := records["record"].([]any); ok {
		return records
	}

	flat := make([]any, 0)
	if locations, ok := records["location"].([]any); ok {
		for _, entry := range locations {
			loc, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			locName := strOr(loc["locationName"], unknownValue)

			hazards, ok := asMap(loc["hazardConditions"])["hazards"].([]any)
			if !ok {
				continue
			}
			for _, h := range hazards {
				hazard, ok := h.(map[string]any)
				if !ok {
					continue
				}
				info, ok := hazard["info"].(map[string]any)
				if !ok {
					continue
				}
				validTime := asMap(hazard["validTime"])
				flat = append(flat, map[string]any{
					"locationName": []any{locName},
					"phenomena":    strOr(info["phenomena"], unknownValue),
					"significance": strOr(info["significance"], unknownValue),
					"validTime": map[string]any{
						"startTime": strOr(validTime["startTime"], unknownValue),
						"endTime":   strOr(validTime["endTime"], unknownValue),
					},
				})
			}
		}
	}

	records["record"] = flat
	return records
}

// scrubSentinel maps the out-of-band "unavailable" markers (-99, -99.0, -990)
// to the explicit unknown value, passing everything else through.
func scrubSentinel(v any) any {
	switch val := v.(type) {
	case nil:
		return unknownValue
	case float64:
		if val == -99 || val == -990 {
			return unknownValue
		}
		return val
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			if f == -99 || f == -990 {
				return unknownValue
			}
		}
		if val == "" {
			return unknownValue
		}
		return val
	default:
		return v
	}
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}
