package normalize

import (
	"fmt"
	"strconv"

	"github.com/twweather/taiwan-weather-mcp/internal/models"
)

// RainfallLimits caps rainfall station output. The caps are product
// decisions to bound response size for a model context window, so they stay
// configurable rather than hardcoded.
type RainfallLimits struct {
	Filtered   int
	Unfiltered int
}

// Rainfall projects the flattened rainfall station list. Stations with a
// blank name are kept and labeled (the requested location when one was given,
// a numbered fallback otherwise); every output entry carries a non-empty
// location.
func Rainfall(records map[string]any, location string, limits RainfallLimits) []models.Observation {
	stations := asList(records["location"])

	limit := limits.Unfiltered
	if location != "" {
		limit = limits.Filtered
	}

	observations := make([]models.Observation, 0, len(stations))
	unnamed := 0
	for _, entry := range stations {
		if len(observations) >= limit {
			break
		}
		station, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		name := asString(station["locationName"])
		if location != "" && name != "" && !MatchesLocation(name, location) {
			continue
		}
		if name == "" {
			if location != "" {
				name = location
			} else {
				unnamed++
				name = "觀測站點" + strconv.Itoa(unnamed)
			}
		}

		measurements := map[string]any{}
		for _, e := range asList(station["weatherElement"]) {
			element := asMap(e)
			if elementName := asString(element["elementName"]); elementName != "" {
				measurements[elementName] = element["elementValue"]
			}
		}

		observations = append(observations, models.Observation{
			Location:     name,
			Time:         stringOr(asMap(station["time"])["obsTime"], unknownValue),
			Measurements: measurements,
		})
	}
	return observations
}

// Observations projects live station snapshots, filtered by location against
// the station's county, town, station name, and composed display name. The
// full element map is kept alongside the derived display fields.
func Observations(records map[string]any, location string) []models.Observation {
	stations := asList(records["location"])

	observations := make([]models.Observation, 0, len(stations))
	for _, entry := range stations {
		station, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		name := stringOr(station["locationName"], unknownValue)
		candidates := []string{
			name,
			asString(station["countyName"]),
			asString(station["townName"]),
			asString(station["stationName"]),
		}
		if !matchesAnyLocation(candidates, location) {
			continue
		}

		observation := models.Observation{
			Location:        name,
			Time:            stringOr(asMap(station["time"])["obsTime"], unknownValue),
			WeatherElements: map[string]any{},
		}

		for _, e := range asList(station["weatherElement"]) {
			element := asMap(e)
			elementName := asString(element["elementName"])
			if elementName == "" {
				continue
			}
			value := element["elementValue"]
			observation.WeatherElements[elementName] = value
			applyDisplayField(&observation, elementName, value)
		}
		observations = append(observations, observation)
	}
	return observations
}

// applyDisplayField fills the quick-access display fields for the common
// elements. Unknown readings are left unformatted rather than decorated with
// a unit.
func applyDisplayField(obs *models.Observation, elementName string, value any) {
	raw := displayValue(value)
	if raw == "" || raw == unknownValue {
		return
	}

	switch elementName {
	case "TEMP":
		obs.Temperature = raw + "°C"
	case "HUMD":
		// Legacy stations report humidity as a 0-1 fraction, newer ones as a
		// percentage already.
		if f := toFloat(value); f != nil {
			pct := *f
			if pct <= 1 {
				pct *= 100
			}
			obs.Humidity = fmt.Sprintf("%.1f%%", pct)
		} else {
			obs.Humidity = raw
		}
	case "Weather":
		obs.Weather = raw
	case "WDIR":
		obs.WindDirection = raw + "°"
	case "WDSD":
		obs.WindSpeed = raw + " m/s"
	case "24R":
		obs.Rainfall = raw + " mm"
	}
}
