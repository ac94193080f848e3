package normalize

import (
	"strings"

	"github.com/twweather/taiwan-weather-mcp/internal/models"
)

// Warnings projects the flattened warning record list into canonical warning
// records, filtered by optional hazard-type substring and location match. An
// empty record list yields an empty slice, not an error; no active warnings
// is a normal answer.
func Warnings(records map[string]any, hazardType, location string) []models.WarningRecord {
	flat := asList(records["record"])
	warnings := make([]models.WarningRecord, 0, len(flat))

	for _, entry := range flat {
		record, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		phenomena := asString(record["phenomena"])
		if phenomena == "" {
			phenomena = unknownValue
		}
		if hazardType != "" && !strings.Contains(phenomena, hazardType) {
			continue
		}

		names := locationNames(record["locationName"])
		if !matchesAnyLocation(names, location) {
			continue
		}

		validTime := asMap(record["validTime"])
		warning := models.WarningRecord{
			HazardType:  phenomena,
			HazardLevel: asString(record["hazardLevel"]),
			Locations:   names,
			StartTime:   stringOr(validTime["startTime"], unknownValue),
			EndTime:     stringOr(validTime["endTime"], unknownValue),
			IssuedTime:  stringOr(asMap(record["datasetInfo"])["publishTime"], unknownValue),
			Content:     stringOr(asMap(record["contents"])["content"], "無詳細資訊"),
		}
		warnings = append(warnings, warning)
	}
	return warnings
}

// locationNames accepts the two observed spellings of a warning's location
// field: a list of names or a single bare string.
func locationNames(v any) []string {
	switch val := v.(type) {
	case []any:
		names := make([]string, 0, len(val))
		for _, n := range val {
			if s := asString(n); s != "" {
				names = append(names, s)
			}
		}
		return names
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	default:
		return nil
	}
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}
