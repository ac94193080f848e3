package models

// ForecastPeriod is one time window of a normalized forecast. Which fields are
// populated depends on the forecast type and on element-type filtering: the
// 36-hour path fills the canonical weather/temperature fields, the 7-day
// default path fills only WeatherDescription, and an explicit element-type
// request fills only WeatherElements with the raw upstream sub-objects.
type ForecastPeriod struct {
	StartTime                string         `json:"start_time"`
	EndTime                  string         `json:"end_time"`
	Weather                  string         `json:"weather,omitempty"`
	WeatherCode              string         `json:"weather_code,omitempty"`
	WeatherDescription       string         `json:"weather_description,omitempty"`
	MaxTemperature           *float64       `json:"max_temperature,omitempty"`
	MinTemperature           *float64       `json:"min_temperature,omitempty"`
	PrecipitationProbability *float64       `json:"precipitation_probability,omitempty"`
	ComfortIndex             string         `json:"comfort_index,omitempty"`
	WeatherElements          map[string]any `json:"weather_elements,omitempty"`
}

// ForecastResult is the normalized forecast for a single matched location.
type ForecastResult struct {
	Location              string           `json:"location"`
	ForecastType          string           `json:"forecast_type"`
	Forecasts             []ForecastPeriod `json:"forecasts"`
	AvailableElementTypes []string         `json:"available_element_types,omitempty"`
	Message               string           `json:"message,omitempty"`
}

// ForecastResultSet wraps multiple matched locations. A single match is
// returned unwrapped as a bare ForecastResult instead.
type ForecastResultSet struct {
	Locations []ForecastResult `json:"locations"`
}

// WarningRecord is one active hazard warning projected from the upstream
// record list. Locations holds every administrative area the warning names.
type WarningRecord struct {
	HazardType  string   `json:"hazard_type"`
	HazardLevel string   `json:"hazard_level"`
	Locations   []string `json:"location"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	IssuedTime  string   `json:"issued_time"`
	Content     string   `json:"content"`
}

// Observation is one station snapshot. Rainfall stations fill Measurements;
// live weather stations fill WeatherElements plus the derived display fields.
type Observation struct {
	Location        string         `json:"location"`
	Time            string         `json:"time"`
	Measurements    map[string]any `json:"measurements,omitempty"`
	WeatherElements map[string]any `json:"weather_elements,omitempty"`
	Temperature     string         `json:"temperature,omitempty"`
	Humidity        string         `json:"humidity,omitempty"`
	Weather         string         `json:"weather,omitempty"`
	WindDirection   string         `json:"wind_direction,omitempty"`
	WindSpeed       string         `json:"wind_speed,omitempty"`
	Rainfall        string         `json:"rainfall,omitempty"`
}
