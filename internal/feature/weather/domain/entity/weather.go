// Package entity defines the domain entities for the weather feature.
package entity

// WeatherNow is the normalized current-weather observation for the
// active location.
type WeatherNow struct {
	Temp       int     `json:"temp"`
	FeelsLike  int     `json:"feelsLike"`
	Humidity   int     `json:"humidity"`
	WindSpeed  float64 `json:"windSpeed"`
	Condition  string  `json:"condition"`
	Location   string  `json:"location"`
	RainChance int     `json:"rainChance"`
}

// DayForecast is one future calendar day aggregated from the provider's
// 3-hourly samples: high is the day's max sample, low the min, Pop the
// max precipitation probability in percent, Condition the temporally
// middle sample of the day.
type DayForecast struct {
	Day       string `json:"day"`
	TempMin   int    `json:"tempMin"`
	TempMax   int    `json:"tempMax"`
	Condition string `json:"condition"`
	Pop       int    `json:"pop"`
}

// WeatherReport bundles the current observation with up to four future
// days, oldest-day-first, excluding the current calendar day.
type WeatherReport struct {
	Current  WeatherNow    `json:"current"`
	Forecast []DayForecast `json:"forecast"`
}

// LocationCandidate is one geocoding search result. Not persisted.
type LocationCandidate struct {
	Name    string  `json:"name"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
