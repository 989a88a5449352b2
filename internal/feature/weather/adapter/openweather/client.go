package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"dashboard_backend/internal/feature/weather/domain/entity"
	"dashboard_backend/internal/shared/quote"
)

const (
	// minQueryLength is the shortest query geocoding will forward.
	minQueryLength = 2

	// maxForecastDays caps the aggregated forecast.
	maxForecastDays = 4

	// geoSearchLimit is the provider-side cap on geocoding candidates.
	geoSearchLimit = 5
)

// koreanWeekdays maps time.Weekday onto the dashboard's day labels.
var koreanWeekdays = [7]string{"일", "월", "화", "수", "목", "금", "토"}

// currentResponse is the current-weather-by-coordinates response.
type currentResponse struct {
	Cod  json.Number `json:"cod"`
	Name string      `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		ID int `json:"id"`
	} `json:"weather"`
	Message string `json:"message"`
}

// forecastResponse is the 5-day/3-hour forecast response.
type forecastResponse struct {
	Cod  json.Number `json:"cod"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			ID int `json:"id"`
		} `json:"weather"`
		Pop float64 `json:"pop"`
	} `json:"list"`
	City struct {
		Timezone int `json:"timezone"` // seconds east of UTC
	} `json:"city"`
	Message string `json:"message"`
}

// geoEntry is one geocoding candidate.
type geoEntry struct {
	Name       string            `json:"name"`
	LocalNames map[string]string `json:"local_names"`
	State      string            `json:"state"`
	Country    string            `json:"country"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
}

// Client calls the OpenWeatherMap API and aggregates its responses into
// the weather domain entities.
type Client struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
}

// NewClient creates a Client. A missing API key is a configuration
// error; callers must treat it as fatal at startup.
func NewClient(cfg Config, client *http.Client) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openweather api key: %w", quote.ErrMissingConfiguration)
	}
	return &Client{cfg: cfg, client: client, now: time.Now}, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("openweather http %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// FetchCurrentAndForecast fetches the current observation and the
// aggregated daily forecast for the given coordinates. The two upstream
// calls are the domain's primary aggregate: failure of either is fatal
// for the cycle.
func (c *Client) FetchCurrentAndForecast(ctx context.Context, lat, lon float64) (*entity.WeatherReport, error) {
	cur, err := c.fetchCurrent(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", quote.ErrPrimaryAggregate, err)
	}

	fc, err := c.fetchForecast(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", quote.ErrPrimaryAggregate, err)
	}

	return &entity.WeatherReport{
		Current:  cur,
		Forecast: c.aggregateDaily(fc),
	}, nil
}

func (c *Client) fetchCurrent(ctx context.Context, lat, lon float64) (entity.WeatherNow, error) {
	u := fmt.Sprintf("%s/weather?lat=%v&lon=%v&appid=%s&units=metric&lang=kr",
		c.cfg.BaseURL, lat, lon, url.QueryEscape(c.cfg.APIKey))

	var body currentResponse
	if err := c.getJSON(ctx, u, &body); err != nil {
		return entity.WeatherNow{}, err
	}
	if body.Cod.String() != "200" {
		return entity.WeatherNow{}, fmt.Errorf("openweather: %s", body.Message)
	}
	if len(body.Weather) == 0 {
		return entity.WeatherNow{}, fmt.Errorf("openweather: malformed current weather")
	}

	return entity.WeatherNow{
		Temp:      int(math.Round(body.Main.Temp)),
		FeelsLike: int(math.Round(body.Main.FeelsLike)),
		Humidity:  body.Main.Humidity,
		WindSpeed: body.Wind.Speed,
		Condition: conditionOf(body.Weather[0].ID),
		Location:  body.Name,
		// The current-weather endpoint carries no precipitation
		// probability
		RainChance: 0,
	}, nil
}

func (c *Client) fetchForecast(ctx context.Context, lat, lon float64) (forecastResponse, error) {
	u := fmt.Sprintf("%s/forecast?lat=%v&lon=%v&appid=%s&units=metric&lang=kr",
		c.cfg.BaseURL, lat, lon, url.QueryEscape(c.cfg.APIKey))

	var body forecastResponse
	if err := c.getJSON(ctx, u, &body); err != nil {
		return forecastResponse{}, err
	}
	if body.Cod.String() != "200" {
		return forecastResponse{}, fmt.Errorf("openweather: %s", body.Message)
	}
	return body, nil
}

// aggregateDaily buckets the 3-hourly samples by calendar date in the
// location's zone, drops the current calendar day, and reduces each
// bucket: high = max, low = min, pop = max, condition = temporally
// middle sample. At most four days, oldest first.
func (c *Client) aggregateDaily(fc forecastResponse) []entity.DayForecast {
	zone := time.FixedZone("provider", fc.City.Timezone)
	today := c.now().In(zone)

	type bucket struct {
		weekday    time.Weekday
		temps      []float64
		conditions []int
		pops       []float64
	}

	var order []string
	buckets := map[string]*bucket{}

	for _, item := range fc.List {
		if len(item.Weather) == 0 {
			continue
		}
		ts := time.Unix(item.Dt, 0).In(zone)
		// Calendar date equality, not a rolling 24h window
		if ts.Year() == today.Year() && ts.YearDay() == today.YearDay() {
			continue
		}

		key := ts.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{weekday: ts.Weekday()}
			buckets[key] = b
			order = append(order, key)
		}
		b.temps = append(b.temps, item.Main.Temp)
		b.conditions = append(b.conditions, item.Weather[0].ID)
		b.pops = append(b.pops, item.Pop)
	}

	out := make([]entity.DayForecast, 0, maxForecastDays)
	for _, key := range order {
		if len(out) == maxForecastDays {
			break
		}
		b := buckets[key]

		minTemp, maxTemp := b.temps[0], b.temps[0]
		for _, v := range b.temps[1:] {
			minTemp = math.Min(minTemp, v)
			maxTemp = math.Max(maxTemp, v)
		}
		maxPop := 0.0
		for _, p := range b.pops {
			maxPop = math.Max(maxPop, p)
		}

		out = append(out, entity.DayForecast{
			Day:       koreanWeekdays[b.weekday],
			TempMin:   int(math.Round(minTemp)),
			TempMax:   int(math.Round(maxTemp)),
			Condition: conditionOf(b.conditions[len(b.conditions)/2]),
			Pop:       int(math.Round(maxPop * 100)),
		})
	}
	return out
}

// SearchLocations resolves a city name to coordinate candidates via the
// geocoding endpoint. Queries below two characters return empty without
// a network call.
func (c *Client) SearchLocations(ctx context.Context, query string) ([]entity.LocationCandidate, error) {
	if len([]rune(query)) < minQueryLength {
		return []entity.LocationCandidate{}, nil
	}

	u := fmt.Sprintf("%s/direct?q=%s&limit=%d&appid=%s",
		c.cfg.GeoBaseURL, url.QueryEscape(query), geoSearchLimit, url.QueryEscape(c.cfg.APIKey))

	var body []geoEntry
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, fmt.Errorf("location search %q: %w", query, err)
	}

	out := make([]entity.LocationCandidate, 0, len(body))
	for _, g := range body {
		name := g.LocalNames["ko"]
		if name == "" {
			name = g.Name
		}
		out = append(out, entity.LocationCandidate{
			Name:    name,
			State:   g.State,
			Country: g.Country,
			Lat:     g.Lat,
			Lon:     g.Lon,
		})
	}
	return out, nil
}

// conditionOf bands an OpenWeatherMap condition id into the dashboard's
// condition labels.
func conditionOf(id int) string {
	switch {
	case id >= 200 && id < 300:
		return "뇌우"
	case id >= 300 && id < 400:
		return "이슬비"
	case id >= 500 && id < 600:
		return "비"
	case id >= 600 && id < 700:
		return "눈"
	case id >= 700 && id < 800:
		return "흐림"
	case id == 800:
		return "맑음"
	case id > 800:
		return "구름"
	default:
		return "맑음"
	}
}
