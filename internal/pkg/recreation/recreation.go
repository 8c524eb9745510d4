package recreation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/calendar"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://www.recreation.gov"

	campgroundAvailabilityEndpoint = "api/camps/availability/campground"
	campsitesPath                  = "/camping/campsites/"

	// start_date carries an already escaped time of day.
	startOfDayTime = "T00%3A00%3A00.000Z"

	PreferredCampsiteType = "STANDARD NONELECTRIC"
	AvailableStatus       = "Available"

	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/97.0.4692.71 Safari/537.36"

	authorityHeaderKey = "authority"
	userAgentHeaderKey = "user-agent"
	acceptHeaderKey    = "Accept"
	jsonValue          = "application/json"

	defaultMaxConcurrency = 3
)

// ErrFetch marks any failure talking to the availability API.
var ErrFetch = errors.New("error fetching campground availability")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Site is a campground tracked by recreation.gov ID.
type Site struct {
	ID   int
	Name string
}

// Config describes the upstream API and what counts as a match.
type Config struct {
	BaseURL         string
	Sites           []Site
	PreferredType   string
	AvailableStatus string
	Headers         map[string]string
	MaxConcurrency  int
}

// DefaultSites are the Yosemite Valley campgrounds.
func DefaultSites() []Site {
	return []Site{
		{ID: 232447, Name: "UPPER PINES"},
		{ID: 232450, Name: "LOWER PINES"},
		{ID: 232449, Name: "NORTH PINES"},
	}
}

func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		Sites:           DefaultSites(),
		PreferredType:   PreferredCampsiteType,
		AvailableStatus: AvailableStatus,
		Headers: map[string]string{
			authorityHeaderKey: "www.recreation.gov",
			userAgentHeaderKey: DefaultUserAgent,
		},
		MaxConcurrency: defaultMaxConcurrency,
	}
}

// Unit is a single bookable campsite within a campground.
type Unit struct {
	ID             string            `json:"campsite_id"`
	Type           string            `json:"campsite_type"`
	Availabilities map[string]string `json:"availabilities"`
}

// UnmarshalJSON accepts the singular "availability" field as well.
func (u *Unit) UnmarshalJSON(data []byte) error {
	type unit Unit

	var raw struct {
		unit
		Availability map[string]string `json:"availability"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*u = Unit(raw.unit)

	if u.Availabilities == nil {
		u.Availabilities = raw.Availability
	}

	return nil
}

// Availability is one bookable night that passed every filter.
type Availability struct {
	Park string `json:"park"`
	Date string `json:"date"`
	URL  string `json:"url"`
}

type Client struct {
	Log    *logrus.Entry
	Config Config
	HTTP   HTTPClient
}

// GetCampgroundAvailability returns the units of a campground keyed by
// campsite ID for the month starting at month.
func (client *Client) GetCampgroundAvailability(ctx context.Context, siteID int, month time.Time) (map[string]Unit, error) {
	apiEndpoint := fmt.Sprintf("%s/%s/%d/month?start_date=%s%s",
		client.Config.BaseURL,
		campgroundAvailabilityEndpoint,
		siteID,
		month.Format(calendar.DateLayout),
		startOfDayTime,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: error creating http request %w", ErrFetch, err)
	}

	req.Header.Add(acceptHeaderKey, jsonValue)
	for key, value := range client.Config.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: error performing http request %w", ErrFetch, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: campground %d status code is not 200 OK, got %d", ErrFetch, siteID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: error reading response body %w", ErrFetch, err)
	}

	units, err := decodeUnits(body)
	if err != nil {
		return nil, fmt.Errorf("%w: error unmarshalling campground %d response body %w", ErrFetch, siteID, err)
	}

	return units, nil
}

// decodeUnits handles both the {"campsites": {...}} envelope and a bare
// campsite ID mapping.
func decodeUnits(body []byte) (map[string]Unit, error) {
	envelope := struct {
		Campsites map[string]Unit `json:"campsites"`
	}{}

	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Campsites != nil {
		return withIDs(envelope.Campsites), nil
	}

	units := make(map[string]Unit)

	if err := json.Unmarshal(body, &units); err != nil {
		return nil, err
	}

	return withIDs(units), nil
}

func withIDs(units map[string]Unit) map[string]Unit {
	for key, unit := range units {
		if unit.ID == "" {
			unit.ID = key
			units[key] = unit
		}
	}

	return units
}
