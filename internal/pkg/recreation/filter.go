package recreation

import (
	"sort"
	"time"

	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/calendar"
)

// FilterUnit returns every night of unit that is of the preferred campsite
// type, reported available, and inside window. It does no I/O.
func FilterUnit(cfg Config, park string, unit Unit, window calendar.Window) []Availability {
	availabilities := make([]Availability, 0)

	if unit.Type != cfg.PreferredType {
		return availabilities
	}

	url := BookingURL(cfg.BaseURL, unit.ID)

	for _, timestamp := range sortedKeys(unit.Availabilities) {
		if unit.Availabilities[timestamp] != cfg.AvailableStatus {
			continue
		}

		date, err := time.Parse(time.RFC3339, timestamp)
		if err != nil {
			continue
		}

		if !window.Contains(date) {
			continue
		}

		availabilities = append(availabilities, Availability{
			Park: park,
			Date: calendar.FormatDate(date),
			URL:  url,
		})
	}

	return availabilities
}

// BookingURL is the campsite page a match links to.
func BookingURL(baseURL, campsiteID string) string {
	return baseURL + campsitesPath + campsiteID
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
