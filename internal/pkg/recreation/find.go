package recreation

import (
	"context"
	"sort"
	"time"

	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/calendar"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

type siteMonth struct {
	index int
	site  Site
	month time.Time
}

type siteMonthResult struct {
	index          int
	availabilities []Availability
}

// FindAvailable checks every configured site for every month the window
// touches and returns the matches in site order. The first failed fetch
// cancels the remaining ones and is returned.
func (client *Client) FindAvailable(ctx context.Context, window calendar.Window) ([]Availability, error) {
	tasks := make([]siteMonth, 0, len(client.Config.Sites))
	for _, site := range client.Config.Sites {
		for _, month := range window.Months() {
			tasks = append(tasks, siteMonth{index: len(tasks), site: site, month: month})
		}
	}

	workers := client.Config.MaxConcurrency
	if workers <= 0 {
		workers = defaultMaxConcurrency
	}

	p := pool.NewWithResults[siteMonthResult]().
		WithMaxGoroutines(workers).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	for _, task := range tasks {
		task := task

		p.Go(func(ctx context.Context) (siteMonthResult, error) {
			log := client.logger().WithFields(logrus.Fields{
				"site_id": task.site.ID,
				"site":    task.site.Name,
				"month":   task.month.Format(calendar.DateLayout),
			})

			units, err := client.GetCampgroundAvailability(ctx, task.site.ID, task.month)
			if err != nil {
				return siteMonthResult{}, err
			}

			availabilities := make([]Availability, 0)
			for _, campsiteID := range sortedKeys(units) {
				availabilities = append(availabilities,
					FilterUnit(client.Config, task.site.Name, units[campsiteID], window)...)
			}

			log.WithFields(logrus.Fields{
				"units":   len(units),
				"matches": len(availabilities),
			}).Info("checked campground")

			return siteMonthResult{index: task.index, availabilities: availabilities}, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].index < results[j].index
	})

	availabilities := make([]Availability, 0)
	for _, result := range results {
		availabilities = append(availabilities, result.availabilities...)
	}

	return availabilities, nil
}

func (client *Client) logger() *logrus.Entry {
	if client.Log == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}

	return client.Log
}
