package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/recreation"
)

// WriteCSV saves availabilities to dir/results_<start>_<end>.csv and
// returns the path written.
func WriteCSV(dir, startDate, endDate string, availabilities []recreation.Availability) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating results directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("results_%s_%s.csv", startDate, endDate))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating results file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	rows := make([][]string, 0, len(availabilities)+1)
	rows = append(rows, []string{"park", "date", "url"})
	for _, availability := range availabilities {
		rows = append(rows, []string{availability.Park, availability.Date, availability.URL})
	}

	if err := writer.WriteAll(rows); err != nil {
		return "", fmt.Errorf("error writing results file %s: %w", path, err)
	}

	return path, file.Close()
}
