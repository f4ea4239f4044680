// Package festival loads festival lineups from JSON files in a data
// directory and keeps the store and search index in sync with them,
// re-reading files as they change.
package festival

import (
	"encoding/json/v2"
	"fmt"
	"os"
	"strings"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/normalize"
)

// lineupFile is the on-disk shape of one festival. Everything except
// name and lineup artist names is optional; an unscheduled artist is
// matchable but never placed in an itinerary.
type lineupFile struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Days     []struct {
		Name string `json:"name"`
		Date string `json:"date"`
	} `json:"days,omitempty"`
	Lineup []struct {
		ID         string   `json:"id,omitempty"`
		ArtistName string   `json:"artist_name"`
		Day        string   `json:"day,omitempty"`
		Stage      string   `json:"stage,omitempty"`
		StartTime  string   `json:"start_time,omitempty"`
		EndTime    string   `json:"end_time,omitempty"`
		Headliner  bool     `json:"headliner"`
		Genres     []string `json:"genres,omitempty"`
	} `json:"lineup"`
}

// Load reads and validates one lineup file. Festival and slot IDs are
// derived deterministically when the file omits them, so reloading a
// changed file updates records in place.
func Load(path string) (*domain.Festival, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lineup file: %w", err)
	}

	var file lineupFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse lineup file %s: %w", path, err)
	}

	if strings.TrimSpace(file.Name) == "" {
		return nil, fmt.Errorf("lineup file %s: festival name is required", path)
	}

	fest := &domain.Festival{
		Name:     file.Name,
		Location: file.Location,
		ImageURL: file.ImageURL,
	}
	fest.ID = file.ID
	if fest.ID == "" {
		fest.ID = "fest-" + slug(file.Name)
	}

	for _, d := range file.Days {
		fest.Days = append(fest.Days, domain.FestivalDay{Name: d.Name, Date: d.Date})
	}

	for i, fa := range file.Lineup {
		name := strings.TrimSpace(fa.ArtistName)
		if name == "" {
			return nil, fmt.Errorf("lineup file %s: slot %d has no artist name", path, i)
		}
		if fa.Day != "" && fest.DateFor(fa.Day) == "" && len(fest.Days) > 0 {
			return nil, fmt.Errorf("lineup file %s: %s is scheduled on unknown day %q", path, name, fa.Day)
		}

		slotID := fa.ID
		if slotID == "" {
			slotID = fmt.Sprintf("%s-%03d", fest.ID, i+1)
		}

		fest.Lineup = append(fest.Lineup, domain.FestivalArtist{
			ID:             slotID,
			ArtistName:     name,
			NormalizedName: normalize.ArtistName(name),
			Day:            fa.Day,
			Stage:          fa.Stage,
			StartTime:      fa.StartTime,
			EndTime:        fa.EndTime,
			Headliner:      fa.Headliner,
			Genres:         fa.Genres,
		})
	}

	return fest, nil
}

// slug turns a festival name into a stable ID fragment.
func slug(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
