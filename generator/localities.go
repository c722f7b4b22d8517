package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Locality is one independently configured simulation target, usually
// a city, loaded from the localities JSON file.
type Locality struct {
	Locality    string  `json:"locality"`
	CountryCode string  `json:"country_code"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`

	// Seed overrides the configured seed for this locality when
	// non-zero.
	Seed int64 `json:"seed,omitempty"`
}

// Slug returns the locality's output name, e.g. "outbreak-au-canberra".
func (l Locality) Slug() string {
	code := strings.ToLower(strings.TrimSpace(l.CountryCode))
	name := strings.ToLower(strings.TrimSpace(l.Locality))
	name = strings.ReplaceAll(name, " ", "-")
	return fmt.Sprintf("outbreak-%s-%s", code, name)
}

// LoadLocalities reads the localities JSON file.
func LoadLocalities(path string) ([]Locality, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading localities file: %w", err)
	}
	var locs []Locality
	if err := json.Unmarshal(data, &locs); err != nil {
		return nil, fmt.Errorf("parsing localities file: %w", err)
	}
	for i, l := range locs {
		if l.Locality == "" || l.CountryCode == "" {
			return nil, fmt.Errorf("locality %d: missing locality or country_code", i)
		}
	}
	return locs, nil
}
