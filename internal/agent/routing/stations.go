package routing

import "strings"

// DefaultStation handles categories missing from the station table.
const DefaultStation = "General Chef"

// defaultStations maps a category (lower-cased) to the kitchen station that prepares it.
var defaultStations = map[string]string{
	"pizza":      "Pizza Specialist",
	"bbq":        "BBQ Chef",
	"burger":     "Fastfood Chef",
	"broast":     "Fastfood Chef",
	"fries":      "Fastfood Chef",
	"cold drink": "Dessert Bar Chef",
	"juice":      "Dessert Bar Chef",
	"shake":      "Dessert Bar Chef",
	"dessert":    "Dessert Bar Chef",
	"lassi":      "Dessert Bar Chef",
	"milkshake":  "Dessert Bar Chef",
}

// StationTable is an immutable category to station lookup.
type StationTable struct {
	byCategory map[string]string
	fallback   string
}

// NewStationTable copies m (keys are matched case-insensitively). A nil m
// uses the built-in kitchen layout; an empty fallback uses DefaultStation.
func NewStationTable(m map[string]string, fallback string) StationTable {
	if m == nil {
		m = defaultStations
	}
	if strings.TrimSpace(fallback) == "" {
		fallback = DefaultStation
	}
	byCategory := make(map[string]string, len(m))
	for k, v := range m {
		byCategory[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return StationTable{byCategory: byCategory, fallback: fallback}
}

// StationFor returns the station handling category.
func (t StationTable) StationFor(category string) string {
	if s, ok := t.byCategory[strings.ToLower(strings.TrimSpace(category))]; ok {
		return s
	}
	return t.fallback
}
