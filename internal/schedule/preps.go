package schedule

import "strings"

// PrepItem is one prep-checklist entry for a day and shift.
type PrepItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Prep sheet layout: morning rows 2-8, evening rows 10-16; each
// weekday occupies two columns (item, quantity) starting at
// dayIndex*2 with Monday at 0.
const (
	prepMorningStart = 2
	prepMorningEnd   = 9
	prepEveningStart = 10
	prepEveningEnd   = 17
)

// Preps extracts the checklist for one weekday (0=Mon..6=Sun) and
// shift from the prep grid. Header and empty cells are skipped.
func Preps(grid [][]string, dayIndex int, morning bool) []PrepItem {
	if len(grid) < 15 || dayIndex < 0 || dayIndex > 6 {
		return nil
	}

	start, end := prepMorningStart, prepMorningEnd
	if !morning {
		start, end = prepEveningStart, prepEveningEnd
	}
	col := dayIndex * 2

	var items []PrepItem
	for i := start; i < end && i < len(grid); i++ {
		row := grid[i]
		if len(row) <= col+1 {
			continue
		}
		name := strings.TrimSpace(row[col])
		qty := strings.TrimSpace(row[col+1])
		if name == "" || qty == "" {
			continue
		}
		if strings.Contains(name, "Дни недели") || strings.Contains(name, "Кол-во") {
			continue
		}
		items = append(items, PrepItem{Name: name, Quantity: qty})
	}
	return items
}
