package store

import (
	"slices"
	"strings"
)

// Latest returns the most recent record when category is empty. Otherwise
// it returns every record in category, oldest first, which may be none.
// ErrNoEntries is returned only when the journal is empty.
func (s *Store) Latest(category string) ([]Record, error) {
	records, err := s.sorted()
	if err != nil {
		return nil, err
	}
	if category == "" {
		return records[len(records)-1:], nil
	}

	var matched []Record
	for _, r := range records {
		if r.Category == category {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// All returns every record, oldest first.
func (s *Store) All() ([]Record, error) {
	return s.sorted()
}

// CategoryCount summarises one category of the journal.
type CategoryCount struct {
	Category string
	Count    int
	Last     string // date of the newest record in the category
}

// Categories returns each distinct category with its record count, sorted
// by category name.
func (s *Store) Categories() ([]CategoryCount, error) {
	records, err := s.sorted()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var out []CategoryCount
	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			i = len(out)
			index[r.Category] = i
			out = append(out, CategoryCount{Category: r.Category})
		}
		out[i].Count++
		out[i].Last = r.Date
	}
	slices.SortFunc(out, func(a, b CategoryCount) int {
		return strings.Compare(a.Category, b.Category)
	})
	return out, nil
}

// sorted loads the journal and orders it by date, keeping file order for
// records with the same timestamp.
func (s *Store) sorted() ([]Record, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoEntries
	}
	SortByDate(records)
	return records, nil
}

// SortByDate orders records oldest first. RFC 3339 dates are compared as
// instants so differing UTC offsets order correctly; dates that do not parse
// come after all of them, in string order.
func SortByDate(records []Record) {
	slices.SortStableFunc(records, compareDate)
}

func compareDate(a, b Record) int {
	ta, okA := a.Time()
	tb, okB := b.Time()
	switch {
	case okA && okB:
		return ta.Compare(tb)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(a.Date, b.Date)
	}
}
