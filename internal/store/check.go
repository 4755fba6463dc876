package store

import (
	"fmt"
	"strings"
)

// Issue is a problem found in the journal file by Check.
type Issue struct {
	Severity string // "warning" or "error"
	Line     int
	Message  string
}

// Check scans every line of the journal and reports malformed lines, dates
// that are not RFC 3339 and fields holding a comma. Unlike Load it does not
// stop at the first malformed line.
func (s *Store) Check() ([]Issue, error) {
	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var issues []Issue
	err = readRecords(f, func(line int, fields []string) error {
		if len(fields) != fieldCount {
			issues = append(issues, Issue{"error", line, fmt.Sprintf("expected %d fields, got %d", fieldCount, len(fields))})
			return nil
		}
		r := Record{Name: fields[0], Date: fields[1], Category: fields[2]}
		if r.Name == "" {
			issues = append(issues, Issue{"warning", line, "record has an empty name"})
		}
		if _, ok := r.Time(); !ok {
			issues = append(issues, Issue{"warning", line, fmt.Sprintf("date %q is not RFC 3339", r.Date)})
		}
		for _, v := range fields {
			if strings.Contains(v, ",") {
				issues = append(issues, Issue{"warning", line, fmt.Sprintf("field %q contains a delimiter and is stored quoted", v)})
			}
		}
		return nil
	})
	if err != nil {
		return nil, ioError("read", s.path, err)
	}

	s.logger.Debug("checked journal", "path", s.path, "issues", len(issues))
	return issues, nil
}

// Repair rewrites the journal keeping only records with exactly three
// fields and returns how many were dropped. The file is left untouched
// when nothing needs dropping.
func (s *Store) Repair() (int, error) {
	f, err := s.open()
	if err != nil {
		return 0, err
	}

	var (
		kept    []Record
		dropped int
	)
	err = readRecords(f, func(line int, fields []string) error {
		if len(fields) != fieldCount {
			s.logger.Debug("dropping malformed record", "line", line, "fields", len(fields))
			dropped++
			return nil
		}
		kept = append(kept, Record{Name: fields[0], Date: fields[1], Category: fields[2]})
		return nil
	})
	f.Close()
	if err != nil {
		return 0, s.readError(err)
	}
	if dropped == 0 {
		return 0, nil
	}

	if err := s.write(kept); err != nil {
		return 0, err
	}
	return dropped, nil
}
