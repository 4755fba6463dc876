package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// DefaultCategory is assigned to records added without a category.
const DefaultCategory = "none"

// fieldCount is the number of fields in a stored line: name, date, category.
const fieldCount = 3

var errFieldCount = fmt.Errorf("expected %d fields (name,date,category)", fieldCount)

// Record is a single journal entry.
type Record struct {
	Name     string `yaml:"name"`
	Date     string `yaml:"date"`
	Category string `yaml:"category"`
}

// Equal reports whether every field of r matches other.
func (r Record) Equal(other Record) bool {
	return r.Name == other.Name &&
		r.Date == other.Date &&
		r.Category == other.Category
}

// String returns the record in its stored form without the line terminator.
func (r Record) String() string {
	return FormatLine(r)
}

// Time parses the record date. The second return is false for dates that
// are not RFC 3339.
func (r Record) Time() (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatLine encodes a record as name,date,category. Only fields holding a
// comma or starting with a quote are quoted, with inner quotes doubled;
// everything else is written verbatim.
func FormatLine(r Record) string {
	return formatField(r.Name) + "," + formatField(r.Date) + "," + formatField(r.Category)
}

// ParseLine decodes a single stored line. Anything other than exactly
// three fields is rejected.
func ParseLine(line string) (Record, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return Record{}, errors.New("empty line")
	}
	fields := splitLine(line)
	if len(fields) != fieldCount {
		return Record{}, fmt.Errorf("%w, got %d", errFieldCount, len(fields))
	}
	return Record{Name: fields[0], Date: fields[1], Category: fields[2]}, nil
}

func formatField(v string) string {
	if !strings.Contains(v, ",") && !strings.HasPrefix(v, `"`) {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// splitLine splits a line on commas. A field is read as quoted only when
// its opening quote is closed right before a comma or the end of the line;
// any other quote is literal text.
func splitLine(line string) []string {
	var fields []string
	for {
		if v, rest, ok := quotedField(line); ok {
			fields = append(fields, v)
			if rest == "" {
				return fields
			}
			line = rest[1:]
			continue
		}
		i := strings.IndexByte(line, ',')
		if i < 0 {
			return append(fields, line)
		}
		fields = append(fields, line[:i])
		line = line[i+1:]
	}
}

// quotedField decodes a well-formed quoted field at the start of s and
// returns the rest of s from the delimiter on.
func quotedField(s string) (value, rest string, ok bool) {
	if !strings.HasPrefix(s, `"`) {
		return "", "", false
	}
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] != '"' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '"' {
			b.WriteByte('"')
			i++
			continue
		}
		rest = s[i+1:]
		if rest == "" || rest[0] == ',' {
			return b.String(), rest, true
		}
		return "", "", false
	}
	return "", "", false
}

// readRecords splits r into lines and hands the fields of every non-blank
// line to visit along with its 1-based line number. Errors from visit stop
// the scan; read errors are returned as is.
func readRecords(r io.Reader, visit func(line int, fields []string) error) error {
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		text, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if line := strings.TrimRight(text, "\r\n"); line != "" {
			if verr := visit(n, splitLine(line)); verr != nil {
				return verr
			}
		}
		if err != nil {
			return nil
		}
	}
}

// writeRecords encodes records one per line, each terminated by "\n".
func writeRecords(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := bw.WriteString(FormatLine(r) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// validField reports whether v fits on a single stored line.
func validField(v string) bool {
	return !strings.ContainsAny(v, "\r\n")
}
