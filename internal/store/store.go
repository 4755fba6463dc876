package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/natefinch/atomic"
)

// DefaultFile is the journal file used when no path is configured.
const DefaultFile = "sample.cv"

// Store reads and writes journal records kept in a single flat file.
// It holds no records between calls; every operation loads the file.
type Store struct {
	path            string
	defaultCategory string
	now             func() time.Time
	logger          *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used to stamp new records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDefaultCategory sets the category given to records added without one.
func WithDefaultCategory(category string) Option {
	return func(s *Store) {
		if category != "" {
			s.defaultCategory = category
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a Store backed by the file at path.
func New(path string, opts ...Option) *Store {
	if path == "" {
		path = DefaultFile
	}
	s := &Store{
		path:            path,
		defaultCategory: DefaultCategory,
		now:             time.Now,
		logger:          log.New(io.Discard),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns every record in file order. A missing file is created empty.
func (s *Store) Load() ([]Record, error) {
	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []Record
	err = readRecords(f, func(line int, fields []string) error {
		if len(fields) != fieldCount {
			return &FormatError{
				Line:   line,
				Fields: fields,
				Err:    fmt.Errorf("%w, got %d", errFieldCount, len(fields)),
			}
		}
		records = append(records, Record{Name: fields[0], Date: fields[1], Category: fields[2]})
		return nil
	})
	if err != nil {
		return nil, s.readError(err)
	}

	s.logger.Debug("loaded journal", "path", s.path, "records", len(records))
	return records, nil
}

// Add stamps a new record with the current time, appends it to the journal
// and rewrites the file. An empty category means the default category.
func (s *Store) Add(name, category string) (Record, error) {
	if name == "" {
		return Record{}, ErrEmptyName
	}
	if category == "" {
		category = s.defaultCategory
	}
	if !validField(name) || !validField(category) {
		return Record{}, ErrInvalidField
	}

	records, err := s.Load()
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		Name:     name,
		Date:     s.now().UTC().Format(time.RFC3339),
		Category: category,
	}
	records = append(records, rec)

	if err := s.write(records); err != nil {
		return Record{}, err
	}
	s.logger.Debug("added record", "path", s.path, "category", rec.Category, "records", len(records))
	return rec, nil
}

// open opens the journal for reading, creating it and its parent
// directory when absent.
func (s *Store) open() (*os.File, error) {
	f, err := os.Open(s.path)
	if err == nil {
		if info, err := f.Stat(); err == nil && info.IsDir() {
			f.Close()
			return nil, ioError("open", s.path, errIsDir)
		}
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, ioError("open", s.path, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, ioError("create directory for", s.path, err)
		}
	}
	f, err = os.OpenFile(s.path, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, ioError("create", s.path, err)
	}
	s.logger.Debug("created journal", "path", s.path)
	return f, nil
}

// write replaces the whole journal with records. The file is swapped in
// by rename so readers never see a partial write.
func (s *Store) write(records []Record) error {
	var buf bytes.Buffer
	if err := writeRecords(&buf, records); err != nil {
		return ioError("encode", s.path, err)
	}
	if err := atomic.WriteFile(s.path, &buf); err != nil {
		return ioError("write", s.path, err)
	}
	return nil
}

func (s *Store) readError(err error) error {
	var ferr *FormatError
	if errors.As(err, &ferr) {
		ferr.Path = s.path
		return ferr
	}
	return ioError("read", s.path, err)
}
