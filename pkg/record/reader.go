package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

var (
	// ErrResourceNotFound indicates the CSV path does not exist.
	ErrResourceNotFound = errors.New("csv resource not found")
	// ErrIO indicates the CSV resource could not be read.
	ErrIO = errors.New("csv read failed")
)

const delimiter = ","

// ReadOption tunes how raw field text becomes a Value.
type ReadOption func(*readConfig)

type readConfig struct {
	emptyAsAbsent bool
}

// WithEmptyAsAbsent stores empty fields as absent instead of "".
func WithEmptyAsAbsent() ReadOption {
	return func(c *readConfig) { c.emptyAsAbsent = true }
}

// ReadFile reads the CSV file at path. The first line is the header row.
func ReadFile(path string, opts ...ReadOption) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrResourceNotFound, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()
	return Read(f, opts...)
}

// Read drains r and returns one Record per line after the header. Fields are
// split on commas with no quoting; a row shorter than the header leaves the
// trailing fields absent and extra columns are dropped.
func Read(r io.Reader, opts ...ReadOption) ([]Record, error) {
	var cfg readConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var headers []string
	records := []Record{}
	for first := true; sc.Scan(); first = false {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if first {
			headers = strings.Split(line, delimiter)
			continue
		}
		records = append(records, cfg.parseLine(headers, line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return records, nil
}

func (c readConfig) parseLine(headers []string, line string) Record {
	fields := strings.Split(line, delimiter)
	rec := New(len(headers))
	for i, h := range headers {
		if i >= len(fields) || (c.emptyAsAbsent && fields[i] == "") {
			rec.Set(h, None())
			continue
		}
		rec.Set(h, Some(fields[i]))
	}
	return rec
}
