package record

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Document is a set of records rendered as CSV text.
type Document struct {
	Headers string   `json:"headers"`
	Lines   []string `json:"lines"`
}

// WriteTo writes the header line followed by each data line.
func (d Document) WriteTo(w io.Writer) (int64, error) {
	var total int64
	n, err := fmt.Fprintln(w, d.Headers)
	total += int64(n)
	if err != nil {
		return total, err
	}
	for _, l := range d.Lines {
		n, err := fmt.Fprintln(w, l)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ConvertOption tunes Convert.
type ConvertOption func(*convertConfig)

type convertConfig struct {
	legacyTrim bool
}

// WithLegacyTrim drops the last character of the headers and of every line.
// Older exports were produced this way and some consumers still expect it.
func WithLegacyTrim() ConvertOption {
	return func(c *convertConfig) { c.legacyTrim = true }
}

// Convert renders records as comma-joined lines. Headers come from the first
// record; absent values render as empty fields.
func Convert(records []Record, opts ...ConvertOption) Document {
	var cfg convertConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	doc := Document{Lines: make([]string, 0, len(records))}
	if len(records) > 0 {
		doc.Headers = cfg.finish(strings.Join(records[0].Keys(), delimiter))
	}
	for _, rec := range records {
		vals := rec.Values()
		fields := make([]string, len(vals))
		for i, v := range vals {
			fields[i] = v.String()
		}
		doc.Lines = append(doc.Lines, cfg.finish(strings.Join(fields, delimiter)))
	}
	return doc
}

func (c convertConfig) finish(s string) string {
	if !c.legacyTrim || s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
