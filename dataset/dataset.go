// Package dataset reads delimited text into an elbow.Table.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/yyyoichi/elbow"
)

var (
	ErrParse = errors.New("field is not a number")

	errNotFinite = errors.New("not finite")
)

type (
	// Option configures a loader.
	Option func(*loader)
	loader struct {
		delimiter  rune
		skipHeader bool
		substitute *float64
	}
)

// WithDelimiter sets the field separator. Default is ';'.
func WithDelimiter(r rune) Option {
	return func(l *loader) {
		l.delimiter = r
	}
}

// WithoutHeader treats the first record as data. By default it is skipped as a header.
func WithoutHeader() Option {
	return func(l *loader) {
		l.skipHeader = false
	}
}

// WithDefault replaces every field that does not parse as a finite number
// with v instead of failing with ErrParse.
func WithDefault(v float64) Option {
	return func(l *loader) {
		l.substitute = &v
	}
}

// Load reads every record of r as one sample.
// All records must have the same number of fields and the result must hold at
// least one sample, otherwise elbow.ErrEmptyDataset is returned.
func Load(r io.Reader, opts ...Option) (elbow.Table, error) {
	l := loader{delimiter: ';', skipHeader: true}
	for _, opt := range opts {
		opt(&l)
	}

	cr := csv.NewReader(r)
	cr.Comma = l.delimiter
	cr.ReuseRecord = true

	var (
		table elbow.Table
		line  int
	)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		line++
		if line == 1 && l.skipHeader {
			continue
		}
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
				err = errNotFinite
			}
			if err != nil {
				if l.substitute == nil {
					return nil, fmt.Errorf("%w: line %d field %d %q", ErrParse, line, j, field)
				}
				v = *l.substitute
			}
			row[j] = v
		}
		table = append(table, row)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadFile opens path and calls Load.
func LoadFile(path string, opts ...Option) (elbow.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, opts...)
}
