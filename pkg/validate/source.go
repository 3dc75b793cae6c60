package validate

import (
	"encoding/csv"
	"errors"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Source yields the header and then the data rows of a tabular input.
// Next returns io.EOF after the last row. Any other error is a malformed
// record after which the source cannot continue.
type Source interface {
	Header() ([]string, error)
	Next() (Row, error)
}

// CSVSource reads comma-separated records with a header line. A leading
// UTF-8 byte order mark is dropped. Records shorter than the header leave
// the trailing columns absent; cells beyond the header are ignored.
type CSVSource struct {
	r      *csv.Reader
	header []string
	read   bool
}

// NewCSVSource returns a Source over r.
func NewCSVSource(r io.Reader) *CSVSource {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return &CSVSource{r: cr}
}

// Header returns the column names. An empty input has no columns.
func (s *CSVSource) Header() ([]string, error) {
	if s.read {
		return s.header, nil
	}
	s.read = true
	rec, err := s.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.header = append([]string(nil), rec...)
	return s.header, nil
}

// Next returns the next record keyed by header name. Duplicate header
// names keep the last cell.
func (s *CSVSource) Next() (Row, error) {
	if !s.read {
		if _, err := s.Header(); err != nil {
			return nil, err
		}
	}
	rec, err := s.r.Read()
	if err != nil {
		return nil, err
	}
	row := make(Row, len(s.header))
	for i, name := range s.header {
		if i >= len(rec) {
			break
		}
		row[name] = rec[i]
	}
	return row, nil
}
