package csvparse

import (
	"encoding/json"
	"iter"
	"slices"
)

// Result is the outcome of one successful parse: the header row in its
// original order and one record per data row, in input order.
type Result struct {
	header  []string
	records []*Record
}

func newResult(header []string) *Result {
	return &Result{
		header:  slices.Clone(header),
		records: make([]*Record, 0),
	}
}

func (r *Result) append(rec *Record) {
	r.records = append(r.records, rec)
}

// Header returns a copy of the header row.
func (r *Result) Header() []string {
	return slices.Clone(r.header)
}

// Len returns the number of records.
func (r *Result) Len() int {
	return len(r.records)
}

// At returns the i'th record. It panics if i is out of range.
func (r *Result) At(i int) *Record {
	return r.records[i]
}

// Records returns the records in input order.
func (r *Result) Records() []*Record {
	return slices.Clone(r.records)
}

// All iterates over the records in input order.
func (r *Result) All() iter.Seq2[int, *Record] {
	return slices.All(r.records)
}

type resultJSON struct {
	Header  []string  `json:"header"`
	Records []*Record `json:"records"`
}

// MarshalJSON encodes the result as {"header": [...], "records": [...]}.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{Header: r.header, Records: r.records})
}
