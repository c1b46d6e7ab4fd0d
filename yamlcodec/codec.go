// Package yamlcodec encodes weekgo plans as YAML documents.
package yamlcodec

import (
	"bytes"
	"fmt"

	"github.com/benjamonnguyen/weekgo"
	"gopkg.in/yaml.v3"
)

type Codec struct{}

var _ weekgo.Codec = Codec{}

func New() Codec {
	return Codec{}
}

// Encode writes all seven days, empty ones included, so the document always
// shows the whole week.
func (Codec) Encode(p weekgo.Plan) ([]byte, error) {
	days := make(map[weekgo.Weekday][]weekgo.TaskRecord, len(weekgo.Weekdays))
	for _, d := range weekgo.Weekdays {
		records := p.Days[d]
		if records == nil {
			records = []weekgo.TaskRecord{}
		}
		days[d] = records
	}
	p.Days = days

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode rejects malformed YAML and unknown fields with a
// weekgo.CorruptDataError.
func (Codec) Decode(b []byte) (weekgo.Plan, error) {
	var p weekgo.Plan
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return weekgo.Plan{}, &weekgo.CorruptDataError{Err: fmt.Errorf("decode plan: %w", err)}
	}
	if p.Version == 0 {
		return weekgo.Plan{}, &weekgo.CorruptDataError{Err: fmt.Errorf("decode plan: missing version")}
	}
	if p.Days == nil {
		p.Days = make(map[weekgo.Weekday][]weekgo.TaskRecord)
	}
	return p, nil
}
