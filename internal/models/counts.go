package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CountTable is a label -> count tally that remembers the order in which
// labels were first added. It marshals to a JSON object in that order,
// so two runs over the same document serialize identically.
type CountTable struct {
	labels []string
	counts map[string]int
}

// NewCountTable creates an empty tally
func NewCountTable() *CountTable {
	return &CountTable{counts: make(map[string]int)}
}

// Add increments the count for label, registering it on first use
func (ct *CountTable) Add(label string) {
	if _, seen := ct.counts[label]; !seen {
		ct.labels = append(ct.labels, label)
	}
	ct.counts[label]++
}

// Get returns the count for label (zero if never added)
func (ct *CountTable) Get(label string) int {
	return ct.counts[label]
}

// Len returns the number of distinct labels
func (ct *CountTable) Len() int {
	return len(ct.labels)
}

// Labels returns the labels in first-insertion order
func (ct *CountTable) Labels() []string {
	out := make([]string, len(ct.labels))
	copy(out, ct.labels)
	return out
}

// Total returns the sum of all counts
func (ct *CountTable) Total() int {
	total := 0
	for _, n := range ct.counts {
		total += n
	}
	return total
}

// MarshalJSON emits a JSON object with keys in first-insertion order
func (ct *CountTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range ct.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal count label %q: %w", label, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", ct.counts[label])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, preserving its key order
func (ct *CountTable) UnmarshalJSON(data []byte) error {
	ct.labels = nil
	ct.counts = make(map[string]int)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object for count table, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("invalid count for label %q: %w", key, err)
		}
		ct.labels = append(ct.labels, key)
		ct.counts[key] = count
	}
	_, err = dec.Token() // closing brace
	return err
}
