package analytics

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Counts is a grouped count whose keys keep the order they were first seen.
type Counts struct {
	keys   []string
	values map[string]int
}

func (c *Counts) Add(key string) {
	if c.values == nil {
		c.values = make(map[string]int)
	}
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key]++
}

func (c Counts) Get(key string) int {
	return c.values[key]
}

// Keys returns the keys in first-seen order.
func (c Counts) Keys() []string {
	return append([]string(nil), c.keys...)
}

func (c Counts) Len() int {
	return len(c.keys)
}

// MarshalJSON writes an object whose members follow first-seen order.
func (c Counts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(c.values[k]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
