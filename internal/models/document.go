package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Document is the opaque part of a stored record: every field the service
// does not interpret itself.
type Document map[string]interface{}

// Clone returns a shallow copy; nil stays nil.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Without returns a copy of d with the given keys removed.
func (d Document) Without(keys ...string) Document {
	out := d.Clone()
	if out == nil {
		out = Document{}
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// marshalFlat writes attrs and known as one JSON object; known wins on conflict.
func marshalFlat(attrs Document, known map[string]interface{}) ([]byte, error) {
	out := make(map[string]interface{}, len(attrs)+len(known))
	for k, v := range attrs {
		out[k] = v
	}
	for k, v := range known {
		out[k] = v
	}
	return json.Marshal(out)
}

func unmarshalFlat(data []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}
	return raw, nil
}

func stringField(raw map[string]interface{}, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// ToInt64 converts the numeric types produced by JSON and BSON decoders, and
// numeric strings. Anything else is 0.
func ToInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float32:
		return int64(n)
	case float64:
		return finiteInt64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return finiteInt64(f)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		f, _ := n.Float64()
		return int64(f)
	}
	return 0
}

func finiteInt64(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}
