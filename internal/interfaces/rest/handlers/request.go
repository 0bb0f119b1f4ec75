package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
)

var errNotObject = errors.New("body is not a JSON object")

// readObject reads at most limit bytes and requires a JSON object.
func readObject(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errNotObject
	}
	return trimmed, nil
}

// The types below decode leniently: a field of the wrong JSON type is treated
// as absent rather than failing the whole request.

// optString keeps trimmed strings only.
type optString string

func (s *optString) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	str, _ := v.(string)
	*s = optString(strings.TrimSpace(str))
	return nil
}

func (s optString) String() string {
	return string(s)
}

// optNumber accepts a JSON number or a numeric string; non-finite values are
// dropped.
type optNumber struct {
	value float64
	set   bool
}

func (n *optNumber) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	*n = optNumber{}
	switch val := v.(type) {
	case float64:
		n.value, n.set = val, true
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil
		}
		n.value, n.set = parsed, true
	}
	return nil
}

func (n optNumber) Ptr() *float64 {
	if !n.set {
		return nil
	}
	v := n.value
	return &v
}

// Seconds floors the value; anything non-positive is reported as 0 so the
// dispatcher substitutes the current time.
func (n optNumber) Seconds() int64 {
	if !n.set {
		return 0
	}
	secs := math.Floor(n.value)
	if secs <= 0 || secs > math.MaxInt64 {
		return 0
	}
	return int64(secs)
}

// optBool accepts a JSON bool or the strings "true"/"false".
type optBool struct {
	value *bool
}

func (o *optBool) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	o.value = nil
	switch val := v.(type) {
	case bool:
		o.value = &val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true":
			t := true
			o.value = &t
		case "false":
			f := false
			o.value = &f
		}
	}
	return nil
}

func (o optBool) Ptr() *bool {
	return o.value
}

// strictTrue is set only by the JSON literal true.
type strictTrue bool

func (t *strictTrue) UnmarshalJSON(b []byte) error {
	*t = strictTrue(bytes.Equal(bytes.TrimSpace(b), []byte("true")))
	return nil
}

// objectList keeps the JSON objects of an array and drops everything else.
type objectList []map[string]any

func (l *objectList) UnmarshalJSON(b []byte) error {
	var items []any
	if err := json.Unmarshal(b, &items); err != nil {
		*l = nil
		return nil
	}

	var objects []map[string]any
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			objects = append(objects, obj)
		}
	}
	*l = objects
	return nil
}

// stringList keeps the non-blank strings of an array, trimmed.
type stringList []string

func (l *stringList) UnmarshalJSON(b []byte) error {
	var items []any
	if err := json.Unmarshal(b, &items); err != nil {
		*l = nil
		return nil
	}

	var values []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				values = append(values, trimmed)
			}
		}
	}
	*l = values
	return nil
}
