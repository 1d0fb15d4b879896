package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Flag is a boolean-like JSON value: true/false, "true"/"false", "1"/"0",
// "yes"/"no" or a number. Set reports whether the field was present and
// non-null.
type Flag struct {
	Set   bool
	Value bool
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = Flag{}
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag{Set: true, Value: b}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = Flag{Set: true, Value: n != 0}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a boolean-like value, got %s", data)
	}
	v, ok := parseBoolWord(s)
	if !ok {
		return fmt.Errorf("expected a boolean-like value, got %q", s)
	}
	*f = Flag{Set: true, Value: v}
	return nil
}

func parseBoolWord(s string) (bool, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "yes", "y", "on":
		return true, true
	case "no", "n", "off", "":
		return false, true
	}
	v, err := strconv.ParseBool(s)
	return v, err == nil
}

// PersistenceMode is "durable" or "transient", or a boolean-like value where
// true means durable.
type PersistenceMode struct {
	Flag
}

func (m *PersistenceMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "durable", "persist", "save":
			m.Flag = Flag{Set: true, Value: true}
			return nil
		case "transient", "ephemeral":
			m.Flag = Flag{Set: true, Value: false}
			return nil
		}
	}
	return m.Flag.UnmarshalJSON(data)
}
