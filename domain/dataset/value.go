package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// ValueType defines the storage type for a cell
type ValueType string

const (
	ValueTypeString    ValueType = "string"
	ValueTypeNumeric   ValueType = "numeric"
	ValueTypeBoolean   ValueType = "boolean"
	ValueTypeTimestamp ValueType = "timestamp"
	ValueTypeMissing   ValueType = "missing"
)

// Value is a single typed cell. The zero Value is not valid; use Missing() for absent data.
type Value struct {
	Type         ValueType  `json:"type"`
	StringVal    *string    `json:"string_val,omitempty"`
	NumericVal   *float64   `json:"numeric_val,omitempty"`
	BooleanVal   *bool      `json:"boolean_val,omitempty"`
	TimestampVal *time.Time `json:"timestamp_val,omitempty"`
}

// Str creates a string value. An empty string is treated as missing.
func Str(s string) Value {
	if s == "" {
		return Missing()
	}
	return Value{Type: ValueTypeString, StringVal: &s}
}

// Num creates a numeric value
func Num(n float64) Value {
	return Value{Type: ValueTypeNumeric, NumericVal: &n}
}

// Bool creates a boolean value
func Bool(b bool) Value {
	return Value{Type: ValueTypeBoolean, BooleanVal: &b}
}

// Time creates a timestamp value
func Time(t time.Time) Value {
	return Value{Type: ValueTypeTimestamp, TimestampVal: &t}
}

// Missing creates the missing marker
func Missing() Value {
	return Value{Type: ValueTypeMissing}
}

// IsMissing reports whether the cell is the missing marker
func (v Value) IsMissing() bool {
	return v.Type == ValueTypeMissing || v.Type == ""
}

// IsNumeric returns true if the value represents a valid number
func (v Value) IsNumeric() bool {
	return v.Type == ValueTypeNumeric && v.NumericVal != nil
}

// IsTimestamp returns true if the value represents a valid timestamp
func (v Value) IsTimestamp() bool {
	return v.Type == ValueTypeTimestamp && v.TimestampVal != nil
}

// AsFloat64 returns the numeric value, or 0 if not numeric
func (v Value) AsFloat64() float64 {
	if v.NumericVal != nil {
		return *v.NumericVal
	}
	return 0.0
}

// AsTime returns the timestamp value, or the zero time
func (v Value) AsTime() time.Time {
	if v.TimestampVal != nil {
		return *v.TimestampVal
	}
	return time.Time{}
}

// String returns the display form of the value
func (v Value) String() string {
	switch v.Type {
	case ValueTypeString:
		if v.StringVal != nil {
			return *v.StringVal
		}
	case ValueTypeNumeric:
		if v.NumericVal != nil {
			return strconv.FormatFloat(*v.NumericVal, 'f', -1, 64)
		}
	case ValueTypeBoolean:
		if v.BooleanVal != nil {
			return strconv.FormatBool(*v.BooleanVal)
		}
	case ValueTypeTimestamp:
		if v.TimestampVal != nil {
			return v.TimestampVal.Format(time.RFC3339)
		}
	case ValueTypeMissing, "":
		return "<missing>"
	}
	return "<invalid>"
}

// Key returns a comparable identity for the value, used for frequency counting.
// Two values share a key iff they have the same type and the same content.
func (v Value) Key() string {
	if v.IsMissing() {
		return string(ValueTypeMissing)
	}
	return fmt.Sprintf("%s:%s", v.Type, v.String())
}

// clone returns a copy that shares no pointers with v
func (v Value) clone() Value {
	switch {
	case v.StringVal != nil:
		return Str(*v.StringVal)
	case v.NumericVal != nil:
		return Num(*v.NumericVal)
	case v.BooleanVal != nil:
		return Bool(*v.BooleanVal)
	case v.TimestampVal != nil:
		return Time(*v.TimestampVal)
	}
	return Missing()
}
