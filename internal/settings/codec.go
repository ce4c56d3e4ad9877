package settings

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var errNotFinite = errors.New("value is not a finite number")

// Encode converts a value to its persisted text representation per the
// declared type. Values may be native Go values (registry defaults, seeds) or
// raw form strings (the write path); both are accepted.
func Encode(value any, t ValueType) (string, error) {
	switch t {
	case TypeBoolean:
		return strconv.FormatBool(truthy(value)), nil

	case TypeNumber:
		f, err := cast.ToFloat64E(value)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", &DecodeError{Type: t, Raw: cast.ToString(value), Err: errNumeric(err)}
		}

		return strconv.FormatFloat(f, 'f', -1, 64), nil

	case TypeArray, TypeObject:
		// A raw form string must already be JSON text of the right shape;
		// anything else is marshaled.
		if s, ok := value.(string); ok {
			if _, err := Decode(s, t); err != nil {
				return "", err
			}

			return s, nil
		}

		out, err := json.Marshal(value)
		if err != nil {
			return "", &DecodeError{Type: t, Raw: cast.ToString(value), Err: err}
		}

		return string(out), nil

	default: // TypeString
		return cast.ToStringE(value)
	}
}

// Decode converts a persisted text representation back to a typed value.
// Boolean decoding never fails: unknown text means false. Number, array and
// object decoding failures return a *DecodeError so the caller can fall back
// to the definition default.
func Decode(raw string, t ValueType) (any, error) {
	switch t {
	case TypeBoolean:
		return truthy(raw), nil

	case TypeNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &DecodeError{Type: t, Raw: raw, Err: errNumeric(err)}
		}

		return f, nil

	case TypeArray:
		var v []any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, &DecodeError{Type: t, Raw: raw, Err: err}
		}

		return v, nil

	case TypeObject:
		var v map[string]any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, &DecodeError{Type: t, Raw: raw, Err: err}
		}

		return v, nil

	default: // TypeString
		return raw, nil
	}
}

// truthy implements the boolean decode convention: literal true, the string
// "true" and the checkbox value "on" are true, everything else is false.
func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "on"
	default:
		return false
	}
}

func errNumeric(err error) error {
	if err != nil {
		return err
	}

	return errNotFinite
}
