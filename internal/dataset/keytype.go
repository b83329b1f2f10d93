package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// KeyType names the Go type keys are coerced to before indexing.
type KeyType string

// Supported key types.
const (
	KeyTypeInteger KeyType = "integer"
	KeyTypeNumber  KeyType = "number"
	KeyTypeString  KeyType = "string"
	KeyTypeTime    KeyType = "time"
	KeyTypeBool    KeyType = "bool"
)

// Sentinel key errors.
var (
	// ErrUnknownKeyType indicates a key type name outside the supported set.
	ErrUnknownKeyType = errors.New("unknown key type")
	// ErrKeyMismatch indicates a key that cannot be coerced to the key type.
	ErrKeyMismatch = errors.New("key does not match key type")
)

// KeyTypes lists the supported key types.
func KeyTypes() []KeyType {
	return []KeyType{KeyTypeInteger, KeyTypeNumber, KeyTypeString, KeyTypeTime, KeyTypeBool}
}

// ParseKeyType validates a key type name.
func ParseKeyType(name string) (KeyType, error) {
	switch kt := KeyType(name); kt {
	case KeyTypeInteger, KeyTypeNumber, KeyTypeString, KeyTypeTime, KeyTypeBool:
		return kt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKeyType, name)
	}
}

// ParseKey converts command-line text into a key of type kt.
func ParseKey(kt KeyType, raw string) (any, error) {
	return Coerce(kt, raw)
}

// Coerce converts a decoded scalar into the canonical Go type for kt:
// int64, float64, string, time.Time or bool. Strings are parsed for every
// key type; integral floats are accepted as integers.
func Coerce(kt KeyType, raw any) (any, error) {
	var (
		key any
		err error
	)

	switch kt {
	case KeyTypeInteger:
		key, err = coerceInteger(raw)
	case KeyTypeNumber:
		key, err = coerceNumber(raw)
	case KeyTypeString:
		key, err = coerceString(raw)
	case KeyTypeTime:
		key, err = coerceTime(raw)
	case KeyTypeBool:
		key, err = coerceBool(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKeyType, string(kt))
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %v (%T) as %s: %w", ErrKeyMismatch, raw, raw, kt, err)
	}

	return key, nil
}

var errUnsupported = errors.New("unsupported value")

func coerceInteger(raw any) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, strconv.ErrRange
		}

		return int64(v), nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, errUnsupported
		}

		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, errUnsupported
	}
}

func coerceNumber(raw any) (float64, error) {
	switch v := raw.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, errUnsupported
	}
}

func coerceString(raw any) (string, error) {
	v, ok := raw.(string)
	if !ok {
		return "", errUnsupported
	}

	return v, nil
}

func coerceTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		return time.Parse(time.RFC3339, v)
	default:
		return time.Time{}, errUnsupported
	}
}

func coerceBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	default:
		return false, errUnsupported
	}
}
