package bddcli

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v2"
)

var ErrInvalidResponse = errors.New("invalid response")

// Response is the observable outcome of running a process.
type Response struct {
	ExitCode int    `yaml:"exit_code"`
	Stdout   string `yaml:"stdout"`
	Stderr   string `yaml:"stderr"`
}

// Equal reports whether all three fields are equal.
func (r Response) Equal(other Response) bool {
	return r.ExitCode == other.ExitCode &&
		r.Stdout == other.Stdout &&
		r.Stderr == other.Stderr
}

// ToDict returns the response as an ordered mapping.
func (r Response) ToDict() yaml.MapSlice {
	return yaml.MapSlice{
		{Key: "exit_code", Value: r.ExitCode},
		{Key: "stdout", Value: r.Stdout},
		{Key: "stderr", Value: r.Stderr},
	}
}

// ResponseFromMap builds a Response from a mapping of its fields, as found in
// a decoded fixture. Missing keys default to their zero value.
func ResponseFromMap(m map[string]any) (Response, error) {
	var r Response

	for k, v := range m {
		switch k {
		case "exit_code":
			code, err := toInt(v)
			if err != nil {
				return Response{}, fmt.Errorf("%w: exit_code: %v", ErrInvalidResponse, err)
			}

			r.ExitCode = code
		case "stdout", "stderr":
			s, ok := v.(string)
			if !ok && v != nil {
				return Response{}, fmt.Errorf("%w: %s: expected string, got %T", ErrInvalidResponse, k, v)
			}

			if k == "stdout" {
				r.Stdout = s
			} else {
				r.Stderr = s
			}
		default:
			return Response{}, fmt.Errorf("%w: unknown key %q", ErrInvalidResponse, k)
		}
	}

	return r, nil
}

// toInt converts a decoded YAML number to an int, rejecting values an int
// cannot hold.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, errOutOfRange(v)
		}

		return int(n), nil
	case uint:
		if uint64(n) > math.MaxInt {
			return 0, errOutOfRange(v)
		}

		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		if uint64(n) > math.MaxInt {
			return 0, errOutOfRange(v)
		}

		return int(n), nil
	case uint64:
		if n > math.MaxInt {
			return 0, errOutOfRange(v)
		}

		return int(n), nil
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	}

	return 0, fmt.Errorf("expected integer, got %T", v)
}

func floatToInt(f float64) (int, error) {
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected integer, got %v", f)
	}

	// -math.MinInt is exactly representable, math.MaxInt is not.
	if f < math.MinInt || f >= -math.MinInt {
		return 0, errOutOfRange(f)
	}

	return int(f), nil
}

func errOutOfRange(v any) error {
	return fmt.Errorf("integer %v out of range", v)
}
