package story

import (
	"fmt"

	"github.com/dansimau/bddcli/pkg/bddcli"
	"gopkg.in/yaml.v2"
)

// callTitles returns the title and the optional base title of a call dict.
func callTitles(d yaml.MapSlice) (title, base string, err error) {
	for _, item := range d {
		switch item.Key {
		case "title":
			title, err = toString(item.Value)
		case "base":
			base, err = toString(item.Value)
		}

		if err != nil {
			return "", "", fmt.Errorf("%v: %w", item.Key, err)
		}
	}

	if title == "" {
		return "", "", fmt.Errorf("missing title")
	}

	return title, base, nil
}

func decodeBaseCall(d yaml.MapSlice) (*bddcli.BaseCall, error) {
	title, opts, err := decodeCall(d, false)
	if err != nil {
		return nil, err
	}

	return bddcli.NewCall(title, opts...)
}

func decodeAlteredCall(base bddcli.Call, d yaml.MapSlice) (*bddcli.AlteredCall, error) {
	title, opts, err := decodeCall(d, true)
	if err != nil {
		return nil, err
	}

	return bddcli.Alter(base, title, opts...)
}

// decodeCall turns a call dict into call options. A null field is an
// explicit unset. The "base" key is only allowed on altered calls.
func decodeCall(d yaml.MapSlice, altered bool) (string, []bddcli.CallOption, error) {
	var (
		title string
		opts  []bddcli.CallOption
	)

	for _, item := range d {
		key, ok := item.Key.(string)
		if !ok {
			return "", nil, fmt.Errorf("invalid key %v", item.Key)
		}

		opt, err := decodeItem(key, item.Value, altered)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", key, err)
		}

		if key == "title" {
			title, _ = item.Value.(string)
		}

		if opt != nil {
			opts = append(opts, opt)
		}
	}

	if title == "" {
		return "", nil, fmt.Errorf("missing title")
	}

	return title, opts, nil
}

func decodeItem(key string, v any, altered bool) (bddcli.CallOption, error) {
	switch key {
	case "title":
		_, err := toString(v)
		return nil, err
	case "base":
		if !altered {
			return nil, fmt.Errorf("not allowed on the base call")
		}

		return nil, nil
	case "description":
		s, err := toString(v)
		if err != nil {
			return nil, err
		}

		return bddcli.WithDescription(s), nil
	case "response":
		m, err := toMap(v)
		if err != nil {
			return nil, err
		}

		return bddcli.WithResponseMap(m), nil
	case string(bddcli.FieldStdin):
		if v == nil {
			return bddcli.WithoutStdin(), nil
		}

		s, err := toString(v)
		if err != nil {
			return nil, err
		}

		return bddcli.WithStdin(s), nil
	case string(bddcli.FieldPositionals), string(bddcli.FieldFlags):
		f := bddcli.Unset[[]string]()
		if v != nil {
			list, err := toStringList(v)
			if err != nil {
				return nil, err
			}

			f = bddcli.Value(list)
		}

		return bddcli.WithField(bddcli.FieldName(key), f), nil
	case string(bddcli.FieldExtraEnviron):
		f := bddcli.Unset[map[string]string]()
		if v != nil {
			m, err := toMap(v)
			if err != nil {
				return nil, err
			}

			env := make(map[string]string, len(m))
			for k, val := range m {
				s, err := toScalarString(val)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", k, err)
				}

				env[k] = s
			}

			f = bddcli.Value(env)
		}

		return bddcli.WithField(bddcli.FieldExtraEnviron, f), nil
	}

	return nil, fmt.Errorf("unknown key")
}

func toString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}

	return s, nil
}

// toScalarString accepts any YAML scalar, so that `- 1` is the argument "1".
func toScalarString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(s), nil
	}

	return "", fmt.Errorf("expected scalar, got %T", v)
}

func toStringList(v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected list, got %T", v)
	}

	list := make([]string, 0, len(items))

	for i, item := range items {
		s, err := toScalarString(item)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}

		list = append(list, s)
	}

	return list, nil
}

// toMap normalizes the mapping types the YAML decoder produces.
func toMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case yaml.MapSlice:
		out := make(map[string]any, len(m))
		for _, item := range m {
			k, ok := item.Key.(string)
			if !ok {
				return nil, fmt.Errorf("invalid key %v", item.Key)
			}

			out[k] = item.Value
		}

		return out, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for key, val := range m {
			k, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("invalid key %v", key)
			}

			out[k] = val
		}

		return out, nil
	case map[string]any:
		return m, nil
	}

	return nil, fmt.Errorf("expected mapping, got %T", v)
}
