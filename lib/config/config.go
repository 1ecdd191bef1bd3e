package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Paths are the files searched for flag defaults, in order of precedence.
var Paths = []string{
	".git-reblame.yaml",
	"~/.config/git-reblame/config.yaml",
}

// Values holds flag defaults read from a YAML file, keyed by flag name.
// Keys may use - or _ as separator.
type Values map[string]string

func Load(r io.Reader) (Values, error) {
	var raw map[string]any
	err := yaml.NewDecoder(r).Decode(&raw)
	if errors.Is(err, io.EOF) {
		return Values{}, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "error parsing config file")
	}

	result := make(Values, len(raw))
	for k, v := range raw {
		s, err := toFlagValue(v)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid value for %v", k)
		}

		result[normalizeKey(k)] = s
	}

	return result, nil
}

func normalizeKey(k string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), "_", "-")
}

func toFlagValue(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(v), nil
	case []any:
		items := make([]string, 0, len(v))
		for _, i := range v {
			s, err := toFlagValue(i)
			if err != nil {
				return "", err
			}
			items = append(items, s)
		}
		return strings.Join(items, ","), nil
	default:
		return "", errors.Errorf("unsupported type %T", v)
	}
}

func (v Values) Get(flag string) (string, bool) {
	result, ok := v[normalizeKey(flag)]
	return result, ok
}

func (v Values) Resolver() kong.Resolver {
	return kong.ResolverFunc(func(context *kong.Context, parent *kong.Path, flag *kong.Flag) (interface{}, error) {
		value, ok := v.Get(flag.Name)
		if !ok {
			return nil, nil
		}
		return value, nil
	})
}

// Loader can be used with kong.Configuration.
func Loader(r io.Reader) (kong.Resolver, error) {
	values, err := Load(r)
	if err != nil {
		return nil, err
	}

	return values.Resolver(), nil
}
