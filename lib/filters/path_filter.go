package filters

import (
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

type PathFilter func(path string) bool

// ParsePathFilter parses a single rule. Rules can be combined with | (or) and
// & (and), and negated with a leading !. A rule is a doublestar glob, a
// directory ending in /, or a regular expression prefixed by re:.
func ParsePathFilter(rule string) (PathFilter, error) {
	rule = strings.TrimSpace(rule)

	switch {
	case rule == "":
		return func(string) bool {
			return true
		}, nil

	case strings.Contains(rule, "|"):
		clauses, err := ParsePathFilterList(strings.Split(rule, "|"))
		if err != nil {
			return nil, err
		}

		return func(path string) bool {
			for _, f := range clauses {
				if f(path) {
					return true
				}
			}
			return false
		}, nil

	case strings.Contains(rule, "&"):
		clauses, err := ParsePathFilterList(strings.Split(rule, "&"))
		if err != nil {
			return nil, err
		}

		return func(path string) bool {
			for _, f := range clauses {
				if !f(path) {
					return false
				}
			}
			return true
		}, nil

	case strings.HasPrefix(rule, "!"):
		f, err := ParsePathFilter(rule[1:])
		if err != nil {
			return nil, err
		}

		return func(path string) bool {
			return !f(path)
		}, nil

	case strings.HasPrefix(rule, "re:"):
		re, err := regexp.Compile(strings.TrimPrefix(rule, "re:"))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid path RE: %v", rule)
		}

		return re.MatchString, nil

	default:
		rule = strings.TrimPrefix(rule, "./")
		if strings.HasSuffix(rule, "/") {
			rule += "**"
		}

		if !doublestar.ValidatePattern(rule) {
			return nil, errors.Errorf("invalid path glob: %v", rule)
		}

		return func(path string) bool {
			m, err := doublestar.Match(rule, path)
			return err == nil && m
		}, nil
	}
}

func ParsePathFilterList(rules []string) ([]PathFilter, error) {
	result := make([]PathFilter, 0, len(rules))

	for _, rule := range rules {
		f, err := ParsePathFilter(rule)
		if err != nil {
			return nil, err
		}

		result = append(result, f)
	}

	return result, nil
}
