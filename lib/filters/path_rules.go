package filters

import (
	"strings"
)

// PathRules decides which changed paths are processed. Rules starting with !
// exclude paths; the others include them. When there is no include rule
// every path not excluded is processed.
type PathRules struct {
	rules      []pathRule
	hasInclude bool
}

type pathRule struct {
	filter PathFilter
	usage  UsageType
}

func ParsePathRules(rules []string) (*PathRules, error) {
	result := &PathRules{}

	for _, rule := range rules {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}

		usage := Include
		if strings.HasPrefix(rule, "!") {
			usage = Exclude
			rule = rule[1:]
		}

		f, err := ParsePathFilter(rule)
		if err != nil {
			return nil, err
		}

		result.rules = append(result.rules, pathRule{filter: f, usage: usage})
		result.hasInclude = result.hasInclude || usage == Include
	}

	return result, nil
}

func (r *PathRules) Filter(path string) UsageType {
	result := DontCare
	for _, rule := range r.rules {
		if rule.filter(path) {
			result = result.Merge(rule.usage)
		}
	}
	return result
}

func (r *PathRules) Matches(path string) bool {
	switch r.Filter(path) {
	case Include:
		return true
	case Exclude:
		return false
	default:
		return !r.hasInclude
	}
}
