package backup

import "regexp"

// CompilePatterns compiles user-supplied filter expressions. A bad
// pattern is a precondition failure, so it aborts before any job runs.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, configErrorf("invalid pattern %q: %v", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Select filters volume names. With include patterns present, only
// matching names are kept; exclude patterns are applied afterwards
// either way. The original enumeration order is preserved.
func Select(all []string, include, exclude []*regexp.Regexp) ([]string, error) {
	selected := make([]string, 0, len(all))
	for _, name := range all {
		if len(include) > 0 && !matchesAny(name, include) {
			continue
		}
		if matchesAny(name, exclude) {
			continue
		}
		selected = append(selected, name)
	}

	if len(selected) == 0 {
		return nil, configErrorf("no volumes match the provided filters")
	}
	return selected, nil
}

func matchesAny(name string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
