package pattern

import (
	"regexp"
	"strings"

	"github.com/kgforge/mcp-pattern-search-go/internal/apptype"
)

// attributeMatches reports whether value satisfies any of the OR'd
// patterns. An empty pattern list is no constraint at all. Each pattern is
// first tried as a case-insensitive regular expression; a pattern that
// fails to compile degrades to a case-insensitive substring check, so
// filter text containing regex metacharacters still works as a literal
// filter rather than erroring.
func attributeMatches(value string, present bool, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	if !present {
		return false
	}
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err == nil {
			if re.MatchString(value) {
				return true
			}
			continue
		}
		if strings.Contains(strings.ToLower(value), strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// entityAttribute reads one of the declared entity attributes by name.
// The attribute set is static: filters naming an unknown attribute see an
// absent value.
func entityAttribute(e apptype.Entity, name string) (string, bool) {
	switch name {
	case "id":
		return e.ID, true
	case "labelNormalized":
		return e.LabelNormalized, true
	case "type":
		return e.EntityType, true
	}
	return "", false
}
