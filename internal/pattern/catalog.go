package pattern

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kgforge/mcp-pattern-search-go/internal/apptype"
)

// Predicates returns the distinct predicate values present in the
// relationship snapshot, sorted ascending with a locale-aware comparator.
// Used to populate filter UIs; independent of search.
func Predicates(relationships []apptype.Relationship) []string {
	seen := make(map[string]struct{}, len(relationships))
	out := make([]string, 0, len(relationships))
	for _, r := range relationships {
		if _, ok := seen[r.Predicate]; ok {
			continue
		}
		seen[r.Predicate] = struct{}{}
		out = append(out, r.Predicate)
	}
	collate.New(language.Und).SortStrings(out)
	return out
}
