package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// BestMatch picks the candidate most similar to name by Jaro-Winkler
// distance over normalized forms. Returns -1 when candidates is empty.
func BestMatch(name string, candidates []string) (index int, similarity float64) {
	index = -1
	name = NormalizeName(name)
	for i, c := range candidates {
		sim := matchr.JaroWinkler(name, NormalizeName(c), false)
		if sim > similarity {
			similarity = sim
			index = i
		}
	}
	return index, similarity
}
