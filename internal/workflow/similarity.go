package workflow

import (
	"regexp"
	"strings"
	"unicode"
)

var choicePattern = regexp.MustCompile(`^\s*([A-Da-d])\)?`)

// choiceLetter extracts the option letter from a multiple choice answer:
// a leading A-D optionally followed by ")", otherwise the first character.
func choiceLetter(answer string) string {
	if m := choicePattern.FindStringSubmatch(answer); m != nil {
		return strings.ToUpper(m[1])
	}
	for _, r := range strings.TrimSpace(answer) {
		return strings.ToUpper(string(r))
	}
	return ""
}

// Jaccard returns the Jaccard similarity of the lowercased,
// punctuation-stripped word sets of a and b. Two empty sets score zero.
func Jaccard(a, b string) float64 {
	sa, sb := wordSet(a), wordSet(b)

	inter := 0
	for w := range sa {
		if _, ok := sb[w]; ok {
			inter++
		}
	}

	union := len(sa) + len(sb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)

	set := make(map[string]struct{})
	for _, w := range strings.Fields(stripped) {
		set[w] = struct{}{}
	}
	return set
}
