package messages

import (
	"regexp"
	"strings"
)

const (
	minWords   = 10
	proseWords = 15
)

var writingKeywords = []string{
	"essay", "proofread", "grammar", "punctuation", "spelling",
	"rewrite", "rephrase", "reword", "paraphrase", "wording",
	"paragraph", "sentence", "thesis", "cover letter", "resume",
	"email", "letter", "draft", "edit my", "edit this",
	"article", "blog post", "story", "stories", "poem", "speech",
	"tone", "formal", "summary", "report",
}

var excludeKeywords = []string{
	"code", "function", "python", "javascript", "typescript", "golang",
	"java", "sql", "regex", "compile", "stack trace", "exception",
	"bug", "api", "json", "html", "css",
	"equation", "integral", "derivative", "calculate", "solve for",
	"algebra", "matrix", "probability",
	"workout", "calories", "protein", "reps", "exercise routine",
	"trivia", "capital of", "who won", "how many", "recipe",
}

var (
	writingPattern = keywordPattern(writingKeywords, `(?:s|es)?`)
	excludePattern = keywordPattern(excludeKeywords, "")
)

// keywordPattern matches any of words as whole words, each optionally
// followed by suffix.
func keywordPattern(words []string, suffix string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)` + suffix + `\b`)
}

// Filter returns the messages worth sending to the model, in input order.
// It makes no network calls and rejects anything it is unsure of.
//
// A message is rejected when it has fewer than ten words. Otherwise a
// writing keyword accepts it outright, a code, math, fitness, or trivia
// keyword rejects it, and anything left is accepted only if it reads as
// prose.
func Filter(msgs []Message) []Message {
	var out []Message
	for _, m := range msgs {
		if Relevant(m.Text) {
			out = append(out, m)
		}
	}
	return out
}

// Relevant applies the heuristic to a single text.
func Relevant(text string) bool {
	words := len(strings.Fields(text))
	if words < minWords {
		return false
	}

	if writingPattern.MatchString(text) {
		return true
	}

	if excludePattern.MatchString(text) {
		return false
	}

	return looksLikeProse(text, words)
}

func looksLikeProse(text string, words int) bool {
	periods := strings.Count(text, ".")
	switch {
	case periods >= 1 && words >= proseWords:
		return true
	case periods >= 2:
		return true
	case strings.Contains(text, "?") && words >= proseWords:
		return true
	}
	return false
}
