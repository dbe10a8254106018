package grade

import (
	"regexp"
	"strings"
)

var (
	overWord    = regexp.MustCompile(`(?i)(\d+)\s+over\s+(\d+)`)
	spacedSlash = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)
	dashBar     = regexp.MustCompile(`(\d+)\s*[—–-]\s*(\d+)`)
)

// ExtractFinalAnswer reduces an answer that may contain working to its
// final value. If the answer contains "=", only the rightmost segment after
// the last "=" counts ("48 / 6 = 8" grades as "8"). Fraction spellings are
// then normalized so "2 over 3", "2 / 3" and "2 – 3" (a fraction bar typed
// as a dash) all grade as "2/3".
func ExtractFinalAnswer(answer string) string {
	if i := strings.LastIndex(answer, "="); i >= 0 {
		answer = answer[i+1:]
	}
	answer = strings.TrimSpace(answer)

	answer = overWord.ReplaceAllString(answer, "$1/$2")
	answer = spacedSlash.ReplaceAllString(answer, "$1/$2")
	answer = dashBar.ReplaceAllString(answer, "$1/$2")

	return strings.TrimSpace(answer)
}
