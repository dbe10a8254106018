// Package decompose splits a question's raw text into its answerable units.
//
// A question whose text contains lettered paragraphs ("a) ...", "b) ...") is
// composite: only the lettered sub-parts can be answered, each under its own
// identifier. Everything else is a single whole-question unit.
package decompose

import (
	"regexp"
	"strings"

	"github.com/paperdrill/backend/internal/model"
)

// Unit is one answerable unit of a question.
type Unit struct {
	ID    model.UnitID
	Label string // sub-part letter, empty for a whole-question unit
	Body  string // displayed content, with the "x)" marker stripped for sub-parts
}

// subPartMarker matches a paragraph that opens a lettered sub-part, e.g.
// "a) find x". The same pattern decides both whether a question is composite
// and how it splits, so the two can never disagree.
var subPartMarker = regexp.MustCompile(`(?s)^([a-z])\)\s*(.*)`)

// Units returns the ordered answerable units of a question.
//
// Single-choice questions with an option list are never decomposed: a letter
// pattern in their text belongs to the choices, not to sub-parts. For all
// other questions the text is split on blank lines; each paragraph opening
// with a lowercase letter and ")" becomes a sub-part unit, and paragraphs
// that don't match are narrative context contributing no unit. If no
// paragraph matches, the question itself is the single unit.
func Units(q model.Question) []Unit {
	if q.Type == model.TypeMultipleChoice && len(q.Options) > 0 {
		return []Unit{{ID: model.QuestionUnit(q.ID), Body: q.Text}}
	}

	var subs []Unit
	for _, para := range strings.Split(q.Text, "\n\n") {
		m := subPartMarker.FindStringSubmatch(para)
		if m == nil {
			continue
		}
		subs = append(subs, Unit{
			ID:    model.SubPartUnit(q.ID, m[1]),
			Label: m[1],
			Body:  m[2],
		})
	}
	if len(subs) > 0 {
		return subs
	}
	return []Unit{{ID: model.QuestionUnit(q.ID), Body: q.Text}}
}

// IsComposite reports whether the question decomposes into sub-part units.
func IsComposite(q model.Question) bool {
	units := Units(q)
	return len(units) > 0 && units[0].Label != ""
}
