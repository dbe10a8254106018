package grade

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/paperdrill/backend/internal/i18n"
	"github.com/paperdrill/backend/internal/model"
)

// KeyGrader grades answers against the answer key the extraction service
// returned with the paper. Keys and per-question point values are
// registered under the paper's exam id at upload time.
type KeyGrader struct {
	mu     sync.RWMutex
	keys   map[string]map[string]string // exam id → unit id (wire form) → correct answer
	points map[string]map[int]int       // exam id → question number → points
}

// NewKeyGrader returns a grader with no registered exams.
func NewKeyGrader() *KeyGrader {
	return &KeyGrader{
		keys:   make(map[string]map[string]string),
		points: make(map[string]map[int]int),
	}
}

// RegisterExam stores the answer key and point values for an uploaded
// paper, replacing any previous registration under the same exam id.
// A nil key is fine: all submissions for that exam grade as ungraded.
func (g *KeyGrader) RegisterExam(examID string, key map[string]string, questions []model.Question) {
	if examID == "" {
		return
	}
	points := make(map[int]int, len(questions))
	for _, q := range questions {
		points[q.ID] = q.Points
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.keys[examID] = key
	g.points[examID] = points
}

// Grade compares the submitted answer with the registered key entry for the
// unit. Missing exam id or key entry yields an ungraded result (nil
// IsCorrect, zero points) rather than an error: the submission is still
// final. The correct answer is disclosed only on incorrect answers.
func (g *KeyGrader) Grade(ctx context.Context, req Request) (model.AnswerResult, error) {
	g.mu.RLock()
	key, known := g.keys[req.ExamID]
	g.mu.RUnlock()

	res := model.AnswerResult{UnitID: req.UnitID, Submitted: true}

	if req.ExamID == "" || !known || key == nil {
		res.Message = i18n.T(ctx, "GradeNoKey")
		return res, nil
	}

	correct, ok := key[req.UnitID.String()]
	if !ok {
		res.Message = i18n.T(ctx, "GradeNoKeyEntry")
		return res, nil
	}

	user := ExtractFinalAnswer(strings.TrimSpace(req.Answer))
	want := strings.TrimSpace(correct)

	// A single-letter key means a choice question: compare the chosen
	// letter case-insensitively. Everything else is an exact match after
	// normalization.
	var isCorrect bool
	if isChoiceLetter(want) {
		isCorrect = strings.EqualFold(user, want)
	} else {
		isCorrect = user == want
	}

	possible := g.pointsFor(req.ExamID, req.UnitID, key)
	res.IsCorrect = &isCorrect
	res.PointsPossible = possible
	if isCorrect {
		res.PointsAwarded = possible
		res.Message = i18n.Tp(ctx, "GradeCorrect", possible)
	} else {
		res.Message = i18n.Tp(ctx, "GradeIncorrect", possible)
		res.CorrectAnswer = correct
	}
	return res, nil
}

// pointsFor returns the points possible for a unit. A whole-question unit
// is worth the question's points; a sub-part is worth the parent's points
// divided evenly among that question's keyed sub-parts.
func (g *KeyGrader) pointsFor(examID string, id model.UnitID, key map[string]string) int {
	g.mu.RLock()
	total := g.points[examID][id.Question]
	g.mu.RUnlock()

	if !id.IsSubPart() {
		return total
	}
	prefix := strconv.Itoa(id.Question) + "-"
	n := 0
	for k := range key {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	if n == 0 {
		return total
	}
	return total / n
}

func isChoiceLetter(s string) bool {
	r := []rune(s)
	return len(r) == 1 && unicode.IsLetter(r[0])
}
