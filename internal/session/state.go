package session

import "github.com/paperdrill/backend/internal/model"

// UnitState is the projection of one answerable unit for the API layer.
type UnitState struct {
	ID     model.UnitID        `json:"id"`
	Label  string              `json:"label,omitempty"`
	Text   string              `json:"text"`
	Draft  string              `json:"draft,omitempty"`
	Result *model.AnswerResult `json:"result,omitempty"`
}

// QuestionState groups a question with its answerable units.
type QuestionState struct {
	Question model.Question `json:"question"`
	Units    []UnitState    `json:"units"`
}

// State is a read-only snapshot of the whole session for rendering. It
// carries no behavior: enabling and disabling of controls is derived from
// it by the caller (a unit with a result is frozen, and so on).
type State struct {
	ExamID         string                   `json:"exam_id,omitempty"`
	Title          string                   `json:"title"`
	TotalPoints    int                      `json:"total_points"`
	Images         []string                 `json:"images,omitempty"`
	Score          model.Score              `json:"score"`
	Questions      []QuestionState          `json:"questions"`
	AssistantOpen  *int                     `json:"assistant_open,omitempty"`
	AssistantDraft string                   `json:"assistant_draft,omitempty"`
	AIResponses    map[int]model.AIResponse `json:"ai_responses,omitempty"`
}

// State snapshots the current session. It returns ErrNoSession before the
// first upload.
func (c *Controller) State() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return State{}, ErrNoSession
	}

	s := State{
		ExamID:         c.sess.Paper.ExamID,
		Title:          c.sess.Paper.Title,
		TotalPoints:    c.sess.Paper.TotalPoints,
		Images:         c.sess.Paper.Images,
		Score:          c.sess.Ledger.Score(),
		AssistantDraft: c.sess.Assistant.Draft(),
	}
	if n, ok := c.sess.Assistant.Open(); ok {
		s.AssistantOpen = &n
	}
	if responses := c.sess.Assistant.Responses(); len(responses) > 0 {
		s.AIResponses = make(map[int]model.AIResponse, len(responses))
		for n, r := range responses {
			s.AIResponses[n] = r
		}
	}

	for _, q := range c.sess.Paper.Questions {
		qs := QuestionState{Question: q}
		for _, u := range c.sess.unitOrder[q.ID] {
			us := UnitState{
				ID:    u.ID,
				Label: u.Label,
				Text:  u.Body,
				Draft: c.sess.Answers.Get(u.ID),
			}
			if res, ok := c.sess.Ledger.Get(u.ID); ok {
				us.Result = &res
			}
			qs.Units = append(qs.Units, us)
		}
		s.Questions = append(s.Questions, qs)
	}
	return s, nil
}
