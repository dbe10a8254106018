package model

// QuestionType classifies how a question is answered.
type QuestionType string

const (
	// TypeMultipleChoice is a single-choice question with an option list.
	TypeMultipleChoice QuestionType = "multiple_choice"
	// TypeShortAnswer is a free-text question with a short expected answer.
	TypeShortAnswer QuestionType = "short_answer"
	// TypeEssay is a free-text question graded as prose.
	TypeEssay QuestionType = "essay"
)

// Question is one question of an uploaded paper. Questions are immutable
// once the paper is loaded; the session only ever reads them.
type Question struct {
	ID      int          `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Options []string     `json:"options,omitempty"`
	Points  int          `json:"points,omitempty"`
	Image   string       `json:"image,omitempty"` // data URL of the question's illustration
}

// ExamPaper is the question set produced by the extraction service for one
// uploaded file.
type ExamPaper struct {
	ExamID      string            `json:"exam_id,omitempty"`
	Title       string            `json:"title"`
	Questions   []Question        `json:"questions"`
	TotalPoints int               `json:"total_points"`
	Images      []string          `json:"images"` // full-page reference images, data URLs
	AnswerKey   map[string]string `json:"answer_key,omitempty"`
}

// AnswerResult is the finalized grading outcome for one answerable unit.
// IsCorrect is nil when the answer could not be graded (no answer key);
// the message then explains why.
type AnswerResult struct {
	UnitID         UnitID `json:"question_id"`
	Submitted      bool   `json:"submitted"`
	IsCorrect      *bool  `json:"is_correct"`
	Message        string `json:"message"`
	CorrectAnswer  string `json:"correct_answer,omitempty"`
	PointsAwarded  int    `json:"points_awarded"`
	PointsPossible int    `json:"points_possible"`
}

// AIResponse is the assistant's answer to a student's question.
type AIResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

// Score is the running total over all graded units.
type Score struct {
	Awarded  int `json:"awarded"`
	Possible int `json:"possible"`
}
