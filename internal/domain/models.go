package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionCheckboxes     QuestionType = "checkboxes"
)

// Option is one selectable row of a multiple_choice or checkboxes question.
type Option struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Condition gates a question's visibility on an earlier question's answer.
// Expression is an optional predicate over {"answers": map}; when set it
// takes precedence over the questionId/answer pair.
type Condition struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
	Expression string `json:"expression,omitempty"`
}

// Question is the persisted form of a quiz question. CorrectAnswers holds
// option values, not option ids: grading compares against the participant's
// raw answer text. See DraftQuestion for the authoring-time form.
type Question struct {
	ID                string       `json:"id"`
	QuestionNumber    int          `json:"questionNumber"`
	QuestionType      QuestionType `json:"questionType"`
	QuestionText      string       `json:"questionText"`
	Options           []Option     `json:"options,omitempty"`
	CorrectAnswers    []string     `json:"correctAnswers,omitempty"`
	TextCorrectAnswer string       `json:"textCorrectAnswer,omitempty"`
	Grade             int          `json:"grade"`
	IsRequired        bool         `json:"isRequired"`
	IsConditional     bool         `json:"isConditional"`
	Condition         Condition    `json:"condition,omitempty"`
}

// IsSurvey reports whether the question is ungraded.
func (q Question) IsSurvey() bool { return q.Grade == 0 }

// Quiz is an ordered collection of questions owned by a creator.
type Quiz struct {
	QuizID     string     `json:"quizId"`
	Title      string     `json:"title"`
	CreatorUID string     `json:"creatorUid"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Questions  []Question `json:"questions"`
}

// Question returns the question with the given id, if present.
func (z Quiz) Question(id string) (Question, bool) {
	for _, q := range z.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Answer is a participant's answer to one question: a single value for text
// and multiple_choice questions, or a set of selected values for checkboxes.
// On the wire it is either a JSON string or a JSON string array.
type Answer struct {
	Value      string
	Selections []string
}

// AnswerOf builds a single-value answer.
func AnswerOf(value string) Answer { return Answer{Value: value} }

// SelectionsOf builds a checkbox answer.
func SelectionsOf(values ...string) Answer { return Answer{Selections: values} }

// IsEmpty reports whether the answer counts as unanswered: the empty string,
// or an empty selection set.
func (a Answer) IsEmpty() bool {
	if a.Selections != nil {
		return len(a.Selections) == 0
	}
	return a.Value == ""
}

// Matches reports whether the answer satisfies an expected value: membership
// for selection sets, exact equality otherwise.
func (a Answer) Matches(expected string) bool {
	if a.Selections != nil {
		for _, v := range a.Selections {
			if v == expected {
				return true
			}
		}
		return false
	}
	return a.Value == expected
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Selections != nil {
		return json.Marshal(a.Selections)
	}
	return json.Marshal(a.Value)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err == nil {
		*a = Answer{Value: value}
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err == nil {
		*a = Answer{Selections: values}
		return nil
	}
	return fmt.Errorf("answer must be a string or an array of strings")
}

// ResponseMap holds a participant's answers keyed by question id.
type ResponseMap map[string]Answer

// Evaluation is the graded outcome of one question.
type Evaluation struct {
	Correct  bool   `json:"correct"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// SubmissionResult is the outcome of a successful quiz submission.
type SubmissionResult struct {
	ResponseID       string                `json:"responseId"`
	TotalScore       int                   `json:"totalScore"`
	MaxPossibleScore int                   `json:"maxPossibleScore"`
	Feedback         map[string]Evaluation `json:"perQuestionFeedback"`
	SubmittedAt      time.Time             `json:"submittedAt"`
}

// Response is one recorded submission. Records are append-only and immutable.
type Response struct {
	ID               string      `json:"id"`
	QuizID           string      `json:"quizId"`
	Responses        ResponseMap `json:"responses"`
	TotalScore       int         `json:"totalScore"`
	MaxPossibleScore int         `json:"maxPossibleScore"`
	SubmittedAt      time.Time   `json:"submittedAt"`
}

// CreatorStats aggregates a creator's authoring and submission activity.
// Submission counts are keyed by quiz id; display titles are resolved when
// the dashboard is read.
type CreatorStats struct {
	QuizzesCreated int            `json:"quizzesCreated"`
	Submissions    map[string]int `json:"submissions"`
}

// ParticipantSession is one participant's in-progress run through a quiz.
// Submitted is terminal: once set, the session rejects further changes.
type ParticipantSession struct {
	ID        string      `json:"id"`
	QuizID    string      `json:"quizId"`
	Answers   ResponseMap `json:"answers"`
	Submitted bool        `json:"submitted"`
	StartedAt time.Time   `json:"startedAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
