package domain

// DraftQuestion is the authoring-time form of a question. CorrectAnswers
// holds option ids so the editor can keep tracking a marked row while its
// text is edited; ToPersisted translates ids to option values before save.
type DraftQuestion struct {
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

// DraftQuiz is a quiz as held by the authoring editor.
type DraftQuiz struct {
	QuizID    string          `json:"quizId,omitempty"`
	Title     string          `json:"title"`
	Questions []DraftQuestion `json:"questions"`
}

// ToPersisted converts a draft question to its persisted form. For choice
// questions each correct-answer option id is resolved through Options and
// replaced with the option's value; ids whose option was deleted are silently
// dropped. For text questions the persisted correct set mirrors
// TextCorrectAnswer when it is non-empty. The conversion is total: any draft
// yields a persisted question.
func (d DraftQuestion) ToPersisted() Question {
	q := Question{
		ID:                d.ID,
		QuestionNumber:    d.QuestionNumber,
		QuestionType:      d.QuestionType,
		QuestionText:      d.QuestionText,
		Options:           d.Options,
		TextCorrectAnswer: d.TextCorrectAnswer,
		Grade:             d.Grade,
		IsRequired:        d.IsRequired,
		IsConditional:     d.IsConditional,
		Condition:         d.Condition,
	}
	switch d.QuestionType {
	case QuestionMultipleChoice, QuestionCheckboxes:
		for _, id := range d.CorrectAnswers {
			for _, opt := range d.Options {
				if opt.ID == id {
					q.CorrectAnswers = append(q.CorrectAnswers, opt.Value)
					break
				}
			}
		}
	case QuestionText:
		if d.TextCorrectAnswer != "" {
			q.CorrectAnswers = []string{d.TextCorrectAnswer}
		}
	}
	return q
}

// DraftFromPersisted re-derives the authoring form of a persisted question by
// matching the stored correct values back to option ids. Values that no
// longer match an option are dropped.
func DraftFromPersisted(q Question) DraftQuestion {
	d := DraftQuestion{
		ID:                q.ID,
		QuestionNumber:    q.QuestionNumber,
		QuestionType:      q.QuestionType,
		QuestionText:      q.QuestionText,
		Options:           q.Options,
		TextCorrectAnswer: q.TextCorrectAnswer,
		Grade:             q.Grade,
		IsRequired:        q.IsRequired,
		IsConditional:     q.IsConditional,
		Condition:         q.Condition,
	}
	switch q.QuestionType {
	case QuestionMultipleChoice, QuestionCheckboxes:
		for _, opt := range q.Options {
			for _, value := range q.CorrectAnswers {
				if opt.Value == value {
					d.CorrectAnswers = append(d.CorrectAnswers, opt.ID)
					break
				}
			}
		}
	case QuestionText:
		if d.TextCorrectAnswer == "" && len(q.CorrectAnswers) > 0 {
			d.TextCorrectAnswer = q.CorrectAnswers[0]
		}
	}
	return d
}

// DeleteQuestion removes the question with the given id and renumbers the
// remainder so question numbers stay contiguous and 1-based.
func (d *DraftQuiz) DeleteQuestion(id string) {
	kept := d.Questions[:0]
	for _, q := range d.Questions {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	for i := range kept {
		kept[i].QuestionNumber = i + 1
	}
	d.Questions = kept
}
