package app

import (
	"strings"

	"quizmaster-service/internal/domain"
)

// Evaluate scores one question against the participant's answer at submission
// time. Survey questions (grade 0) are always correct with a zero score.
// Checkbox answers must equal the correct set exactly (size plus containment,
// order ignored); multiple choice checks membership of the single answer in
// the correct set; text comparison is exact and case-sensitive. An
// unrecognized question type yields an incorrect result with a generic
// feedback.
func Evaluate(q domain.Question, answer domain.Answer) domain.Evaluation {
	if q.IsSurvey() {
		return domain.Evaluation{Correct: true, Score: 0, Feedback: "This was a survey question."}
	}

	switch q.QuestionType {
	case domain.QuestionCheckboxes:
		if matchesAnswerSet(answer, q.CorrectAnswers) {
			return domain.Evaluation{Correct: true, Score: q.Grade, Feedback: "Perfect! You selected all the correct answers."}
		}
		return domain.Evaluation{Feedback: "The correct answers were: " + strings.Join(q.CorrectAnswers, ", ")}

	case domain.QuestionMultipleChoice:
		for _, correct := range q.CorrectAnswers {
			if answer.Selections == nil && answer.Value == correct {
				return domain.Evaluation{Correct: true, Score: q.Grade, Feedback: "Correct! Well done."}
			}
		}
		feedback := "The correct answer was not selected."
		if len(q.CorrectAnswers) > 0 {
			feedback = "The correct answer was: " + q.CorrectAnswers[0]
		}
		return domain.Evaluation{Feedback: feedback}

	case domain.QuestionText:
		if answer.Selections == nil && answer.Value == q.TextCorrectAnswer {
			return domain.Evaluation{Correct: true, Score: q.Grade, Feedback: "Perfect answer!"}
		}
		return domain.Evaluation{Feedback: "The correct answer was: " + q.TextCorrectAnswer}
	}

	return domain.Evaluation{Feedback: "Unable to evaluate answer."}
}

// matchesAnswerSet reports exact set equality between a checkbox answer and
// the correct values. The answer must actually be a selection set.
func matchesAnswerSet(answer domain.Answer, correct []string) bool {
	if answer.Selections == nil || len(answer.Selections) != len(correct) {
		return false
	}
	for _, selected := range answer.Selections {
		found := false
		for _, value := range correct {
			if selected == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
