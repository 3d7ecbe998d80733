package app

import (
	"testing"

	"quizmaster-service/internal/domain"
)

func TestUnconditionalAlwaysShown(t *testing.T) {
	q := domain.Question{ID: "q1", QuestionNumber: 1, QuestionType: domain.QuestionText}
	cases := []domain.ResponseMap{
		nil,
		{},
		{"q1": domain.AnswerOf("anything")},
		{"other": domain.SelectionsOf("A", "B")},
	}
	for _, responses := range cases {
		if !ShouldShow(q, responses) {
			t.Fatalf("unconditional question hidden for responses %v", responses)
		}
	}
}

func conditionalOn(ref, expected string) domain.Question {
	return domain.Question{
		ID:             "q2",
		QuestionNumber: 2,
		QuestionType:   domain.QuestionText,
		IsConditional:  true,
		Condition:      domain.Condition{QuestionID: ref, Answer: expected},
	}
}

func TestConditionalSingleAnswer(t *testing.T) {
	q := conditionalOn("q1", "A")

	if !ShouldShow(q, domain.ResponseMap{"q1": domain.AnswerOf("A")}) {
		t.Fatalf("expected shown when answer matches")
	}
	if ShouldShow(q, domain.ResponseMap{"q1": domain.AnswerOf("B")}) {
		t.Fatalf("expected hidden when answer differs")
	}
	if ShouldShow(q, domain.ResponseMap{}) {
		t.Fatalf("expected hidden when reference unanswered")
	}
	if ShouldShow(q, domain.ResponseMap{"q1": domain.AnswerOf("")}) {
		t.Fatalf("expected hidden for empty answer")
	}
}

func TestConditionalCheckboxMembership(t *testing.T) {
	q := conditionalOn("q1", "A")

	if !ShouldShow(q, domain.ResponseMap{"q1": domain.SelectionsOf("C", "A")}) {
		t.Fatalf("expected shown when expected value is among selections")
	}
	if ShouldShow(q, domain.ResponseMap{"q1": domain.SelectionsOf("B", "C")}) {
		t.Fatalf("expected hidden when expected value absent from selections")
	}
	if ShouldShow(q, domain.ResponseMap{"q1": domain.SelectionsOf()}) {
		t.Fatalf("expected hidden for empty selection set")
	}
}

func TestConditionalUnknownReferenceHidden(t *testing.T) {
	q := conditionalOn("missing", "A")
	if ShouldShow(q, domain.ResponseMap{"q1": domain.AnswerOf("A")}) {
		t.Fatalf("expected hidden when referenced question does not exist")
	}
}

func TestConditionalOnHiddenQuestionHiddenTransitively(t *testing.T) {
	// q3 depends on q2, q2 depends on q1. With q1 unanswered, q2 is hidden,
	// its answer stays absent, and q3 must be hidden as well.
	q3 := domain.Question{
		ID:             "q3",
		QuestionNumber: 3,
		QuestionType:   domain.QuestionText,
		IsConditional:  true,
		Condition:      domain.Condition{QuestionID: "q2", Answer: "yes"},
	}
	if ShouldShow(q3, domain.ResponseMap{}) {
		t.Fatalf("expected transitive hiding when intermediate question is unanswered")
	}
}

func TestExpressionCondition(t *testing.T) {
	q := domain.Question{
		ID:             "q2",
		QuestionNumber: 2,
		IsConditional:  true,
		Condition:      domain.Condition{Expression: `answers["q1"] == "A"`},
	}
	if !ShouldShow(q, domain.ResponseMap{"q1": domain.AnswerOf("A")}) {
		t.Fatalf("expected shown when expression holds")
	}
	if ShouldShow(q, domain.ResponseMap{"q1": domain.AnswerOf("B")}) {
		t.Fatalf("expected hidden when expression fails")
	}

	broken := domain.Question{
		ID:            "q2",
		IsConditional: true,
		Condition:     domain.Condition{Expression: `answers[`},
	}
	if ShouldShow(broken, domain.ResponseMap{"q1": domain.AnswerOf("A")}) {
		t.Fatalf("expected hidden when expression does not compile")
	}

	nonBool := domain.Question{
		ID:            "q2",
		IsConditional: true,
		Condition:     domain.Condition{Expression: `answers["q1"]`},
	}
	if ShouldShow(nonBool, domain.ResponseMap{"q1": domain.AnswerOf("A")}) {
		t.Fatalf("expected hidden when expression is not boolean")
	}
}

func TestVisibleQuestionsOrder(t *testing.T) {
	quiz := domain.Quiz{
		QuizID: "quiz-1",
		Questions: []domain.Question{
			{ID: "q1", QuestionNumber: 1},
			conditionalOn("q1", "A"),
			{ID: "q3", QuestionNumber: 3},
		},
	}
	visible := VisibleQuestions(quiz, domain.ResponseMap{"q1": domain.AnswerOf("A")})
	want := []string{"q1", "q2", "q3"}
	if len(visible) != len(want) {
		t.Fatalf("expected %v, got %v", want, visible)
	}
	for i := range want {
		if visible[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, visible)
		}
	}
}
