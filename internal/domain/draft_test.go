package domain

import (
	"reflect"
	"testing"
)

func TestToPersistedResolvesOptionIDs(t *testing.T) {
	draft := DraftQuestion{
		ID:             "q1",
		QuestionNumber: 1,
		QuestionType:   QuestionCheckboxes,
		QuestionText:   "Pick some",
		Options: []Option{
			{ID: "o1", Value: "A"},
			{ID: "o2", Value: "B"},
			{ID: "o3", Value: "C"},
		},
		CorrectAnswers: []string{"o1", "o3", "o-deleted"},
		Grade:          5,
	}
	q := draft.ToPersisted()
	if !reflect.DeepEqual(q.CorrectAnswers, []string{"A", "C"}) {
		t.Fatalf("expected values [A C] with dangling id dropped, got %v", q.CorrectAnswers)
	}
}

func TestToPersistedTextQuestion(t *testing.T) {
	draft := DraftQuestion{
		ID:                "q1",
		QuestionType:      QuestionText,
		QuestionText:      "Capital of France?",
		TextCorrectAnswer: "Paris",
		Grade:             3,
	}
	q := draft.ToPersisted()
	if !reflect.DeepEqual(q.CorrectAnswers, []string{"Paris"}) {
		t.Fatalf("expected [Paris], got %v", q.CorrectAnswers)
	}

	draft.TextCorrectAnswer = ""
	if q := draft.ToPersisted(); q.CorrectAnswers != nil {
		t.Fatalf("survey text question must have no answer key, got %v", q.CorrectAnswers)
	}
}

func TestDraftFromPersistedRoundTrip(t *testing.T) {
	draft := DraftQuestion{
		ID:             "q1",
		QuestionNumber: 1,
		QuestionType:   QuestionMultipleChoice,
		QuestionText:   "Pick one",
		Options: []Option{
			{ID: "o1", Value: "A"},
			{ID: "o2", Value: "B"},
		},
		CorrectAnswers: []string{"o2"},
		Grade:          10,
		IsRequired:     true,
	}
	back := DraftFromPersisted(draft.ToPersisted())
	if !reflect.DeepEqual(back, draft) {
		t.Fatalf("round trip changed question:\n%+v\n%+v", back, draft)
	}
}

func TestDraftFromPersistedDropsUnmatchedValues(t *testing.T) {
	q := Question{
		ID:           "q1",
		QuestionType: QuestionCheckboxes,
		Options: []Option{
			{ID: "o1", Value: "A"},
		},
		CorrectAnswers: []string{"A", "Gone"},
	}
	d := DraftFromPersisted(q)
	if !reflect.DeepEqual(d.CorrectAnswers, []string{"o1"}) {
		t.Fatalf("expected [o1], got %v", d.CorrectAnswers)
	}
}

func TestDeleteQuestionRenumbers(t *testing.T) {
	quiz := DraftQuiz{
		Title: "Renumber",
		Questions: []DraftQuestion{
			{ID: "a", QuestionNumber: 1},
			{ID: "b", QuestionNumber: 2},
			{ID: "c", QuestionNumber: 3},
		},
	}
	quiz.DeleteQuestion("b")
	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(quiz.Questions))
	}
	if quiz.Questions[0].ID != "a" || quiz.Questions[0].QuestionNumber != 1 {
		t.Fatalf("unexpected first question %+v", quiz.Questions[0])
	}
	if quiz.Questions[1].ID != "c" || quiz.Questions[1].QuestionNumber != 2 {
		t.Fatalf("expected c renumbered to 2, got %+v", quiz.Questions[1])
	}

	quiz.DeleteQuestion("missing")
	if len(quiz.Questions) != 2 {
		t.Fatalf("deleting an unknown id must be a no-op, got %d", len(quiz.Questions))
	}
}
