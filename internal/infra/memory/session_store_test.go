package memory

import (
	"context"
	"errors"
	"testing"

	"quizmaster-service/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	session := domain.ParticipantSession{
		ID:      "s1",
		QuizID:  "quiz-1",
		Answers: domain.ResponseMap{"q1": domain.AnswerOf("B")},
	}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.QuizID != "quiz-1" || loaded.Answers["q1"].Value != "B" {
		t.Fatalf("unexpected session %+v", loaded)
	}

	// Mutating the loaded copy must not leak into the store.
	loaded.Answers["q1"] = domain.AnswerOf("C")
	again, _ := store.Get(ctx, "s1")
	if again.Answers["q1"].Value != "B" {
		t.Fatalf("stored answers mutated through a returned copy")
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStoreUnknownID(t *testing.T) {
	store := NewSessionStore()
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
