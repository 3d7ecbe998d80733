package app_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
	"quizmaster-service/internal/infra/memory"
)

func TestDashboardRanking(t *testing.T) {
	ctx := context.Background()
	quizStore := memory.NewQuizStore(map[string]domain.Quiz{
		"quiz-a": {QuizID: "quiz-a", Title: "Weekly Check", CreatorUID: "creator-1"},
		"quiz-b": {QuizID: "quiz-b", Title: "Weekly Check", CreatorUID: "creator-1"},
		"quiz-c": {QuizID: "quiz-c", Title: "Onboarding", CreatorUID: "creator-1"},
	})
	statsStore := memory.NewStatsStore()
	for i := 0; i < 3; i++ {
		statsStore.IncrementSubmissions(ctx, "creator-1", "quiz-a")
	}
	statsStore.IncrementSubmissions(ctx, "creator-1", "quiz-b")
	statsStore.IncrementSubmissions(ctx, "creator-1", "quiz-b")
	statsStore.IncrementSubmissions(ctx, "creator-1", "quiz-c")
	statsStore.IncrementQuizzesCreated(ctx, "creator-1")
	statsStore.IncrementQuizzesCreated(ctx, "creator-1")

	service := app.NewStatsService(quizStore, memory.NewResponseStore(), statsStore)
	dashboard, err := service.Dashboard(ctx, "creator-1")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dashboard.QuizzesCreated != 2 {
		t.Fatalf("expected 2 created, got %d", dashboard.QuizzesCreated)
	}
	if len(dashboard.MostSubmitted) != 3 {
		t.Fatalf("expected 3 ranked quizzes, got %d", len(dashboard.MostSubmitted))
	}
	if dashboard.MostSubmitted[0].QuizID != "quiz-a" || dashboard.MostSubmitted[0].Submissions != 3 {
		t.Fatalf("expected quiz-a first with 3, got %+v", dashboard.MostSubmitted[0])
	}
	// Two quizzes with the same display title keep separate counts.
	if dashboard.MostSubmitted[1].QuizID != "quiz-b" || dashboard.MostSubmitted[1].Submissions != 2 {
		t.Fatalf("expected quiz-b second with 2, got %+v", dashboard.MostSubmitted[1])
	}
	if dashboard.MostSubmitted[0].Title != "Weekly Check" {
		t.Fatalf("expected title resolved, got %q", dashboard.MostSubmitted[0].Title)
	}
}

func TestDashboardDeletedQuizFallsBackToID(t *testing.T) {
	ctx := context.Background()
	statsStore := memory.NewStatsStore()
	statsStore.IncrementSubmissions(ctx, "creator-1", "quiz-gone")

	service := app.NewStatsService(memory.NewQuizStore(nil), memory.NewResponseStore(), statsStore)
	dashboard, err := service.Dashboard(ctx, "creator-1")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dashboard.MostSubmitted[0].Title != "quiz-gone" {
		t.Fatalf("expected quiz id as title fallback, got %q", dashboard.MostSubmitted[0].Title)
	}
}

func TestDashboardTopN(t *testing.T) {
	ctx := context.Background()
	statsStore := memory.NewStatsStore()
	for i := 0; i < 15; i++ {
		quizID := fmt.Sprintf("quiz-%02d", i)
		for j := 0; j <= i; j++ {
			statsStore.IncrementSubmissions(ctx, "creator-1", quizID)
		}
	}
	service := app.NewStatsService(memory.NewQuizStore(nil), memory.NewResponseStore(), statsStore)
	dashboard, err := service.Dashboard(ctx, "creator-1")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(dashboard.MostSubmitted) != 10 {
		t.Fatalf("expected ranking capped at 10, got %d", len(dashboard.MostSubmitted))
	}
	if dashboard.MostSubmitted[0].QuizID != "quiz-14" {
		t.Fatalf("expected busiest quiz first, got %+v", dashboard.MostSubmitted[0])
	}
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	responseStore := memory.NewResponseStore()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, score := range []int{4, 8, 6} {
		responseStore.Append(ctx, domain.Response{
			ID:               fmt.Sprintf("r%d", i),
			QuizID:           "quiz-1",
			TotalScore:       score,
			MaxPossibleScore: 10,
			SubmittedAt:      at.Add(time.Duration(i) * time.Minute),
		})
	}

	service := app.NewStatsService(memory.NewQuizStore(nil), responseStore, memory.NewStatsStore())
	summary, err := service.Summarize(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.ResponseCount != 3 || summary.BestScore != 8 || summary.MaxPossibleScore != 10 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.AverageScore != 6 {
		t.Fatalf("expected average 6, got %v", summary.AverageScore)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	service := app.NewStatsService(memory.NewQuizStore(nil), memory.NewResponseStore(), memory.NewStatsStore())
	summary, err := service.Summarize(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.ResponseCount != 0 || summary.AverageScore != 0 || summary.BestScore != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}
