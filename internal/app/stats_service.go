package app

import (
	"context"
	"sort"

	"quizmaster-service/internal/domain"
)

// PopularQuiz is one row of the most-submitted ranking. Counts are keyed by
// quiz id in storage; the title here is resolved at read time, so two quizzes
// sharing a title keep separate counts.
type PopularQuiz struct {
	QuizID      string `json:"quizId"`
	Title       string `json:"title"`
	Submissions int    `json:"submissions"`
}

// Dashboard is the creator's aggregate view.
type Dashboard struct {
	QuizzesCreated int           `json:"quizzesCreated"`
	MostSubmitted  []PopularQuiz `json:"mostSubmitted"`
}

// ResponseSummary is a thin aggregation over one quiz's stored responses.
type ResponseSummary struct {
	QuizID           string  `json:"quizId"`
	ResponseCount    int     `json:"responseCount"`
	AverageScore     float64 `json:"averageScore"`
	BestScore        int     `json:"bestScore"`
	MaxPossibleScore int     `json:"maxPossibleScore"`
}

// StatsService summarizes historical responses for creator dashboards.
type StatsService struct {
	quizzes   QuizRepository
	responses ResponseRepository
	stats     StatsRepository
	topN      int
}

func NewStatsService(quizzes QuizRepository, responses ResponseRepository, stats StatsRepository) *StatsService {
	return &StatsService{quizzes: quizzes, responses: responses, stats: stats, topN: 10}
}

// Dashboard returns the creator's quizzesCreated count and the top quizzes by
// submission count, sorted descending.
func (s *StatsService) Dashboard(ctx context.Context, creatorUID string) (Dashboard, error) {
	stats, err := s.stats.Stats(ctx, creatorUID)
	if err != nil {
		return Dashboard{}, domain.NewStorageError(err)
	}

	ranking := make([]PopularQuiz, 0, len(stats.Submissions))
	for quizID, count := range stats.Submissions {
		row := PopularQuiz{QuizID: quizID, Title: quizID, Submissions: count}
		if quiz, err := s.quizzes.GetQuiz(ctx, quizID); err == nil {
			row.Title = quiz.Title
		}
		ranking = append(ranking, row)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Submissions != ranking[j].Submissions {
			return ranking[i].Submissions > ranking[j].Submissions
		}
		return ranking[i].Title < ranking[j].Title
	})
	if len(ranking) > s.topN {
		ranking = ranking[:s.topN]
	}

	return Dashboard{QuizzesCreated: stats.QuizzesCreated, MostSubmitted: ranking}, nil
}

// Summarize computes count, average and best score over a quiz's responses.
func (s *StatsService) Summarize(ctx context.Context, quizID string) (ResponseSummary, error) {
	records, err := s.responses.ListByQuiz(ctx, quizID)
	if err != nil {
		return ResponseSummary{}, domain.NewStorageError(err)
	}
	summary := ResponseSummary{QuizID: quizID, ResponseCount: len(records)}
	if len(records) == 0 {
		return summary, nil
	}
	total := 0
	for _, r := range records {
		total += r.TotalScore
		if r.TotalScore > summary.BestScore {
			summary.BestScore = r.TotalScore
		}
		if r.MaxPossibleScore > summary.MaxPossibleScore {
			summary.MaxPossibleScore = r.MaxPossibleScore
		}
	}
	summary.AverageScore = float64(total) / float64(len(records))
	return summary, nil
}
