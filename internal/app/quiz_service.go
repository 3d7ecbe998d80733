package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quizmaster-service/internal/domain"
)

// QuizRepository loads and saves quiz documents (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	SaveQuiz(ctx context.Context, quiz domain.Quiz) error
	ListByCreator(ctx context.Context, creatorUID string) ([]domain.Quiz, error)
}

// ResponseRepository appends and reads immutable response records.
type ResponseRepository interface {
	Append(ctx context.Context, response domain.Response) error
	ListByQuiz(ctx context.Context, quizID string) ([]domain.Response, error)
}

// StatsRepository maintains creator aggregates. Increments are expected to be
// atomic at the storage boundary; callers never read-modify-write.
type StatsRepository interface {
	IncrementQuizzesCreated(ctx context.Context, creatorUID string) error
	IncrementSubmissions(ctx context.Context, creatorUID, quizID string) error
	Stats(ctx context.Context, creatorUID string) (domain.CreatorStats, error)
}

// SessionRepository stores in-progress participant sessions.
type SessionRepository interface {
	Save(ctx context.Context, session domain.ParticipantSession) error
	Get(ctx context.Context, sessionID string) (domain.ParticipantSession, error)
	Delete(ctx context.Context, sessionID string) error
}

// QuizService contains the participant-facing use cases: loading a sanitized
// quiz, tracking a session's answers with synchronous visibility recompute,
// and the one-shot submission orchestration.
type QuizService struct {
	quizzes   QuizRepository
	responses ResponseRepository
	stats     StatsRepository
	sessions  SessionRepository
	log       *zap.Logger
	now       func() time.Time
	newID     func() string
}

func NewQuizService(quizzes QuizRepository, responses ResponseRepository, stats StatsRepository, sessions SessionRepository, log *zap.Logger) *QuizService {
	return &QuizService{
		quizzes:   quizzes,
		responses: responses,
		stats:     stats,
		sessions:  sessions,
		log:       log,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// WithClock is test-only for deterministic timestamps and ids.
func (s *QuizService) WithClock(now func() time.Time, newID func() string) *QuizService {
	s.now = now
	s.newID = newID
	return s
}

// ParticipantQuiz returns the quiz stripped of its answer key, for display to
// anonymous participants.
func (s *QuizService) ParticipantQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	return Sanitize(quiz), nil
}

// Sanitize strips grading keys from a quiz document.
func Sanitize(quiz domain.Quiz) domain.Quiz {
	questions := make([]domain.Question, len(quiz.Questions))
	copy(questions, quiz.Questions)
	for i := range questions {
		questions[i].CorrectAnswers = nil
		questions[i].TextCorrectAnswer = ""
	}
	quiz.Questions = questions
	return quiz
}

// StartSession opens a participant session for a quiz and returns it together
// with the initially visible question ids.
func (s *QuizService) StartSession(ctx context.Context, quizID string) (domain.ParticipantSession, []string, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.ParticipantSession{}, nil, err
	}
	now := s.now()
	session := domain.ParticipantSession{
		ID:        s.newID(),
		QuizID:    quiz.QuizID,
		Answers:   domain.ResponseMap{},
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.ParticipantSession{}, nil, domain.NewStorageError(err)
	}
	return session, VisibleQuestions(quiz, session.Answers), nil
}

// SetAnswer records (or clears) one answer in a session and returns the
// recomputed visible question set. Terminal sessions reject changes.
func (s *QuizService) SetAnswer(ctx context.Context, sessionID, questionID string, answer domain.Answer) ([]string, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Submitted {
		return nil, domain.ErrAlreadySubmitted
	}
	quiz, err := s.quizzes.GetQuiz(ctx, session.QuizID)
	if err != nil {
		return nil, err
	}
	if _, ok := quiz.Question(questionID); !ok {
		return nil, domain.NewValidationError("unknown question: " + questionID)
	}

	if answer.IsEmpty() {
		delete(session.Answers, questionID)
	} else {
		session.Answers[questionID] = answer
	}
	session.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, domain.NewStorageError(err)
	}
	return VisibleQuestions(quiz, session.Answers), nil
}

// SubmitSession finalizes a session: scores it, records the response, and
// marks the session terminal. Resubmission is rejected.
func (s *QuizService) SubmitSession(ctx context.Context, sessionID string) (domain.SubmissionResult, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.SubmissionResult{}, err
	}
	if session.Submitted {
		return domain.SubmissionResult{}, domain.ErrAlreadySubmitted
	}
	result, err := s.Submit(ctx, session.QuizID, session.Answers)
	if err != nil {
		return domain.SubmissionResult{}, err
	}
	session.Submitted = true
	session.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, session); err != nil {
		// The response is already recorded; losing the terminal marker only
		// risks a duplicate submission from the same session.
		s.log.Warn("failed to mark session submitted", zap.String("sessionId", sessionID), zap.Error(err))
	}
	return result, nil
}

// Submit runs the full quiz through the visibility resolver and answer
// evaluator. The first pass blocks submission when any visible required
// question is unanswered; no scoring or persistence happens in that case. The
// second pass evaluates every visible question, sums the total, appends the
// response record, and bumps the creator's submission counters. The counter
// increments are not atomic with the response write; failures there are
// logged and never rolled back.
func (s *QuizService) Submit(ctx context.Context, quizID string, responses domain.ResponseMap) (domain.SubmissionResult, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	var missing []string
	for _, q := range quiz.Questions {
		if !q.IsRequired || !ShouldShow(q, responses) {
			continue
		}
		if answer, ok := responses[q.ID]; !ok || answer.IsEmpty() {
			missing = append(missing, fmt.Sprintf("#%d", q.QuestionNumber))
		}
	}
	if len(missing) > 0 {
		return domain.SubmissionResult{}, domain.NewValidationError(
			"Please answer all required questions before submitting: " + strings.Join(missing, ", "))
	}

	totalScore := 0
	maxPossible := 0
	feedback := make(map[string]domain.Evaluation)
	for _, q := range quiz.Questions {
		if !ShouldShow(q, responses) {
			continue
		}
		maxPossible += q.Grade
		evaluation := Evaluate(q, responses[q.ID])
		totalScore += evaluation.Score
		feedback[q.ID] = evaluation
	}

	record := domain.Response{
		ID:               s.newID(),
		QuizID:           quiz.QuizID,
		Responses:        responses,
		TotalScore:       totalScore,
		MaxPossibleScore: maxPossible,
		SubmittedAt:      s.now(),
	}
	if err := s.responses.Append(ctx, record); err != nil {
		return domain.SubmissionResult{}, domain.NewStorageError(err)
	}

	if quiz.CreatorUID != "" {
		if err := s.stats.IncrementSubmissions(ctx, quiz.CreatorUID, quiz.QuizID); err != nil {
			s.log.Warn("failed to increment submission counters",
				zap.String("quizId", quiz.QuizID),
				zap.String("creatorUid", quiz.CreatorUID),
				zap.Error(err))
		}
	}

	return domain.SubmissionResult{
		ResponseID:       record.ID,
		TotalScore:       totalScore,
		MaxPossibleScore: maxPossible,
		Feedback:         feedback,
		SubmittedAt:      record.SubmittedAt,
	}, nil
}

// Responses lists the recorded submissions of a quiz, newest first, for the
// quiz's creator.
func (s *QuizService) Responses(ctx context.Context, creatorUID, quizID string) ([]domain.Response, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CreatorUID != creatorUID {
		return nil, domain.ErrNotQuizOwner
	}
	records, err := s.responses.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, domain.NewStorageError(err)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].SubmittedAt.After(records[j].SubmittedAt)
	})
	return records, nil
}
