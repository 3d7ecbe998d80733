package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"go.uber.org/zap"

	"quizmaster-service/internal/domain"
)

// AuthoringService implements the creator-facing use cases: validating and
// saving quiz drafts, cloning, and the edit view that maps persisted correct
// values back to option ids.
type AuthoringService struct {
	quizzes QuizRepository
	stats   StatsRepository
	log     *zap.Logger
	now     func() time.Time
}

func NewAuthoringService(quizzes QuizRepository, stats StatsRepository, log *zap.Logger) *AuthoringService {
	return &AuthoringService{quizzes: quizzes, stats: stats, log: log, now: time.Now}
}

// WithClock is test-only for deterministic timestamps.
func (s *AuthoringService) WithClock(now func() time.Time) *AuthoringService {
	s.now = now
	return s
}

// ValidateDraft checks a draft against the finalization rules: non-empty
// title, at least one question, non-empty question text, non-negative grades,
// options present on choice questions, and complete, backward-referencing
// conditions.
func ValidateDraft(draft domain.DraftQuiz) error {
	if strings.TrimSpace(draft.Title) == "" {
		return domain.NewValidationError("Quiz title is required!")
	}
	if len(draft.Questions) == 0 {
		return domain.NewValidationError("Please add at least one question to save the quiz!")
	}
	numbers := make(map[string]int, len(draft.Questions))
	for _, q := range draft.Questions {
		numbers[q.ID] = q.QuestionNumber
	}
	for _, q := range draft.Questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			return validationAt(q, "question text is required")
		}
		if q.Grade < 0 {
			return validationAt(q, "grade must not be negative")
		}
		switch q.QuestionType {
		case domain.QuestionText:
		case domain.QuestionMultipleChoice, domain.QuestionCheckboxes:
			if len(q.Options) == 0 {
				return validationAt(q, "at least one option is required")
			}
		default:
			return validationAt(q, fmt.Sprintf("unknown question type %q", q.QuestionType))
		}
		if !q.IsConditional {
			continue
		}
		if q.Condition.Expression != "" {
			if _, err := expr.Compile(q.Condition.Expression); err != nil {
				return validationAt(q, "condition expression does not compile")
			}
			continue
		}
		if q.Condition.QuestionID == "" || q.Condition.Answer == "" {
			return validationAt(q, "conditional questions need a referenced question and an expected answer")
		}
		refNumber, ok := numbers[q.Condition.QuestionID]
		if !ok {
			return validationAt(q, "condition references an unknown question")
		}
		if refNumber >= q.QuestionNumber {
			return validationAt(q, "condition must reference an earlier question")
		}
	}
	return nil
}

func validationAt(q domain.DraftQuestion, msg string) error {
	return domain.NewValidationError(fmt.Sprintf("question %d: %s", q.QuestionNumber, msg))
}

// Save validates a draft and persists it. An empty quiz id creates a fresh
// quiz and increments the creator's quizzesCreated counter; otherwise the
// existing quiz is updated in place, keeping its creation timestamp.
func (s *AuthoringService) Save(ctx context.Context, creatorUID string, draft domain.DraftQuiz) (domain.Quiz, error) {
	if err := ValidateDraft(draft); err != nil {
		return domain.Quiz{}, err
	}

	now := s.now()
	quiz := domain.Quiz{
		QuizID:     draft.QuizID,
		Title:      strings.TrimSpace(draft.Title),
		CreatorUID: creatorUID,
		CreatedAt:  now,
		UpdatedAt:  now,
		Questions:  persistQuestions(draft.Questions),
	}

	isNew := draft.QuizID == ""
	if isNew {
		quiz.QuizID = newQuizID(now)
	} else {
		existing, err := s.quizzes.GetQuiz(ctx, draft.QuizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		if existing.CreatorUID != creatorUID {
			return domain.Quiz{}, domain.ErrNotQuizOwner
		}
		quiz.CreatedAt = existing.CreatedAt
	}

	if err := s.quizzes.SaveQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, domain.NewStorageError(err)
	}
	if isNew {
		if err := s.stats.IncrementQuizzesCreated(ctx, creatorUID); err != nil {
			s.log.Warn("failed to increment quizzesCreated", zap.String("creatorUid", creatorUID), zap.Error(err))
		}
	}
	return quiz, nil
}

// SaveAsNew clones the draft under a fresh quiz id with a " (Copy)" title
// suffix. Response counters start at zero because they are keyed by the new
// quiz id.
func (s *AuthoringService) SaveAsNew(ctx context.Context, creatorUID string, draft domain.DraftQuiz) (domain.Quiz, error) {
	clone := draft
	clone.QuizID = ""
	clone.Title = strings.TrimSpace(draft.Title) + " (Copy)"
	return s.Save(ctx, creatorUID, clone)
}

// EditView loads a quiz for editing, converting each question back to its
// draft form with option-id keyed correct answers.
func (s *AuthoringService) EditView(ctx context.Context, creatorUID, quizID string) (domain.DraftQuiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.DraftQuiz{}, err
	}
	if quiz.CreatorUID != creatorUID {
		return domain.DraftQuiz{}, domain.ErrNotQuizOwner
	}
	draft := domain.DraftQuiz{QuizID: quiz.QuizID, Title: quiz.Title}
	for _, q := range quiz.Questions {
		draft.Questions = append(draft.Questions, domain.DraftFromPersisted(q))
	}
	return draft, nil
}

// History lists the creator's quizzes, newest first.
func (s *AuthoringService) History(ctx context.Context, creatorUID string) ([]domain.Quiz, error) {
	quizzes, err := s.quizzes.ListByCreator(ctx, creatorUID)
	if err != nil {
		return nil, domain.NewStorageError(err)
	}
	sort.Slice(quizzes, func(i, j int) bool {
		return quizzes[i].CreatedAt.After(quizzes[j].CreatedAt)
	})
	return quizzes, nil
}

func persistQuestions(drafts []domain.DraftQuestion) []domain.Question {
	questions := make([]domain.Question, 0, len(drafts))
	for _, d := range drafts {
		questions = append(questions, d.ToPersisted())
	}
	return questions
}

// newQuizID derives an opaque quiz token from the save time, matching the
// shareable-link contract which guarantees no particular format.
func newQuizID(now time.Time) string {
	return fmt.Sprintf("quiz_%d", now.UnixMilli())
}

// ShareLink builds the public participant URL for a quiz.
func ShareLink(origin, quizID string) string {
	return strings.TrimRight(origin, "/") + "/quiz/" + quizID
}
