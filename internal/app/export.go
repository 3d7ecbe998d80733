package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"quizmaster-service/internal/domain"
)

const exportSheet = "Responses"

// ExportService renders a quiz's responses as a spreadsheet: one row per
// response, one column per question plus submission timestamp and score.
type ExportService struct {
	quizzes   QuizRepository
	responses ResponseRepository
}

func NewExportService(quizzes QuizRepository, responses ResponseRepository) *ExportService {
	return &ExportService{quizzes: quizzes, responses: responses}
}

// Workbook loads a quiz and its responses and builds the export file. The
// suggested download name is quiz_responses_<quizId>.xlsx.
func (s *ExportService) Workbook(ctx context.Context, quizID string) (*excelize.File, string, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, "", err
	}
	records, err := s.responses.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, "", domain.NewStorageError(err)
	}
	file, err := BuildWorkbook(quiz, records)
	if err != nil {
		return nil, "", err
	}
	return file, fmt.Sprintf("quiz_responses_%s.xlsx", quizID), nil
}

// BuildWorkbook writes the response table into a new workbook. Unanswered
// cells render as "-", checkbox selections are comma-joined, and the score
// column reads "Not Graded" for responses with no graded questions.
func BuildWorkbook(quiz domain.Quiz, records []domain.Response) (*excelize.File, error) {
	file := excelize.NewFile()
	index, err := file.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := make([]string, 0, len(quiz.Questions)+2)
	for _, q := range quiz.Questions {
		header := q.QuestionText
		if header == "" {
			header = fmt.Sprintf("Question %d", q.QuestionNumber)
		}
		headers = append(headers, header)
	}
	headers = append(headers, "Submitted At", "Score")

	widths := make([]float64, len(headers))
	for col, header := range headers {
		if err := setCell(file, col+1, 1, header); err != nil {
			return nil, err
		}
		widths[col] = fitWidth(widths[col], header)
	}

	for row, record := range records {
		for col, q := range quiz.Questions {
			cell := answerCell(record.Responses[q.ID])
			if err := setCell(file, col+1, row+2, cell); err != nil {
				return nil, err
			}
			widths[col] = fitWidth(widths[col], cell)
		}
		submitted := record.SubmittedAt.Format("2006-01-02 15:04:05")
		if err := setCell(file, len(quiz.Questions)+1, row+2, submitted); err != nil {
			return nil, err
		}
		widths[len(quiz.Questions)] = fitWidth(widths[len(quiz.Questions)], submitted)

		score := "Not Graded"
		if record.MaxPossibleScore > 0 {
			score = fmt.Sprintf("%d/%d", record.TotalScore, record.MaxPossibleScore)
		}
		if err := setCell(file, len(quiz.Questions)+2, row+2, score); err != nil {
			return nil, err
		}
		widths[len(quiz.Questions)+1] = fitWidth(widths[len(quiz.Questions)+1], score)
	}

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, err
	}
	if err := file.SetCellStyle(exportSheet, "A1", last, bold); err != nil {
		return nil, err
	}

	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetColWidth(exportSheet, name, name, width); err != nil {
			return nil, err
		}
	}
	return file, nil
}

func answerCell(answer domain.Answer) string {
	if answer.IsEmpty() {
		return "-"
	}
	if answer.Selections != nil {
		return strings.Join(answer.Selections, ", ")
	}
	return answer.Value
}

func setCell(file *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return file.SetCellValue(exportSheet, cell, value)
}

func fitWidth(current float64, value string) float64 {
	w := float64(len(value) + 2)
	if w < 15 {
		w = 15
	}
	if w > current {
		return w
	}
	return current
}
