package app

import (
	"github.com/expr-lang/expr"

	"quizmaster-service/internal/domain"
)

// ShouldShow decides whether a question is currently displayable given the
// participant's partial answer map.
//
// Unconditional questions are always shown. A conditional question is shown
// only when the referenced question has been answered and the recorded answer
// matches the expected value: membership for checkbox answer sets, exact
// equality otherwise. An unanswered or unknown referenced question hides the
// dependent question; a question conditional on a hidden question is hidden
// transitively because the referenced answer stays absent.
func ShouldShow(q domain.Question, responses domain.ResponseMap) bool {
	if !q.IsConditional {
		return true
	}
	if q.Condition.Expression != "" {
		return evalConditionExpression(q.Condition.Expression, responses)
	}
	answer, ok := responses[q.Condition.QuestionID]
	if !ok || answer.IsEmpty() {
		return false
	}
	return answer.Matches(q.Condition.Answer)
}

// VisibleQuestions returns the ids of the displayable questions in order.
func VisibleQuestions(quiz domain.Quiz, responses domain.ResponseMap) []string {
	visible := make([]string, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		if ShouldShow(q, responses) {
			visible = append(visible, q.ID)
		}
	}
	return visible
}

// evalConditionExpression runs an expression form of a display condition over
// {"answers": id -> value}. Any compile or runtime error, or a non-boolean
// result, hides the question, matching the unanswered-reference policy.
func evalConditionExpression(expression string, responses domain.ResponseMap) bool {
	env := map[string]any{"answers": flattenAnswers(responses)}
	program, err := expr.Compile(expression, expr.Env(env))
	if err != nil {
		return false
	}
	output, err := expr.Run(program, env)
	if err != nil {
		return false
	}
	show, ok := output.(bool)
	return ok && show
}

func flattenAnswers(responses domain.ResponseMap) map[string]any {
	flat := make(map[string]any, len(responses))
	for id, answer := range responses {
		if answer.IsEmpty() {
			continue
		}
		if answer.Selections != nil {
			flat[id] = answer.Selections
		} else {
			flat[id] = answer.Value
		}
	}
	return flat
}
