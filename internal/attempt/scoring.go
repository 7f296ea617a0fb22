package attempt

import (
	"quizhub/internal/apperr"
	"quizhub/internal/models"
)

// validateSubmission rejects a submission whose keys reference questions
// outside the quiz set. A question absent from the submission is skipped,
// not invalid; a single unknown key rejects the whole submission.
func validateSubmission(questions []models.Question, answers models.SubmittedAnswers) error {
	known := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}
	for id := range answers {
		if _, ok := known[id]; !ok {
			return apperr.Validation("invalid question id: %s", id)
		}
	}
	return nil
}

// answerIsCorrect applies exact set-match semantics: the selection must be
// the same size as the answer key and contain every correct index. Partial
// overlap, supersets and subsets all score zero.
func answerIsCorrect(correct []int, selected []int) bool {
	if len(correct) != len(selected) {
		return false
	}
	chosen := make(map[int]bool, len(selected))
	for _, idx := range selected {
		chosen[idx] = true
	}
	for _, idx := range correct {
		if !chosen[idx] {
			return false
		}
	}
	return true
}

type scoreResult struct {
	TotalQuestions int
	Answered       int
	Correct        int
	Wrong          int
	Skipped        int
	Score          int
	Percentage     float64
}

// aggregate scores a validated submission against every question in the
// quiz set. Wrong counts every question that is not fully correct,
// skipped ones included; skipped is derived from the answered count alone.
// A quiz set with zero total marks yields percentage 0.
func aggregate(questions []models.Question, answers models.SubmittedAnswers) scoreResult {
	res := scoreResult{TotalQuestions: len(questions)}

	totalMarks := 0
	for _, q := range questions {
		totalMarks += q.Mark
		selected, answered := answers[q.ID]
		if answered {
			res.Answered++
		}
		if answered && answerIsCorrect(q.AnswerIndices, selected) {
			res.Correct++
			res.Score += q.Mark
		}
	}

	res.Wrong = res.TotalQuestions - res.Correct
	res.Skipped = res.TotalQuestions - res.Answered
	if totalMarks > 0 {
		res.Percentage = float64(res.Score) / float64(totalMarks) * 100
	}
	return res
}
