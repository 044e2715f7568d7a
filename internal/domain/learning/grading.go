package learning

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Response is a learner's answer to one question. Selected == nil means unanswered.
type Response struct {
	QuestionID  uuid.UUID `json:"question_id"`
	Selected    *string   `json:"selected_answer"`
	TimeTakenMs int64     `json:"time_taken_ms"`
}

type GradedAnswer struct {
	QuestionID  uuid.UUID
	Selected    *string
	IsCorrect   bool
	TimeTakenMs int64
}

type Grade struct {
	Answers []GradedAnswer
	Correct int
	Total   int
	Score   int
}

// Percent returns round(100*k/n), or 0 when n is not positive. Halves round away
// from zero.
func Percent(k, n int) int {
	if n <= 0 {
		return 0
	}
	if k < 0 {
		k = 0
	}
	if k > n {
		k = n
	}
	return int(math.Round(100 * float64(k) / float64(n)))
}

// GradeResponses grades responses against the authored questions. Every question
// yields exactly one GradedAnswer, in question order; questions with no response
// are unanswered and incorrect. Responses are matched by question id, the last
// response for a question wins.
func GradeResponses(questions []*Question, responses []Response) Grade {
	byQuestion := make(map[uuid.UUID]Response, len(responses))
	for _, r := range responses {
		byQuestion[r.QuestionID] = r
	}

	g := Grade{Answers: make([]GradedAnswer, 0, len(questions))}
	for _, q := range questions {
		if q == nil {
			continue
		}
		g.Total++
		r, ok := byQuestion[q.ID]
		ga := GradedAnswer{QuestionID: q.ID}
		if ok {
			ga.Selected = r.Selected
			if r.TimeTakenMs > 0 {
				ga.TimeTakenMs = r.TimeTakenMs
			}
		}
		ga.IsCorrect = ga.Selected != nil && q.CorrectKey != "" && *ga.Selected == q.CorrectKey
		if ga.IsCorrect {
			g.Correct++
		}
		g.Answers = append(g.Answers, ga)
	}
	g.Score = Percent(g.Correct, g.Total)
	return g
}

// UnknownResponses returns the ids of responses that reference no question in the set.
func UnknownResponses(questions []*Question, responses []Response) []uuid.UUID {
	known := make(map[uuid.UUID]struct{}, len(questions))
	for _, q := range questions {
		if q != nil {
			known[q.ID] = struct{}{}
		}
	}
	var out []uuid.UUID
	for _, r := range responses {
		if _, ok := known[r.QuestionID]; !ok {
			out = append(out, r.QuestionID)
		}
	}
	return out
}

// ElapsedMs is the wall time between start and end, clamped at zero.
func ElapsedMs(start, end time.Time) int64 {
	if end.Before(start) {
		return 0
	}
	return end.Sub(start).Milliseconds()
}
