package learning

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func strp(s string) *string { return &s }

func questionsWithKeys(keys ...string) []*Question {
	out := make([]*Question, 0, len(keys))
	for i, k := range keys {
		out = append(out, &Question{ID: uuid.New(), Position: i, CorrectKey: k})
	}
	return out
}

func TestGradeResponses(t *testing.T) {
	qs := questionsWithKeys("B", "C", "A")
	tests := []struct {
		name    string
		answers []*string
		correct int
		score   int
	}{
		{"two of three", []*string{strp("B"), strp("A"), strp("A")}, 2, 67},
		{"all correct", []*string{strp("B"), strp("C"), strp("A")}, 3, 100},
		{"all null", []*string{nil, nil, nil}, 0, 0},
		{"one of three", []*string{strp("B"), nil, strp("C")}, 1, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := make([]Response, 0, len(qs))
			for i, q := range qs {
				rs = append(rs, Response{QuestionID: q.ID, Selected: tt.answers[i]})
			}
			g := GradeResponses(qs, rs)
			if g.Total != 3 || g.Correct != tt.correct || g.Score != tt.score {
				t.Fatalf("want %d/%d score %d, got %d/%d score %d", tt.correct, 3, tt.score, g.Correct, g.Total, g.Score)
			}
			if len(g.Answers) != 3 {
				t.Fatalf("expected one graded answer per question, got %d", len(g.Answers))
			}
		})
	}
}

func TestGradeResponsesMissingResponsesAreUnanswered(t *testing.T) {
	qs := questionsWithKeys("A", "B")
	g := GradeResponses(qs, []Response{{QuestionID: qs[0].ID, Selected: strp("A"), TimeTakenMs: 1200}})
	if g.Score != 50 {
		t.Fatalf("expected 50, got %d", g.Score)
	}
	if g.Answers[1].Selected != nil || g.Answers[1].IsCorrect {
		t.Fatalf("missing response should be unanswered and incorrect")
	}
	if g.Answers[0].TimeTakenMs != 1200 {
		t.Fatalf("time taken not carried: %d", g.Answers[0].TimeTakenMs)
	}
}

func TestGradeResponsesNoQuestions(t *testing.T) {
	g := GradeResponses(nil, nil)
	if g.Total != 0 || g.Score != 0 {
		t.Fatalf("expected zero grade, got %+v", g)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct{ k, n, want int }{
		{0, 3, 0}, {1, 3, 33}, {2, 3, 67}, {3, 3, 100},
		{1, 2, 50}, {1, 8, 13}, {0, 0, 0}, {5, 3, 100},
	}
	for _, tt := range tests {
		if got := Percent(tt.k, tt.n); got != tt.want {
			t.Fatalf("Percent(%d,%d): want %d got %d", tt.k, tt.n, tt.want, got)
		}
	}
}

func TestUnknownResponses(t *testing.T) {
	qs := questionsWithKeys("A")
	stray := uuid.New()
	got := UnknownResponses(qs, []Response{{QuestionID: qs[0].ID}, {QuestionID: stray}})
	if len(got) != 1 || got[0] != stray {
		t.Fatalf("unexpected unknown set: %v", got)
	}
}

func TestElapsedMs(t *testing.T) {
	start := time.Now()
	if ElapsedMs(start, start.Add(1500*time.Millisecond)) != 1500 {
		t.Fatalf("unexpected elapsed")
	}
	if ElapsedMs(start, start.Add(-time.Second)) != 0 {
		t.Fatalf("negative elapsed not clamped")
	}
}
