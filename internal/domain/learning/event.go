package learning

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventSectionCompleted EventType = "section.completed"
	EventProgressReset    EventType = "progress.reset"
	EventAttemptSubmitted EventType = "attempt.submitted"
)

// Event is a fire-and-forget notification of a committed engine write.
type Event struct {
	Type       EventType  `json:"type"`
	LearnerID  uuid.UUID  `json:"learner_id"`
	CourseID   *uuid.UUID `json:"course_id,omitempty"`
	SectionID  *uuid.UUID `json:"section_id,omitempty"`
	AttemptID  *uuid.UUID `json:"attempt_id,omitempty"`
	Score      *int       `json:"score,omitempty"`
	Percentage *int       `json:"percentage,omitempty"`
	At         time.Time  `json:"at"`
	// RequestID correlates the event with the request that committed the write.
	RequestID  string     `json:"request_id,omitempty"`
}
