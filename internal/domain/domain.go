package domain

import "github.com/yungbote/stylepath-backend/internal/domain/learning"

type SectionKind = learning.SectionKind

const (
	SectionLearn = learning.SectionLearn
	SectionTest  = learning.SectionTest
	SectionQuiz  = learning.SectionQuiz
)

type Course = learning.Course
type CourseSection = learning.CourseSection
type ContentVariant = learning.ContentVariant
type Question = learning.Question
type Choice = learning.Choice
type LearningStyle = learning.LearningStyle
type Learner = learning.Learner
type Enrollment = learning.Enrollment
type SectionProgress = learning.SectionProgress
type Attempt = learning.Attempt
type AnswerDetail = learning.AnswerDetail

type ResolutionStatus = learning.ResolutionStatus
type Resolution = learning.Resolution

const (
	ResolutionMatched       = learning.ResolutionMatched
	ResolutionFallback      = learning.ResolutionFallback
	ResolutionNotConfigured = learning.ResolutionNotConfigured
)

type Response = learning.Response
type Grade = learning.Grade

// Models lists every persisted entity in dependency order.
func Models() []interface{} {
	return []interface{}{
		&LearningStyle{},
		&Learner{},
		&Course{},
		&CourseSection{},
		&ContentVariant{},
		&Question{},
		&Enrollment{},
		&SectionProgress{},
		&Attempt{},
		&AnswerDetail{},
	}
}

var (
	EncodeChoices    = learning.EncodeChoices
	SelectVariant    = learning.SelectVariant
	GradeResponses   = learning.GradeResponses
	Percent          = learning.Percent
	UnknownResponses = learning.UnknownResponses
	ElapsedMs        = learning.ElapsedMs
)

type Event = learning.Event
type EventType = learning.EventType

const (
	EventSectionCompleted = learning.EventSectionCompleted
	EventProgressReset    = learning.EventProgressReset
	EventAttemptSubmitted = learning.EventAttemptSubmitted
)
