package repos

import (
	"github.com/yungbote/stylepath-backend/internal/data/repos/learning"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type CourseRepo = learning.CourseRepo
type CourseSectionRepo = learning.CourseSectionRepo
type ContentVariantRepo = learning.ContentVariantRepo
type LearningStyleRepo = learning.LearningStyleRepo
type LearnerRepo = learning.LearnerRepo
type EnrollmentRepo = learning.EnrollmentRepo
type SectionProgressRepo = learning.SectionProgressRepo
type AttemptRepo = learning.AttemptRepo
type AnalyticsRepo = learning.AnalyticsRepo

type AnalyticsFilter = learning.AnalyticsFilter
type AttemptFact = learning.AttemptFact
type AnswerDetailRow = learning.AnswerDetailRow

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return learning.NewCourseRepo(db, baseLog)
}
func NewCourseSectionRepo(db *gorm.DB, baseLog *logger.Logger) CourseSectionRepo {
	return learning.NewCourseSectionRepo(db, baseLog)
}
func NewContentVariantRepo(db *gorm.DB, baseLog *logger.Logger) ContentVariantRepo {
	return learning.NewContentVariantRepo(db, baseLog)
}
func NewLearningStyleRepo(db *gorm.DB, baseLog *logger.Logger) LearningStyleRepo {
	return learning.NewLearningStyleRepo(db, baseLog)
}
func NewLearnerRepo(db *gorm.DB, baseLog *logger.Logger) LearnerRepo {
	return learning.NewLearnerRepo(db, baseLog)
}
func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return learning.NewEnrollmentRepo(db, baseLog)
}
func NewSectionProgressRepo(db *gorm.DB, baseLog *logger.Logger) SectionProgressRepo {
	return learning.NewSectionProgressRepo(db, baseLog)
}
func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	return learning.NewAttemptRepo(db, baseLog)
}
func NewAnalyticsRepo(db *gorm.DB, baseLog *logger.Logger) AnalyticsRepo {
	return learning.NewAnalyticsRepo(db, baseLog)
}
