package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/stylepath-backend/internal/data/repos"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

type Repos struct {
	Course          repos.CourseRepo
	CourseSection   repos.CourseSectionRepo
	ContentVariant  repos.ContentVariantRepo
	LearningStyle   repos.LearningStyleRepo
	Learner         repos.LearnerRepo
	Enrollment      repos.EnrollmentRepo
	SectionProgress repos.SectionProgressRepo
	Attempt         repos.AttemptRepo
	Analytics       repos.AnalyticsRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Course:          repos.NewCourseRepo(db, log),
		CourseSection:   repos.NewCourseSectionRepo(db, log),
		ContentVariant:  repos.NewContentVariantRepo(db, log),
		LearningStyle:   repos.NewLearningStyleRepo(db, log),
		Learner:         repos.NewLearnerRepo(db, log),
		Enrollment:      repos.NewEnrollmentRepo(db, log),
		SectionProgress: repos.NewSectionProgressRepo(db, log),
		Attempt:         repos.NewAttemptRepo(db, log),
		Analytics:       repos.NewAnalyticsRepo(db, log),
	}
}
