package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"siga_backend/internals/apperr"
	database "siga_backend/internals/databases"
	yearModel "siga_backend/internals/features/academic/academic_years/model"
	enrollModel "siga_backend/internals/features/academic/enrollments/model"
	model "siga_backend/internals/features/academic/exam_boards/model"
	gradeModel "siga_backend/internals/features/academic/grades/model"
	gradeService "siga_backend/internals/features/academic/grades/service"
)

// ExamResultSync propagates an exam grade into the student's academic
// record: the exam enrollment outcome, a final-type ledger grade and
// the course enrollment's final standing, all in one transaction.
type ExamResultSync struct {
	DB     *gorm.DB
	Ledger *gradeService.GradeLedger
}

func NewExamResultSync(db *gorm.DB, ledger *gradeService.GradeLedger) *ExamResultSync {
	return &ExamResultSync{DB: db, Ledger: ledger}
}

// LoadExamGrade records the grade a student obtained at an exam board
// sitting. Passing approves the linked course enrollment. Failing after
// a previous approval reverts the enrollment to its coursework
// condition and clears the final grade, never back to attending.
//
// Re-grading the same sitting is allowed while the board is not
// finalized; the ledger upserts by natural key so the record converges.
func (s *ExamResultSync) LoadExamGrade(boardID, examEnrollmentID uuid.UUID, grade float64, actorID uuid.UUID) (*model.ExamEnrollmentModel, error) {
	if grade < 0 || grade > 10 {
		return nil, apperr.NewValidation(fmt.Sprintf("exam grade must be between 0 and 10, got %.2f", grade))
	}

	var exam model.ExamEnrollmentModel

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var board model.ExamBoardModel
		if err := database.ForUpdate(tx).
			First(&board, "exam_board_id = ?", boardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("exam board not found")
			}
			return err
		}
		if board.IsFinalized() {
			return apperr.NewStateConflict("exam board is finalized, grades can no longer change")
		}

		if err := database.ForUpdate(tx).
			First(&exam, "exam_enrollment_id = ? AND exam_enrollment_exam_board_id = ?",
				examEnrollmentID, boardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("exam enrollment not found")
			}
			return err
		}

		var year yearModel.AcademicYearModel
		if err := tx.First(&year, "academic_year_id = ?", board.ExamBoardAcademicYearID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("academic year not found")
			}
			return err
		}

		var courseEnr enrollModel.CourseEnrollmentModel
		if err := database.ForUpdate(tx).
			First(&courseEnr, "course_enrollment_id = ?", exam.ExamEnrollmentCourseEnrollmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("course enrollment not found")
			}
			return err
		}

		passed := grade >= year.AcademicYearPassingGrade

		// Outcome and grade on the exam enrollment itself.
		g := gradeService.Round2(grade)
		exam.ExamEnrollmentGrade = &g
		if passed {
			exam.ExamEnrollmentOutcome = model.ExamOutcomePassed
		} else {
			exam.ExamEnrollmentOutcome = model.ExamOutcomeFailed
		}
		if err := tx.Save(&exam).Error; err != nil {
			return err
		}

		// Mirror into the grade ledger as the final-type grade.
		if _, err := s.Ledger.Record(tx, courseEnr.CourseEnrollmentID, gradeModel.GradeTypeFinal, 1, g); err != nil {
			return err
		}

		wasApproved := courseEnr.CourseEnrollmentFinalStatus == enrollModel.FinalStatusApproved
		now := time.Now().UTC()

		switch {
		case passed:
			courseEnr.CourseEnrollmentFinalStatus = enrollModel.FinalStatusApproved
			courseEnr.CourseEnrollmentFinalGrade = &g
			courseEnr.CourseEnrollmentClosedAt = &now
			courseEnr.CourseEnrollmentClosedBy = &actorID
		case wasApproved:
			// Downgrade reversal: back to the coursework condition,
			// approval artifacts wiped.
			courseEnr.CourseEnrollmentFinalStatus = courseEnr.CourseworkCondition()
			courseEnr.CourseEnrollmentFinalGrade = nil
			courseEnr.CourseEnrollmentClosedAt = nil
			courseEnr.CourseEnrollmentClosedBy = nil
			log.Printf("[ExamSync] reversal exam_enrollment=%s course_enrollment=%s status=%s",
				exam.ExamEnrollmentID, courseEnr.CourseEnrollmentID, courseEnr.CourseEnrollmentFinalStatus)
		default:
			// Failing without a prior approval leaves the coursework
			// standing untouched.
		}
		if err := tx.Save(&courseEnr).Error; err != nil {
			return err
		}

		log.Printf("[ExamSync] graded exam_enrollment=%s grade=%.2f outcome=%s", exam.ExamEnrollmentID, g, exam.ExamEnrollmentOutcome)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &exam, nil
}
