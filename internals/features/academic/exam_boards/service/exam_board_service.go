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
	enrollModel "siga_backend/internals/features/academic/enrollments/model"
	model "siga_backend/internals/features/academic/exam_boards/model"
)

// ExamBoardService runs the mesa de examen lifecycle: enrollment
// window, capacity, standing derivation and the forward-only state
// machine open -> closed -> finalized.
type ExamBoardService struct {
	DB *gorm.DB
}

func NewExamBoardService(db *gorm.DB) *ExamBoardService {
	return &ExamBoardService{DB: db}
}

/* =========================
   Enrollment window
========================= */

// CanEnroll: board open, deadline not passed, seats left.
func (s *ExamBoardService) CanEnroll(tx *gorm.DB, board *model.ExamBoardModel, now time.Time) (bool, string, error) {
	if board.ExamBoardState != model.BoardStateOpen {
		return false, "enrollment window is not open", nil
	}
	if !now.Before(board.ExamBoardEnrollmentDeadline) {
		return false, "enrollment deadline has passed", nil
	}
	var count int64
	if err := tx.Model(&model.ExamEnrollmentModel{}).
		Where("exam_enrollment_exam_board_id = ?", board.ExamBoardID).
		Count(&count).Error; err != nil {
		return false, "", err
	}
	if count >= int64(board.ExamBoardCapacity) {
		return false, fmt.Sprintf("board is full (%d seats)", board.ExamBoardCapacity), nil
	}
	return true, "", nil
}

// EnrollStudent validates the window, finds the student's course
// enrollment for the board's course, derives the exam standing from
// its coursework condition and creates the exam enrollment.
func (s *ExamBoardService) EnrollStudent(boardID, studentID uuid.UUID) (*model.ExamEnrollmentModel, error) {
	var created *model.ExamEnrollmentModel

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var board model.ExamBoardModel
		if err := database.ForUpdate(tx).
			First(&board, "exam_board_id = ?", boardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("exam board not found")
			}
			return err
		}

		ok, reason, err := s.CanEnroll(tx, &board, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NewValidation("cannot enroll: " + reason)
		}

		var dup int64
		if err := tx.Model(&model.ExamEnrollmentModel{}).
			Where("exam_enrollment_exam_board_id = ? AND exam_enrollment_student_id = ?", boardID, studentID).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return apperr.NewValidation("student is already enrolled in this exam board")
		}

		// The student's course enrollment for the board's course,
		// newest first when they cursed it more than once.
		var courseEnr enrollModel.CourseEnrollmentModel
		err = tx.
			Joins("JOIN sections ON sections.section_id = course_enrollments.course_enrollment_section_id").
			Where("course_enrollments.course_enrollment_student_id = ?", studentID).
			Where("sections.section_course_id = ?", board.ExamBoardCourseID).
			Order("course_enrollments.course_enrollment_created_at DESC").
			First(&courseEnr).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("student has no course enrollment for this course")
			}
			return err
		}

		if courseEnr.CourseEnrollmentFinalStatus == enrollModel.FinalStatusApproved {
			return apperr.NewValidation("course is already approved, cannot re-take the exam")
		}

		standing := model.ExamStandingLibre
		if courseEnr.CourseworkCondition() == enrollModel.ConditionRegular {
			standing = model.ExamStandingRegular
		}

		exam := model.ExamEnrollmentModel{
			ExamEnrollmentExamBoardID:        boardID,
			ExamEnrollmentStudentID:          studentID,
			ExamEnrollmentCourseEnrollmentID: courseEnr.CourseEnrollmentID,
			ExamEnrollmentStanding:           standing,
			ExamEnrollmentOutcome:            model.ExamOutcomeEnrolled,
		}
		if err := tx.Create(&exam).Error; err != nil {
			return err
		}
		created = &exam

		log.Printf("[ExamBoard] enrolled student=%s board=%s standing=%s", studentID, boardID, standing)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

/* =========================
   State machine
========================= */

// CloseEnrollmentWindow: open -> closed.
func (s *ExamBoardService) CloseEnrollmentWindow(boardID uuid.UUID) (*model.ExamBoardModel, error) {
	var board model.ExamBoardModel

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := database.ForUpdate(tx).
			First(&board, "exam_board_id = ?", boardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("exam board not found")
			}
			return err
		}
		if board.ExamBoardState != model.BoardStateOpen {
			return apperr.NewStateConflict(fmt.Sprintf(
				"cannot close enrollment: board is %s", board.ExamBoardState))
		}
		board.ExamBoardState = model.BoardStateClosed
		return tx.Save(&board).Error
	})
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// Finalize: closed -> finalized. Every enrollment still sitting in
// "enrolled" becomes "absent"; the board state is terminal afterwards.
func (s *ExamBoardService) Finalize(boardID uuid.UUID) (*model.ExamBoardModel, int, error) {
	var board model.ExamBoardModel
	absents := 0

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := database.ForUpdate(tx).
			First(&board, "exam_board_id = ?", boardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("exam board not found")
			}
			return err
		}
		if board.ExamBoardState == model.BoardStateFinalized {
			return apperr.NewStateConflict("exam board is already finalized")
		}
		// Forward-only machine: the enrollment window has to be closed
		// before the acta is finalized.
		if board.ExamBoardState != model.BoardStateClosed {
			return apperr.NewStateConflict(fmt.Sprintf(
				"cannot finalize: board is %s, close the enrollment window first", board.ExamBoardState))
		}

		result := tx.Model(&model.ExamEnrollmentModel{}).
			Where("exam_enrollment_exam_board_id = ? AND exam_enrollment_outcome = ?",
				boardID, model.ExamOutcomeEnrolled).
			Update("exam_enrollment_outcome", model.ExamOutcomeAbsent)
		if result.Error != nil {
			return result.Error
		}
		absents = int(result.RowsAffected)

		now := time.Now().UTC()
		board.ExamBoardState = model.BoardStateFinalized
		board.ExamBoardFinalizedAt = &now
		if err := tx.Save(&board).Error; err != nil {
			return err
		}

		log.Printf("[ExamBoard] finalized board=%s absents=%d", boardID, absents)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &board, absents, nil
}
