package service

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"siga_backend/internals/apperr"
	database "siga_backend/internals/databases"
	enrollModel "siga_backend/internals/features/academic/enrollments/model"
	gradeService "siga_backend/internals/features/academic/grades/service"
	sectionModel "siga_backend/internals/features/academic/sections/model"
)

// Final-grade closure threshold. Independent from the academic year's
// regularization bar: a direct closure approves at 6 by institutional
// rule.
const finalClosurePassingGrade = 6.0

// FinalClosureService is the second closure stage ("cerrar comisión"):
// each regular enrollment's materia-level outcome is derived straight
// from its effective final grade, skipping the exam board. Runs after
// regularization, so an already finalized section is expected input; a
// rerun converges to a "nothing to do" result instead of failing.
type FinalClosureService struct {
	DB     *gorm.DB
	Ledger *gradeService.GradeLedger
}

func NewFinalClosureService(db *gorm.DB) *FinalClosureService {
	return &FinalClosureService{
		DB:     db,
		Ledger: gradeService.NewGradeLedger(db),
	}
}

type FinalClosureResult struct {
	Processed   int  `json:"processed"`
	Approved    int  `json:"approved"`
	Failed      int  `json:"failed"`
	Ungraded    int  `json:"ungraded"`
	NothingToDo bool `json:"nothing_to_do"`
}

// CloseSectionByGrades processes every regular enrollment, then
// finalizes the section regardless of per-student outcomes. Students
// without any grade are left unclosed and counted as ungraded.
func (s *FinalClosureService) CloseSectionByGrades(sectionID, actorID uuid.UUID) (*FinalClosureResult, error) {
	res := &FinalClosureResult{}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var section sectionModel.SectionModel
		if err := database.ForUpdate(tx).
			First(&section, "section_id = ?", sectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("section not found")
			}
			return err
		}

		// A still-attending enrollment means the cursada was never
		// closed; grades alone cannot decide those.
		var attending int64
		if err := tx.Model(&enrollModel.CourseEnrollmentModel{}).
			Where("course_enrollment_section_id = ? AND course_enrollment_final_status = ?",
				sectionID, enrollModel.FinalStatusAttending).
			Count(&attending).Error; err != nil {
			return err
		}
		if attending > 0 {
			return apperr.NewValidation("section has attending enrollments, regularize the cursada first")
		}

		var enrollments []enrollModel.CourseEnrollmentModel
		if err := tx.
			Where("course_enrollment_section_id = ? AND course_enrollment_final_status = ?",
				sectionID, enrollModel.FinalStatusRegular).
			Find(&enrollments).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		if len(enrollments) == 0 {
			res.NothingToDo = true
		}

		for i := range enrollments {
			enr := &enrollments[i]

			grade, err := s.Ledger.EffectiveFinalGrade(tx, enr.CourseEnrollmentID)
			if err != nil {
				return err
			}
			if grade == nil {
				res.Ungraded++
				continue
			}

			if *grade >= finalClosurePassingGrade {
				enr.CourseEnrollmentFinalStatus = enrollModel.FinalStatusApproved
			} else {
				enr.CourseEnrollmentFinalStatus = enrollModel.FinalStatusFailed
			}
			enr.CourseEnrollmentFinalGrade = grade
			enr.CourseEnrollmentClosedAt = &now
			enr.CourseEnrollmentClosedBy = &actorID

			if err := tx.Save(enr).Error; err != nil {
				return err
			}

			res.Processed++
			if enr.CourseEnrollmentFinalStatus == enrollModel.FinalStatusApproved {
				res.Approved++
			} else {
				res.Failed++
			}
		}

		// Section finalizes even when some students stay ungraded.
		// Already finalized after regularization: nothing to re-stamp.
		if !section.IsFinalized() {
			section.SectionState = sectionModel.SectionStateFinalized
			section.SectionFinalizedAt = &now
			if err := tx.Save(&section).Error; err != nil {
				return err
			}
		}

		log.Printf("[CloseSection] section=%s processed=%d approved=%d failed=%d ungraded=%d actor=%s",
			section.SectionCode, res.Processed, res.Approved, res.Failed, res.Ungraded, actorID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
