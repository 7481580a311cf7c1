package service

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"siga_backend/internals/apperr"
	database "siga_backend/internals/databases"
	yearModel "siga_backend/internals/features/academic/academic_years/model"
	attendanceService "siga_backend/internals/features/academic/attendance/service"
	enrollModel "siga_backend/internals/features/academic/enrollments/model"
	gradeService "siga_backend/internals/features/academic/grades/service"
	sectionModel "siga_backend/internals/features/academic/sections/model"
)

// RegularizationService closes a section's cursada: it fixes each
// attending student's standing (regular/libre) from coursework average
// and attendance, then finalizes the section. "Cerrar cursada".
type RegularizationService struct {
	DB         *gorm.DB
	Ledger     *gradeService.GradeLedger
	Attendance *attendanceService.AttendanceService
}

func NewRegularizationService(db *gorm.DB) *RegularizationService {
	return &RegularizationService{
		DB:         db,
		Ledger:     gradeService.NewGradeLedger(db),
		Attendance: attendanceService.NewAttendanceService(db),
	}
}

type RegularizationResult struct {
	Processed int `json:"processed"`
	Regular   int `json:"regular"`
	Libre     int `json:"libre"`
	// NothingToDo: no attending enrollments were found; the section
	// was left untouched. Not an error.
	NothingToDo bool `json:"nothing_to_do"`
}

// RegularizeSection processes every attending enrollment of the
// section inside one transaction, then finalizes it. A second call on
// the same section is rejected with a state conflict.
func (s *RegularizationService) RegularizeSection(sectionID, actorID uuid.UUID) (*RegularizationResult, error) {
	res := &RegularizationResult{}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var section sectionModel.SectionModel
		if err := database.ForUpdate(tx).
			First(&section, "section_id = ?", sectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("section not found")
			}
			return err
		}
		if section.IsFinalized() {
			return apperr.NewStateConflict("section is already finalized")
		}

		var year yearModel.AcademicYearModel
		if err := tx.First(&year, "academic_year_id = ?", section.SectionAcademicYearID).Error; err != nil {
			return err
		}
		if !year.AcademicYearClosureEnabled {
			return apperr.NewValidation("cursada closure is not enabled for this academic year")
		}

		var enrollments []enrollModel.CourseEnrollmentModel
		if err := tx.
			Where("course_enrollment_section_id = ? AND course_enrollment_final_status = ?",
				sectionID, enrollModel.FinalStatusAttending).
			Find(&enrollments).Error; err != nil {
			return err
		}
		if len(enrollments) == 0 {
			res.NothingToDo = true
			return nil
		}

		now := time.Now().UTC()
		for i := range enrollments {
			enr := &enrollments[i]

			avg, err := s.Ledger.CourseworkAverage(tx, enr.CourseEnrollmentID)
			if err != nil {
				return err
			}
			pct, err := s.Attendance.Percentage(tx, enr.CourseEnrollmentID, now)
			if err != nil {
				return err
			}

			// Zero grades: libre unconditionally. Otherwise regular
			// iff average and attendance both clear the year's bar.
			condition := enrollModel.ConditionLibre
			if avg != nil &&
				*avg >= year.AcademicYearPassingGrade &&
				pct >= year.AcademicYearMinAttendancePct {
				condition = enrollModel.ConditionRegular
			}

			enr.CourseEnrollmentCondition = condition
			enr.CourseEnrollmentFinalStatus = condition // mirror: attending -> regular/libre
			enr.CourseEnrollmentCourseworkAverage = avg
			enr.CourseEnrollmentRegularizedAt = &now

			if err := tx.Save(enr).Error; err != nil {
				return err
			}

			res.Processed++
			if condition == enrollModel.ConditionRegular {
				res.Regular++
			} else {
				res.Libre++
			}
		}

		section.SectionState = sectionModel.SectionStateFinalized
		section.SectionFinalizedAt = &now
		if err := tx.Save(&section).Error; err != nil {
			return err
		}

		log.Printf("[Regularize] section=%s processed=%d regular=%d libre=%d actor=%s",
			section.SectionCode, res.Processed, res.Regular, res.Libre, actorID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
