package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"siga_backend/internals/apperr"
	yearService "siga_backend/internals/features/academic/academic_years/service"
	model "siga_backend/internals/features/academic/attendance/model"
	enrollModel "siga_backend/internals/features/academic/enrollments/model"
	gradeService "siga_backend/internals/features/academic/grades/service"
	sectionModel "siga_backend/internals/features/academic/sections/model"
)

type AttendanceService struct {
	DB       *gorm.DB
	Calendar *yearService.CalendarService
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{
		DB:       db,
		Calendar: yearService.NewCalendarService(db),
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Register marks a student present or absent on a class date. The row
// must already exist (the skeleton is generated at enrollment time);
// marking a non-class date is a stale-view conflict, not bad input.
func (s *AttendanceService) Register(enrollmentID uuid.UUID, date time.Time, present bool) (*model.AttendanceModel, error) {
	var updated *model.AttendanceModel

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var enr enrollModel.CourseEnrollmentModel
		if err := tx.First(&enr, "course_enrollment_id = ?", enrollmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("course enrollment not found")
			}
			return err
		}

		var section sectionModel.SectionModel
		if err := tx.First(&section, "section_id = ?", enr.CourseEnrollmentSectionID).Error; err != nil {
			return err
		}

		// Class-day check against the academic calendar.
		if _, err := s.Calendar.LookupDay(tx, section.SectionAcademicYearID, date); err != nil {
			return err
		}

		var att model.AttendanceModel
		if err := tx.
			Where("attendance_course_enrollment_id = ? AND attendance_date = ?", enrollmentID, dateOnly(date)).
			First(&att).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound(fmt.Sprintf(
					"no attendance record for %s", dateOnly(date).Format("2006-01-02")))
			}
			return err
		}

		att.AttendanceIsPresent = present
		if err := tx.Save(&att).Error; err != nil {
			return err
		}
		updated = &att
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Percentage computes present/total over records strictly before the
// given date, rounded to 2 decimals. No records yet means 0.
func (s *AttendanceService) Percentage(tx *gorm.DB, enrollmentID uuid.UUID, before time.Time) (float64, error) {
	var rows []model.AttendanceModel
	if err := tx.
		Where("attendance_course_enrollment_id = ? AND attendance_date < ?", enrollmentID, dateOnly(before)).
		Find(&rows).Error; err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	present := 0
	for _, r := range rows {
		if r.AttendanceIsPresent {
			present++
		}
	}
	return gradeService.Round2(float64(present) * 100 / float64(len(rows))), nil
}

// List returns the full attendance sheet of an enrollment, ascending.
func (s *AttendanceService) List(enrollmentID uuid.UUID) ([]model.AttendanceModel, error) {
	var rows []model.AttendanceModel
	err := s.DB.
		Where("attendance_course_enrollment_id = ?", enrollmentID).
		Order("attendance_date ASC").
		Find(&rows).Error
	return rows, err
}
