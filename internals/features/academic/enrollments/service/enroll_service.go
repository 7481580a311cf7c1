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
	yearService "siga_backend/internals/features/academic/academic_years/service"
	attendanceModel "siga_backend/internals/features/academic/attendance/model"
	courseModel "siga_backend/internals/features/academic/courses/model"
	model "siga_backend/internals/features/academic/enrollments/model"
	sectionModel "siga_backend/internals/features/academic/sections/model"
	studentModel "siga_backend/internals/features/academic/students/model"
)

// EnrollmentService gate-keeps new course enrollments and builds the
// attendance skeleton. Validation order is fixed: capacity before
// prerequisites, so a full section is reported as such even when the
// student also lacks a correlativa.
type EnrollmentService struct {
	DB       *gorm.DB
	Calendar *yearService.CalendarService
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{
		DB:       db,
		Calendar: yearService.NewCalendarService(db),
	}
}

// Enroll validates and creates a course enrollment plus its attendance
// skeleton in one transaction. The section row is locked so two
// requests racing for the last seat serialize on the capacity count.
func (s *EnrollmentService) Enroll(studentID, sectionID uuid.UUID) (*model.CourseEnrollmentModel, error) {
	var created *model.CourseEnrollmentModel

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var student studentModel.StudentModel
		if err := tx.First(&student, "student_id = ?", studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("student not found")
			}
			return err
		}

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

		// Duplicate enrollment
		var dup int64
		if err := tx.Model(&model.CourseEnrollmentModel{}).
			Where("course_enrollment_student_id = ? AND course_enrollment_section_id = ?", studentID, sectionID).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return apperr.NewValidation("student is already enrolled in this section")
		}

		// (a) Capacity, enforced for new enrollments only.
		var enrolled int64
		if err := tx.Model(&model.CourseEnrollmentModel{}).
			Where("course_enrollment_section_id = ?", sectionID).
			Count(&enrolled).Error; err != nil {
			return err
		}
		if enrolled >= int64(section.SectionCapacity) {
			return apperr.NewValidation(fmt.Sprintf(
				"capacity exceeded: section %s is full (%d seats)",
				section.SectionCode, section.SectionCapacity))
		}

		// (b) Prerequisites: every direct correlativa must be approved.
		if err := s.checkPrerequisites(tx, studentID, section.SectionCourseID); err != nil {
			return err
		}

		enr := model.CourseEnrollmentModel{
			CourseEnrollmentStudentID:   studentID,
			CourseEnrollmentSectionID:   sectionID,
			CourseEnrollmentCondition:   model.ConditionAttending,
			CourseEnrollmentFinalStatus: model.FinalStatusAttending,
		}
		if err := tx.Create(&enr).Error; err != nil {
			return err
		}

		// Attendance skeleton in the same transaction: no observable
		// window with an enrollment but no attendance rows.
		n, err := s.generateAttendance(tx, &enr, &section)
		if err != nil {
			return err
		}
		log.Printf("[Enroll] student=%s section=%s attendance_rows=%d",
			student.StudentEnrollmentNumber, section.SectionCode, n)

		created = &enr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// checkPrerequisites fails with the first missing course, by name.
func (s *EnrollmentService) checkPrerequisites(tx *gorm.DB, studentID, courseID uuid.UUID) error {
	var edges []courseModel.CoursePrerequisiteModel
	if err := tx.
		Where("course_prerequisite_course_id = ?", courseID).
		Order("course_prerequisite_created_at ASC").
		Find(&edges).Error; err != nil {
		return err
	}
	if len(edges) == 0 {
		return nil
	}

	// The student's approved course set, via their enrollments.
	var approvedIDs []uuid.UUID
	if err := tx.Model(&model.CourseEnrollmentModel{}).
		Joins("JOIN sections ON sections.section_id = course_enrollments.course_enrollment_section_id").
		Where("course_enrollments.course_enrollment_student_id = ?", studentID).
		Where("course_enrollments.course_enrollment_final_status = ?", model.FinalStatusApproved).
		Pluck("sections.section_course_id", &approvedIDs).Error; err != nil {
		return err
	}
	approved := make(map[uuid.UUID]bool, len(approvedIDs))
	for _, id := range approvedIDs {
		approved[id] = true
	}

	for _, e := range edges {
		if !approved[e.CoursePrerequisitePrerequisiteID] {
			var prereq courseModel.CourseModel
			if err := tx.First(&prereq, "course_id = ?", e.CoursePrerequisitePrerequisiteID).Error; err != nil {
				return err
			}
			return apperr.NewValidation(fmt.Sprintf(
				"prerequisite not approved: %s", prereq.CourseName))
		}
	}
	return nil
}

// generateAttendance materializes one absent row per resolved class
// date. Idempotent: dates that already have a row are skipped.
func (s *EnrollmentService) generateAttendance(tx *gorm.DB, enr *model.CourseEnrollmentModel, section *sectionModel.SectionModel) (int, error) {
	dates, err := s.Calendar.ResolveClassDates(tx, section.SectionAcademicYearID, weekday(section.SectionWeekday))
	if err != nil {
		return 0, err
	}

	var existing []attendanceModel.AttendanceModel
	if err := tx.
		Where("attendance_course_enrollment_id = ?", enr.CourseEnrollmentID).
		Find(&existing).Error; err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, a := range existing {
		seen[a.AttendanceDate.Format("2006-01-02")] = true
	}

	rows := make([]attendanceModel.AttendanceModel, 0, len(dates))
	for _, d := range dates {
		if seen[d.Format("2006-01-02")] {
			continue
		}
		rows = append(rows, attendanceModel.AttendanceModel{
			AttendanceCourseEnrollmentID: enr.CourseEnrollmentID,
			AttendanceDate:               d,
			AttendanceIsPresent:          false,
		})
	}
	if len(rows) > 0 {
		if err := tx.CreateInBatches(&rows, 200).Error; err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func weekday(d int) time.Weekday { return time.Weekday(d) }
