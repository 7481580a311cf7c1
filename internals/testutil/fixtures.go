package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	yearModel "siga_backend/internals/features/academic/academic_years/model"
	yearService "siga_backend/internals/features/academic/academic_years/service"
	attendanceModel "siga_backend/internals/features/academic/attendance/model"
	courseModel "siga_backend/internals/features/academic/courses/model"
	sectionModel "siga_backend/internals/features/academic/sections/model"
	studentModel "siga_backend/internals/features/academic/students/model"
)

var seq int

func nextSeq() int {
	seq++
	return seq
}

// SeedYear creates an academic year with the calendar already
// generated. Dates default to March through November 2024 so every
// class date is safely in the past.
func SeedYear(t *testing.T, db *gorm.DB) *yearModel.AcademicYearModel {
	t.Helper()

	year := yearModel.AcademicYearModel{
		AcademicYearName:             fmt.Sprintf("Ciclo Lectivo Test %d", nextSeq()),
		AcademicYearStartDate:        time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		AcademicYearEndDate:          time.Date(2024, 11, 29, 0, 0, 0, 0, time.UTC),
		AcademicYearIsActive:         true,
		AcademicYearPassingGrade:     6.0,
		AcademicYearMinAttendancePct: 75,
		AcademicYearClosureEnabled:   true,
	}
	if err := db.Create(&year).Error; err != nil {
		t.Fatalf("seed year: %v", err)
	}
	if _, err := yearService.NewCalendarService(db).GenerateForYear(db, &year); err != nil {
		t.Fatalf("seed calendar: %v", err)
	}
	return &year
}

func SeedStudent(t *testing.T, db *gorm.DB) *studentModel.StudentModel {
	t.Helper()

	n := nextSeq()
	s := studentModel.StudentModel{
		StudentDNI:       fmt.Sprintf("3012%04d", n),
		StudentFirstName: "Ana",
		StudentLastName:  fmt.Sprintf("Prueba%d", n),
		StudentEmail:     fmt.Sprintf("ana%d@example.com", n),
		StudentStatus:    studentModel.StudentStatusActive,
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return &s
}

func SeedCourse(t *testing.T, db *gorm.DB, name string) *courseModel.CourseModel {
	t.Helper()

	c := courseModel.CourseModel{
		CourseName:    name,
		CourseCode:    fmt.Sprintf("C%03d", nextSeq()),
		CourseProgram: "Tecnicatura en Sistemas",
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return &c
}

// SeedSection creates an in-progress Monday morning section.
func SeedSection(t *testing.T, db *gorm.DB, year *yearModel.AcademicYearModel, course *courseModel.CourseModel, capacity int) *sectionModel.SectionModel {
	t.Helper()

	s := sectionModel.SectionModel{
		SectionCourseID:       course.CourseID,
		SectionAcademicYearID: year.AcademicYearID,
		SectionCode:           fmt.Sprintf("SEC%03d", nextSeq()),
		SectionWeekday:        int(time.Monday),
		SectionStartTime:      "08:00",
		SectionEndTime:        "10:00",
		SectionShift:          "morning",
		SectionCapacity:       capacity,
		SectionState:          sectionModel.SectionStateInProgress,
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed section: %v", err)
	}
	return &s
}

// MarkAttendance flips every attendance row of an enrollment.
func MarkAttendance(t *testing.T, db *gorm.DB, enrollmentID uuid.UUID, present bool) {
	t.Helper()

	if err := db.Model(&attendanceModel.AttendanceModel{}).
		Where("attendance_course_enrollment_id = ?", enrollmentID).
		Update("attendance_is_present", present).Error; err != nil {
		t.Fatalf("mark attendance: %v", err)
	}
}
