package database

import (
	"gorm.io/gorm"

	yearModel "siga_backend/internals/features/academic/academic_years/model"
	attendanceModel "siga_backend/internals/features/academic/attendance/model"
	courseModel "siga_backend/internals/features/academic/courses/model"
	enrollModel "siga_backend/internals/features/academic/enrollments/model"
	examModel "siga_backend/internals/features/academic/exam_boards/model"
	gradeModel "siga_backend/internals/features/academic/grades/model"
	sectionModel "siga_backend/internals/features/academic/sections/model"
	studentModel "siga_backend/internals/features/academic/students/model"
	auditModel "siga_backend/internals/features/audit/model"
)

// MigrateAll creates or updates every table the engine owns. Order
// follows the FK direction so fresh databases come up in one pass.
func MigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&yearModel.AcademicYearModel{},
		&yearModel.CalendarDayModel{},
		&studentModel.StudentModel{},
		&courseModel.CourseModel{},
		&courseModel.CoursePrerequisiteModel{},
		&sectionModel.SectionModel{},
		&enrollModel.CourseEnrollmentModel{},
		&attendanceModel.AttendanceModel{},
		&gradeModel.GradeModel{},
		&examModel.ExamBoardModel{},
		&examModel.ExamEnrollmentModel{},
		&auditModel.AuditLogModel{},
	)
}
