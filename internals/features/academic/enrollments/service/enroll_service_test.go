package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siga_backend/internals/apperr"
	yearService "siga_backend/internals/features/academic/academic_years/service"
	attendanceModel "siga_backend/internals/features/academic/attendance/model"
	courseModel "siga_backend/internals/features/academic/courses/model"
	enrollModel "siga_backend/internals/features/academic/enrollments/model"
	service "siga_backend/internals/features/academic/enrollments/service"
	sectionModel "siga_backend/internals/features/academic/sections/model"
	"siga_backend/internals/testutil"
)

func uuidOf(s string) uuid.UUID { return uuid.MustParse(s) }

func TestEnrollCreatesAttendanceSkeleton(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewEnrollmentService(db)

	year := testutil.SeedYear(t, db)
	course := testutil.SeedCourse(t, db, "Programación I")
	section := testutil.SeedSection(t, db, year, course, 30)
	student := testutil.SeedStudent(t, db)

	enr, err := svc.Enroll(student.StudentID, section.SectionID)
	require.NoError(t, err)
	assert.Equal(t, enrollModel.ConditionAttending, enr.CourseEnrollmentCondition)
	assert.Equal(t, enrollModel.FinalStatusAttending, enr.CourseEnrollmentFinalStatus)

	// Exactly one absent row per class Monday of the year.
	expected, err := yearService.NewCalendarService(db).
		ResolveClassDates(db, year.AcademicYearID, time.Monday)
	require.NoError(t, err)

	var rows []attendanceModel.AttendanceModel
	require.NoError(t, db.
		Where("attendance_course_enrollment_id = ?", enr.CourseEnrollmentID).
		Order("attendance_date ASC").
		Find(&rows).Error)
	require.Len(t, rows, len(expected))
	for i, row := range rows {
		assert.Equal(t, expected[i].Format("2006-01-02"), row.AttendanceDate.Format("2006-01-02"))
		assert.False(t, row.AttendanceIsPresent)
	}
}

func TestEnrollRejectsDuplicate(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewEnrollmentService(db)

	year := testutil.SeedYear(t, db)
	course := testutil.SeedCourse(t, db, "Programación I")
	section := testutil.SeedSection(t, db, year, course, 30)
	student := testutil.SeedStudent(t, db)

	_, err := svc.Enroll(student.StudentID, section.SectionID)
	require.NoError(t, err)

	_, err = svc.Enroll(student.StudentID, section.SectionID)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "already enrolled")
}

func TestEnrollRejectsWhenFull(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewEnrollmentService(db)

	year := testutil.SeedYear(t, db)
	course := testutil.SeedCourse(t, db, "Programación I")
	section := testutil.SeedSection(t, db, year, course, 2)

	for i := 0; i < 2; i++ {
		student := testutil.SeedStudent(t, db)
		_, err := svc.Enroll(student.StudentID, section.SectionID)
		require.NoError(t, err)
	}

	third := testutil.SeedStudent(t, db)
	_, err := svc.Enroll(third.StudentID, section.SectionID)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "capacity exceeded")
	assert.Contains(t, err.Error(), "2 seats")
}

func TestEnrollChecksPrerequisites(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewEnrollmentService(db)

	year := testutil.SeedYear(t, db)
	prog1 := testutil.SeedCourse(t, db, "Programación I")
	prog2 := testutil.SeedCourse(t, db, "Programación II")
	require.NoError(t, db.Create(&courseModel.CoursePrerequisiteModel{
		CoursePrerequisiteCourseID:       prog2.CourseID,
		CoursePrerequisitePrerequisiteID: prog1.CourseID,
	}).Error)

	sec1 := testutil.SeedSection(t, db, year, prog1, 30)
	sec2 := testutil.SeedSection(t, db, year, prog2, 30)
	student := testutil.SeedStudent(t, db)

	// Without an approved Programación I, Programación II is closed.
	_, err := svc.Enroll(student.StudentID, sec2.SectionID)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "prerequisite not approved: Programación I")

	// Cursing the prerequisite is not enough; it must be approved.
	enr1, err := svc.Enroll(student.StudentID, sec1.SectionID)
	require.NoError(t, err)
	_, err = svc.Enroll(student.StudentID, sec2.SectionID)
	require.Error(t, err)

	grade := 8.0
	now := time.Now().UTC()
	enr1.CourseEnrollmentFinalStatus = enrollModel.FinalStatusApproved
	enr1.CourseEnrollmentFinalGrade = &grade
	enr1.CourseEnrollmentClosedAt = &now
	require.NoError(t, db.Save(enr1).Error)

	_, err = svc.Enroll(student.StudentID, sec2.SectionID)
	assert.NoError(t, err)
}

func TestEnrollRejectsFinalizedSection(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewEnrollmentService(db)

	year := testutil.SeedYear(t, db)
	course := testutil.SeedCourse(t, db, "Programación I")
	section := testutil.SeedSection(t, db, year, course, 30)

	now := time.Now().UTC()
	section.SectionState = sectionModel.SectionStateFinalized
	section.SectionFinalizedAt = &now
	require.NoError(t, db.Save(section).Error)

	student := testutil.SeedStudent(t, db)
	_, err := svc.Enroll(student.StudentID, section.SectionID)
	require.Error(t, err)
	assert.True(t, apperr.IsStateConflict(err))
}

func TestEnrollUnknownStudentOrSection(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewEnrollmentService(db)

	year := testutil.SeedYear(t, db)
	course := testutil.SeedCourse(t, db, "Programación I")
	section := testutil.SeedSection(t, db, year, course, 30)
	student := testutil.SeedStudent(t, db)

	_, err := svc.Enroll(student.StudentID, uuidOf("11111111-1111-1111-1111-111111111111"))
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.Enroll(uuidOf("22222222-2222-2222-2222-222222222222"), section.SectionID)
	assert.True(t, apperr.IsNotFound(err))
}
