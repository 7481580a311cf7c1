package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siga_backend/internals/apperr"
	service "siga_backend/internals/features/academic/attendance/service"
	enrollService "siga_backend/internals/features/academic/enrollments/service"
	"siga_backend/internals/testutil"
)

func TestRegisterAttendance(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewAttendanceService(db)

	year := testutil.SeedYear(t, db)
	course := testutil.SeedCourse(t, db, "Programación I")
	section := testutil.SeedSection(t, db, year, course, 30)
	student := testutil.SeedStudent(t, db)
	enr, err := enrollService.NewEnrollmentService(db).Enroll(student.StudentID, section.SectionID)
	require.NoError(t, err)

	// First class Monday of the year.
	classDate := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	row, err := svc.Register(enr.CourseEnrollmentID, classDate, true)
	require.NoError(t, err)
	assert.True(t, row.AttendanceIsPresent)

	// Correction back to absent overwrites the same row.
	row2, err := svc.Register(enr.CourseEnrollmentID, classDate, false)
	require.NoError(t, err)
	assert.Equal(t, row.AttendanceID, row2.AttendanceID)
	assert.False(t, row2.AttendanceIsPresent)
}

func TestRegisterAttendanceRejectsNonClassDays(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewAttendanceService(db)

	year := testutil.SeedYear(t, db)
	course := testutil.SeedCourse(t, db, "Programación I")
	section := testutil.SeedSection(t, db, year, course, 30)
	student := testutil.SeedStudent(t, db)
	enr, err := enrollService.NewEnrollmentService(db).Enroll(student.StudentID, section.SectionID)
	require.NoError(t, err)

	// A Saturday inside the year.
	_, err = svc.Register(enr.CourseEnrollmentID, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), true)
	require.Error(t, err)
	assert.True(t, apperr.IsStateConflict(err))

	// A date outside the calendar.
	_, err = svc.Register(enr.CourseEnrollmentID, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), true)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	// A class day the section does not meet on (a Tuesday: the
	// skeleton has no row for it).
	_, err = svc.Register(enr.CourseEnrollmentID, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestAttendancePercentage(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewAttendanceService(db)

	year := testutil.SeedYear(t, db)
	course := testutil.SeedCourse(t, db, "Programación I")
	section := testutil.SeedSection(t, db, year, course, 30)
	student := testutil.SeedStudent(t, db)
	enr, err := enrollService.NewEnrollmentService(db).Enroll(student.StudentID, section.SectionID)
	require.NoError(t, err)

	// Nothing registered yet: the skeleton is all absences.
	pct, err := svc.Percentage(db, enr.CourseEnrollmentID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0.0, pct)

	// Present on the first two Mondays, cutoff after the third: 2 of 3.
	_, err = svc.Register(enr.CourseEnrollmentID, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), true)
	require.NoError(t, err)
	_, err = svc.Register(enr.CourseEnrollmentID, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), true)
	require.NoError(t, err)

	pct, err = svc.Percentage(db, enr.CourseEnrollmentID, time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 66.67, pct, 0.001)

	// The cutoff is exclusive: the Mar 18 row stops counting.
	pct, err = svc.Percentage(db, enr.CourseEnrollmentID, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 100.0, pct)

	// Everything present over the whole year.
	testutil.MarkAttendance(t, db, enr.CourseEnrollmentID, true)
	pct, err = svc.Percentage(db, enr.CourseEnrollmentID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 100.0, pct)
}
