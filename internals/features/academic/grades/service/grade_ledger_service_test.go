package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"siga_backend/internals/apperr"
	enrollService "siga_backend/internals/features/academic/enrollments/service"
	gradeModel "siga_backend/internals/features/academic/grades/model"
	service "siga_backend/internals/features/academic/grades/service"
	"siga_backend/internals/testutil"
)

func newLedgerFixture(t *testing.T) (*gorm.DB, *service.GradeLedger, uuid.UUID) {
	t.Helper()

	db := testutil.OpenDB(t)
	year := testutil.SeedYear(t, db)
	course := testutil.SeedCourse(t, db, "Programación I")
	section := testutil.SeedSection(t, db, year, course, 30)
	student := testutil.SeedStudent(t, db)
	enr, err := enrollService.NewEnrollmentService(db).Enroll(student.StudentID, section.SectionID)
	require.NoError(t, err)

	return db, service.NewGradeLedger(db), enr.CourseEnrollmentID
}

func TestRecordGradeValidation(t *testing.T) {
	db, ledger, enrID := newLedgerFixture(t)

	_, err := ledger.Record(db, enrID, "oral", 1, 7)
	assert.True(t, apperr.IsValidation(err))

	_, err = ledger.Record(db, enrID, gradeModel.GradeTypePartial, 0, 7)
	assert.True(t, apperr.IsValidation(err))

	_, err = ledger.Record(db, enrID, gradeModel.GradeTypePartial, 1, 10.5)
	assert.True(t, apperr.IsValidation(err))

	_, err = ledger.Record(db, enrID, gradeModel.GradeTypePartial, 1, -1)
	assert.True(t, apperr.IsValidation(err))
}

func TestRecordGradeUpsertsByNaturalKey(t *testing.T) {
	db, ledger, enrID := newLedgerFixture(t)

	first, err := ledger.Record(db, enrID, gradeModel.GradeTypePartial, 1, 4)
	require.NoError(t, err)

	// A correction lands on the same row.
	second, err := ledger.Record(db, enrID, gradeModel.GradeTypePartial, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, first.GradeID, second.GradeID)
	assert.Equal(t, 7.0, second.GradeValue)

	var count int64
	require.NoError(t, db.Model(&gradeModel.GradeModel{}).
		Where("grade_course_enrollment_id = ?", enrID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// The digest follows the value.
	assert.Equal(t, second.ComputeIntegrityHash(), second.GradeIntegrityHash)
	assert.NotEqual(t, first.GradeIntegrityHash, second.GradeIntegrityHash)
}

func TestAverages(t *testing.T) {
	db, ledger, enrID := newLedgerFixture(t)

	// No grades at all.
	avg, err := ledger.CourseworkAverage(db, enrID)
	require.NoError(t, err)
	assert.Nil(t, avg)
	eff, err := ledger.EffectiveFinalGrade(db, enrID)
	require.NoError(t, err)
	assert.Nil(t, eff)

	_, err = ledger.Record(db, enrID, gradeModel.GradeTypePartial, 1, 8)
	require.NoError(t, err)
	_, err = ledger.Record(db, enrID, gradeModel.GradeTypePartial, 2, 6)
	require.NoError(t, err)
	_, err = ledger.Record(db, enrID, gradeModel.GradeTypeHomework, 1, 7)
	require.NoError(t, err)

	avg, err = ledger.CourseworkAverage(db, enrID)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.Equal(t, 7.0, *avg)

	// Without a final-type grade the effective grade is the overall
	// average.
	eff, err = ledger.EffectiveFinalGrade(db, enrID)
	require.NoError(t, err)
	require.NotNil(t, eff)
	assert.Equal(t, 7.0, *eff)

	// A final-type grade takes precedence over every average.
	_, err = ledger.Record(db, enrID, gradeModel.GradeTypeFinal, 1, 4)
	require.NoError(t, err)

	eff, err = ledger.EffectiveFinalGrade(db, enrID)
	require.NoError(t, err)
	require.NotNil(t, eff)
	assert.Equal(t, 4.0, *eff)

	// The final grade never counts toward the coursework average.
	avg, err = ledger.CourseworkAverage(db, enrID)
	require.NoError(t, err)
	assert.Equal(t, 7.0, *avg)
}

func TestAveragesAreRounded(t *testing.T) {
	db, ledger, enrID := newLedgerFixture(t)

	_, err := ledger.Record(db, enrID, gradeModel.GradeTypePartial, 1, 8)
	require.NoError(t, err)
	_, err = ledger.Record(db, enrID, gradeModel.GradeTypePartial, 2, 6)
	require.NoError(t, err)
	_, err = ledger.Record(db, enrID, gradeModel.GradeTypePartial, 3, 6)
	require.NoError(t, err)

	avg, err := ledger.CourseworkAverage(db, enrID)
	require.NoError(t, err)
	assert.Equal(t, 6.67, *avg)
}

func TestVerifyIntegrity(t *testing.T) {
	db, ledger, enrID := newLedgerFixture(t)

	g, err := ledger.Record(db, enrID, gradeModel.GradeTypePartial, 1, 8)
	require.NoError(t, err)

	mismatches, err := ledger.VerifyIntegrity(db, enrID)
	require.NoError(t, err)
	assert.Empty(t, mismatches)

	// Tamper with the stored value behind the hooks' back.
	require.NoError(t, db.Exec(
		"UPDATE grades SET grade_value = 10 WHERE grade_id = ?", g.GradeID).Error)

	mismatches, err = ledger.VerifyIntegrity(db, enrID)
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, g.GradeID, mismatches[0].GradeID)
}
