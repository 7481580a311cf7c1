package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"siga_backend/internals/apperr"
	service "siga_backend/internals/features/academic/closure/service"
	enrollModel "siga_backend/internals/features/academic/enrollments/model"
	enrollService "siga_backend/internals/features/academic/enrollments/service"
	gradeModel "siga_backend/internals/features/academic/grades/model"
	gradeService "siga_backend/internals/features/academic/grades/service"
	sectionModel "siga_backend/internals/features/academic/sections/model"
	"siga_backend/internals/testutil"
)

type closureFixture struct {
	db      *gorm.DB
	ledger  *gradeService.GradeLedger
	section *sectionModel.SectionModel
	actor   uuid.UUID
}

func newClosureFixture(t *testing.T) *closureFixture {
	t.Helper()

	db := testutil.OpenDB(t)
	year := testutil.SeedYear(t, db)
	course := testutil.SeedCourse(t, db, "Programación I")
	section := testutil.SeedSection(t, db, year, course, 30)

	return &closureFixture{
		db:      db,
		ledger:  gradeService.NewGradeLedger(db),
		section: section,
		actor:   uuid.New(),
	}
}

// enrollWith creates a student with the given partial grades and full
// attendance unless present=false.
func (f *closureFixture) enrollWith(t *testing.T, grades []float64, present bool) *enrollModel.CourseEnrollmentModel {
	t.Helper()

	student := testutil.SeedStudent(t, f.db)
	enr, err := enrollService.NewEnrollmentService(f.db).Enroll(student.StudentID, f.section.SectionID)
	require.NoError(t, err)

	for i, v := range grades {
		_, err := f.ledger.Record(f.db, enr.CourseEnrollmentID, gradeModel.GradeTypePartial, i+1, v)
		require.NoError(t, err)
	}
	testutil.MarkAttendance(t, f.db, enr.CourseEnrollmentID, present)
	return enr
}

func (f *closureFixture) reload(t *testing.T, id uuid.UUID) enrollModel.CourseEnrollmentModel {
	t.Helper()

	var enr enrollModel.CourseEnrollmentModel
	require.NoError(t, f.db.First(&enr, "course_enrollment_id = ?", id).Error)
	return enr
}

func TestRegularizeSection(t *testing.T) {
	f := newClosureFixture(t)
	svc := service.NewRegularizationService(f.db)

	regularHigh := f.enrollWith(t, []float64{8, 6}, true) // avg 7.0
	regularEdge := f.enrollWith(t, []float64{8, 4}, true) // avg 6.0, still passing
	libreLowAvg := f.enrollWith(t, []float64{4, 4}, true) // avg 4.0
	libreAbsent := f.enrollWith(t, []float64{8, 8}, false)
	libreNoGrades := f.enrollWith(t, nil, true)

	res, err := svc.RegularizeSection(f.section.SectionID, f.actor)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Processed)
	assert.Equal(t, 2, res.Regular)
	assert.Equal(t, 3, res.Libre)
	assert.False(t, res.NothingToDo)

	check := func(id uuid.UUID, condition string, avg *float64) {
		enr := f.reload(t, id)
		assert.Equal(t, condition, enr.CourseEnrollmentCondition)
		assert.Equal(t, condition, enr.CourseEnrollmentFinalStatus)
		assert.NotNil(t, enr.CourseEnrollmentRegularizedAt)
		if avg == nil {
			assert.Nil(t, enr.CourseEnrollmentCourseworkAverage)
		} else {
			require.NotNil(t, enr.CourseEnrollmentCourseworkAverage)
			assert.Equal(t, *avg, *enr.CourseEnrollmentCourseworkAverage)
		}
	}
	avg7, avg6, avg4, avg8 := 7.0, 6.0, 4.0, 8.0
	check(regularHigh.CourseEnrollmentID, enrollModel.ConditionRegular, &avg7)
	check(regularEdge.CourseEnrollmentID, enrollModel.ConditionRegular, &avg6)
	check(libreLowAvg.CourseEnrollmentID, enrollModel.ConditionLibre, &avg4)
	check(libreAbsent.CourseEnrollmentID, enrollModel.ConditionLibre, &avg8)
	check(libreNoGrades.CourseEnrollmentID, enrollModel.ConditionLibre, nil)

	var section sectionModel.SectionModel
	require.NoError(t, f.db.First(&section, "section_id = ?", f.section.SectionID).Error)
	assert.True(t, section.IsFinalized())

	// Second closure of the same section is rejected.
	_, err = svc.RegularizeSection(f.section.SectionID, f.actor)
	require.Error(t, err)
	assert.True(t, apperr.IsStateConflict(err))
}

func TestRegularizeRequiresClosureEnabled(t *testing.T) {
	f := newClosureFixture(t)
	svc := service.NewRegularizationService(f.db)
	f.enrollWith(t, []float64{8, 8}, true)

	require.NoError(t, f.db.Exec(
		"UPDATE academic_years SET academic_year_closure_enabled = ? WHERE academic_year_id = ?",
		false, f.section.SectionAcademicYearID).Error)

	_, err := svc.RegularizeSection(f.section.SectionID, f.actor)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestRegularizeEmptySectionIsNoop(t *testing.T) {
	f := newClosureFixture(t)
	svc := service.NewRegularizationService(f.db)

	res, err := svc.RegularizeSection(f.section.SectionID, f.actor)
	require.NoError(t, err)
	assert.True(t, res.NothingToDo)
	assert.Equal(t, 0, res.Processed)

	// The section stays open when nothing was processed.
	var section sectionModel.SectionModel
	require.NoError(t, f.db.First(&section, "section_id = ?", f.section.SectionID).Error)
	assert.False(t, section.IsFinalized())
}

func TestCloseSectionByGrades(t *testing.T) {
	f := newClosureFixture(t)
	reg := service.NewRegularizationService(f.db)
	closer := service.NewFinalClosureService(f.db)

	approved := f.enrollWith(t, []float64{8, 6}, true)  // avg 7.0 -> approved
	failed := f.enrollWith(t, []float64{8, 4}, true)    // avg 6.0 regularizes, then...
	libre := f.enrollWith(t, []float64{4, 4}, true)     // libre, untouched by closure

	_, err := reg.RegularizeSection(f.section.SectionID, f.actor)
	require.NoError(t, err)

	// Push the borderline student's overall average under the bar with
	// a failing homework grade recorded after regularization.
	_, err = f.ledger.Record(f.db, failed.CourseEnrollmentID, gradeModel.GradeTypeHomework, 1, 1)
	require.NoError(t, err)

	res, err := closer.CloseSectionByGrades(f.section.SectionID, f.actor)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Approved)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 0, res.Ungraded)

	a := f.reload(t, approved.CourseEnrollmentID)
	assert.Equal(t, enrollModel.FinalStatusApproved, a.CourseEnrollmentFinalStatus)
	require.NotNil(t, a.CourseEnrollmentFinalGrade)
	assert.Equal(t, 7.0, *a.CourseEnrollmentFinalGrade)
	assert.NotNil(t, a.CourseEnrollmentClosedAt)
	require.NotNil(t, a.CourseEnrollmentClosedBy)
	assert.Equal(t, f.actor, *a.CourseEnrollmentClosedBy)

	fl := f.reload(t, failed.CourseEnrollmentID)
	assert.Equal(t, enrollModel.FinalStatusFailed, fl.CourseEnrollmentFinalStatus)

	l := f.reload(t, libre.CourseEnrollmentID)
	assert.Equal(t, enrollModel.FinalStatusLibre, l.CourseEnrollmentFinalStatus)
	assert.Nil(t, l.CourseEnrollmentClosedAt)

	// Rerun converges: every regular enrollment is already closed.
	res2, err := closer.CloseSectionByGrades(f.section.SectionID, f.actor)
	require.NoError(t, err)
	assert.True(t, res2.NothingToDo)
}

func TestCloseSectionRequiresRegularization(t *testing.T) {
	f := newClosureFixture(t)
	closer := service.NewFinalClosureService(f.db)

	f.enrollWith(t, []float64{8, 8}, true)

	_, err := closer.CloseSectionByGrades(f.section.SectionID, f.actor)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "regularize")
}

func TestCloseSectionCountsUngraded(t *testing.T) {
	f := newClosureFixture(t)
	reg := service.NewRegularizationService(f.db)
	closer := service.NewFinalClosureService(f.db)

	graded := f.enrollWith(t, []float64{8, 6}, true)
	_, err := reg.RegularizeSection(f.section.SectionID, f.actor)
	require.NoError(t, err)

	// Wipe the grades so the effective final grade disappears.
	require.NoError(t, f.db.Exec(
		"DELETE FROM grades WHERE grade_course_enrollment_id = ?", graded.CourseEnrollmentID).Error)

	res, err := closer.CloseSectionByGrades(f.section.SectionID, f.actor)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 1, res.Ungraded)

	// The ungraded student stays regular and open.
	enr := f.reload(t, graded.CourseEnrollmentID)
	assert.Equal(t, enrollModel.FinalStatusRegular, enr.CourseEnrollmentFinalStatus)
	assert.Nil(t, enr.CourseEnrollmentClosedAt)
}
