package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siga_backend/internals/apperr"
	enrollModel "siga_backend/internals/features/academic/enrollments/model"
	model "siga_backend/internals/features/academic/exam_boards/model"
	service "siga_backend/internals/features/academic/exam_boards/service"
	gradeModel "siga_backend/internals/features/academic/grades/model"
	gradeService "siga_backend/internals/features/academic/grades/service"
)

func newSyncFixture(t *testing.T, condition, finalStatus string) (*boardFixture, *service.ExamResultSync, *model.ExamEnrollmentModel, uuid.UUID) {
	t.Helper()

	f := newBoardFixture(t, 30)
	studentID, _ := f.enrollStudent(t, condition, finalStatus)

	exam, err := service.NewExamBoardService(f.db).EnrollStudent(f.board.ExamBoardID, studentID)
	require.NoError(t, err)

	sync := service.NewExamResultSync(f.db, gradeService.NewGradeLedger(f.db))
	return f, sync, exam, exam.ExamEnrollmentCourseEnrollmentID
}

func reloadEnrollment(t *testing.T, f *boardFixture, id uuid.UUID) enrollModel.CourseEnrollmentModel {
	t.Helper()

	var enr enrollModel.CourseEnrollmentModel
	require.NoError(t, f.db.First(&enr, "course_enrollment_id = ?", id).Error)
	return enr
}

func TestLoadExamGradeValidates(t *testing.T) {
	f, sync, exam, _ := newSyncFixture(t, enrollModel.ConditionRegular, enrollModel.FinalStatusRegular)

	actor := uuid.New()
	_, err := sync.LoadExamGrade(f.board.ExamBoardID, exam.ExamEnrollmentID, 10.5, actor)
	assert.True(t, apperr.IsValidation(err))
	_, err = sync.LoadExamGrade(f.board.ExamBoardID, exam.ExamEnrollmentID, -0.5, actor)
	assert.True(t, apperr.IsValidation(err))

	_, err = sync.LoadExamGrade(f.board.ExamBoardID, uuid.New(), 7, actor)
	assert.True(t, apperr.IsNotFound(err))
}

func TestLoadExamGradePassingApproves(t *testing.T) {
	f, sync, exam, courseEnrID := newSyncFixture(t, enrollModel.ConditionRegular, enrollModel.FinalStatusRegular)

	actor := uuid.New()
	graded, err := sync.LoadExamGrade(f.board.ExamBoardID, exam.ExamEnrollmentID, 9, actor)
	require.NoError(t, err)
	assert.Equal(t, model.ExamOutcomePassed, graded.ExamEnrollmentOutcome)
	require.NotNil(t, graded.ExamEnrollmentGrade)
	assert.Equal(t, 9.0, *graded.ExamEnrollmentGrade)

	enr := reloadEnrollment(t, f, courseEnrID)
	assert.Equal(t, enrollModel.FinalStatusApproved, enr.CourseEnrollmentFinalStatus)
	require.NotNil(t, enr.CourseEnrollmentFinalGrade)
	assert.Equal(t, 9.0, *enr.CourseEnrollmentFinalGrade)
	assert.NotNil(t, enr.CourseEnrollmentClosedAt)
	require.NotNil(t, enr.CourseEnrollmentClosedBy)
	assert.Equal(t, actor, *enr.CourseEnrollmentClosedBy)

	// The ledger holds the mirrored final-type grade.
	var grade gradeModel.GradeModel
	require.NoError(t, f.db.
		Where("grade_course_enrollment_id = ? AND grade_type = ? AND grade_sequence = 1",
			courseEnrID, gradeModel.GradeTypeFinal).
		First(&grade).Error)
	assert.Equal(t, 9.0, grade.GradeValue)
}

func TestLoadExamGradeFailingKeepsStanding(t *testing.T) {
	f, sync, exam, courseEnrID := newSyncFixture(t, enrollModel.ConditionLibre, enrollModel.FinalStatusLibre)

	graded, err := sync.LoadExamGrade(f.board.ExamBoardID, exam.ExamEnrollmentID, 3, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, model.ExamOutcomeFailed, graded.ExamEnrollmentOutcome)

	enr := reloadEnrollment(t, f, courseEnrID)
	assert.Equal(t, enrollModel.FinalStatusLibre, enr.CourseEnrollmentFinalStatus)
	assert.Nil(t, enr.CourseEnrollmentFinalGrade)
	assert.Nil(t, enr.CourseEnrollmentClosedAt)
}

func TestLoadExamGradeReversal(t *testing.T) {
	f, sync, exam, courseEnrID := newSyncFixture(t, enrollModel.ConditionRegular, enrollModel.FinalStatusRegular)
	actor := uuid.New()

	_, err := sync.LoadExamGrade(f.board.ExamBoardID, exam.ExamEnrollmentID, 9, actor)
	require.NoError(t, err)
	require.Equal(t, enrollModel.FinalStatusApproved,
		reloadEnrollment(t, f, courseEnrID).CourseEnrollmentFinalStatus)

	// Correcting downward reverts to the pre-exam coursework
	// condition, never back to attending.
	graded, err := sync.LoadExamGrade(f.board.ExamBoardID, exam.ExamEnrollmentID, 3, actor)
	require.NoError(t, err)
	assert.Equal(t, model.ExamOutcomeFailed, graded.ExamEnrollmentOutcome)

	enr := reloadEnrollment(t, f, courseEnrID)
	assert.Equal(t, enrollModel.FinalStatusRegular, enr.CourseEnrollmentFinalStatus)
	assert.Nil(t, enr.CourseEnrollmentFinalGrade)
	assert.Nil(t, enr.CourseEnrollmentClosedAt)
	assert.Nil(t, enr.CourseEnrollmentClosedBy)

	// The re-grade converged on the single final-type ledger row.
	var count int64
	require.NoError(t, f.db.Model(&gradeModel.GradeModel{}).
		Where("grade_course_enrollment_id = ? AND grade_type = ?", courseEnrID, gradeModel.GradeTypeFinal).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var grade gradeModel.GradeModel
	require.NoError(t, f.db.
		Where("grade_course_enrollment_id = ? AND grade_type = ?", courseEnrID, gradeModel.GradeTypeFinal).
		First(&grade).Error)
	assert.Equal(t, 3.0, grade.GradeValue)
}

func TestLoadExamGradeReversalLibre(t *testing.T) {
	f, sync, exam, courseEnrID := newSyncFixture(t, enrollModel.ConditionLibre, enrollModel.FinalStatusLibre)
	actor := uuid.New()

	_, err := sync.LoadExamGrade(f.board.ExamBoardID, exam.ExamEnrollmentID, 8, actor)
	require.NoError(t, err)
	_, err = sync.LoadExamGrade(f.board.ExamBoardID, exam.ExamEnrollmentID, 2, actor)
	require.NoError(t, err)

	enr := reloadEnrollment(t, f, courseEnrID)
	assert.Equal(t, enrollModel.FinalStatusLibre, enr.CourseEnrollmentFinalStatus)
}

func TestLoadExamGradeRejectsFinalizedBoard(t *testing.T) {
	f, sync, exam, _ := newSyncFixture(t, enrollModel.ConditionRegular, enrollModel.FinalStatusRegular)

	boards := service.NewExamBoardService(f.db)
	_, err := boards.CloseEnrollmentWindow(f.board.ExamBoardID)
	require.NoError(t, err)
	_, _, err = boards.Finalize(f.board.ExamBoardID)
	require.NoError(t, err)

	_, err = sync.LoadExamGrade(f.board.ExamBoardID, exam.ExamEnrollmentID, 7, uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.IsStateConflict(err))
}
