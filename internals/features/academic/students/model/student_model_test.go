package model_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "siga_backend/internals/features/academic/students/model"
	"siga_backend/internals/testutil"
)

func TestStudentEnrollmentNumberIsGenerated(t *testing.T) {
	db := testutil.OpenDB(t)

	first := testutil.SeedStudent(t, db)
	second := testutil.SeedStudent(t, db)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("LEG-%d-0001", year), first.StudentEnrollmentNumber)
	assert.Equal(t, fmt.Sprintf("LEG-%d-0002", year), second.StudentEnrollmentNumber)
}

func TestStudentNormalizesFields(t *testing.T) {
	db := testutil.OpenDB(t)

	s := model.StudentModel{
		StudentDNI:       " 30123456 ",
		StudentFirstName: " Ana ",
		StudentLastName:  " García ",
		StudentEmail:     " Ana.Garcia@Example.COM ",
		StudentStatus:    model.StudentStatusActive,
	}
	require.NoError(t, db.Create(&s).Error)

	assert.Equal(t, "30123456", s.StudentDNI)
	assert.Equal(t, "ana.garcia@example.com", s.StudentEmail)
	assert.Equal(t, "Ana García", s.FullName())
}
