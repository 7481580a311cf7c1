package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siga_backend/internals/apperr"
	yearModel "siga_backend/internals/features/academic/academic_years/model"
	service "siga_backend/internals/features/academic/academic_years/service"
	"siga_backend/internals/testutil"
)

func TestGenerateForYear(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewCalendarService(db)

	year := yearModel.AcademicYearModel{
		AcademicYearName:      "Ciclo Lectivo 2024",
		AcademicYearStartDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		AcademicYearEndDate:   time.Date(2024, 11, 29, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&year).Error)

	created, err := svc.GenerateForYear(db, &year)
	require.NoError(t, err)
	// Mar 4 through Nov 29, one row per date, inclusive.
	assert.Equal(t, 271, created)

	lookup := func(date time.Time) yearModel.CalendarDayModel {
		var day yearModel.CalendarDayModel
		require.NoError(t, db.
			Where("calendar_day_academic_year_id = ? AND calendar_day_date = ?", year.AcademicYearID, date).
			First(&day).Error)
		return day
	}

	// Ordinary Monday.
	assert.True(t, lookup(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)).CalendarDayIsClassDay)

	// Saturday and Sunday.
	sat := lookup(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC))
	assert.False(t, sat.CalendarDayIsClassDay)
	assert.Equal(t, "Fin de semana", sat.CalendarDayReason)
	assert.False(t, lookup(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)).CalendarDayIsClassDay)

	// Independence day, a Tuesday in 2024.
	indep := lookup(time.Date(2024, 7, 9, 0, 0, 0, 0, time.UTC))
	assert.False(t, indep.CalendarDayIsClassDay)
	assert.Equal(t, "Día de la Independencia", indep.CalendarDayReason)

	// Winter break weekdays.
	brk := lookup(time.Date(2024, 7, 17, 0, 0, 0, 0, time.UTC))
	assert.False(t, brk.CalendarDayIsClassDay)
	assert.Equal(t, "Receso de invierno", brk.CalendarDayReason)
	// First weekday after the break is a class day again.
	assert.True(t, lookup(time.Date(2024, 7, 29, 0, 0, 0, 0, time.UTC)).CalendarDayIsClassDay)
}

func TestGenerateForYearIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewCalendarService(db)

	year := yearModel.AcademicYearModel{
		AcademicYearName:      "Ciclo Lectivo 2024",
		AcademicYearStartDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		AcademicYearEndDate:   time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&year).Error)

	first, err := svc.GenerateForYear(db, &year)
	require.NoError(t, err)
	require.Greater(t, first, 0)

	// Manual edit must survive a rerun.
	require.NoError(t, db.Model(&yearModel.CalendarDayModel{}).
		Where("calendar_day_academic_year_id = ? AND calendar_day_date = ?",
			year.AcademicYearID, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)).
		Updates(map[string]any{
			"calendar_day_is_class_day": false,
			"calendar_day_reason":       "Paro docente",
		}).Error)

	second, err := svc.GenerateForYear(db, &year)
	require.NoError(t, err)
	assert.Equal(t, 0, second)

	var day yearModel.CalendarDayModel
	require.NoError(t, db.
		Where("calendar_day_academic_year_id = ? AND calendar_day_date = ?",
			year.AcademicYearID, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)).
		First(&day).Error)
	assert.False(t, day.CalendarDayIsClassDay)
	assert.Equal(t, "Paro docente", day.CalendarDayReason)
}

func TestResolveClassDates(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewCalendarService(db)
	year := testutil.SeedYear(t, db)

	dates, err := svc.ResolveClassDates(db, year.AcademicYearID, time.Monday)
	require.NoError(t, err)
	require.NotEmpty(t, dates)

	for i, d := range dates {
		assert.Equal(t, time.Monday, d.Weekday())
		if i > 0 {
			assert.True(t, dates[i-1].Before(d), "dates must be ascending")
		}
	}
	// Winter break Mondays (Jul 15 and Jul 22, 2024) are excluded.
	for _, d := range dates {
		assert.NotEqual(t, "2024-07-15", d.Format("2006-01-02"))
		assert.NotEqual(t, "2024-07-22", d.Format("2006-01-02"))
	}
}

func TestLookupDay(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewCalendarService(db)
	year := testutil.SeedYear(t, db)

	day, err := svc.LookupDay(db, year.AcademicYearID, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, day.CalendarDayIsClassDay)

	// Outside the year entirely.
	_, err = svc.LookupDay(db, year.AcademicYearID, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	// In the year but not a class day.
	_, err = svc.LookupDay(db, year.AcademicYearID, time.Date(2024, 7, 9, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	require.True(t, apperr.IsStateConflict(err))
	assert.Contains(t, err.Error(), "Día de la Independencia")
}

// The is_class_day column must not carry a non-zero GORM default:
// the ORM skips zero-value fields that have one, so generated weekends
// would silently persist as class days.
func TestGenerateForYearPersistsNonClassDays(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewCalendarService(db)

	year := yearModel.AcademicYearModel{
		AcademicYearName:      "Semana corta 2024",
		AcademicYearStartDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		AcademicYearEndDate:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		AcademicYearIsActive:  true,
	}
	require.NoError(t, db.Create(&year).Error)

	_, err := svc.GenerateForYear(db, &year)
	require.NoError(t, err)

	var nonClass int64
	require.NoError(t, db.Model(&yearModel.CalendarDayModel{}).
		Where("calendar_day_academic_year_id = ? AND calendar_day_is_class_day = ?",
			year.AcademicYearID, false).
		Count(&nonClass).Error)
	// Mar 4 to 10, 2024 holds exactly one weekend.
	assert.Equal(t, int64(2), nonClass)
}

func TestAcademicYearInactiveFlagSurvivesCreate(t *testing.T) {
	db := testutil.OpenDB(t)

	year := yearModel.AcademicYearModel{
		AcademicYearName:      "Ciclo archivado 2019",
		AcademicYearStartDate: time.Date(2019, 3, 4, 0, 0, 0, 0, time.UTC),
		AcademicYearEndDate:   time.Date(2019, 11, 29, 0, 0, 0, 0, time.UTC),
		AcademicYearIsActive:  false,
	}
	require.NoError(t, db.Create(&year).Error)

	var got yearModel.AcademicYearModel
	require.NoError(t, db.First(&got, "academic_year_id = ?", year.AcademicYearID).Error)
	assert.False(t, got.AcademicYearIsActive)
}
