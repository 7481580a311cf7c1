package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"siga_backend/internals/apperr"
	yearModel "siga_backend/internals/features/academic/academic_years/model"
)

/* =========================
   Calendar generation
========================= */

// Fixed-date national holidays (month, day). Movable holidays
// (carnival, bank holidays decreed per year) are maintained by hand
// through the calendar-day PATCH endpoint.
var fixedHolidays = map[[2]int]string{
	{1, 1}:   "Año Nuevo",
	{3, 24}:  "Día de la Memoria",
	{4, 2}:   "Día del Veterano de Malvinas",
	{5, 1}:   "Día del Trabajador",
	{5, 25}:  "Revolución de Mayo",
	{6, 20}:  "Paso a la Inmortalidad del Gral. Belgrano",
	{7, 9}:   "Día de la Independencia",
	{12, 8}:  "Inmaculada Concepción",
	{12, 25}: "Navidad",
}

// Winter break: Jul 15 - Jul 26 of the starting year.
const (
	winterBreakMonth    = time.July
	winterBreakFirstDay = 15
	winterBreakLastDay  = 26
)

type CalendarService struct {
	DB *gorm.DB
}

func NewCalendarService(db *gorm.DB) *CalendarService {
	return &CalendarService{DB: db}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func classify(date time.Time, startYear int) (isClassDay bool, reason string) {
	if name, ok := fixedHolidays[[2]int{int(date.Month()), date.Day()}]; ok {
		return false, name
	}
	if date.Year() == startYear && date.Month() == winterBreakMonth &&
		date.Day() >= winterBreakFirstDay && date.Day() <= winterBreakLastDay {
		return false, "Receso de invierno"
	}
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false, "Fin de semana"
	}
	return true, ""
}

// GenerateForYear materializes one CalendarDayModel per date between
// the year's start and end (inclusive). Idempotent per (year, date):
// existing days are left untouched so manual edits survive a rerun.
func (s *CalendarService) GenerateForYear(tx *gorm.DB, year *yearModel.AcademicYearModel) (int, error) {
	start := dateOnly(year.AcademicYearStartDate)
	end := dateOnly(year.AcademicYearEndDate)

	var existing []yearModel.CalendarDayModel
	if err := tx.
		Where("calendar_day_academic_year_id = ?", year.AcademicYearID).
		Find(&existing).Error; err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, d := range existing {
		seen[dateOnly(d.CalendarDayDate).Format("2006-01-02")] = true
	}

	created := 0
	batch := make([]yearModel.CalendarDayModel, 0, 64)
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if seen[date.Format("2006-01-02")] {
			continue
		}
		isClass, reason := classify(date, start.Year())
		batch = append(batch, yearModel.CalendarDayModel{
			CalendarDayAcademicYearID: year.AcademicYearID,
			CalendarDayDate:           date,
			CalendarDayIsClassDay:     isClass,
			CalendarDayReason:         reason,
		})
		created++
	}
	if len(batch) > 0 {
		if err := tx.CreateInBatches(&batch, 200).Error; err != nil {
			return 0, err
		}
	}
	return created, nil
}

/* =========================
   Resolver
========================= */

// ResolveClassDates returns, in ascending order, every class date of
// the academic year falling on the given weekday. This is the set a
// section meets on, and what the attendance skeleton is built from.
func (s *CalendarService) ResolveClassDates(tx *gorm.DB, academicYearID uuid.UUID, weekday time.Weekday) ([]time.Time, error) {
	var days []yearModel.CalendarDayModel
	if err := tx.
		Where("calendar_day_academic_year_id = ? AND calendar_day_is_class_day = ?", academicYearID, true).
		Order("calendar_day_date ASC").
		Find(&days).Error; err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(days))
	for _, d := range days {
		if d.CalendarDayDate.Weekday() == weekday {
			dates = append(dates, dateOnly(d.CalendarDayDate))
		}
	}
	return dates, nil
}

// LookupDay fetches the calendar entry for a date and reports, as a
// state conflict, dates that exist but are not class days.
func (s *CalendarService) LookupDay(tx *gorm.DB, academicYearID uuid.UUID, date time.Time) (*yearModel.CalendarDayModel, error) {
	var day yearModel.CalendarDayModel
	err := tx.
		Where("calendar_day_academic_year_id = ? AND calendar_day_date = ?", academicYearID, dateOnly(date)).
		First(&day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NewNotFound(fmt.Sprintf("date %s is not in the academic calendar", dateOnly(date).Format("2006-01-02")))
	}
	if err != nil {
		return nil, err
	}
	if !day.CalendarDayIsClassDay {
		msg := fmt.Sprintf("date %s is not a class day", dateOnly(date).Format("2006-01-02"))
		if day.CalendarDayReason != "" {
			msg += ": " + day.CalendarDayReason
		}
		return nil, apperr.NewStateConflict(msg)
	}
	return &day, nil
}
