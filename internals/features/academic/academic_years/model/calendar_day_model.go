package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CalendarDayModel is one materialized day of an academic year. The
// whole calendar is generated when the year is created, so attendance
// skeletons and class-date resolution never have to guess.
type CalendarDayModel struct {
	CalendarDayID             uuid.UUID `gorm:"type:uuid;primaryKey;column:calendar_day_id" json:"calendar_day_id"`
	CalendarDayAcademicYearID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_calendar_day_year_date;column:calendar_day_academic_year_id" json:"calendar_day_academic_year_id"`
	CalendarDayDate           time.Time `gorm:"not null;uniqueIndex:uq_calendar_day_year_date;column:calendar_day_date" json:"calendar_day_date"`
	// No column default on purpose: GORM skips zero-value fields that
	// carry one, which would flip generated weekends and holidays back
	// to class days. The generator always sets the flag explicitly.
	CalendarDayIsClassDay bool `gorm:"not null;column:calendar_day_is_class_day" json:"calendar_day_is_class_day"`
	// Reason a day is not a class day ("Fin de semana", holiday name, ...)
	CalendarDayReason string `gorm:"type:text;column:calendar_day_reason" json:"calendar_day_reason,omitempty"`

	CalendarDayCreatedAt time.Time `gorm:"not null;autoCreateTime;column:calendar_day_created_at" json:"calendar_day_created_at"`
}

func (CalendarDayModel) TableName() string { return "calendar_days" }

func (m *CalendarDayModel) BeforeCreate(tx *gorm.DB) error {
	if m.CalendarDayID == uuid.Nil {
		m.CalendarDayID = uuid.New()
	}
	return nil
}
