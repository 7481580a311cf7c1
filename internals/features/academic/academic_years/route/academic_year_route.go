package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "siga_backend/internals/features/academic/academic_years/controller"
)

func AcademicYearAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewAcademicYearController(db, v)

	years := admin.Group("/academic-years")
	years.Post("/", ctl.Create)
	years.Get("/", ctl.List)
	years.Get("/:id", ctl.GetByID)
	years.Patch("/:id", ctl.Patch)
	years.Get("/:id/calendar", ctl.ListCalendar)
	years.Patch("/:id/calendar/:date", ctl.PatchCalendarDay)
}
