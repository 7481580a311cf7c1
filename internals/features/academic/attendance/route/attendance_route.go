package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "siga_backend/internals/features/academic/attendance/controller"
)

func AttendanceAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewAttendanceController(db, v)

	admin.Put("/attendance", ctl.Register)
	admin.Get("/enrollments/:id/attendance", ctl.ListForEnrollment)
	admin.Get("/enrollments/:id/attendance/percentage", ctl.Percentage)
}
