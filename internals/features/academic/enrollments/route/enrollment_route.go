package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "siga_backend/internals/features/academic/enrollments/controller"
)

func EnrollmentAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewEnrollmentController(db, v)

	enrollments := admin.Group("/enrollments")
	enrollments.Post("/", ctl.Enroll)
	enrollments.Get("/", ctl.List)
	enrollments.Get("/:id", ctl.GetByID)
}
