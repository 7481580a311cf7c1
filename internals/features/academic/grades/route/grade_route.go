package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "siga_backend/internals/features/academic/grades/controller"
)

func GradeAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewGradeController(db, v)

	admin.Put("/grades", ctl.Record)
	admin.Get("/enrollments/:id/grades", ctl.ListForEnrollment)
	admin.Get("/enrollments/:id/grades/averages", ctl.Averages)
	admin.Get("/enrollments/:id/grades/verify", ctl.VerifyIntegrity)
}
