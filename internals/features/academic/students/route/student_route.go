package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "siga_backend/internals/features/academic/students/controller"
)

// StudentAdminRoutes registers CRUD under the authenticated admin group.
func StudentAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewStudentController(db, v)

	students := admin.Group("/students")
	students.Post("/", ctl.Create)
	students.Get("/", ctl.List)
	students.Get("/:id", ctl.GetByID)
	students.Patch("/:id", ctl.Patch)
}
