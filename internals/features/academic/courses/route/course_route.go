package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "siga_backend/internals/features/academic/courses/controller"
)

func CourseAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewCourseController(db, v)

	courses := admin.Group("/courses")
	courses.Post("/", ctl.Create)
	courses.Get("/", ctl.List)
	courses.Get("/:id", ctl.GetByID)
	courses.Patch("/:id", ctl.Patch)

	courses.Post("/:id/prerequisites", ctl.AddPrerequisite)
	courses.Get("/:id/prerequisites", ctl.ListPrerequisites)
	courses.Delete("/:id/prerequisites/:prereq_id", ctl.RemovePrerequisite)
}
