package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "siga_backend/internals/features/academic/sections/controller"
)

func SectionAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewSectionController(db, v)

	sections := admin.Group("/sections")
	sections.Post("/", ctl.Create)
	sections.Get("/", ctl.List)
	sections.Get("/:id", ctl.GetByID)
	sections.Patch("/:id", ctl.Patch)
	sections.Get("/:id/stats", ctl.Stats)

	admin.Get("/teachers/:id/stats", ctl.TeacherStats)
}
