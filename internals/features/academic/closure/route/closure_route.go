package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "siga_backend/internals/features/academic/closure/controller"
)

func ClosureAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := controller.NewClosureController(db)

	admin.Post("/sections/:id/regularize", ctl.Regularize)
	admin.Post("/sections/:id/close", ctl.Close)
}
