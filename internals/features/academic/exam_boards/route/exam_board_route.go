package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "siga_backend/internals/features/academic/exam_boards/controller"
)

func ExamBoardAdminRoutes(admin fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewExamBoardController(db, v)

	boards := admin.Group("/exam-boards")
	boards.Post("/", ctl.Create)
	boards.Get("/", ctl.List)
	boards.Get("/:id", ctl.GetByID)

	boards.Post("/:id/enrollments", ctl.EnrollStudent)
	boards.Get("/:id/enrollments", ctl.ListEnrollments)
	boards.Put("/:id/enrollments/:enrollment_id/grade", ctl.LoadGrade)

	boards.Post("/:id/close-enrollment", ctl.CloseEnrollment)
	boards.Post("/:id/finalize", ctl.Finalize)
}
