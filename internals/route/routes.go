package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	yearRoute "siga_backend/internals/features/academic/academic_years/route"
	attendanceRoute "siga_backend/internals/features/academic/attendance/route"
	closureRoute "siga_backend/internals/features/academic/closure/route"
	courseRoute "siga_backend/internals/features/academic/courses/route"
	enrollmentRoute "siga_backend/internals/features/academic/enrollments/route"
	examBoardRoute "siga_backend/internals/features/academic/exam_boards/route"
	gradeRoute "siga_backend/internals/features/academic/grades/route"
	sectionRoute "siga_backend/internals/features/academic/sections/route"
	studentRoute "siga_backend/internals/features/academic/students/route"
	auditController "siga_backend/internals/features/audit/controller"
	authMiddleware "siga_backend/internals/middlewares/auth"
)

// SetupRoutes wires every feature under /api. Everything except the
// health probe sits behind JWT auth.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	v := validator.New()

	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	admin := api.Group("/admin", authMiddleware.AuthMiddleware())

	yearRoute.AcademicYearAdminRoutes(admin, db, v)
	studentRoute.StudentAdminRoutes(admin, db, v)
	courseRoute.CourseAdminRoutes(admin, db, v)
	sectionRoute.SectionAdminRoutes(admin, db, v)
	enrollmentRoute.EnrollmentAdminRoutes(admin, db, v)
	attendanceRoute.AttendanceAdminRoutes(admin, db, v)
	gradeRoute.GradeAdminRoutes(admin, db, v)
	closureRoute.ClosureAdminRoutes(admin, db)
	examBoardRoute.ExamBoardAdminRoutes(admin, db, v)

	audit := auditController.NewAuditController(db)
	admin.Get("/audit-logs", audit.List)
}
