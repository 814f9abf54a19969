// file: internals/features/fees/students/route/student_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"feedesk_backend/internals/features/fees/store"
	studentController "feedesk_backend/internals/features/fees/students/controller"
)

func StudentRoutes(r fiber.Router, st *store.Store) {
	ctl := studentController.NewStudentController(st)

	students := r.Group("/students")
	{
		students.Get("/", ctl.List)
		students.Post("/", ctl.Create)
		students.Get("/:id/fees", ctl.FeeTable)
		students.Get("/:id", ctl.GetByID)
		students.Patch("/:id", ctl.Patch)
		students.Delete("/:id", ctl.Delete)
	}
}
