package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"sedesupport/internal/delivery/http/controllers"
	"sedesupport/internal/delivery/http/middleware"
	"sedesupport/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Read routes require authentication; mutations additionally require admin.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	sedeController *controllers.SedeController,
	personController *controllers.PersonController,
	roleController *controllers.RoleController,
	visitController *controllers.VisitController,
) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier, logger)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireAdmin()(next))
	}

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Sedes
	mux.HandleFunc("GET /sedes", auth(sedeController.List))
	mux.HandleFunc("POST /sedes", admin(sedeController.Create))
	mux.HandleFunc("POST /sedes/import", admin(sedeController.Import))
	mux.HandleFunc("GET /sedes/{sedeID}", auth(sedeController.GetByID))
	mux.HandleFunc("PATCH /sedes/{sedeID}", admin(sedeController.Update))
	mux.HandleFunc("DELETE /sedes/{sedeID}", admin(sedeController.Delete))

	// Personnel
	mux.HandleFunc("GET /personnel", auth(personController.List))
	mux.HandleFunc("POST /personnel", admin(personController.Create))
	mux.HandleFunc("GET /personnel/{personID}", auth(personController.GetByID))
	mux.HandleFunc("PATCH /personnel/{personID}", admin(personController.Update))
	mux.HandleFunc("DELETE /personnel/{personID}", admin(personController.Delete))

	// Roles
	mux.HandleFunc("GET /roles", auth(roleController.List))
	mux.HandleFunc("POST /roles", admin(roleController.Create))
	mux.HandleFunc("GET /roles/tree", auth(roleController.Tree))
	mux.HandleFunc("GET /roles/{roleID}", auth(roleController.GetByID))
	mux.HandleFunc("PATCH /roles/{roleID}", admin(roleController.Update))
	mux.HandleFunc("DELETE /roles/{roleID}", admin(roleController.Delete))
	mux.HandleFunc("GET /roles/{roleID}/assignable-parents", auth(roleController.AssignableParents))

	// Visits
	mux.HandleFunc("GET /visits", auth(visitController.List))
	mux.HandleFunc("POST /visits", admin(visitController.Schedule))
	mux.HandleFunc("GET /visits/calendar", auth(visitController.Calendar))
	mux.HandleFunc("GET /visits/{visitID}", auth(visitController.GetByID))
	mux.HandleFunc("POST /visits/{visitID}/complete", admin(visitController.Complete))
	mux.HandleFunc("POST /visits/{visitID}/cancel", admin(visitController.Cancel))
	mux.HandleFunc("PATCH /visits/{visitID}/date", admin(visitController.Reschedule))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
