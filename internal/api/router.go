package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/filedepot/filedepot-api/internal/api/middleware"
)

// Handlers groups the route handlers the router wires up.
type Handlers struct {
	App   *AppHandler
	Users *UsersHandler
	Auth  *AuthHandler
	Files *FilesHandler
}

// NewRouter builds the HTTP routing tree. Routes under the auth group
// require a live X-Token session; the file data endpoint resolves the
// token when present but stays reachable for public files.
func NewRouter(h Handlers, authMw *middleware.AuthMiddleware) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Trace)

	r.Get("/status", h.App.Status)
	r.Get("/stats", h.App.Stats)

	r.Post("/users", h.Users.Create)
	r.Get("/connect", h.Auth.Connect)
	r.Get("/disconnect", h.Auth.Disconnect)

	r.Group(func(r chi.Router) {
		r.Use(authMw.Authenticate)

		r.Get("/users/me", h.Users.Me)
		r.Post("/files", h.Files.Upload)
		r.Get("/files", h.Files.Index)
		r.Get("/files/{id}", h.Files.Show)
		r.Put("/files/{id}/publish", h.Files.Publish)
		r.Put("/files/{id}/unpublish", h.Files.Unpublish)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMw.ResolveOptional)

		r.Get("/files/{id}/data", h.Files.Data)
	})

	return r
}
