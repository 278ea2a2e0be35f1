package http

import (
	"net/http"

	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/version/", h.getServerVersion)

		if h.assetsDir != "" {
			files := http.StripPrefix(store.AssetsURLPrefix, http.FileServer(http.Dir(h.assetsDir)))
			r.Handle(store.AssetsURLPrefix+"*", files)
		}
	})

	// realtime sessions live longer than any request timeout
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/ws", h.serveWS)
	})

	router.Group(func(r chi.Router) {
		r.Use(withGZip, middleware.Timeout(h.requestTimeout), h.auth, withSessionID)

		r.Post("/api/notes", h.createNote)
		r.Get("/api/notes/mine", h.listMine)
		r.Get("/api/notes/{id}", h.getNote)
		r.Put("/api/notes/{id}", h.updateNote)
		r.Patch("/api/notes/{id}", h.togglePin)
		r.Delete("/api/notes/{id}", h.deleteNote)
		r.Post("/api/notes/{id}/invite", h.invite)
		r.Post("/api/notes/{id}/image", h.attachImage)
		r.Delete("/api/notes/{id}/image", h.deleteImage)

		r.Get("/api/users/me", h.me)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
