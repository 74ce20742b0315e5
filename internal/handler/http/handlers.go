package httpx

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"example.com/userdir/internal/domain"
	"example.com/userdir/internal/storage"
	"example.com/userdir/internal/usecase"
	"example.com/userdir/pkg/response"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

const (
	msgNameRequired = "Name is required"
	msgUserNotFound = "User not found"
	msgDeleted      = "User deleted successfully"
	msgInternal     = "Internal server error"
)

type Service interface {
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, name string) (domain.User, error)
	Update(ctx context.Context, id int64, name string) (domain.User, string, error)
	Delete(ctx context.Context, id int64) (domain.User, error)
}

type Options struct {
	// CORSOrigins restricts cross-origin callers; empty means any origin.
	CORSOrigins []string
	// Quiet drops the per-request access log.
	Quiet bool
}

type Handler struct {
	router chi.Router
	svc    Service
}

func New(svc Service, opts Options) http.Handler {
	h := &Handler{
		router: chi.NewRouter(),
		svc:    svc,
	}
	h.middlewares(opts)
	h.routes()
	return h
}

func (h *Handler) middlewares(opts Options) {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	h.router.Use(middleware.RequestID)
	h.router.Use(middleware.RealIP)
	if !opts.Quiet {
		h.router.Use(middleware.Logger)
	}
	h.router.Use(middleware.Recoverer)
	h.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		MaxAge:         300,
	}))
}

func (h *Handler) routes() {
	h.router.Get("/user", h.health)
	h.router.Route("/api/users", func(r chi.Router) {
		r.Get("/", h.users)
		r.Post("/", h.createUser)
		r.Put("/{id}", h.updateUser)
		r.Delete("/{id}", h.deleteUser)
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	log.Printf("GET /user - Health check")
	response.JSON(w, r, http.StatusOK, map[string]string{"op": "Success"})
}

func (h *Handler) users(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		h.writeError(w, r, "GET /api/users", err)
		return
	}
	log.Printf("GET /api/users - Returning all users %d", len(items))
	response.JSON(w, r, http.StatusOK, items)
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	req := decodeName(r)
	user, err := h.svc.Create(r.Context(), req.Name)
	if err != nil {
		h.writeError(w, r, "POST /api/users", err)
		return
	}
	log.Printf("POST /api/users - Created user: %+v", user)
	response.JSON(w, r, http.StatusCreated, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	op := "PUT /api/users/" + chi.URLParam(r, "id")
	req := decodeName(r)
	user, previous, err := h.svc.Update(r.Context(), parseID(r), req.Name)
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	log.Printf("%s - Updated user %d: %q -> %q", op, user.ID, previous, user.Name)
	response.JSON(w, r, http.StatusOK, user)
}

type deleteResponse struct {
	Message string      `json:"message"`
	User    domain.User `json:"user"`
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	op := "DELETE /api/users/" + chi.URLParam(r, "id")
	user, err := h.svc.Delete(r.Context(), parseID(r))
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	log.Printf("%s - Deleted user: %+v", op, user)
	response.JSON(w, r, http.StatusOK, deleteResponse{Message: msgDeleted, User: user})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, usecase.ErrNameRequired):
		log.Printf("%s - Error: Missing name field", op)
		response.Render(w, r, response.ErrBadRequest(err, msgNameRequired))
	case errors.Is(err, storage.ErrNotFound):
		log.Printf("%s - Error: User not found", op)
		response.Render(w, r, response.ErrNotFound(err, msgUserNotFound))
	default:
		log.Printf("%s - Error: %v", op, err)
		response.Render(w, r, response.ErrInternal(err, msgInternal))
	}
}

// decodeName treats an absent, malformed or non-object body as a missing name.
func decodeName(r *http.Request) nameRequest {
	var req nameRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		return nameRequest{}
	}
	return req
}

// parseID maps ids that are not base-10 integers to 0, which is never assigned.
func parseID(r *http.Request) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
