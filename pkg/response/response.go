// Package response writes JSON bodies with an explicit status code.
package response

import (
	"log"
	"net/http"

	"github.com/go-chi/render"
)

// JSON always encodes v as JSON, regardless of the request's Accept header.
func JSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	render.Status(r, code)
	render.JSON(w, r, v)
}

// ErrResponse is the renderer for every error body: {"error": "..."}.
type ErrResponse struct {
	Err            error `json:"-"` // underlying error, for logs only
	HTTPStatusCode int   `json:"-"`

	ErrorText string `json:"error"`
}

func (e *ErrResponse) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// Render runs v's Render hook and encodes v as JSON. Unlike render.Render it
// does not negotiate on Accept, so clients always get JSON.
func Render(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := v.Render(w, r); err != nil {
		log.Printf("failed render response: %v", err)
		JSON(w, r, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	render.JSON(w, r, v)
}

func ErrBadRequest(err error, msg string) render.Renderer {
	return &ErrResponse{Err: err, HTTPStatusCode: http.StatusBadRequest, ErrorText: msg}
}

func ErrNotFound(err error, msg string) render.Renderer {
	return &ErrResponse{Err: err, HTTPStatusCode: http.StatusNotFound, ErrorText: msg}
}

func ErrInternal(err error, msg string) render.Renderer {
	return &ErrResponse{Err: err, HTTPStatusCode: http.StatusInternalServerError, ErrorText: msg}
}
