package handler

import (
	"net/http"

	"github.com/xy-planning-network/wayfarer/http/resp"
	"github.com/xy-planning-network/wayfarer/http/template"
)

// NotFound responds to requests for paths nothing serves.
// HTML clients get a page, others a bare 404.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	if !acceptsHTML(r) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	h.html(w, r, template.NotFoundTmpl, nil, resp.Code(http.StatusNotFound))
}

// MethodNotAllowed responds to requests for a path using a method it does not serve.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
