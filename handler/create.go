package handler

import (
	"errors"
	"net/http"

	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/http/resp"
	"github.com/xy-planning-network/wayfarer/http/session"
)

// create signs up a new User.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.html(w, r, createTmpl, formPage{Form: createForm{}})
		return
	}

	form := new(createForm)
	if err := h.parser.Parse(r, form); err != nil {
		form.Password, form.Confirm = "", ""
		h.invalid(w, r, createTmpl, formPage{Form: form}, err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), form.Email, form.Name, form.Password)
	switch {
	case errors.Is(err, wayfarer.ErrExists):
		if resp.WantsJSON(r) {
			h.json(w, r, resp.Code(http.StatusConflict), message(session.AccountExistsMsg))
			return
		}

		form.Password, form.Confirm = "", ""
		h.html(
			w, r, createTmpl, formPage{Form: form},
			resp.Code(http.StatusConflict),
			resp.Flash(session.Flash{Type: session.FlashError, Msg: session.AccountExistsMsg}),
		)
		return
	case err != nil:
		h.fail(w, r, err, CreatePath)
		return
	}

	h.signIn(w, r, user, IndexPath, http.StatusCreated)
}
