package handler

import (
	"errors"
	"net/http"

	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/http/resp"
	"github.com/xy-planning-network/wayfarer/http/session"
	"github.com/xy-planning-network/wayfarer/travel"
)

// update edits the profile of the signed in User.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	user, err := h.CurrentUser(r.Context())
	if err != nil {
		h.Err(w, r, err)
		return
	}

	if r.Method != http.MethodPost {
		if resp.WantsJSON(r) {
			h.json(w, r, resp.User(user))
			return
		}

		h.html(w, r, updateTmpl, formPage{Form: updateForm{Name: user.Name, Email: user.Email}})
		return
	}

	form := new(updateForm)
	if err := h.parser.Parse(r, form); err != nil {
		form.Password, form.Confirm = "", ""
		h.invalid(w, r, updateTmpl, formPage{Form: form}, err)
		return
	}

	changes := travel.UserChanges{Email: form.Email, Name: form.Name, Password: form.Password}
	updated, err := h.store.UpdateUser(r.Context(), user.ID, changes)
	switch {
	case errors.Is(err, wayfarer.ErrExists):
		if resp.WantsJSON(r) {
			h.json(w, r, resp.Code(http.StatusConflict), message(session.AccountExistsMsg))
			return
		}

		form.Password, form.Confirm = "", ""
		h.html(
			w, r, updateTmpl, formPage{Form: form},
			resp.Code(http.StatusConflict),
			resp.Flash(session.Flash{Type: session.FlashError, Msg: session.AccountExistsMsg}),
		)
		return
	case err != nil:
		h.fail(w, r, err, UpdatePath)
		return
	}

	if resp.WantsJSON(r) {
		h.json(w, r, resp.User(updated))
		return
	}

	h.redirect(w, r, resp.Success(session.ProfileSavedMsg), resp.Code(http.StatusSeeOther), resp.URL(UpdatePath))
}
