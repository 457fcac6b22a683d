package handler

import (
	"net/http"

	"wholesale-be/internal/account"
	"wholesale-be/internal/auth"
	"wholesale-be/internal/utils"
)

type loginResponse struct {
	Token string        `json:"token"`
	User  *account.User `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input account.LoginInput
	if err := decode(w, r, &input); err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}

	token, user, err := h.accounts.Login(r.Context(), input)
	if err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}

	auth.SetSessionCookie(w, token, h.tokenTTL)
	utils.WriteJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.TerminateSession(w)
	w.WriteHeader(http.StatusNoContent)
}
