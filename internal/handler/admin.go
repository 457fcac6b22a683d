package handler

import (
	"net/http"

	"wholesale-be/internal/account"
	"wholesale-be/internal/utils"
)

type activationResponse struct {
	Outlet      *account.Outlet      `json:"outlet"`
	Credentials *account.Credentials `json:"credentials"`
}

func (h *Handler) ListOutlets(w http.ResponseWriter, r *http.Request) {
	outlets, err := h.accounts.ListOutlets(r.Context())
	if err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, outlets)
}

func (h *Handler) CreateOutlet(w http.ResponseWriter, r *http.Request) {
	var input account.CreateOutletInput
	if err := decode(w, r, &input); err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}

	o, err := h.accounts.CreateOutlet(r.Context(), input)
	if err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) ActivateOutlet(w http.ResponseWriter, r *http.Request) {
	var input account.ActivateOutletInput
	if err := decode(w, r, &input); err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}

	o, creds, err := h.accounts.ActivateOutlet(r.Context(), r.PathValue("id"), input)
	if err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, activationResponse{Outlet: o, Credentials: creds})
}

func (h *Handler) SetOutletStatus(w http.ResponseWriter, r *http.Request) {
	var input account.SetStatusInput
	if err := decode(w, r, &input); err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}

	o, err := h.accounts.SetOutletStatus(r.Context(), r.PathValue("id"), input)
	if err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}
