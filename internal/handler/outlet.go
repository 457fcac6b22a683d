package handler

import (
	"net/http"

	"wholesale-be/internal/account"
	"wholesale-be/internal/order"
	"wholesale-be/internal/utils"
)

type accountResponse struct {
	Outlet  *account.Outlet `json:"outlet"`
	Summary *order.Summary  `json:"summary"`
}

func (h *Handler) OutletAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	outlet, err := h.accounts.GetOutlet(ctx, outletID(r))
	if err != nil {
		utils.WriteError(ctx, w, err)
		return
	}

	summary, err := h.orders.OutletSummary(ctx, outletID(r))
	if err != nil {
		utils.WriteError(ctx, w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, accountResponse{Outlet: outlet, Summary: summary})
}

func (h *Handler) BrowseProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Browse(r.Context())
	if err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req order.PlaceOrderRequest
	if err := decode(w, r, &req); err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}

	orders, err := h.orders.PlaceOrder(r.Context(), outletID(r), req)
	if err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, orders)
}

func (h *Handler) ListOutletOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOutletOrders(r.Context(), outletID(r))
	if err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOutletOrder(w http.ResponseWriter, r *http.Request) {
	caller := order.Caller{UserID: userID(r), Role: utils.RoleOutlet, OutletID: outletID(r)}

	o, err := h.orders.GetOrder(r.Context(), r.PathValue("id"), caller)
	if err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}
