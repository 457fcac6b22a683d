package handler

import (
	"net/http"
	"strconv"
	"time"

	"wholesale-be/internal/apperror"
	"wholesale-be/internal/catalog"
	"wholesale-be/internal/order"
	"wholesale-be/internal/utils"
)

func (h *Handler) ListOwnProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListOwn(r.Context(), userID(r))
	if err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input catalog.ProductInput
	if err := decode(w, r, &input); err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}

	p, err := h.catalog.Create(r.Context(), userID(r), input)
	if err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var input catalog.ProductInput
	if err := decode(w, r, &input); err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}

	p, err := h.catalog.Update(r.Context(), userID(r), r.PathValue("id"), input)
	if err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListDistributorOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := parseOrderFilter(r)
	if err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}

	orders, err := h.orders.ListDistributorOrders(r.Context(), userID(r), filter)
	if err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req order.UpdateStatusRequest
	if err := decode(w, r, &req); err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}

	o, err := h.orders.UpdateOrderStatus(r.Context(), r.PathValue("id"), userID(r), req.Status)
	if err != nil {
		utils.WriteError(r.Context(), w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

// parseOrderFilter reads status, from, to, limit and page query parameters.
// Dates are RFC 3339.
func parseOrderFilter(r *http.Request) (order.Filter, error) {
	q := r.URL.Query()
	var f order.Filter

	if s := q.Get("status"); s != "" {
		status := order.Status(s)
		f.Status = &status
	}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"from", &f.DateFrom},
		{"to", &f.DateTo},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, apperror.New(apperror.KindValidation, "invalid request").
				With("fields", map[string]string{p.name: "datetime"})
		}
		*p.dst = &t
	}

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"limit", &f.Limit},
		{"page", &f.Page},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, apperror.New(apperror.KindValidation, "invalid request").
				With("fields", map[string]string{p.name: "number"})
		}
		*p.dst = n
	}

	return f, nil
}
