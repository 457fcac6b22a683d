// Package handler exposes the account, catalog and order services as JSON
// over HTTP.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"wholesale-be/internal/account"
	"wholesale-be/internal/catalog"
	"wholesale-be/internal/order"
	"wholesale-be/internal/utils"
	"wholesale-be/internal/validation"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	accounts account.Service
	catalog  catalog.Service
	orders   order.Service
	tokenTTL time.Duration
}

func New(accounts account.Service, products catalog.Service, orders order.Service, tokenTTL time.Duration) *Handler {
	return &Handler{
		accounts: accounts,
		catalog:  products,
		orders:   orders,
		tokenTTL: tokenTTL,
	}
}

// decode reads a JSON body into dst, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return validation.Malformed(err)
	}
	return nil
}

func userID(r *http.Request) string {
	id, _ := utils.GetUserIDFromContext(r.Context())
	return id
}

func outletID(r *http.Request) string {
	id, _ := utils.GetOutletIDFromContext(r.Context())
	return id
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
