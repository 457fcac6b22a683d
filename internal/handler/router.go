package handler

import (
	"net/http"

	"wholesale-be/internal/middleware"
	"wholesale-be/internal/utils"
)

// Routes registers every endpoint on mux. Outlet routes pass the account gate
// on each request.
func (h *Handler) Routes(mux *http.ServeMux, gate middleware.OutletGate, metrics http.Handler) {
	outlet := chain(middleware.RequireRole(utils.RoleOutlet), middleware.RequireActiveOutlet(gate))
	distributor := chain(middleware.RequireRole(utils.RoleDistributor))
	operator := chain(middleware.RequireRole(utils.RoleOperator))

	mux.HandleFunc("GET /healthz", h.Health)
	mux.Handle("GET /metrics", metrics)

	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/logout", h.Logout)

	mux.Handle("GET /outlet/account", outlet(h.OutletAccount))
	mux.Handle("GET /outlet/products", outlet(h.BrowseProducts))
	mux.Handle("POST /outlet/orders", outlet(h.PlaceOrder))
	mux.Handle("GET /outlet/orders", outlet(h.ListOutletOrders))
	mux.Handle("GET /outlet/orders/{id}", outlet(h.GetOutletOrder))

	mux.Handle("GET /distributor/products", distributor(h.ListOwnProducts))
	mux.Handle("POST /distributor/products", distributor(h.CreateProduct))
	mux.Handle("PUT /distributor/products/{id}", distributor(h.UpdateProduct))
	mux.Handle("DELETE /distributor/products/{id}", distributor(h.DeleteProduct))
	mux.Handle("GET /distributor/orders", distributor(h.ListDistributorOrders))
	mux.Handle("PATCH /distributor/orders/{id}", distributor(h.UpdateOrderStatus))

	mux.Handle("GET /admin/outlets", operator(h.ListOutlets))
	mux.Handle("POST /admin/outlets", operator(h.CreateOutlet))
	mux.Handle("POST /admin/outlets/{id}/activate", operator(h.ActivateOutlet))
	mux.Handle("PATCH /admin/outlets/{id}/status", operator(h.SetOutletStatus))
}

// chain applies middlewares outermost first.
func chain(mws ...func(http.Handler) http.Handler) func(http.HandlerFunc) http.Handler {
	return func(fn http.HandlerFunc) http.Handler {
		var h http.Handler = fn
		for i := len(mws) - 1; i >= 0; i-- {
			h = mws[i](h)
		}
		return h
	}
}
