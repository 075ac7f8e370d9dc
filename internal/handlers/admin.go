package handlers

import (
	"errors"
	"net/http"

	"go-paylink/internal/backend"
	"go-paylink/internal/middleware"
	"go-paylink/internal/models"

	"github.com/gorilla/mux"
)

func listParams(r *http.Request) backend.ListParams {
	return backend.ListParams{
		Page:   getQueryInt(r, "page", 1),
		Limit:  getQueryInt(r, "limit", 10),
		Search: r.URL.Query().Get("search"),
	}
}

type adminDashboardData struct {
	User  *models.User
	Stats *models.DashboardStats
	Error string
}

// ServeAdminDashboard serves the admin dashboard with aggregate statistics
func (h *Handler) ServeAdminDashboard(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())

	data := adminDashboardData{User: user}

	stats, err := h.Backend.GetDashboardStats(token)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.forceLogout(w, r)
			return
		}
		data.Error = backend.UserMessage(err, "Failed to load dashboard stats")
	} else {
		data.Stats = stats
	}

	h.render(w, "admin_dashboard.html", data)
}

type adminUsersData struct {
	User   *models.User
	Page   *models.UsersPage
	Search string
	Error  string
}

// ServeAdminUsers serves the paginated user listing
func (h *Handler) ServeAdminUsers(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())
	params := listParams(r)

	data := adminUsersData{User: user, Search: params.Search}

	page, err := h.Backend.GetAdminUsers(token, params)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.forceLogout(w, r)
			return
		}
		data.Error = backend.UserMessage(err, "Failed to load users")
	} else {
		data.Page = page
	}

	h.render(w, "admin_users.html", data)
}

// RestrictUser toggles a user's restriction flag. JSON endpoint used by the
// user table's toggle, which disables itself while the request is out.
func (h *Handler) RestrictUser(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())

	var req models.RestrictUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if err := h.Backend.RestrictUser(token, req); err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			respondError(w, http.StatusUnauthorized, "Session expired")
			return
		}
		respondError(w, http.StatusBadGateway, backend.UserMessage(err, "Failed to update user"))
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type adminProductsData struct {
	User   *models.User
	Page   *models.ProductsPage
	Search string
	Error  string
}

// ServeAdminProducts serves the paginated product listing
func (h *Handler) ServeAdminProducts(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())
	params := listParams(r)

	data := adminProductsData{User: user, Search: params.Search}

	page, err := h.Backend.GetAdminProducts(token, params)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.forceLogout(w, r)
			return
		}
		data.Error = backend.UserMessage(err, "Failed to load products")
	} else {
		data.Page = page
	}

	h.render(w, "admin_products.html", data)
}

type adminProductDetailData struct {
	User   *models.User
	Detail *models.AdminProductDetail
	Error  string
}

// ServeAdminProductDetail serves one product's transaction history
func (h *Handler) ServeAdminProductDetail(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())
	id := mux.Vars(r)["id"]

	detail, err := h.Backend.GetAdminProductTransactions(token, id)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.forceLogout(w, r)
			return
		}
		h.render(w, "admin_product_detail.html", adminProductDetailData{
			User:  user,
			Error: backend.UserMessage(err, "Failed to load product transactions"),
		})
		return
	}

	h.render(w, "admin_product_detail.html", adminProductDetailData{User: user, Detail: detail})
}

// UpdateAdminProductStatus toggles any product's active flag
func (h *Handler) UpdateAdminProductStatus(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	id := mux.Vars(r)["id"]

	var req models.UpdateProductStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.Backend.UpdateAdminProductStatus(token, id, req.IsActive)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			respondError(w, http.StatusUnauthorized, "Session expired")
			return
		}
		respondError(w, http.StatusBadGateway, backend.UserMessage(err, "Failed to update product status"))
		return
	}

	respondJSON(w, http.StatusOK, product)
}
