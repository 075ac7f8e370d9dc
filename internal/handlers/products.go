package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go-paylink/internal/backend"
	"go-paylink/internal/middleware"
	"go-paylink/internal/models"

	"github.com/gorilla/mux"
)

type productsData struct {
	User     *models.User
	Products []models.Product
	Search   string
	Error    string
}

// ServeProducts serves the merchant's product catalog
func (h *Handler) ServeProducts(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())
	search := r.URL.Query().Get("search")

	data := productsData{User: user, Search: search}

	products, err := h.Backend.GetProducts(token, search)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.forceLogout(w, r)
			return
		}
		data.Error = backend.UserMessage(err, "Failed to load products")
	} else {
		data.Products = products
	}

	h.render(w, "products.html", data)
}

type productDetailData struct {
	User   *models.User
	Detail *models.ProductDetail
	Error  string
}

// ServeProductDetail serves one product with its payments table
func (h *Handler) ServeProductDetail(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())
	id := mux.Vars(r)["id"]

	detail, err := h.Backend.GetProductByID(token, id)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.forceLogout(w, r)
			return
		}
		h.render(w, "product_detail.html", productDetailData{
			User:  user,
			Error: backend.UserMessage(err, "Failed to load product"),
		})
		return
	}

	h.render(w, "product_detail.html", productDetailData{User: user, Detail: detail})
}

type createProductData struct {
	User  *models.User
	Error string
}

// ServeCreateProduct serves the product creation form
func (h *Handler) ServeCreateProduct(w http.ResponseWriter, r *http.Request) {
	h.render(w, "product_create.html", createProductData{
		User: middleware.UserFromContext(r.Context()),
	})
}

// CreateProduct handles the multipart creation form and forwards it to the
// backend: image file plus title, description, price, optional quantity.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		h.render(w, "product_create.html", createProductData{User: user, Error: "Invalid form data"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.render(w, "product_create.html", createProductData{User: user, Error: "Product image is required"})
		return
	}
	defer file.Close()

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	price, priceErr := strconv.ParseFloat(r.FormValue("price"), 64)
	if title == "" || description == "" || priceErr != nil || price <= 0 {
		h.render(w, "product_create.html", createProductData{
			User:  user,
			Error: "Title, description and a positive price are required",
		})
		return
	}

	req := backend.CreateProductRequest{
		ImageName:   header.Filename,
		Image:       file,
		Title:       title,
		Description: description,
		Price:       price,
	}
	if raw := strings.TrimSpace(r.FormValue("quantity")); raw != "" {
		if qty, err := strconv.Atoi(raw); err == nil && qty > 0 {
			req.Quantity = &qty
		}
	}

	product, err := h.Backend.CreateProduct(token, req)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.forceLogout(w, r)
			return
		}
		h.render(w, "product_create.html", createProductData{
			User:  user,
			Error: backend.UserMessage(err, "Failed to create product"),
		})
		return
	}

	http.Redirect(w, r, "/products/"+product.ID, http.StatusSeeOther)
}

// UpdateProductStatus toggles a product's active flag. JSON endpoint; the
// page's toggle disables itself while this request is outstanding.
func (h *Handler) UpdateProductStatus(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	id := mux.Vars(r)["id"]

	var req models.UpdateProductStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.Backend.UpdateProductStatus(token, id, req.IsActive)
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

type profileData struct {
	User    *models.User
	Error   string
	Updated bool
}

// ServeProfile serves the merchant profile page
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	h.render(w, "profile.html", profileData{
		User: middleware.UserFromContext(r.Context()),
	})
}

// ServeSettings serves the profile edit page
func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	h.render(w, "settings.html", profileData{
		User:    middleware.UserFromContext(r.Context()),
		Updated: r.URL.Query().Get("updated") == "1",
	})
}

// UpdateProfile handles the profile edit form
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		h.render(w, "settings.html", profileData{User: user, Error: "Invalid request"})
		return
	}

	req := models.UpdateProfileRequest{
		FirstName:    strings.TrimSpace(r.FormValue("firstName")),
		LastName:     strings.TrimSpace(r.FormValue("lastName")),
		PhoneNumber:  strings.TrimSpace(r.FormValue("phoneNumber")),
		BusinessName: strings.TrimSpace(r.FormValue("businessName")),
	}
	if supportEmail := strings.TrimSpace(r.FormValue("supportEmail")); supportEmail != "" {
		req.SupportEmail = &supportEmail
	}

	if _, err := h.Backend.UpdateProfile(token, req); err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.forceLogout(w, r)
			return
		}
		h.render(w, "settings.html", profileData{
			User:  user,
			Error: backend.UserMessage(err, "Failed to update profile"),
		})
		return
	}

	http.Redirect(w, r, "/settings?updated=1", http.StatusSeeOther)
}
