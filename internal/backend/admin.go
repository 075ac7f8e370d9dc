package backend

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go-paylink/internal/models"
)

// ListParams holds the shared pagination/search query parameters
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

func (p ListParams) encode() string {
	values := url.Values{}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		values.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		values.Set("search", p.Search)
	}
	if encoded := values.Encode(); encoded != "" {
		return "?" + encoded
	}
	return ""
}

// GetDashboardStats fetches the admin dashboard summary
func (c *Client) GetDashboardStats(token string) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.get("/admin/dashboard/stats", token, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetAdminUsers lists users with pagination
func (c *Client) GetAdminUsers(token string, params ListParams) (*models.UsersPage, error) {
	var page models.UsersPage
	if err := c.get("/admin/users"+params.encode(), token, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// RestrictUser toggles a user's restriction flag
func (c *Client) RestrictUser(token string, req models.RestrictUserRequest) error {
	return c.do(http.MethodPatch, "/admin/users/restrict", token, req, nil)
}

// GetAdminProducts lists all products with pagination
func (c *Client) GetAdminProducts(token string, params ListParams) (*models.ProductsPage, error) {
	var page models.ProductsPage
	if err := c.get("/admin/products"+params.encode(), token, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetAdminProductTransactions fetches a product with its payments
func (c *Client) GetAdminProductTransactions(token, productID string) (*models.AdminProductDetail, error) {
	var detail models.AdminProductDetail
	path := fmt.Sprintf("/admin/products/%s/transactions", productID)
	if err := c.get(path, token, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpdateAdminProductStatus toggles any product's active flag
func (c *Client) UpdateAdminProductStatus(token, productID string, isActive bool) (*models.Product, error) {
	var product models.Product
	path := fmt.Sprintf("/admin/products/%s/status", productID)
	req := models.UpdateProductStatusRequest{IsActive: isActive}
	if err := c.do(http.MethodPatch, path, token, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
