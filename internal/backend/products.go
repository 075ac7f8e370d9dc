package backend

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"go-paylink/internal/models"
)

// CreateProductRequest holds the multipart product-creation payload
type CreateProductRequest struct {
	ImageName   string
	Image       io.Reader
	Title       string
	Description string
	Price       float64
	Quantity    *int
}

// CreateProduct uploads a new product (image file plus fields) as multipart
// form data. Quantity is appended only when provided and positive.
func (c *Client) CreateProduct(token string, req CreateProductRequest) (*models.Product, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", req.ImageName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, req.Image); err != nil {
		return nil, err
	}

	writer.WriteField("title", req.Title)
	writer.WriteField("description", req.Description)
	writer.WriteField("price", strconv.FormatFloat(req.Price, 'f', -1, 64))
	if req.Quantity != nil && *req.Quantity > 0 {
		writer.WriteField("quantity", strconv.Itoa(*req.Quantity))
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+"/products", &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var product models.Product
	if err := decodeResponse(resp, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts lists the merchant's products, optionally filtered by search
func (c *Client) GetProducts(token, search string) ([]models.Product, error) {
	path := "/products"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var products []models.Product
	if err := c.get(path, token, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductByID fetches one product with its transaction history
func (c *Client) GetProductByID(token, id string) (*models.ProductDetail, error) {
	var detail models.ProductDetail
	if err := c.get("/products/"+id, token, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpdateProductStatus toggles a product's active flag
func (c *Client) UpdateProductStatus(token, id string, isActive bool) (*models.Product, error) {
	var product models.Product
	path := fmt.Sprintf("/products/%s/status", id)
	req := models.UpdateProductStatusRequest{IsActive: isActive}
	if err := c.do(http.MethodPatch, path, token, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
