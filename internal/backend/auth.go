package backend

import (
	"net/http"

	"go-paylink/internal/models"
)

// Login authenticates a merchant and returns the user with an access token
func (c *Client) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(http.MethodPost, "/users/login", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a merchant account
func (c *Client) Signup(req models.SignupRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(http.MethodPost, "/users/signup", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProfile fetches the user the token belongs to
func (c *Client) GetProfile(token string) (*models.User, error) {
	var user models.User
	if err := c.get("/users/profile", token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the editable profile fields
func (c *Client) UpdateProfile(token string, req models.UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := c.do(http.MethodPatch, "/users/profile", token, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
