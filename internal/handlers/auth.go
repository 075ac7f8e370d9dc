package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go-paylink/internal/backend"
	"go-paylink/internal/models"
)

// Login handles the sign-in form: authenticate against the backend, store
// the access token in the http-only cookie, redirect to the dashboard.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, "signin.html", signinData{Error: "Invalid request"})
		return
	}

	req := models.LoginRequest{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if req.Email == "" || req.Password == "" {
		h.render(w, "signin.html", signinData{Error: "Email and password are required", Email: req.Email})
		return
	}

	resp, err := h.Backend.Login(req)
	if err != nil {
		h.render(w, "signin.html", signinData{
			Error: backend.UserMessage(err, "Login failed"),
			Email: req.Email,
		})
		return
	}

	h.Gate.SetSession(w, resp.AccessToken)
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// Signup handles the registration form
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, "signup.html", signupData{Error: "Invalid request"})
		return
	}

	req := models.SignupRequest{
		Email:        strings.TrimSpace(r.FormValue("email")),
		Password:     r.FormValue("password"),
		FirstName:    strings.TrimSpace(r.FormValue("firstName")),
		LastName:     strings.TrimSpace(r.FormValue("lastName")),
		PhoneNumber:  strings.TrimSpace(r.FormValue("phoneNumber")),
		BusinessName: strings.TrimSpace(r.FormValue("businessName")),
		SupportEmail: strings.TrimSpace(r.FormValue("supportEmail")),
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		h.render(w, "signup.html", signupData{Error: "Please fill in all required fields", Form: req})
		return
	}

	resp, err := h.Backend.Signup(req)
	if err != nil {
		h.render(w, "signup.html", signupData{
			Error: backend.UserMessage(err, "Signup failed"),
			Form:  req,
		})
		return
	}

	h.Gate.SetSession(w, resp.AccessToken)
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// Logout clears the session cookie and redirects to sign-in
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Gate.ClearSession(w)
	http.Redirect(w, r, "/signin", http.StatusSeeOther)
}

// SetCookie stores a token in the http-only session cookie. Kept as a JSON
// endpoint so API clients can establish the server-readable session.
func (h *Handler) SetCookie(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Token == "" {
		respondError(w, http.StatusBadRequest, "Token is required")
		return
	}

	h.Gate.SetSession(w, req.Token)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ClearCookie expires the http-only session cookie
func (h *Handler) ClearCookie(w http.ResponseWriter, r *http.Request) {
	h.Gate.ClearSession(w)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
