package handlers

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"go-paylink/internal/backend"
	"go-paylink/internal/checkout"
	"go-paylink/internal/config"
	"go-paylink/internal/middleware"
	"go-paylink/internal/models"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	Backend  *backend.Client
	Flows    *checkout.Store
	Checkout *checkout.Coordinator
	Gate     *middleware.Gate
	Config   *config.Config
	tmpl     *template.Template
}

// NewHandler creates a new Handler
func NewHandler(client *backend.Client, flows *checkout.Store, coordinator *checkout.Coordinator, gate *middleware.Gate, cfg *config.Config) *Handler {
	// Parse all templates
	tmpl := template.Must(template.ParseGlob(cfg.TemplateGlob))

	return &Handler{
		Backend:  client,
		Flows:    flows,
		Checkout: coordinator,
		Gate:     gate,
		Config:   cfg,
		tmpl:     tmpl,
	}
}

// render executes a page template
func (h *Handler) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("[HANDLER] Template %s failed: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// forceLogout clears the session and sends the user to sign-in. Applied
// whenever the backend answers 401, regardless of which page triggered it.
func (h *Handler) forceLogout(w http.ResponseWriter, r *http.Request) {
	h.Gate.ClearSession(w)
	http.Redirect(w, r, "/signin", http.StatusSeeOther)
}

// ============== Page Handlers ==============

type homeData struct {
	User  *models.User
	Stats *models.PaymentStats
}

// ServeHome serves the landing page with aggregate payment stats
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	data := homeData{}

	// Stats are decoration; the landing page renders without them
	if stats, err := h.Backend.GetPaymentStats(); err == nil {
		data.Stats = stats
	} else {
		log.Printf("[HANDLER] Failed to fetch payment stats: %v", err)
	}

	if token := h.Gate.Token(r); token != "" {
		if user, err := h.Backend.GetProfile(token); err == nil {
			data.User = user
		}
	}

	h.render(w, "home.html", data)
}

type signinData struct {
	Error string
	Email string
}

// ServeSignin serves the sign-in page
func (h *Handler) ServeSignin(w http.ResponseWriter, r *http.Request) {
	data := signinData{}
	if r.URL.Query().Get("error") == "unauthorized" {
		data.Error = "You are not authorized to access that page."
	}
	h.render(w, "signin.html", data)
}

type signupData struct {
	Error string
	Form  models.SignupRequest
}

// ServeSignup serves the sign-up page
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	h.render(w, "signup.html", signupData{})
}

// ============== Helpers ==============

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, out interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func getQueryInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}
