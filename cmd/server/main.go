package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go-paylink/internal/backend"
	"go-paylink/internal/checkout"
	"go-paylink/internal/config"
	"go-paylink/internal/handlers"
	"go-paylink/internal/middleware"
	"go-paylink/internal/scheduler"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Print banner
	printBanner()

	// Load configuration
	cfg := config.Load()

	// Initialize backend API client
	client := backend.New(cfg)
	log.Printf("✓ Backend API client targeting %s", cfg.BackendURL)

	// Initialize checkout flow store and coordinator
	flows := checkout.NewStore(cfg.FlowTTL)
	coordinator := checkout.NewCoordinator(client, cfg)
	log.Printf("✓ Checkout coordinator ready (poll interval %s)", cfg.PollInterval)

	// Initialize auth gate
	gate := middleware.NewGate(client, cfg)

	// Initialize HTTP handlers
	h := handlers.NewHandler(client, flows, coordinator, gate, cfg)

	// Initialize Scheduler
	sched := scheduler.New(flows)
	sched.Start()
	log.Println("✓ Scheduler started")

	// Setup router
	router := setupRouter(h, gate)

	// Setup CORS with restrictive settings
	allowedOrigins := []string{
		fmt.Sprintf("http://localhost:%d", cfg.ServerPort),
	}
	if origin := os.Getenv("ALLOWED_ORIGINS"); origin != "" {
		allowedOrigins = append(allowedOrigins, strings.Split(origin, ",")...)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	})

	handler := c.Handler(router)

	// Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Printf("✓ HTTP server starting on port %d", cfg.ServerPort)
	log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("🌐 Storefront: http://localhost:%d", cfg.ServerPort)
	log.Printf("💳 Payment pages: http://localhost:%d/pay?productId=...", cfg.ServerPort)
	log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("\n🛑 Shutting down server...")
		os.Exit(0)
	}()

	log.Fatal(http.ListenAndServe(addr, handler))
}

func setupRouter(h *handlers.Handler, gate *middleware.Gate) *mux.Router {
	router := mux.NewRouter()

	// Serve static files
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))

	// Public pages
	router.HandleFunc("/", h.ServeHome).Methods("GET")
	router.HandleFunc("/signin", h.ServeSignin).Methods("GET")
	router.HandleFunc("/signin", h.Login).Methods("POST")
	router.HandleFunc("/signup", h.ServeSignup).Methods("GET")
	router.HandleFunc("/signup", h.Signup).Methods("POST")

	// Payer checkout flow (public)
	router.HandleFunc("/pay", h.ServePay).Methods("GET")
	router.HandleFunc("/pay/proceed", h.ProceedToPayment).Methods("POST")
	router.HandleFunc("/proceed", h.ServeProceed).Methods("GET")
	router.HandleFunc("/proceed", h.SubmitDetails).Methods("POST")
	router.HandleFunc("/waiting", h.ServeWaiting).Methods("GET")
	router.HandleFunc("/payment-success", h.ServeSuccess).Methods("GET")

	// Merchant pages (session required, checked before render)
	router.HandleFunc("/products", gate.RequireUser(h.ServeProducts)).Methods("GET")
	router.HandleFunc("/products/create", gate.RequireUser(h.ServeCreateProduct)).Methods("GET")
	router.HandleFunc("/products/create", gate.RequireUser(h.CreateProduct)).Methods("POST")
	router.HandleFunc("/products/{id}", gate.RequireUser(h.ServeProductDetail)).Methods("GET")
	router.HandleFunc("/profile", gate.RequireUser(h.ServeProfile)).Methods("GET")
	router.HandleFunc("/settings", gate.RequireUser(h.ServeSettings)).Methods("GET")
	router.HandleFunc("/settings", gate.RequireUser(h.UpdateProfile)).Methods("POST")

	// Admin pages (role checked before render)
	router.HandleFunc("/admin", gate.RequireAdmin(h.ServeAdminDashboard)).Methods("GET")
	router.HandleFunc("/admin/users", gate.RequireAdmin(h.ServeAdminUsers)).Methods("GET")
	router.HandleFunc("/admin/products", gate.RequireAdmin(h.ServeAdminProducts)).Methods("GET")
	router.HandleFunc("/admin/products/{id}", gate.RequireAdmin(h.ServeAdminProductDetail)).Methods("GET")

	// API routes
	api := router.PathPrefix("/api").Subrouter()

	// Session cookie management
	api.HandleFunc("/auth/set-cookie", h.SetCookie).Methods("POST")
	api.HandleFunc("/auth/clear-cookie", h.ClearCookie).Methods("POST")
	api.HandleFunc("/auth/logout", h.Logout).Methods("POST")

	// Checkout state for the waiting page
	api.HandleFunc("/checkout/status", h.CheckoutStatus).Methods("GET")

	// Product actions
	api.HandleFunc("/products/{id}/status", gate.RequireUser(h.UpdateProductStatus)).Methods("PATCH")

	// Admin actions
	api.HandleFunc("/admin/users/restrict", gate.RequireAdmin(h.RestrictUser)).Methods("PATCH")
	api.HandleFunc("/admin/products/{id}/status", gate.RequireAdmin(h.UpdateAdminProductStatus)).Methods("PATCH")

	return router
}

func printBanner() {
	banner := `
   ██████╗  ██████╗      ██████╗  █████╗ ██╗   ██╗
  ██╔════╝ ██╔═══██╗     ██╔══██╗██╔══██╗╚██╗ ██╔╝
  ██║  ███╗██║   ██║     ██████╔╝███████║ ╚████╔╝
  ██║   ██║██║   ██║     ██╔═══╝ ██╔══██║  ╚██╔╝
  ╚██████╔╝╚██████╔╝     ██║     ██║  ██║   ██║
   ╚═════╝  ╚═════╝      ╚═╝     ╚═╝  ╚═╝   ╚═╝

  Merchant storefront and payment-initiation frontend
  Version: 1.0.0
━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
`
	fmt.Println(banner)
}
