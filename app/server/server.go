package server

import (
	"net/http"
	"time"

	"PosServer/app/services"
	ws "PosServer/app/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server wires the REST API on top of the services layer
type Server struct {
	router chi.Router

	productSvc    *services.ProductService
	ingredientSvc *services.IngredientService
	tableSvc      *services.TableService
	orderSvc      *services.OrderService
	financeSvc    *services.FinanceService
	dashboardSvc  *services.DashboardService
	hub           *ws.Server
}

// New builds the HTTP server with all routes registered. The websocket
// hub may be nil in tests that don't exercise the push channel.
func New(
	productSvc *services.ProductService,
	ingredientSvc *services.IngredientService,
	tableSvc *services.TableService,
	orderSvc *services.OrderService,
	financeSvc *services.FinanceService,
	dashboardSvc *services.DashboardService,
	hub *ws.Server,
) *Server {
	s := &Server{
		productSvc:    productSvc,
		ingredientSvc: ingredientSvc,
		tableSvc:      tableSvc,
		orderSvc:      orderSvc,
		financeSvc:    financeSvc,
		dashboardSvc:  dashboardSvc,
		hub:           hub,
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.handleGetProducts)
		r.Post("/", s.handleCreateProduct)
		r.Get("/{id}", s.handleGetProduct)
		r.Put("/{id}/recipe", s.handleSetRecipe)
	})

	r.Route("/ingredients", func(r chi.Router) {
		r.Get("/", s.handleGetIngredients)
		r.Post("/", s.handleCreateIngredient)
		r.Get("/{id}/movements", s.handleGetIngredientMovements)
		r.Patch("/{id}/stock", s.handleAdjustIngredientStock)
	})

	r.Route("/tables", func(r chi.Router) {
		r.Get("/", s.handleGetTables)
		r.Post("/", s.handleCreateTable)
		r.Get("/{id}/qrcode", s.handleTableQRCode)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", s.handleGetOrders)
		r.Post("/", s.handleCreateOrder)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", s.handleGetTransactions)
		r.Post("/", s.handleCreateTransaction)
	})

	r.Get("/dashboard/summary", s.handleDashboardSummary)

	if s.hub != nil {
		r.Get("/ws", s.hub.HandleWS)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status": "healthy",
		"time":   time.Now(),
	}
	if s.hub != nil {
		response["clients"] = s.hub.ClientCount()
	}
	writeJSON(w, http.StatusOK, response)
}
