package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"PosServer/app/config"
	"PosServer/app/database"
	"PosServer/app/server"
	"PosServer/app/services"
	"PosServer/app/websocket"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg := config.Load()

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer database.Close(db)

	// Notification channel hub, injected into the order processor
	hub := websocket.NewServer()
	go hub.Run()
	defer hub.Stop()

	productSvc := services.NewProductService(db)
	ingredientSvc := services.NewIngredientService(db)
	tableSvc := services.NewTableService(db)
	orderSvc := services.NewOrderService(db, hub)
	financeSvc := services.NewFinanceService(db)
	dashboardSvc := services.NewDashboardService(db)

	api := server.New(productSvc, ingredientSvc, tableSvc, orderSvc, financeSvc, dashboardSvc, hub)

	if cfg.MDNS {
		if port, err := strconv.Atoi(strings.TrimPrefix(cfg.HTTPAddr, ":")); err == nil {
			if err := hub.AnnounceMDNS(port); err != nil {
				log.Printf("mDNS announcement failed: %v", err)
			}
		}
	}

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api,
	}

	go func() {
		log.Printf("POS server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
}
