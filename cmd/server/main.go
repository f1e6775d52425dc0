package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata" // TIME_ZONE must resolve on hosts without a zoneinfo database

	"github.com/labstack/echo/v4"

	"bites4life/docs"
	"bites4life/internal/auth"
	"bites4life/internal/cache"
	"bites4life/internal/config"
	"bites4life/internal/db"
	"bites4life/internal/handler"
	"bites4life/internal/repository"
	"bites4life/internal/router"
	"bites4life/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Bites4Life Rider Board API
// @version 1.0
// @description Rider dispatch board: rider registration, status reports, ring notifications and admin accounts.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.Fatalf("%v", err)
	}

	var cacheClient *cache.Client
	if cfg.RedisAddr != "" {
		cacheClient = cache.New(cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB})
		defer cacheClient.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := cacheClient.Ping(pingCtx); err != nil {
			log.Printf("Warning: redis unreachable at %s, sessions will not survive: %v", cfg.RedisAddr, err)
		}
		cancel()
	}

	// Initialize repositories
	riderRepo := repository.NewRiderRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	adminService := service.NewAdminService(userRepo)
	riderService := service.NewRiderService(riderRepo, service.RiderServiceOptions{
		Stamps:          service.NewStampFormatter(loc, cfg.TimeLayout),
		MaxCodeAttempts: cfg.CodeMaxAttempts,
		RegisterDevice:  cfg.CheckCodeRegistersDevice,
	})

	created, err := adminService.EnsureSuperAdmin(context.Background(), cfg.SuperAdminEmail, cfg.SuperAdminPassword)
	if err != nil {
		log.Fatalf("seed superadmin: %v", err)
	}
	if created {
		log.Printf("Seeded superadmin %q", cfg.SuperAdminEmail)
	}

	var cachePinger handler.Pinger
	if cacheClient != nil {
		cachePinger = cacheClient
	}
	handlers := router.Handlers{
		System: handler.NewSystemHandler(handler.PingFunc(func(ctx context.Context) error {
			return db.Ping(ctx, gormDB)
		}), cachePinger),
		Auth:  handler.NewAuthHandler(authService),
		Rider: handler.NewRiderHandler(riderService),
		Admin: handler.NewAdminHandler(adminService),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, jwtService, authService, handlers)

	if cfg.SwaggerHost != "" {
		host := cfg.SwaggerHost
		host = strings.TrimPrefix(strings.TrimPrefix(host, "http://"), "https://")
		docs.SwaggerInfo.Host = host
	}
	log.Printf("Swagger documentation available at: http://%s/swagger/index.html", docs.SwaggerInfo.Host)
	log.Printf("Storage: %s, auth required: %t, zone: %s", cfg.DBDriver, cfg.RequireAuth, loc)

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
