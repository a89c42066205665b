package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Paquetes de infraestructura y utilitarios
	"etapaproductiva/config"
	"etapaproductiva/internal/pkg/cache"
	"etapaproductiva/internal/pkg/database"
	"etapaproductiva/internal/pkg/logger"
	"etapaproductiva/internal/pkg/sesion"
	"etapaproductiva/internal/pkg/token"

	// Capas de la aplicación para la inyección de dependencias
	"etapaproductiva/internal/api/admin"
	"etapaproductiva/internal/api/aprendiz"
	"etapaproductiva/internal/api/respuestas"
	"etapaproductiva/internal/api/router"
	"etapaproductiva/internal/repository/adminrepo"
	"etapaproductiva/internal/repository/aprendizrepo"
	"etapaproductiva/internal/service/adminservice"
	"etapaproductiva/internal/service/aprendizservice"
)

func main() {
	// 0. Cargar variables de entorno (.env). Si el archivo no existe las
	// variables esenciales pueden venir del entorno del sistema (ej: Docker).
	if err := godotenv.Load(); err != nil {
		stdlog.Println("Aviso: archivo .env no encontrado. Cargando configuración solo del entorno del sistema.")
	}

	// 1. Configuración e inicialización
	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configuración cargada.", map[string]interface{}{"env": cfg.Environment})

	// 2. Conexión con recursos de infraestructura

	// A. Base de datos (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL(), cfg.DBConnectionLimit)
	if err != nil {
		log.Fatal("Falla al conectar a la base de datos.", err)
	}
	defer db.Close()
	log.Info("Conexión PostgreSQL establecida.", nil)

	// B. Cache y sesiones (Redis)
	cacheClient, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		log.Fatal("Falla al conectar a Redis.", err)
	}
	log.Info("Conexión Redis establecida.", nil)

	// 3. Inyección de dependencias: Repository -> Service -> Handler

	escritor := respuestas.NewEscritor(log, cfg.IsDevelopment())

	// A. Sesiones de registro y tokens administrativos
	sesionStore := sesion.NewRedisStore(cacheClient, cfg.SessionTTL)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	// B. Repositorios
	aprendizRepo := aprendizrepo.NewAprendizRepository(db, cacheClient, cfg.DBTimeout, log)
	adminRepo := adminrepo.NewAdminRepository(db, cfg.DBTimeout, log)

	// C. Servicios
	aprendizSvc := aprendizservice.NewService(aprendizRepo, sesionStore, cfg.PageSize, log)
	adminSvc := adminservice.NewService(adminRepo, tokenSvc, log)

	// D. Handlers
	aprendizHandler := aprendiz.NewHandler(aprendizSvc, log, escritor, cfg.SessionTTL)
	adminHandler := admin.NewHandler(adminSvc, aprendizSvc, log, escritor)
	log.Debug("Capas de la aplicación inicializadas.", nil)

	// 4. Enrutador y servidor
	r := router.NewRouter(aprendizHandler, adminHandler, router.Options{
		CacheClient:          cacheClient,
		TokenService:         tokenSvc,
		RateLimitMaxRequests: cfg.RateLimitMaxRequests,
		RateLimitPeriod:      cfg.RateLimitPeriod,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Ejecución y graceful shutdown
	go func() {
		log.Info("Servidor de etapa productiva escuchando.", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("El servidor falló.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Señal de apagado recibida. Cerrando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Apagado forzado del servidor.", err)
	}

	log.Info("Servidor cerrado correctamente.", nil)
}
