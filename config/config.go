package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Config almacena toda la configuración del sistema de registro de aprendices.
// Se lee una sola vez al arrancar el proceso; ningún otro componente toca el entorno.
type Config struct {
	// General
	Port        string
	Environment string
	LogLevel    string

	// Base de datos (PostgreSQL)
	DBHost            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBPort            string
	DBSSLMode         string
	DBConnectionLimit int
	DBTimeout         time.Duration

	// Sesiones y cache (Redis)
	RedisAddr  string
	SessionTTL time.Duration

	// Autenticación del área administrativa (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Paginación del listado administrativo
	PageSize int

	// Rate limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
}

// LoadConfig carga la configuración a partir de las variables de entorno.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. General
		Port:        getEnv("PORT", "3000"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. Base de datos. Las credenciales son obligatorias: la aplicación
		// no debe arrancar sin acceso a la tabla de aprendices.
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBUser:            mustGetEnv("DB_USER"),
		DBPassword:        mustGetEnv("DB_PASSWORD"),
		DBName:            mustGetEnv("DB_NAME"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		DBConnectionLimit: getIntEnv("DB_CONNECTION_LIMIT", 10),
		DBTimeout:         getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,

		// 3. Sesiones de registro (Redis)
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		SessionTTL: getDurationEnv("SESSION_TTL_HOURS", 24) * time.Hour,

		// 4. Seguridad (JWT para el panel administrativo)
		JWTSecretKey: mustGetEnv("JWT_SECRET_KEY"),
		TokenExpiry:  getDurationEnv("JWT_EXPIRY_HOURS", 8) * time.Hour,

		// 5. Paginación: 50 registros por página en el listado
		PageSize: getIntEnv("PAGE_SIZE", 50),

		// 6. Rate limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,
	}

	return cfg
}

// DatabaseURL arma el DSN de PostgreSQL a partir de las variables discretas.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// IsDevelopment indica si el proceso corre en modo desarrollo; en ese modo
// las respuestas de error incluyen el detalle del fallo.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Funciones auxiliares

// getEnv lee la variable de entorno o retorna un valor por defecto.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lee la variable de entorno; fatal si no está presente.
func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("Error de configuración: la variable de entorno %s debe estar definida.", key)
	return ""
}

// getDurationEnv lee una variable numérica y la retorna como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return time.Duration(defaultValue)
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Aviso: el valor de %s ('%s') no es un entero válido. Usando el valor por defecto (%d).", key, valueStr, defaultValue)
		return time.Duration(defaultValue)
	}
	return time.Duration(value)
}

// getIntEnv lee una variable numérica y la retorna como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Aviso: el valor de %s ('%s') no es un entero válido. Usando el valor por defecto (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
