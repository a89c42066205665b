package database

import (
	"database/sql"
	"fmt"
	"time"

	// Driver pq para PostgreSQL
	_ "github.com/lib/pq"
)

// NewPostgresDB inicializa y configura el pool de conexiones con PostgreSQL.
// Retorna la conexión *sql.DB lista para usar.
func NewPostgresDB(dataSourceName string, connectionLimit int) (*sql.DB, error) {

	// 1. Abrir la conexión
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falla al abrir la conexión con la base de datos: %w", err)
	}

	// 2. Verificar la conexión de inmediato: credenciales y servidor correctos
	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("falla en el ping inicial a la base de datos: %w", err)
	}

	// 3. Configuración del pool de conexiones. El pool es el único recurso
	// mutable compartido entre peticiones concurrentes.
	db.SetMaxOpenConns(connectionLimit)
	db.SetMaxIdleConns(connectionLimit / 2)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return db, nil
}
