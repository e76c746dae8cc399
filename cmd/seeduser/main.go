// cmd/seeduser/main.go — Crea/actualiza usuario de demo.
// Uso: go run cmd/seeduser/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"kooltpv/internal/infra"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "kooltpv.db"
	}
	username := "admin"
	password := "1234"
	nombre := "Admin Demo"
	email := "admin@kooltpv.local"
	rol := "administrador"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatalf("bcrypt error: %v", err)
	}

	db, err := infra.NewDatabase(path)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}

	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO usuarios (id, username, nombre, email, password_hash, rol, activo)
		VALUES (?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = excluded.password_hash,
		    nombre = excluded.nombre,
		    email = excluded.email,
		    rol = excluded.rol,
		    activo = 1
	`, uuid.NewString(), username, nombre, email, string(hash), rol)

	if result.Error != nil {
		log.Fatalf("insert error: %v", result.Error)
	}
	fmt.Printf("✅ Usuario '%s' creado/actualizado con password '%s'\n", username, password)
}
