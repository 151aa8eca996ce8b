// create_admin da de alta un administrador (rol admin, staff y superusuario).
//
// Uso: go run ./cmd/create_admin -email admin@tienda.com -password 'secreto123' [-username admin]
// La contraseña también puede venir en ADMIN_PASSWORD. Usa la misma configuración que la API
// (DATABASE_URL, DB_HOST, ...) y aplica las migraciones pendientes antes de insertar.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sweetshop-api/pkg/config"
	"github.com/jhoicas/sweetshop-api/pkg/jwt"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

func main() {
	username := flag.String("username", "", "username (si se omite se deriva del email)")
	email := flag.String("email", "", "email del administrador (obligatorio)")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "contraseña (mínimo 8 caracteres)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.App.Storage != config.StoragePostgres {
		fmt.Fprintln(os.Stderr, "create_admin requiere STORAGE=postgres")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	if _, err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Migrar: %v\n", err)
		os.Exit(1)
	}

	uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.Config{
		JWT:        jwt.Issuer{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer},
		BcryptCost: cfg.Auth.BcryptCost,
	}, log)

	user, err := uc.CreateAdmin(ctx, *username, *email, *password)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			for field, msgs := range verr.Fields() {
				for _, m := range msgs {
					fmt.Fprintf(os.Stderr, "%s: %s\n", field, m)
				}
			}
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Crear administrador: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Administrador creado: %s (%s) id=%s\n", user.Username, user.Email, user.ID)
}
