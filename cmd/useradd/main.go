// Command useradd creates a viewer account so it can log in and record
// watch history.
//
// Usage:
//
//	go run ./cmd/useradd -username alice -password s3cret
//
// Database settings are read from the same environment as the server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"anime-catalog-service/internal/auth"
	"anime-catalog-service/internal/config"
	"anime-catalog-service/internal/database"
	"anime-catalog-service/internal/repository"
	"anime-catalog-service/internal/service"
)

func main() {
	username := flag.String("username", "", "account username")
	password := flag.String("password", "", "account password")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if err := run(*username, *password); err != nil {
		slog.Error("useradd failed", "error", err)
		os.Exit(1)
	}
}

func run(username, password string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := service.NewUserService(repository.NewUserRepository(db), auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL))
	user, err := users.CreateUser(ctx, username, password)
	if errors.Is(err, service.ErrUserExists) {
		return fmt.Errorf("username %q is taken", username)
	}
	if err != nil {
		return err
	}

	fmt.Printf("created user %d (%s)\n", user.ID, user.Username)
	return nil
}
