// Command seed creates the portal's test member when it does not exist yet.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"member-portal-api/config"
	"member-portal-api/internal"
	"member-portal-api/internal/domain/member"
)

func main() {
	email := flag.String("email", "test@example.com", "member email")
	password := flag.String("password", "password123", "member password")
	name := flag.String("name", "Test User", "member display name")
	role := flag.String("role", member.RoleUser, "member role (user|admin)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}
	defer logger.Sync()

	if err = godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatal("error loading .env file", zap.Error(err))
	}
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stores, err := internal.OpenStores(ctx, logger, cfg)
	if err != nil {
		logger.Fatal("failed to open record stores", zap.Error(err))
	}
	defer stores.Close()

	if err = seedMember(ctx, stores.Members, *email, *password, *name, *role); err != nil {
		logger.Error("seed failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("member ready", zap.String("email", *email))
}

func seedMember(ctx context.Context, members member.Repository, email, password, name, role string) error {
	existing, err := members.FetchByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = members.Create(ctx, member.Member{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	})
	if errors.Is(err, member.ErrEmailAlreadyExists) {
		return nil
	}

	return err
}
