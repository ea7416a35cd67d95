package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"femida-backend/internal/config"
	"femida-backend/internal/database"
	"femida-backend/internal/domain"
	"femida-backend/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// createadmin bootstraps the first staff account so the API can be logged
// into on a fresh database.
func main() {
	username := flag.String("username", "", "login name for the new account")
	password := flag.String("password", "", "password (min 8 characters)")
	firstName := flag.String("first-name", "", "first name")
	lastName := flag.String("last-name", "", "last name")
	email := flag.String("email", "", "email address")
	superadmin := flag.Bool("superadmin", false, "grant the superadmin role")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: createadmin -username NAME -password PASS [-superadmin]")
		os.Exit(2)
	}
	if len(*password) < 8 {
		log.Fatal().Msg("password must be at least 8 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	users := repository.NewUserRepository(db)
	ctx := context.Background()

	if _, err := users.GetByUsername(ctx, *username); err == nil {
		log.Fatal().Str("username", *username).Msg("username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatal().Err(err).Msg("failed to check username")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	role := domain.RoleAdmin
	if *superadmin {
		role = domain.RoleSuperadmin
	}

	user := &domain.User{
		Username:     *username,
		PasswordHash: string(hash),
		FirstName:    *firstName,
		LastName:     *lastName,
		Email:        *email,
		Role:         role,
		IsActive:     true,
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatal().Err(err).Msg("failed to create account")
	}

	log.Info().Int64("id", user.ID).Str("username", user.Username).Str("role", string(user.Role)).Msg("staff account created")
}
