// Command generate_password prints a bcrypt hash for an admin password,
// checked against the same policy the API enforces.
//
//	go run scripts/generate_password.go <password>
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/config"
	"github.com/your-org/bakehouse-backend/internal/pkg/auth"
)

func main() {
	if len(os.Args) < 2 {
		logrus.Fatal("Usage: go run scripts/generate_password.go <password>")
	}
	password := os.Args[1]

	cfg := &config.Config{Security: config.SecurityConfig{BcryptCost: 12}}
	passwords := auth.NewPasswordManager(cfg)

	hash, err := passwords.HashPassword(password)
	if err != nil {
		logrus.WithError(err).Fatal("Error generating hash")
	}

	if !passwords.VerifyPassword(password, hash) {
		logrus.Fatal("Hash verification failed")
	}

	fmt.Printf("Hash: %s\n", hash)
}
