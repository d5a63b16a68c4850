// Command devtoken prints a signed session token for local testing.
//
//	go run ./cmd/devtoken -email alice@hall.test -admin 1
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/utils"
)

func main() {
	_ = godotenv.Load()

	email := flag.String("email", "", "session email (required)")
	admin := flag.Int("admin", 0, "admin level: 0 user, 1 admin, 2 owner")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if *email == "" {
		log.Fatal("-email is required")
	}
	if *admin < int(model.LevelUser) || *admin > int(model.LevelOwner) {
		log.Fatalf("-admin must be between %d and %d", model.LevelUser, model.LevelOwner)
	}

	tok, err := utils.NewSessionToken(secret, model.Session{Email: *email, Admin: model.AdminLevel(*admin)}, *ttl)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	fmt.Println(tok.Token)
}
