// cmd/adduser/main.go
// Creates or updates a profile in the database.
//
// Usage:
//
//	go run ./cmd/adduser -username pat -password testing -handicap 14.2
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fairwaylog/caddieapi/config"
	bundb "github.com/fairwaylog/caddieapi/db"
	"github.com/fairwaylog/caddieapi/models"
)

func main() {
	username := flag.String("username", "", "username (required)")
	password := flag.String("password", "", "plain-text password (required)")
	handicap := flag.Float64("handicap", -99, "optional playing handicap")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("both -username and -password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("bcrypt:", err)
	}

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	profile := &models.Profile{
		ID:       uuid.NewString(),
		Username: *username,
		Password: string(hash),
	}
	if *handicap != -99 {
		profile.Handicap = handicap
	}

	_, err = db.NewInsert().Model(profile).
		On("CONFLICT (username) DO UPDATE SET password = EXCLUDED.password, handicap = EXCLUDED.handicap").
		Exec(context.Background())
	if err != nil {
		log.Fatal("insert profile:", err)
	}

	fmt.Printf("profile %q saved\n", *username)
}
