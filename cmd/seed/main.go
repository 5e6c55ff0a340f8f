// Command seed upserts the canonical subject categories and an initial
// administrator account. Safe to run repeatedly.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/skillbridge/skillbridge-api/internal/config"
)

type subject struct {
	name        string
	description string
}

var subjects = []subject{
	{"Mathematics", "Algebra, Calculus, and Geometry"},
	{"Physics", "Classical Mechanics and Quantum Physics"},
	{"Chemistry", "Organic and Inorganic Chemistry"},
	{"Computer Science", "Data Structures, Algorithms, and Web Dev"},
	{"English Literature", "Classic and Modern Literature"},
	{"Biology", "Genetics, Anatomy, and Ecology"},
	{"Economics", "Micro and Macroeconomics"},
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	adminEmail := flag.String("admin-email", "admin@skillbridge.local", "initial admin email")
	adminPassword := flag.String("admin-password", "", "initial admin password (skipped when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer db.Close()

	titler := cases.Title(language.English)
	for _, s := range subjects {
		name := titler.String(strings.ToLower(s.name))
		_, err := db.Exec(ctx, `
			INSERT INTO categories (name, description)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING`, name, s.description)
		if err != nil {
			log.Fatalf("seed category %s: %v", name, err)
		}
		fmt.Printf("seeded category: %s\n", name)
	}

	if *adminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash admin password: %v", err)
		}

		var id string
		err = db.QueryRow(ctx, `
			INSERT INTO users (email, name, password_hash, role, email_verified)
			VALUES ($1, 'Administrator', $2, 'ADMIN', true)
			ON CONFLICT (email) DO UPDATE SET updated_at = now()
			RETURNING id`, *adminEmail, string(hash)).Scan(&id)
		if err != nil {
			log.Fatalf("seed admin: %v", err)
		}
		fmt.Printf("seeded admin: id=%s email=%s\n", id, *adminEmail)
	}
}
