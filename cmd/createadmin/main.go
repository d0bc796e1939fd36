// Command createadmin bootstraps an account holding the admin role.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/iliyamo/auth-service/internal/config"
	"github.com/iliyamo/auth-service/internal/database"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/service"
	"github.com/iliyamo/auth-service/internal/utils"
)

func main() {
	email := flag.String("email", "", "admin email (random when empty)")
	password := flag.String("password", "", "admin password (random when empty)")
	migrate := flag.Bool("migrate", false, "apply database migrations first")
	flag.Parse()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dialect, err := database.ParseDialect(cfg.DB.Driver)
	if err != nil {
		log.Fatal(err)
	}
	db, err := database.Open(ctx, dialect, cfg.DB.DataSourceName())
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if *migrate {
		if err := database.Migrate(ctx, db, dialect); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	if *email == "" {
		if *email, err = utils.RandomEmail(); err != nil {
			log.Fatalf("generate email: %v", err)
		}
	}
	generated := *password == ""
	if generated {
		if *password, err = utils.RandomPassword(); err != nil {
			log.Fatalf("generate password: %v", err)
		}
	}

	creds, err := service.NewCredentialStore(repository.NewStore(db, dialect), cfg.BcryptCost)
	if err != nil {
		log.Fatalf("credentials: %v", err)
	}
	u, err := creds.CreateUser(ctx, model.NormalizeEmail(*email), *password, model.RoleAdmin)
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}

	fmt.Fprintf(os.Stdout, "admin created: id=%s email=%s\n", u.ID, u.Email)
	if generated {
		fmt.Fprintf(os.Stdout, "password: %s\n", *password)
	}
}
