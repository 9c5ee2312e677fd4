package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/eringen/pubcms"
	"github.com/eringen/pubcms/content"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			log.Fatal(err)
		}
	case "seed":
		if err := runSeed(); err != nil {
			fmt.Fprintf(os.Stderr, "Error seeding database: %v\n", err)
			os.Exit(1)
		}
	case "passwd":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: pubcms passwd <email> <new-password>")
			os.Exit(1)
		}
		if err := runPasswd(os.Args[2], os.Args[3]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("pubcms %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	app := pubcms.New(pubcms.LoadConfig())
	defer app.Close()
	return app.Start()
}

func openStore() (*pubcms.Store, error) {
	cfg := pubcms.LoadConfig()
	path := cfg.DatabasePath
	if path == "" {
		path = "data/cms.db"
	}
	return pubcms.NewStore(path)
}

func runSeed() error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := pubcms.Seed(context.Background(), store)
	if err != nil {
		return err
	}
	if !res.Created {
		fmt.Println("Admin user already exists")
		return nil
	}
	fmt.Println("Admin user created successfully")
	fmt.Printf("Email: %s\n", pubcms.SeedEmail)
	fmt.Printf("Password: %s\n", pubcms.SeedPassword)
	if res.Welcome != nil {
		fmt.Printf("Draft post: %s\n", res.Welcome.Slug)
	}
	fmt.Println("\nPlease change the default password after first login!")
	return nil
}

func runPasswd(email, password string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	err = pubcms.ResetPassword(context.Background(), store, email, password)
	if errors.Is(err, content.ErrNotFound) {
		return fmt.Errorf("no user with email %s", email)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Password updated for %s\n", email)
	return nil
}

func printUsage() {
	fmt.Println(`pubcms - A headless CMS built with Go, Echo, and SQLite

Usage:
  pubcms <command> [arguments]

Commands:
  serve                     Start the HTTP server
  seed                      Create the default admin user
  passwd <email> <password> Change a user's password
  version                   Print the pubcms version
  help                      Show this help message

Configuration is read from the environment and an optional .env file.
SESSION_SECRET is required for serve.`)
}
