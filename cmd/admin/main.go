// Command admin grants and revokes the admin flag on profiles.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"sharehub/internal/bootstrap"
	"sharehub/internal/config"
	"sharehub/internal/repository"

	"github.com/google/uuid"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin promote <profile_id>   - Grant admin")
	fmt.Println("  go run ./cmd/admin demote <profile_id>    - Revoke admin")
	fmt.Println("  go run ./cmd/admin list-admins            - List all admins")
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SkipSchema: true, SkipRedis: true})
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = rt.Close() }()
	profiles := repository.NewProfileRepository(rt.DB)

	switch command := os.Args[1]; command {
	case "promote", "demote":
		if len(os.Args) < 3 {
			usage()
		}
		id := os.Args[2]
		if _, err := uuid.Parse(id); err != nil {
			log.Fatalf("Invalid profile id %q", id)
		}
		if err := profiles.SetAdmin(ctx, id, command == "promote"); err != nil {
			if repository.IsNotFound(err) {
				log.Fatalf("Profile %s not found", id)
			}
			log.Fatalf("Database error: %v", err)
		}
		fmt.Printf("Profile %s: admin=%t\n", id, command == "promote")

	case "list-admins":
		admins, err := profiles.ListAdmins(ctx)
		if err != nil {
			log.Fatalf("Database error: %v", err)
		}
		if len(admins) == 0 {
			fmt.Println("No admins found")
			return
		}
		for _, a := range admins {
			fmt.Printf("%s  %s\n", a.ID, a.Username)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		usage()
	}
}
