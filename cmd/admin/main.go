// Command admin manages administrator provisioning out of band. Granting
// the first admin happens here (or via the admin.subjects config list),
// never implicitly by registration order.
package main

import (
	"context"
	"fmt"
	"os"
	"transferwiki/internal/config"
	"transferwiki/internal/data"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  admin promote <subject>   - Grant the ADMIN role to a profile")
	fmt.Println("  admin demote <subject>    - Revert a profile to the USER role")
	fmt.Println("  admin list                - List all admin profiles")
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := data.NewDB(cfg.DB)
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	profiles := data.NewSQLProfileRepository(db)
	ctx := context.Background()

	switch os.Args[1] {
	case "promote":
		if len(os.Args) < 3 {
			usage()
		}
		if err := profiles.UpdateRole(ctx, os.Args[2], data.RoleAdmin); err != nil {
			fmt.Printf("Failed to promote %s: %v\n", os.Args[2], err)
			os.Exit(1)
		}
		fmt.Printf("%s is now an admin\n", os.Args[2])

	case "demote":
		if len(os.Args) < 3 {
			usage()
		}
		if err := profiles.UpdateRole(ctx, os.Args[2], data.RoleUser); err != nil {
			fmt.Printf("Failed to demote %s: %v\n", os.Args[2], err)
			os.Exit(1)
		}
		fmt.Printf("%s is now a regular user\n", os.Args[2])

	case "list":
		admins, err := profiles.ListByRole(ctx, data.RoleAdmin)
		if err != nil {
			fmt.Printf("Failed to list admins: %v\n", err)
			os.Exit(1)
		}
		if len(admins) == 0 {
			fmt.Println("No admins provisioned yet.")
			return
		}
		for _, p := range admins {
			fmt.Printf("%s\t%s\n", p.ID, p.DisplayName)
		}

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
	}
}
