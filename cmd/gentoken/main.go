package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/saturnino-fabrica-de-software/centinela/internal/auth"
)

// Mints an operator token for the console. JWT_SECRET must match the
// secret the API runs with.
func main() {
	operatorID := flag.String("operator", "", "Operator id (required)")
	name := flag.String("name", "", "Operator display name")
	role := flag.String("role", auth.RoleViewer, "Role: reviewer or viewer")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" || *operatorID == "" {
		fmt.Fprintln(os.Stderr, "usage: JWT_SECRET=... genkey -operator <id> [-name <name>] [-role reviewer|viewer] [-ttl 24h]")
		os.Exit(1)
	}
	if *role != auth.RoleReviewer && *role != auth.RoleViewer {
		fmt.Fprintf(os.Stderr, "unknown role: %s\n", *role)
		os.Exit(1)
	}

	svc := auth.NewJWTService(secret, "centinela-api", *ttl)
	token, err := svc.GenerateToken(*operatorID, *name, *role)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	fmt.Printf("TOKEN=%s\n", token)
}
