// Command devtoken mints a bearer token for local development against the
// signing key and issuer the server reads from the environment.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	jwttoken "eventreg/internal/jwt_token"
	"eventreg/internal/platform/config"
)

func main() {
	email := flag.String("email", "", "user email (required)")
	userID := flag.String("user", "dev-user", "user id")
	member := flag.Bool("member", false, "mark the user as a member")
	admin := flag.Bool("admin", false, "grant admin access")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "devtoken: -email is required")
		os.Exit(2)
	}

	cfg := config.FromEnv()
	token, err := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer).
		GenerateAccessToken(*userID, *email, *member, *admin, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
