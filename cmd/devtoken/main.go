// Command devtoken mints an HS256 bearer token for local development against an API
// started without AUTH0_DOMAIN. It reads JWT_SECRET the same way the server does.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kendall-kelly/complaint-desk-api/services"
)

func main() {
	sub := flag.String("sub", "", "token subject, the user_id to act as (required)")
	email := flag.String("email", "", "optional email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *sub == "" {
		fmt.Fprintln(os.Stderr, "devtoken: -sub is required")
		flag.Usage()
		os.Exit(2)
	}

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	_ = godotenv.Load(".env." + env)
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "devtoken: JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := services.SignHMACToken(secret, *sub, *email, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
