// Command opstoken mints a signed ops token for the catalog administration
// routes. Usage: opstoken -op alice@tripwripp.com [-ttl 12h]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/tripwripp/booking-backend/internal/auth"
)

func main() {
	operator := flag.String("op", "", "operator name or email to embed in the token")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if *operator == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	secret := os.Getenv("OPS_JWT_SECRET")
	if secret == "" {
		log.Fatal("OPS_JWT_SECRET is required")
	}

	manager := auth.NewJWTManager(secret, *ttl)
	token, err := manager.GenerateOpsToken(*operator)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}

	fmt.Println(token)
}
