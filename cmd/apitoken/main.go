// Command apitoken issues a bearer token for the query API.
//
//	go run ./cmd/apitoken -subject grafana -ttl 720h
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"stocks_bot/internal/app/config"
	jwtmw "stocks_bot/internal/platform/jwt"
)

func main() {
	subject := flag.String("subject", "", "client name written to the sub claim (required)")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_TOKEN_TTL or 720h)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] failed to load .env: %v", err)
	}

	var cfg config.HTTPConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("read environment: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if *subject == "" {
		flag.Usage()
		os.Exit(2)
	}

	exp := *ttl
	if exp <= 0 {
		exp = cfg.TokenTTL
	}
	if exp <= 0 {
		exp = 720 * time.Hour
	}

	token, err := jwtmw.NewGenerator(cfg.JWTSecret, exp).GenerateToken(*subject)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	fmt.Println(token)
}
