// Command admintoken prints a signed admin JWT for the catalog's write
// endpoints.  The secret comes from JWT_SECRET (a .env file is honoured).
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/film-catalog/internal/auth"
	"github.com/iliyamo/film-catalog/internal/logger"
)

func main() {
	_ = godotenv.Load()
	logger.Init(logger.Config{Format: "console"})

	sub := flag.Uint64("sub", 1, "subject (operator id) to embed in the token")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal().Msg("JWT_SECRET is not set")
	}
	tok, err := auth.NewAdminToken(secret, *sub, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("sign token")
	}
	log.Info().Time("expires", tok.Exp).Msg("admin token issued")
	fmt.Println(tok.Token)
}
