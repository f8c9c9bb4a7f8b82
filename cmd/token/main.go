// Command token mints a token pair for local development and service accounts.
package main

import (
	"encoding/json"
	"flag"
	"labplanner/config"
	"labplanner/infras/jwt"
	"labplanner/shared/constant"
	"labplanner/shared/logger"
	"os"
	"slices"

	"github.com/rs/zerolog/log"
)

func main() {
	userID := flag.String("user", "", "user id carried in the token")
	email := flag.String("email", "", "email carried in the token")
	role := flag.String("role", constant.RolePlanner, "admin, planner or viewer")
	flag.Parse()

	cfg := config.Get()

	logger.InitLogger(cfg.Server.Env)
	logger.SetLogLevel(cfg)

	if *userID == "" {
		log.Fatal().Msg("-user is required")
	}

	if !slices.Contains([]string{constant.RoleAdmin, constant.RolePlanner, constant.RoleViewer}, *role) {
		log.Fatal().Str("role", *role).Msg("unknown role")
	}

	pair, err := jwt.New(cfg).GenerateTokenPair(*userID, *email, *role)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate token pair")
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(pair); err != nil {
		log.Fatal().Err(err).Msg("failed to write token pair")
	}
}
