package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yigit/persondata/internal/bootstrap"
	"github.com/yigit/persondata/internal/pkg/auth"
	"github.com/yigit/persondata/internal/pkg/logger"
	"github.com/yigit/persondata/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	issueFor := flag.String("issue-token", "", "print a bearer token for this client subject and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of a token printed by -issue-token")
	flag.Parse()

	if *issueFor != "" {
		if err := issueToken(*configPath, *issueFor, *tokenTTL); err != nil {
			logger.Error().Err(err).Msg("Failed to issue token")
			os.Exit(1)
		}
		return
	}

	srv, err := server.NewServer(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}

func issueToken(configPath, subject string, ttl time.Duration) error {
	cfg, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret must be set to issue tokens")
	}

	token, err := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	}).IssueToken(subject, "", ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
