package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/spellcast-solver/internal/config"
	"github.com/robalobadob/spellcast-solver/internal/db"
	"github.com/robalobadob/spellcast-solver/internal/httpserver"
	"github.com/robalobadob/spellcast-solver/internal/store"
	"github.com/robalobadob/spellcast-solver/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	dict, err := words.Load(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.WordsFile).Msg("failed to load word list")
	}
	log.Info().Int("words", dict.Len()).Msg("dictionary loaded")

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	srv, err := httpserver.New(cfg, store.NewMemoryStore(cfg.JobRetention), conn, dict)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid search settings")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("port", cfg.Port).Msg("starting spellcast solver")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}
