package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"barber-booking/internal/infra/db"
	"barber-booking/internal/pkg/config"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// usage: migrate [up|down|version|force <version>]
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	var cfg config.DBConfig
	if err := envconfig.Process("", &cfg); err != nil {
		fail("load db config", err)
	}

	g, err := db.NewMigrator(cfg.BuildDSN())
	if err != nil {
		fail("open migrator", err)
	}
	defer func() { _ = g.Close() }()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		err = g.Up()
	case "down":
		err = g.Down()
	case "force":
		if len(os.Args) < 3 {
			fail("force", fmt.Errorf("version is required"))
		}
		version, convErr := strconv.Atoi(os.Args[2])
		if convErr != nil {
			fail("force", convErr)
		}
		err = g.Force(version)
	case "version":
		v, dirty, vErr := g.Version()
		if vErr != nil {
			fail("version", vErr)
		}
		fmt.Printf("version %d (dirty=%t)\n", v, dirty)
		return
	default:
		fail("usage", fmt.Errorf("unknown command %q", cmd))
	}
	if err != nil {
		fail(cmd, err)
	}
	slog.Info("migrations complete", "command", cmd)
}

func fail(step string, err error) {
	slog.Error("migration failed", "step", step, "error", err)
	os.Exit(1)
}
