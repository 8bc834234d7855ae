package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"usdl-offering/db"
	"usdl-offering/db/clickhouse"
	"usdl-offering/db/postgres"
	"usdl-offering/pkg/platform"
)

// storeFlags configure the version store used by validate.
func storeFlags() []cli.Flag {
	env := platform.StoreConfigFromEnv()
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "store",
			Value: env.Driver,
			Usage: "Offering version store (memory, clickhouse, postgres)",
		},
		&cli.StringFlag{
			Name:  "clickhouse-addr",
			Value: env.ClickHouse,
			Usage: "ClickHouse native address (host:port)",
		},
		&cli.StringFlag{
			Name:    "clickhouse-database",
			Value:   "offerings",
			Usage:   "ClickHouse database",
			EnvVars: []string{"CLICKHOUSE_DATABASE"},
		},
		&cli.StringFlag{
			Name:    "clickhouse-user",
			Value:   "default",
			Usage:   "ClickHouse user",
			EnvVars: []string{"CLICKHOUSE_USER"},
		},
		&cli.StringFlag{
			Name:    "clickhouse-password",
			Usage:   "ClickHouse password",
			EnvVars: []string{"CLICKHOUSE_PASSWORD"},
		},
		&cli.StringFlag{
			Name:  "postgres-dsn",
			Value: env.PostgresDSN,
			Usage: "PostgreSQL connection string",
		},
	}
}

// openStore connects the version store selected by the validate flags. The
// returned func releases it.
func openStore(c *cli.Context) (db.VersionLookup, func(), error) {
	cfg := platform.StoreConfig{
		Driver:      c.String("store"),
		ClickHouse:  c.String("clickhouse-addr"),
		PostgresDSN: c.String("postgres-dsn"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	ctx := commandContext(c)

	switch cfg.Driver {
	case "clickhouse":
		chCfg, err := clickhouse.ConfigFromAddr(cfg.ClickHouse)
		if err != nil {
			return nil, nil, err
		}
		chCfg.Database = c.String("clickhouse-database")
		chCfg.Username = c.String("clickhouse-user")
		chCfg.Password = c.String("clickhouse-password")

		store, err := clickhouse.NewStore(chCfg)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("failed to reach ClickHouse: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, closer(store.Close), nil

	case "postgres":
		store, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, closer(store.Close), nil

	default:
		return db.NewMemoryStore(), func() {}, nil
	}
}

func closer(closeFn func() error) func() {
	return func() {
		if err := closeFn(); err != nil {
			log.Warn().Err(err).Msg("failed to close version store")
		}
	}
}
