package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/ratst-engine/ratst/cache"
	"github.com/ratst-engine/ratst/server"
)

func newServeCommand() *cli.Command {
	defaults := server.DefaultConfig()
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve translations over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "listen address",
				Value:   defaults.Addr,
				Sources: cli.EnvVars("RATST_ADDR"),
			},
			&cli.StringFlag{
				Name:    "cache",
				Usage:   "translation cache: none, lru or redis",
				Value:   cache.BackendLRU,
				Sources: cli.EnvVars("RATST_CACHE"),
			},
			&cli.IntFlag{
				Name:    "cache-size",
				Usage:   "entries kept by the lru cache",
				Value:   1024,
				Sources: cli.EnvVars("RATST_CACHE_SIZE"),
			},
			&cli.DurationFlag{
				Name:    "cache-ttl",
				Usage:   "expire cached translations after this long (0 keeps them)",
				Sources: cli.EnvVars("RATST_CACHE_TTL"),
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Usage:   "redis address for the redis cache",
				Value:   "localhost:6379",
				Sources: cli.EnvVars("RATST_REDIS_ADDR"),
			},
			&cli.DurationFlag{
				Name:    "read-timeout",
				Value:   defaults.ReadTimeout,
				Sources: cli.EnvVars("RATST_READ_TIMEOUT"),
			},
			&cli.DurationFlag{
				Name:    "write-timeout",
				Value:   defaults.WriteTimeout,
				Sources: cli.EnvVars("RATST_WRITE_TIMEOUT"),
			},
		},
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg := serverConfig(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, closeCache, err := openCache(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeCache()
	log.Info("cache ready", zap.String("backend", cmd.String("cache")))

	srv, err := server.New(cfg, c, log)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func serverConfig(cmd *cli.Command) server.Config {
	cfg := server.DefaultConfig()
	cfg.Addr = cmd.String("addr")
	cfg.Dialect = cmd.String(dialectFlag.Name)
	cfg.ValidateOutput = cmd.Bool(validateFlag.Name)
	cfg.Pluralize = cmd.Bool(pluralFlag.Name)
	cfg.ReadTimeout = cmd.Duration("read-timeout")
	cfg.WriteTimeout = cmd.Duration("write-timeout")
	return cfg
}

func openCache(ctx context.Context, cmd *cli.Command) (cache.Cache, func(), error) {
	backend, err := cache.ParseBackend(cmd.String("cache"))
	if err != nil {
		return nil, nil, err
	}
	ttl := cmd.Duration("cache-ttl")

	switch backend {
	case cache.BackendLRU:
		c, err := cache.NewLRU(int(cmd.Int("cache-size")), ttl)
		if err != nil {
			return nil, nil, err
		}
		return c, func() {}, nil
	case cache.BackendRedis:
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		c, err := cache.DialRedis(dialCtx, cmd.String("redis-addr"), ttl)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { c.Close() }, nil
	}
	return cache.Nop{}, func() {}, nil
}
