package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmorra/clampgen/internal/server"
	"github.com/jmorra/clampgen/pkg/cache"
	"github.com/jmorra/clampgen/pkg/pipeline"
	"github.com/jmorra/clampgen/pkg/store"
	"github.com/jmorra/clampgen/pkg/tech"
)

// serveCommand creates the serve command for running the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		techPath  string
		redisAddr string
		redisPass string
		mongoURI  string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP planning service",
		Long: `Run the HTTP planning service.

The service plans cells from a fixed technology file and archives the
results. Without --redis the local file cache is used; without
--mongo-uri plans are archived in memory and lost on restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), serveConfig{
				addr:      addr,
				techPath:  techPath,
				redisAddr: redisAddr,
				redisPass: redisPass,
				mongoURI:  mongoURI,
				noCache:   noCache,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVarP(&techPath, "tech", "t", "", "technology file (TOML)")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for shared caching (host:port)")
	cmd.Flags().StringVar(&redisPass, "redis-password", "", "redis password")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "mongodb connection URI for the plan archive")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.MarkFlagRequired("tech")

	return cmd
}

type serveConfig struct {
	addr      string
	techPath  string
	redisAddr string
	redisPass string
	mongoURI  string
	noCache   bool
}

// runServe wires the cache, store, and pipeline and serves until ctx is
// canceled.
func (c *CLI) runServe(ctx context.Context, cfg serveConfig) error {
	prog := newProgress(c.Logger)

	techData, err := os.ReadFile(cfg.techPath)
	if err != nil {
		return fmt.Errorf("read technology file %s: %w", cfg.techPath, err)
	}
	// Fail fast on a broken technology file instead of on the first request.
	if _, err := tech.Parse(techData); err != nil {
		return err
	}

	backend, err := c.serveCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	st, err := c.serveStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = st.Close(closeCtx)
	}()

	runner := pipeline.NewRunner(backend, nil, c.Logger)
	prog.done("Service wired")

	s := server.New(server.Config{
		Addr:     cfg.addr,
		TechData: techData,
		Runner:   runner,
		Store:    st,
		Logger:   c.Logger,
	})
	return s.ListenAndServe(ctx)
}

func (c *CLI) serveCache(ctx context.Context, cfg serveConfig) (cache.Cache, error) {
	if cfg.redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPass,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Info("using redis cache", "addr", cfg.redisAddr)
		return rc, nil
	}
	return newCache(cfg.noCache)
}

func (c *CLI) serveStore(ctx context.Context, cfg serveConfig) (store.Store, error) {
	if cfg.mongoURI != "" {
		m, err := store.NewMongo(ctx, store.MongoConfig{URI: cfg.mongoURI})
		if err != nil {
			return nil, err
		}
		c.Logger.Info("using mongodb plan archive")
		return m, nil
	}
	c.Logger.Warn("no --mongo-uri set, archiving plans in memory")
	return store.NewMemory(), nil
}
