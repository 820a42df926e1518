package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dotplot/pkg/cache"
	"github.com/matzehuels/dotplot/pkg/pipeline"
	"github.com/matzehuels/dotplot/pkg/server"
	"github.com/matzehuels/dotplot/pkg/session"
	"github.com/matzehuels/dotplot/pkg/store"
	"github.com/matzehuels/dotplot/pkg/textmeasure"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr          string
	redisAddr     string
	redisPassword string
	redisDB       int
	mongoURI      string
	mongoDB       string
	sessionDir    string
	sessionTTL    time.Duration
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080", sessionTTL: session.DefaultTTL}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render and session API over HTTP",
		Long: `Serve the HTTP API.

Without --redis-addr, artifacts are cached under the user cache directory and
sessions are stored as files. With it, both live in Redis and several
servers can share them. --mongo-uri archives every render in MongoDB.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for the shared cache and sessions")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB URI for the render archive")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", "", "MongoDB database (default: dotplot)")
	cmd.Flags().StringVar(&opts.sessionDir, "session-dir", "", "session directory without Redis (default: ~/.config/dotplot/sessions)")
	cmd.Flags().DurationVar(&opts.sessionTTL, "session-ttl", opts.sessionTTL, "session lifetime")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, o *serveOpts) error {
	var (
		ch       cache.Cache
		sessions session.Store
		err      error
	)
	if o.redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     o.redisAddr,
			Password: o.redisPassword,
			DB:       o.redisDB,
			Prefix:   appName + ":",
		})
		if err != nil {
			return err
		}
		ch = rc
		sessions = session.NewRedisStore(rc.Client(), appName+":")
		c.Logger.Info("using redis", "addr", o.redisAddr)
	} else {
		if ch, err = newCache(false); err != nil {
			return err
		}
		if sessions, err = session.NewFileStore(o.sessionDir); err != nil {
			return err
		}
	}

	var archive store.Archive
	if o.mongoURI != "" {
		archive, err = store.NewMongoArchive(ctx, store.MongoOptions{URI: o.mongoURI, Database: o.mongoDB})
		if err != nil {
			return err
		}
		c.Logger.Info("archiving renders in mongo", "database", o.mongoDB)
	}

	runner := pipeline.NewRunner(ch, nil, c.Logger)
	defer runner.Close()

	srv := server.New(server.Config{
		Runner:     runner,
		Sessions:   sessions,
		Archive:    archive,
		Measurer:   textmeasure.Default(),
		Logger:     c.Logger,
		SessionTTL: o.sessionTTL,
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Close(closeCtx); err != nil {
			c.Logger.Warn("close server", "err", err)
		}
	}()

	printInfo("Listening on %s", StyleValue.Render(o.addr))
	return srv.ListenAndServe(ctx, o.addr)
}
