package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goliatone/go-print"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-campus"
	"github.com/goliatone/go-campus/config"
	"github.com/goliatone/go-campus/repository"
	"github.com/goliatone/go-campus/server"
	"github.com/goliatone/go-campus/token"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "campusd:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("campusd", pflag.ContinueOnError)
	config.Flags(fs)
	seedUser := fs.String("seed-user", "", "create a login account, or reset its password, as id:name:password")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	path, _ := fs.GetString("config")
	cfg, err := config.Load(path, fs)
	if err != nil {
		return err
	}

	logger := campus.NewLogger(os.Stdout, cfg.Server.LogLevel, cfg.Server.LogFormat)
	slog.SetDefault(logger)
	logger.Debug("configuration", "config", print.MaybePrettyJSON(cfg.Redacted()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.Database.Options(), campus.Named(logger, "database"))
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if _, err := repository.Migrate(ctx, db, campus.Named(logger, "migrate")); err != nil {
			return err
		}
	}

	repo := repository.NewManager(db)
	repo.MustValidate()

	if *seedUser != "" {
		if err := seed(ctx, repo, *seedUser, logger); err != nil {
			return err
		}
	}

	codec, err := token.NewCodecFromBase64[campus.Identity](cfg.Auth.SecretKey,
		token.WithAlgorithm(cfg.Auth.Algorithm),
		token.WithTTL(cfg.Auth.TokenTTL),
		token.WithLeeway(cfg.Auth.Leeway),
	)
	if err != nil {
		return err
	}

	authLogger := campus.Named(logger, "auth")
	auther := campus.NewAuthenticator(repo.Users(), codec, codec.TTL()).
		WithLogger(authLogger).
		WithActivitySink(campus.LogActivitySink(authLogger))

	app := server.New(server.Options{
		Logger:               campus.Named(logger, "http"),
		Repo:                 repo,
		Auther:               auther,
		Decoder:              codec,
		StaticDir:            cfg.Server.StaticDir,
		ExposeInternalErrors: cfg.Server.ExposeInternalErrors,
	})

	return server.Run(ctx, app, cfg.Server.Address(), cfg.Server.ShutdownTimeout, logger)
}

// seed registers the account described by "id:name:password". An existing
// account keeps its name and gets the new password.
func seed(ctx context.Context, repo repository.Manager, account string, logger campus.Logger) error {
	parts := strings.SplitN(account, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return errors.New("--seed-user expects id:name:password")
	}

	if _, err := repo.Users().FindByID(ctx, parts[0]); err == nil {
		if err := repo.Users().ResetPassword(ctx, parts[0], parts[2]); err != nil {
			return err
		}
		logger.Info("seed user password reset", "id", parts[0])
		return nil
	} else if !campus.IsKind(err, campus.KindNotFound) {
		return err
	}

	if _, err := repo.Users().Register(ctx, parts[0], parts[1], parts[2]); err != nil {
		return err
	}
	logger.Info("seeded user", "id", parts[0])
	return nil
}
