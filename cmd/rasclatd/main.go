package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/term"

	"github.com/radiorasclat/api/internal/api"
	"github.com/radiorasclat/api/internal/auth"
	"github.com/radiorasclat/api/internal/blob"
	"github.com/radiorasclat/api/internal/catalog"
	"github.com/radiorasclat/api/internal/changelog"
	"github.com/radiorasclat/api/internal/config"
	"github.com/radiorasclat/api/internal/database"
	"github.com/radiorasclat/api/internal/errtrack"
	"github.com/radiorasclat/api/internal/logging"
	"github.com/radiorasclat/api/internal/media"
	"github.com/radiorasclat/api/internal/radio"
	"github.com/radiorasclat/api/internal/reindex"
	"github.com/radiorasclat/api/internal/searchidx"
	"github.com/radiorasclat/api/internal/tokenstore"
	"github.com/radiorasclat/api/internal/translate"
	"github.com/radiorasclat/api/internal/uptime"
	"github.com/radiorasclat/api/internal/version"
)

func main() {
	// Handle subcommands before starting the server
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "create-user":
			if err := createUser(); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func configPath() string {
	if path := os.Getenv("RR_CONFIG_PATH"); path != "" {
		return path
	}
	return "/data/config.yaml"
}

func run() error {
	cfgPath := configPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Set up structured logging via the logging Manager
	logCfg := logging.Config{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.Logging.FilePath,
	}
	logManager, logger := logging.NewManager(logCfg)
	defer logManager.Close() //nolint:errcheck
	slog.SetDefault(logger)

	// Error tracking
	var sink errtrack.Sink = errtrack.Nop{}
	if cfg.Sentry.DSN != "" {
		sentry, err := errtrack.NewSentry(cfg.Sentry.DSN, cfg.Sentry.Environment)
		if err != nil {
			return fmt.Errorf("initializing error tracking: %w", err)
		}
		defer sentry.Close()
		sink = sentry
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the document store
	db, err := connectMongo(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			logger.Error("disconnecting document store", "error", err)
		}
	}()

	store := catalog.NewStore(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensuring catalog indexes: %w", err)
	}
	logger.Info("document store ready", slog.String("database", cfg.Mongo.Database))

	// Refresh token store: SQLite when a path is configured, memory otherwise
	var tokens tokenstore.Store = tokenstore.NewMemory()
	if cfg.Auth.RefreshStorePath != "" {
		sqldb, err := database.Open(cfg.Auth.RefreshStorePath)
		if err != nil {
			return fmt.Errorf("opening refresh token store: %w", err)
		}
		defer sqldb.Close() //nolint:errcheck
		if err := database.Migrate(sqldb); err != nil {
			return fmt.Errorf("migrating refresh token store: %w", err)
		}
		tokens = tokenstore.NewSQLite(sqldb)
		logger.Info("refresh token store ready", slog.String("path", cfg.Auth.RefreshStorePath))
	}

	if cfg.Auth.Secret == "" {
		return fmt.Errorf("auth secret is required")
	}
	signer, err := auth.NewSigner([]byte(cfg.Auth.Secret), time.Duration(cfg.Auth.TokenLifeMinutes)*time.Minute)
	if err != nil {
		return fmt.Errorf("creating token signer: %w", err)
	}

	authService := auth.NewService(db, tokens, signer)
	if err := authService.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensuring user indexes: %w", err)
	}

	// Media storage
	var blobStore catalog.BlobStore
	if cfg.Blob.Endpoint != "" {
		bs, err := blob.New(blob.Config{
			Endpoint:  cfg.Blob.Endpoint,
			Region:    cfg.Blob.Region,
			Bucket:    cfg.Blob.Bucket,
			AccessKey: cfg.Blob.AccessKey,
			SecretKey: cfg.Blob.SecretKey,
		})
		if err != nil {
			return fmt.Errorf("creating blob store: %w", err)
		}
		blobStore = bs
	} else {
		logger.Warn("no blob endpoint configured; media uploads disabled")
	}

	// Search indexes
	var indexes api.Indexes
	var recordingIndex *searchidx.Index
	if cfg.Search.AppID != "" {
		search := searchidx.NewClient(cfg.Search.AppID, cfg.Search.AdminKey)
		recordingIndex = search.Index(cfg.Search.IndexRecordings)
		indexes = api.Indexes{
			Artists:    search.Index(cfg.Search.IndexArtists),
			Shows:      search.Index(cfg.Search.IndexShows),
			Recordings: recordingIndex,
			BlogPosts:  search.Index(cfg.Search.IndexBlogPosts),
			Projects:   search.Index(cfg.Search.IndexProjects),
		}
	} else {
		logger.Warn("no search app configured; index mirroring disabled")
	}

	logger.Info("starting rasclatd",
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
	)

	router := api.NewRouter(api.RouterDeps{
		Store:       store,
		AuthService: authService,
		Verifier:    signer,
		Radio:       radio.New(cfg.Radio.BaseURL, logger),
		Changelog:   changelog.New(logger),
		Translate:   translate.New(cfg.Translate.Project, cfg.Translate.Login, cfg.Translate.AccountKey, logger),
		Uptime:      uptime.New(cfg.Uptime.APIKey, logger),
		Blob:        blobStore,
		Indexes:     indexes,
		Transformer: media.NewProcessor(),
		Sink:        sink,
		UploadKey:   media.KeyBuilder(nil),
		Logger:      logger,
		BasePath:    cfg.Server.BasePath,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(ctx),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Periodic full reindex heals index drift from failed stamps
	if cfg.Search.ReindexEnabled && recordingIndex != nil {
		job := reindex.New(store, recordingIndex, sink, logger)
		if err := job.Start(cfg.Search.ReindexCron); err != nil {
			return fmt.Errorf("starting reindex job: %w", err)
		}
		defer job.Stop()
	}

	// Reload logging settings when the config file changes
	go watchConfig(ctx, cfgPath, logManager, logger)

	go func() {
		logger.Info("server starting", slog.String("addr", addr), slog.String("base_path", cfg.Server.BasePath))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func connectMongo(ctx context.Context, cfg *config.Config) (*mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to document store: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("pinging document store: %w", err)
	}
	return client.Database(cfg.Mongo.Database), nil
}

// watchConfig re-applies the logging section whenever the config file is
// rewritten. Other sections require a restart.
func watchConfig(ctx context.Context, path string, mgr *logging.Manager, logger *slog.Logger) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("config watcher unavailable", "error", err)
		return
	}
	defer w.Close() //nolint:errcheck

	if err := w.Add(path); err != nil {
		logger.Warn("config watch failed", slog.String("path", path), "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			cfg, err := config.Load(path)
			if err != nil {
				logger.Warn("config reload failed", "error", err)
				continue
			}
			mgr.Reconfigure(logging.Config{
				Level:    cfg.Logging.Level,
				Format:   cfg.Logging.Format,
				FilePath: cfg.Logging.FilePath,
			})
			logger.Info("logging settings reloaded", slog.String("level", cfg.Logging.Level))
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher error", "error", err)
		}
	}
}

// createUser provisions an admin account from the terminal. The server has
// no self-service registration route.
func createUser() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()
	db, err := connectMongo(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Client().Disconnect(context.Background()) //nolint:errcheck

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return err
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	if string(password) != string(confirm) {
		return fmt.Errorf("passwords do not match")
	}
	if len(password) == 0 {
		return fmt.Errorf("password must not be empty")
	}

	service := auth.NewService(db, tokenstore.NewMemory(), nil)
	if err := service.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensuring user indexes: %w", err)
	}

	user := auth.User{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
	}
	if err := service.CreateUser(ctx, user, string(password)); err != nil {
		return err
	}

	fmt.Printf("User %s created.\n", user.Username)
	return nil
}
