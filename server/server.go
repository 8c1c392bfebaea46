package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"WardCare360/config"
	db "WardCare360/config/db"
	jwt "WardCare360/config/jwt"
	"WardCare360/config/logger"
	redis "WardCare360/config/redis"
	"WardCare360/metrics"
	"WardCare360/middleware"
	"WardCare360/util"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

type Options struct {
	Config *config.Config

	CacheEnabled     bool
	MongoEnabled     bool
	WebServerEnabled bool
	WebServerPort    string

	// BootstrapHandler wires the application once connections are up.
	BootstrapHandler func(rt *Runtime) error

	JobsEnabled bool
	JobsHandler func()

	MigrationEnabled bool
	MigrationHandler func()

	WebServerPreHandler func(r *gin.Engine)
}

// Runtime holds the live connections. Mongo and Redis are nil when disabled.
type Runtime struct {
	Config *config.Config
	Mongo  *mongo.Database
	Redis  *goredis.Client
}

/*
* Load the configuration and derive the defaults from it
* A configuration error is fatal, nothing can run without it
 */
func GetDefaultOptions() Options {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error while loading configuration: ", err)
	}
	return Options{
		Config:           cfg,
		CacheEnabled:     cfg.CacheEnabled,
		MongoEnabled:     cfg.MongoEnabled,
		WebServerEnabled: true,
		WebServerPort:    cfg.Port,
		JobsEnabled:      cfg.JobsEnabled,
		MigrationEnabled: cfg.MigrationsEnabled,
	}
}

func Start(opts Options) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := Run(ctx, opts); err != nil {
		log.Fatal("Server stopped: ", err)
	}
}

/*
* Configure logging, tokens and error exposure
* Connect mongo and redis when enabled
* Bootstrap, migrate, start jobs, then serve until ctx is done
 */
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	jwt.Configure(cfg.JWTSecret, cfg.JWTIssuer)
	util.Production = cfg.IsProduction()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rt := &Runtime{Config: cfg}
	if opts.MongoEnabled {
		database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		rt.Mongo = database
		defer func() {
			if err := db.Disconnect(context.Background()); err != nil {
				log.Println("Error while disconnecting mongo: ", err)
			}
		}()
	}
	if opts.CacheEnabled {
		client, err := redis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		rt.Redis = client
		defer client.Close()
	}

	if opts.BootstrapHandler != nil {
		if err := opts.BootstrapHandler(rt); err != nil {
			return err
		}
	}
	if opts.MigrationEnabled && opts.MigrationHandler != nil {
		opts.MigrationHandler()
	}
	if opts.JobsEnabled && opts.JobsHandler != nil {
		opts.JobsHandler()
	}
	if !opts.WebServerEnabled {
		<-ctx.Done()
		return nil
	}

	srv := &http.Server{
		Addr:              ":" + opts.WebServerPort,
		Handler:           NewEngine(opts, rt),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Println("Web server listening on port ", opts.WebServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	log.Println("Shutting down web server")
	return srv.Shutdown(shutdownCtx)
}

// NewEngine builds the router with the ambient middleware, health and metrics routes.
func NewEngine(opts Options, rt *Runtime) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), metrics.Middleware())
	if rt.Config != nil && rt.Config.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(rt.Config.RateLimitRPS, rt.Config.RateLimitBurst))
	}
	r.GET("/health", Health(rt))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if opts.WebServerPreHandler != nil {
		opts.WebServerPreHandler(r)
	}
	return r
}

func backendStatus(ctx context.Context, enabled bool, ping func(context.Context) error) string {
	if !enabled {
		return "disabled"
	}
	if err := ping(ctx); err != nil {
		log.Println("Health check failed: ", err)
		return "down"
	}
	return "up"
}

func Health(rt *Runtime) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 2*time.Second)
		defer cancel()
		status := map[string]string{
			"mongo": backendStatus(ctx, rt.Mongo != nil, db.Ping),
			"redis": backendStatus(ctx, rt.Redis != nil, redis.Ping),
		}
		if status["mongo"] == "down" || status["redis"] == "down" {
			body := util.SuccessMessage(util.SERVICE_UNAVAILABLE, status)
			body["success"] = false
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		c.JSON(http.StatusOK, util.SuccessResponse(status))
	}
}
