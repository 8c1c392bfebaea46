package main

import (
	"context"
	"crypto/rsa"
	"time"

	"WardCare360/config"
	redis "WardCare360/config/redis"
	"WardCare360/jobs"
	"WardCare360/migrations"
	"WardCare360/notification"
	"WardCare360/pdf"
	"WardCare360/repository"
	"WardCare360/routes"
	"WardCare360/server"
	"WardCare360/services"
	"WardCare360/upload"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	startServer = server.Start
	isTest      = false
	database    *mongo.Database
)

func main() {
	run()
}

func run() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error in loading the ENV")
	}

	defaultopts := server.GetDefaultOptions()
	cfg := defaultopts.Config

	options := server.Options{
		Config:           cfg,
		CacheEnabled:     defaultopts.CacheEnabled,
		MongoEnabled:     defaultopts.MongoEnabled,
		WebServerEnabled: defaultopts.WebServerEnabled,
		WebServerPort:    defaultopts.WebServerPort,

		BootstrapHandler: bootstrap,

		JobsEnabled: defaultopts.JobsEnabled && !isTest,
		JobsHandler: func() {
			if isTest {
				return
			}
			if _, err := jobs.StartScheduler(cfg); err != nil {
				log.Println("Error while starting the scheduler: ", err)
			}
		},

		MigrationEnabled: defaultopts.MigrationEnabled && !isTest,
		MigrationHandler: func() {
			if isTest || database == nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if err := migrations.Run(ctx, database); err != nil {
				log.Fatal("Migration failed: ", err)
			}
		},

		WebServerPreHandler: func(r *gin.Engine) {
			origins := cfg.CORSOrigins
			if len(origins) == 0 {
				origins = []string{"*"}
			}
			r.Use(cors.New(cors.Config{
				AllowOrigins:     origins,
				AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
				AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
				AllowCredentials: !allowsAnyOrigin(origins),
			}))
			routes.Routes(r)
		},
	}
	startServer(options)
}

func allowsAnyOrigin(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return len(origins) == 0
}

/*
* Mongo backs the store and the file uploads when connected, memory otherwise
* Redis takes over drafts, the patient cache and notifications when connected
 */
func bootstrap(rt *server.Runtime) error {
	cfg := rt.Config
	store := repository.NewMemoryStore()
	var uploader upload.Uploader = upload.NewMemoryUploader(cfg.FileBaseURL)
	if rt.Mongo != nil {
		database = rt.Mongo
		store = repository.NewMongoStore(rt.Mongo)
		gridfs, err := upload.NewGridFSUploader(rt.Mongo, cfg.FileBaseURL)
		if err != nil {
			return err
		}
		uploader = gridfs
	}

	signingKey, err := loadSigningKey(cfg)
	if err != nil {
		return err
	}
	deps := services.Dependencies{
		SigningKey:        signingKey,
		Store:             store,
		Renderer:          pdf.NewWkhtmltopdfRenderer(cfg.WkhtmltopdfPath),
		Uploader:          uploader,
		Notifier:          notification.LogNotifier{},
		DraftTTL:          cfg.DraftTTL,
		DischargeFolderID: cfg.DischargeFolderID,
	}
	if rt.Redis != nil {
		store.Drafts = repository.NewRedisDrafts(rt.Redis)
		deps.Cache = redis.NewCache(rt.Redis, redis.DefaultTTL)
		deps.Notifier = notification.NewRedisNotifier(rt.Redis)
	}
	return services.Init(deps)
}

// loadSigningKey returns nil when no key is configured, services then generates one per process.
func loadSigningKey(cfg *config.Config) (*rsa.PrivateKey, error) {
	raw, err := cfg.SigningKey()
	if err != nil || raw == nil {
		return nil, err
	}
	key, err := services.ParsePrivateKey(raw)
	if err != nil {
		log.Println("Error while parsing the signing key: ", err)
		return nil, err
	}
	return key, nil
}
