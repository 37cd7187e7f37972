package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/constrite/constrite/internal/application"
	appanalysis "github.com/constrite/constrite/internal/application/analysis"
	"github.com/constrite/constrite/internal/config"
	"github.com/constrite/constrite/internal/domain/safety"
	"github.com/constrite/constrite/internal/domain/standards"
	aiclient "github.com/constrite/constrite/internal/infra/ai/openai"
	mysqlp "github.com/constrite/constrite/internal/infra/db/mysql"
	postgresp "github.com/constrite/constrite/internal/infra/db/postgres"
	"github.com/constrite/constrite/internal/infra/httpserver"
	minioStore "github.com/constrite/constrite/internal/infra/storage"
	"github.com/constrite/constrite/internal/middleware"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// standards catalog: a missing or corrupt source degrades to an empty
	// catalog, it never stops the process
	catalog, err := standards.Load(cfg.Standards.Path)
	if err != nil {
		log.Printf("warning: %v (continuing with empty catalog)", err)
	} else {
		log.Printf("loaded %d BIS standards from %s", catalog.Len(), cfg.Standards.Path)
	}

	// missing credentials are a precondition failure reported once here,
	// not per request
	vision, err := aiclient.NewClient(cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		log.Fatalf("analysis unavailable: %v", err)
	}

	db, repo, err := connectDatabase(ctx, cfg)
	if err != nil {
		log.Fatalf("database connect error: %v", err)
	}
	defer db.Close()

	var images safety.ImageStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		images = store
	} else {
		log.Printf("warning: minio endpoint not configured, image storage disabled")
	}

	svc := &appanalysis.Service{
		Vision:      vision,
		Catalog:     catalog,
		Repo:        repo,
		Images:      images,
		Clock:       application.SystemClock{},
		MaxAttempts: cfg.AI.MaxAttempts,
	}

	handler := httpserver.NewRouter(svc, catalog, httpserver.Options{
		AuthKeys:     cfg.Auth.Keys,
		RateCapacity: cfg.RateLimit.Capacity,
		RateRefill:   cfg.RateLimit.RefillRate,
		HealthCheckers: map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		},
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		// analyses block on the vision model, so the write timeout covers
		// the full retry budget
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func connectDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, safety.Repository, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		return db, postgresp.NewAnalysisRepository(db), nil
	case "", "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		return db, mysqlp.NewAnalysisRepository(db), nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}
