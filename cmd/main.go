package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	httpctx "github.com/HilaBluman/CEOS/internal/api/http/context"
	"github.com/HilaBluman/CEOS/internal/api/http/router"
	httpServer "github.com/HilaBluman/CEOS/internal/api/http/server"
	"github.com/HilaBluman/CEOS/internal/config"
	"github.com/HilaBluman/CEOS/internal/logger"
	"github.com/HilaBluman/CEOS/internal/model"
	"github.com/HilaBluman/CEOS/internal/repository/postgres"
	"github.com/HilaBluman/CEOS/internal/server"
	"github.com/HilaBluman/CEOS/internal/service"
	storage "github.com/HilaBluman/CEOS/internal/storage/minio"
	"github.com/HilaBluman/CEOS/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	permissionRepo := postgres.NewPermissionRepository(db)
	changeLogRepo := postgres.NewChangeLogRepository(db)
	versionRepo := postgres.NewVersionRepository(db)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	tokenManager := token.NewJWT(cfg.JWT.Secret)
	ctxMgr := httpctx.NewManager()

	authService := service.NewAuth(userRepo, tokenManager, logger)
	documentService := service.NewDocument(documentRepo, permissionRepo, storageClient, logger)
	accessService := service.NewAccess(documentRepo, permissionRepo, userRepo, logger)
	editorService := service.NewEditor(documentRepo, permissionRepo, changeLogRepo, storageClient, logger)
	versionService := service.NewVersion(documentRepo, permissionRepo, versionRepo, logger)
	syncService := service.NewSync(documentRepo, changeLogRepo, logger)

	r := router.New(
		authService, documentService, accessService,
		editorService, versionService, syncService,
		tokenManager, ctxMgr, logger,
	)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
