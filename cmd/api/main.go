package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"pawpals/internal/auth"
	"pawpals/internal/cache"
	"pawpals/internal/config"
	"pawpals/internal/db"
	"pawpals/internal/httpserver"
	"pawpals/internal/mail"
	adoptionrepo "pawpals/internal/repository/adoption"
	cartrepo "pawpals/internal/repository/cart"
	categoryrepo "pawpals/internal/repository/category"
	clientrepo "pawpals/internal/repository/client"
	lostpetrepo "pawpals/internal/repository/lostpet"
	orderrepo "pawpals/internal/repository/order"
	productrepo "pawpals/internal/repository/product"
	resetrepo "pawpals/internal/repository/reset"
	adoptionsvc "pawpals/internal/service/adoption"
	cartsvc "pawpals/internal/service/cart"
	categorysvc "pawpals/internal/service/category"
	clientsvc "pawpals/internal/service/client"
	lostpetsvc "pawpals/internal/service/lostpet"
	ordersvc "pawpals/internal/service/order"
	productsvc "pawpals/internal/service/product"
	"pawpals/internal/storage"
)

const resetSweepInterval = 10 * time.Minute

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	tokens, err := auth.New(cfg.JWTSecret)
	if err != nil {
		logger.Fatalf("init tokens: %v", err)
	}

	images, uploadDir, closeImages := buildImageStore(ctx, cfg, logger)
	defer closeImages()

	mailer := buildMailer(cfg, logger)

	productRepo := productrepo.NewPostgres(dbpool, logger)
	clientRepo := clientrepo.NewPostgres(dbpool, logger)
	resetRepo := resetrepo.NewPostgres(dbpool)
	cartStore := cartrepo.NewPostgres(dbpool, logger)
	adoptionRepo := adoptionrepo.NewPostgres(dbpool, logger)
	lostPetRepo := lostpetrepo.NewPostgres(dbpool, logger)

	orderOpts := ordersvc.Options{Clients: clientRepo, Mailer: mailer}
	productService := productsvc.New(productRepo)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Printf("redis %s not reachable, cache will fall through: %v", cfg.RedisAddr, err)
		}
		productCache := cache.NewProducts(productRepo, rdb, logger)
		productService = productsvc.New(productCache)
		orderOpts.Cache = productCache
	}

	clientService := clientsvc.New(clientRepo, resetRepo, tokens, mailer, logger).
		WithListingImages(images, adoptionRepo, lostPetRepo)

	deps := httpserver.Deps{
		ProductSvc:  productService,
		CategorySvc: categorysvc.New(categoryrepo.NewPostgres(dbpool)),
		ClientSvc:   clientService,
		CartSvc:     cartsvc.New(cartStore, logger),
		OrderSvc:    ordersvc.New(cartStore, orderrepo.NewPostgres(dbpool, logger), orderOpts, logger),
		AdoptionSvc: adoptionsvc.New(adoptionRepo, images, logger),
		LostPetSvc:  lostpetsvc.New(lostPetRepo, images, logger),
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, deps, httpserver.Options{
		CORSOrigins:  cfg.CORSOrigins,
		CookieSecure: cfg.CookieSecure,
		CookieDomain: cfg.CookieDomain,
		UploadDir:    uploadDir,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	go sweepResetCodes(ctx, resetRepo, logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// buildImageStore picks GCS when a bucket is configured and the local upload
// directory otherwise. The returned dir is non-empty only for local storage.
func buildImageStore(ctx context.Context, cfg config.Config, logger *log.Logger) (storage.Store, string, func()) {
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCS(ctx, cfg.GCSBucket)
		if err != nil {
			logger.Fatalf("init gcs bucket %s: %v", cfg.GCSBucket, err)
		}
		return gcs, "", func() {
			if err := gcs.Close(); err != nil {
				logger.Printf("close gcs client: %v", err)
			}
		}
	}
	local, err := storage.NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		logger.Fatalf("init upload dir %s: %v", cfg.UploadDir, err)
	}
	return local, local.Dir(), func() {}
}

func buildMailer(cfg config.Config, logger *log.Logger) mail.Sender {
	if cfg.SendGridAPIKey == "" {
		logger.Printf("SENDGRID_API_KEY not set, mails are logged only")
		return mail.NewLogSender(logger)
	}
	sender, err := mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFrom, logger)
	if err != nil {
		logger.Fatalf("init sendgrid: %v", err)
	}
	return sender
}

func sweepResetCodes(ctx context.Context, repo resetrepo.Repository, logger *log.Logger) {
	ticker := time.NewTicker(resetSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				logger.Printf("sweep reset codes: %v", err)
				continue
			}
			if n > 0 {
				logger.Printf("sweep reset codes: deleted=%d", n)
			}
		}
	}
}
