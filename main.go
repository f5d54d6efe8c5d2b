package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hamropustak/pasal/cart"
	"github.com/hamropustak/pasal/config"
	"github.com/hamropustak/pasal/handlers"
	"github.com/hamropustak/pasal/middleware"
	"github.com/hamropustak/pasal/service"
	"github.com/hamropustak/pasal/store"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("config:", err)
	}
	config.LogEnv()

	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("mongodb:", err)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Println("mongodb disconnect:", err)
		}
	}()
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatal("mongodb indexes:", err)
	}

	var storage cart.Storage = cart.NewMemoryStorage()
	if cfg.RedisAddr != "" {
		rs, err := cart.NewRedisStorage(ctx, cfg.RedisAddr, cfg.RedisPassword, "pasal:", cfg.CartTTL)
		if err != nil {
			log.Fatal("redis:", err)
		}
		defer rs.Close()
		storage = rs
	} else {
		log.Println("warning: REDIS_ADDR not set; carts are kept in memory and lost on restart")
	}

	var covers handlers.CoverStorage
	if cfg.S3Bucket != "" {
		s3Service, err := service.NewS3Service(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey, cfg.S3PublicBaseURL)
		if err != nil {
			log.Fatal("s3:", err)
		}
		if err := s3Service.EnsureBucket(ctx); err != nil {
			log.Fatal("s3 bucket:", err)
		}
		covers = s3Service
	} else {
		log.Println("warning: AWS_S3_BUCKET not set; cover uploads are disabled")
	}

	mailer := service.NewMailer(db, cfg.MailEncryptionKey, cfg.StoreURL)
	orders := service.NewOrderService(db, mailer)
	carts := cart.NewStore(storage)

	router := handlers.NewRouter(&handlers.API{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		TrackLimit:  middleware.NewIPLimiter(cfg.TrackRatePerMin),
		Roles:       db,
		Auth: &handlers.AuthHandler{
			Profiles:     db,
			JWTSecret:    cfg.JWTSecret,
			DefaultEmail: cfg.AuthEmail,
			DefaultPass:  cfg.AuthPass,
		},
		Books:    &handlers.BooksHandler{Books: db, Covers: covers, Metadata: service.NewMetadataClient()},
		Covers:   &handlers.CoversHandler{Covers: covers, MaxBytes: cfg.MaxCoverMB * 1024 * 1024},
		Cart:     &handlers.CartHandler{Cart: carts, Wishlist: cart.NewWishlist(storage), Books: db},
		Orders:   &handlers.OrdersHandler{Orders: orders, Profiles: db, Cart: carts},
		Profiles: &handlers.ProfilesHandler{Profiles: db},
		Reviews:  &handlers.ReviewsHandler{Reviews: db, Books: db, Profiles: db},
		Settings: &handlers.SettingsHandler{Settings: db, EncKey: cfg.MailEncryptionKey},
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		log.Println("server listening on :" + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("shutdown:", err)
	}
	orders.Wait()
}
