package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atlas/admin"
	"atlas/auth"
	"atlas/bookings"
	"atlas/config"
	"atlas/dependants"
	"atlas/db"
	"atlas/documents"
	"atlas/enquiries"
	"atlas/lifecycle"
	"atlas/mailer"
	"atlas/middleware"
	"atlas/mq"
	"atlas/payments"
	"atlas/ratelim"
	"atlas/rdx"
	"atlas/reviews"
	"atlas/routes"
	"atlas/storage"
	"atlas/tours"
	"atlas/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}

// recoverMiddleware turns an uncaught handler panic into a 500 JSON
// envelope instead of a dropped connection.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.RequestURI, rec)
				utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func storageFor(cfg config.Config) storage.ObjectStore {
	return storage.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL+"/uploads")
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		log.Fatalf("mongo connect failed: %v", err)
	}
	ctx, cancel = context.WithTimeout(context.Background(), 15*time.Second)
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatalf("index setup failed: %v", err)
	}
	cancel()

	redis := rdx.New(cfg.RedisAddr)
	if err := redis.Ping(context.Background()); err != nil {
		log.Printf("redis unavailable at startup: %v", err)
	}

	mail := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	emitter := mq.NewEmitter(redis)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go mq.StartNotificationWorker(workerCtx, redis, mail)

	authMW := middleware.NewAuth(cfg.JWTSecret)
	files := storageFor(cfg)
	docs := documents.NewManager(files)

	policy := lifecycle.PolicyAny
	if cfg.ForwardOnlyApp {
		policy = lifecycle.PolicyForward
	}

	hub := bookings.NewHub()
	provider := payments.NewLocalProvider(store.Intents)

	paymentsH := payments.NewHandlers(store, provider, emitter, []byte(cfg.WebhookSecret))
	paymentsH.Broadcast = func(bookingID string, payload []byte) {
		hub.Broadcast(bookingID, json.RawMessage(payload))
	}

	deps := routes.Deps{
		Auth:       authMW,
		RateLim:    ratelim.New(5, 10),
		AuthH:      auth.NewHandlers(store, authMW, redis, emitter, cfg.FrontendURL),
		ToursH:     tours.NewHandlers(store, files),
		BookingsH:  bookings.NewHandlers(store, docs, emitter, policy, hub, cfg.VoucherSecret),
		DepsH:      dependants.NewHandlers(store, docs, emitter, policy),
		ReviewsH:   reviews.NewHandlers(store),
		EnquiriesH: enquiries.NewHandlers(store, emitter, cfg.AdminTo),
		PaymentsH:  paymentsH,
		AdminH:     admin.NewHandlers(store),
		UploadDir:  cfg.UploadDir,
	}

	router := routes.New(deps)
	router.GET("/health", healthCheck)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Idempotency-Key"},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           loggingMiddleware(recoverMiddleware(securityHeaders(corsHandler))),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("shutdown signal received")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
	stopWorker()
	redis.Close()
	if err := store.Close(shutdownCtx); err != nil {
		log.Printf("mongo disconnect failed: %v", err)
	}
	log.Println("server stopped")
}
