package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kiwari-pos/pricebook/internal/config"
	"github.com/kiwari-pos/pricebook/internal/metrics"
	"github.com/kiwari-pos/pricebook/internal/router"
	"github.com/kiwari-pos/pricebook/internal/store"
	"github.com/kiwari-pos/pricebook/internal/ws"
)

func main() {
	cfg := config.Load()
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := store.Open(ctx, cfg.DatabaseURL, cfg.StateDir)
	if err != nil {
		log.Fatalf("Unable to open settings store: %v", err)
	}
	defer kv.Close()
	configs := store.NewConfigStore(kv)

	if cfg.EnginePIN == "1337" {
		log.Println("WARNING: Using default Engine Room PIN. Set ENGINE_PIN in production!")
	}
	pinHash, err := bcrypt.GenerateFromPassword([]byte(cfg.EnginePIN), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash engine PIN: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router.New(cfg, configs, pinHash, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("ERROR: shutdown: %v", err)
		}
	}()

	log.Printf("Starting server on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}
