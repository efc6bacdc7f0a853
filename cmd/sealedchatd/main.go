// Command sealedchatd runs the directory/ledger server: user signup and
// login, the key-exchange ledger, verbatim message storage and live
// delivery. It holds no private key material and cannot read any
// message it stores.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sealedchat/internal/audit"
	"sealedchat/internal/config"
	"sealedchat/internal/server"
	"sealedchat/internal/services/handshake"
	"sealedchat/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := storage.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	auditLog, err := audit.NewLogger(cfg.AuditLog)
	if err != nil {
		db.Close()
		log.Fatalf("Failed to open audit log: %v", err)
	}

	users := storage.NewUserStore(db)
	ledger := storage.NewExchangeStore(db)
	messages := storage.NewMessageStore(db)
	exchanges := handshake.New(ledger, users, auditLog)

	hub := server.NewHub()
	go hub.Run()

	router := server.NewRouter(cfg, users, exchanges, messages, auditLog, hub)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("sealedchatd listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	auditLog.Close()
	db.Close()
	log.Println("Shutdown complete")
}
