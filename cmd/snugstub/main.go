// Command snugstub runs the local stub backend: the hosted pub-service
// schema over in-memory tables, seeded with the embedded fixture and demo
// accounts. State resets on restart.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"snug/internal/stub"
)

func main() {
	// Optional .env for local overrides; absence is fine.
	_ = godotenv.Load()

	addr := os.Getenv("SNUGSTUB_ADDR")
	if addr == "" {
		addr = ":8474"
	}

	auth := stub.NewAuth([]byte(os.Getenv("SNUGSTUB_JWT_KEY")))
	if err := stub.SeedDemoUsers(auth); err != nil {
		slog.Error("seed users", "error", err)
		os.Exit(1)
	}

	pubs, err := stub.LoadFixturePubs()
	if err != nil {
		slog.Error("load fixture", "error", err)
		os.Exit(1)
	}

	srv := stub.NewServer(auth, pubs)
	server := http.Server{
		Addr:    addr,
		Handler: srv.Router(),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		server.Close()
	}()

	slog.Info("snugstub listening", "addr", addr, "pubs", len(pubs), "users", len(stub.DemoUsers))
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("server closed", "error", err)
		os.Exit(1)
	}
	slog.Info("server closed")
}
