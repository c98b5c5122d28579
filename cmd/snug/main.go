package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"snug/internal/api"
	"snug/internal/config"
	"snug/internal/geo"
	"snug/internal/stats"
	"snug/internal/store"
	"snug/internal/telemetry"
	"snug/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "snug: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	tp, err := telemetry.New(ctx)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer tp.Shutdown(context.Background())

	client := api.New(api.Config{
		BaseURL: cfg.Backend.BaseURL,
		APIKey:  cfg.Backend.APIKey,
		Token:   cfg.Auth.Token,
		Timeout: time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
		Tracer:  tp.Tracer("snug/api"),
	})

	if err := ensureSession(ctx, client, &cfg); err != nil {
		return err
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		// A broken disk cache must not keep the app from running online.
		log.Printf("offline store unavailable: %v", err)
		st = nil
	} else {
		defer st.Close()
	}

	// The TUI owns the terminal; route library logging to a file when asked,
	// otherwise drop it.
	if logPath := os.Getenv("SNUG_LOG"); logPath != "" {
		f, lerr := tea.LogToFile(logPath, "snug")
		if lerr != nil {
			return fmt.Errorf("open log file: %w", lerr)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	home := geo.Point{Lat: cfg.Location.Lat, Lon: cfg.Location.Lon}
	cache := stats.New[api.ProfileStats](0, 0)
	model := ui.NewAppModel(client, st, cache, home, cfg.Location.RadiusKM)

	p := tea.NewProgram(model.AsTeaModel(),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// ensureSession refreshes the saved token when it is missing or about to
// expire. Credentials come from the environment; without them a dead token
// is a hard error, since every call would 401.
func ensureSession(ctx context.Context, client *api.Client, cfg *config.Config) error {
	if api.TokenFresh(cfg.Auth.Token, time.Now()) {
		return nil
	}
	email := os.Getenv("SNUG_EMAIL")
	password := os.Getenv("SNUG_PASSWORD")
	if email == "" || password == "" {
		if cfg.Auth.Token == "" {
			return fmt.Errorf("no session: set SNUG_EMAIL and SNUG_PASSWORD to log in")
		}
		return fmt.Errorf("session expired: set SNUG_EMAIL and SNUG_PASSWORD to log in again")
	}

	sess, err := client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	client.SetToken(sess.Token)
	cfg.Auth.Token = sess.Token
	if err := config.Save(*cfg); err != nil {
		log.Printf("save session: %v", err)
	}
	return nil
}
