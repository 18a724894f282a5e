// tokenctl issues API access tokens for a carrier. The plaintext credential
// is printed once and cannot be recovered later.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/carrierdesk/carrierdesk/internal/app"
	"github.com/carrierdesk/carrierdesk/internal/auth"
	"github.com/carrierdesk/carrierdesk/internal/platform/db"
)

func main() {
	carrierID := flag.String("carrier", "", "carrier id to issue the token for")
	ttl := flag.Duration("ttl", 0, "token lifetime; zero means no expiry")
	flag.Parse()

	if *carrierID == "" {
		fmt.Fprintln(os.Stderr, "usage: tokenctl -carrier <id> [-ttl 720h]")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		slog.Default().Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	var expiresAt *time.Time
	if *ttl > 0 {
		t := time.Now().Add(*ttl)
		expiresAt = &t
	}

	service := auth.NewService(auth.NewRepository(pool))
	token, err := service.Issue(ctx, *carrierID, expiresAt)
	if err != nil {
		slog.Default().Error("issue token", slog.Any("error", err))
		os.Exit(1)
	}

	fmt.Println(token)
}
