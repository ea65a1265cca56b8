package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/app"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/infra"
)

func main() {
	var key, secret string
	flag.StringVar(&key, "key", "", "Binance API key")
	flag.StringVar(&key, "k", "", "Binance API key (shorthand)")
	flag.StringVar(&secret, "secret", "", "Binance API secret")
	flag.StringVar(&secret, "s", "", "Binance API secret (shorthand)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <config-file>\n\nStart the trading bot with the specified configuration.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	creds := infra.LoadCredentials(key, secret)

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(flag.Arg(0), creds); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer bootstrap.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap.Run(ctx)

	slog.Info("👋 Shutting down gracefully...")
}
