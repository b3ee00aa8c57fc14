// sendtest connects to the execution service, sends one entry or exit
// signal, and prints everything the service sends back.
// Usage: go run ./cmd/sendtest --config configs/signaler.local.yaml --symbol NIFTY --lots 2
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/optionslab/multileg-client/internal/client"
	"github.com/optionslab/multileg-client/internal/config"
	"github.com/optionslab/multileg-client/internal/signal"
)

func main() {
	configPath := flag.String("config", "configs/signaler.example.yaml", "path to config file")
	strategyType := flag.String("strategy", "straddle", "strategy type")
	strategyTag := flag.String("tag", "sendtest", "strategy tag")
	symbol := flag.String("symbol", "NIFTY", "instrument symbol")
	lots := flag.Int("lots", 1, "number of lots")
	product := flag.String("product", signal.ProductIntraday, "product type (MIS or NRML)")
	exit := flag.Bool("exit", false, "send an exit signal instead of an entry")
	wait := flag.Duration("wait", 10*time.Second, "how long to listen for responses after sending")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// Load config
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var sig signal.Signal
	if *exit {
		sig = signal.NewExit(*strategyType, *strategyTag, *symbol, *lots, *product)
	} else {
		sig = signal.NewEntry(*strategyType, *strategyTag, *symbol, *lots, *product, nil)
	}

	clientCfg := client.DefaultConfig()
	clientCfg.URL = cfg.Client.URL
	clientCfg.AuthToken = cfg.Client.AuthToken
	clientCfg.AutoReconnect = false // one-shot, no retry loop

	c := client.New(clientCfg, client.WithLogger(logger))

	connected := make(chan struct{})
	done := make(chan struct{})

	c.OnConnect(func() {
		close(connected)
	})
	c.OnDisconnect(func(code int, reason string) {
		logger.Info("disconnected", "code", code, "reason", reason)
		close(done)
	})
	c.OnStatusUpdate(func(payload json.RawMessage) {
		fmt.Printf("status_update: %s\n", payload)
	})
	c.OnSignal(func(payload json.RawMessage) {
		fmt.Printf("signal: %s\n", payload)
	})
	c.OnError(func(payload json.RawMessage) {
		fmt.Printf("error: %s\n", payload)
	})

	logger.Info("connecting", "url", cfg.Client.URL)
	if !c.Connect() {
		logger.Error("failed to initiate connection")
		os.Exit(1)
	}

	select {
	case <-connected:
	case <-done:
		logger.Error("connection closed before open")
		os.Exit(1)
	case <-time.After(clientCfg.HandshakeTimeout + 5*time.Second):
		logger.Error("timed out waiting for connection")
		os.Exit(1)
	}

	if !c.SendSignal(sig) {
		logger.Error("signal not delivered", "signal", fmt.Sprintf("%v", sig))
		c.Disconnect()
		os.Exit(1)
	}
	logger.Info("signal sent",
		"id", sig["id"],
		"type", sig["type"],
		"symbol", *symbol,
		"lots", *lots,
	)

	// Listen for responses, then hang up
	select {
	case <-time.After(*wait):
	case <-done:
	}

	c.Disconnect()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}

	stats := c.Stats()
	logger.Info("sendtest finished", "sent", stats.Sent, "dropped", stats.Dropped)
}
