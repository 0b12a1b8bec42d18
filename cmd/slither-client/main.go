package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hiiva/slither/internal/session"
)

func main() {
	serverURL := flag.String("server", "", "slither.io-compatible WebSocket URL (ws://host:port/slither)")
	nickname := flag.String("nick", "", "nickname to send in the setup packet (default GoBot)")
	skin := flag.Int("skin", -1, "skin index, 0-38 (default 0)")
	protocolVersion := flag.Int("protocol-version", 0, "client protocol version byte (default 12)")
	handshakeTimeout := flag.Duration("handshake-timeout", 0, "handshake deadline (default 10s)")
	flag.Parse()

	if *serverURL == "" {
		log.Fatal("-server is required")
	}

	cfg := session.DefaultConfig()
	cfg.ServerURL = *serverURL
	if *nickname != "" {
		cfg.Nickname = *nickname
	}
	if *skin >= 0 {
		cfg.Skin = byte(*skin)
	}
	if *protocolVersion > 0 {
		cfg.ProtocolVersion = byte(*protocolVersion)
	}
	if *handshakeTimeout > 0 {
		cfg.HandshakeTimeout = *handshakeTimeout
	}

	log.SetFlags(log.Ldate | log.Ltime)
	log.Printf("dialing %s as %q", cfg.ServerURL, cfg.Nickname)

	// No input/renderer is wired here (rendering and input capture are
	// out of scope); this entry point exists to exercise the protocol
	// engine end to end and to give a host process something to embed.
	ctrl := session.New(cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Printf("shutting down")
		cancel()
	}()

	go reportLoop(ctx, ctrl)

	if err := ctrl.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("session ended: %v", err)
	}
}

func reportLoop(ctx context.Context, ctrl *session.Controller) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			id, ok := ctrl.World().OwnSnakeID()
			log.Printf("phase=%s own_snake_known=%v own_snake_id=%v food=%d",
				ctrl.Phase(), ok, id, ctrl.World().FoodCount())
		}
	}
}
