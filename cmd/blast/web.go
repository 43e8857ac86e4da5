package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blast/internal/transport/websocket"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the game to WebSocket clients",
	Long: `Start an HTTP server with one shared game.

Endpoints:
  /ws     - WebSocket. Send {"op":"place","slot":0,"row":1,"col":2}
            (ops: state, place, undo, hint, new). Every client receives
            {"event":"state","state":{...}} after each change.
  /state  - GET the current board as JSON

Examples:
  blast web
  blast web --addr 127.0.0.1:9000 --save shared`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address")
}

func runWeb(_ *cobra.Command, _ []string) {
	logger := newLogger("blast-web")

	sess, store, err := openSession(flagSaveID, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := websocket.NewHub(sess, logger)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := sess.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("session stopped", "err", err)
		}
	}()
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()

	httpServer := &http.Server{
		Addr:         flagWebAddr,
		Handler:      hub.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", flagWebAddr)
		logger.Info("WebSocket", "url", "ws://"+flagWebAddr+"/ws")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-stop:
		logger.Info("shutting down...")
	case err := <-errc:
		logger.Error("HTTP server failed", "err", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown", "err", err)
	}

	cancel()
	wg.Wait()
}
