// Command termmux-server hosts PTY sessions and multiplexes them over
// WebSocket to any number of attached clients.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/patrick-goecommerce/termmux/internal/config"
	"github.com/patrick-goecommerce/termmux/internal/session"
	"github.com/patrick-goecommerce/termmux/internal/wsmux"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "termmux-server",
		Short: "Serve PTY sessions over WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			return run(cfg)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides $PORT)")
	return cmd
}

func run(cfg config.Config) error {
	manager := session.NewManager(cfg.Shell)
	defer manager.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(manager, w, r)
	})

	srv := &http.Server{
		Addr:    addr(cfg.Port),
		Handler: mux,
	}

	tlsCfg, err := config.LoadTLSConfig(cfg)
	if err != nil {
		return err
	}
	srv.TLSConfig = tlsCfg

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on https://%s", srv.Addr)
		errCh <- srv.ListenAndServeTLS("", "")
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		log.Printf("[server] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		manager.CloseAll()
	}
	return nil
}

func addr(port int) string {
	return fmt.Sprintf(":%d", port)
}

func handleWebSocket(manager *session.Manager, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[server] websocket upgrade failed: %v", err)
		return
	}
	client := wsmux.NewClient(conn, manager)
	client.Serve()
}
