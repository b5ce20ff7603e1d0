package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vcaparica/gridforge/internal/announce"
	"github.com/vcaparica/gridforge/internal/platform/tui"
	"github.com/vcaparica/gridforge/internal/transport/ws"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagServeLayout string
	flagIdleTimeout int
	flagWSAddr      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gridforge SSH server",
	Long: `Start an SSH server that gives each connecting user their own
grid session. Completed sessions are recorded in a shared database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.gridforge/host_key

With --ws, a WebSocket endpoint also exposes the event stream of every
live session as JSON at ws://<addr>/events?session=<user>, so external
tools (overlays, loggers, assistive clients) can follow along.

Examples:
  gridforge serve                         # Listen on :23234 with auto-generated key
  gridforge serve --ssh :2222             # Listen on port 2222
  gridforge serve --layout inventory      # Start every session on the inventory layout
  gridforge serve --ws :8080              # Also stream events over WebSocket

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagServeLayout, "layout", "cardtable", "Layout every SSH session starts on")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "WebSocket event stream address (disabled if empty)")
}

func runServe(_ *cobra.Command, _ []string) {
	catalog, err := announce.Load(flagMessages)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load messages: %v\n", err)
		catalog = announce.DefaultCatalog()
	}

	var sink tui.EventSink
	if flagWSAddr != "" {
		hub := ws.NewHub(nil)
		go hub.Run()
		sink = hub.BroadcastEvent

		mux := http.NewServeMux()
		mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
			session := r.URL.Query().Get("session")
			if session == "" {
				session = "default"
			}
			hub.ServeWS(w, r, session)
		})
		go func() {
			if httpErr := http.ListenAndServe(flagWSAddr, mux); httpErr != nil {
				log.Error("websocket listener stopped", "addr", flagWSAddr, "err", httpErr)
			}
		}()
		fmt.Printf("Streaming events on ws://%s/events\n", flagWSAddr)
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		Layout:      flagServeLayout,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}

	server, err := tui.NewSSHServer(cfg, catalog, sink)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting gridforge SSH server on %s\n", cfg.Address)
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
