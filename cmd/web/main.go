package main

import (
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/logging"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

// renderPage fills the landing page placeholders.
func renderPage(sshHost, spectateURL string) string {
	return strings.NewReplacer(
		"{{.SSHHost}}", sshHost,
		"{{.SpectateURL}}", strings.TrimRight(spectateURL, "/"),
	).Replace(htmlPage)
}

func newMux(page string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	log := logging.NewStderr(config.GetEnv("ARENA_LOG_LEVEL", "info"))
	defer logging.Sync(log)

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	spectateURL := config.GetEnv("SPECTATE_URL", "")

	addr := net.JoinHostPort(host, port)
	log.Infow("starting web server", "addr", addr, "spectate", spectateURL)
	err := http.ListenAndServe(addr, newMux(renderPage(sshHost, spectateURL)))
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalw("server error", "error", err)
	}
}
