package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"go.uber.org/zap"

	"github.com/tomz197/arena/internal/audio"
	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/draw"
	arenalog "github.com/tomz197/arena/internal/logging"
	"github.com/tomz197/arena/internal/loop/client"
	"github.com/tomz197/arena/internal/spectate"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	drainTimeout       = 15 * time.Second
)

// gameHost owns everything shared by SSH sessions.
type gameHost struct {
	ctx      context.Context // Cancelled on shutdown; sessions show the shutdown screen
	sessions sync.WaitGroup
	hub      *spectate.Hub // Nil when spectating is disabled
	log      *zap.SugaredLogger
}

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	log := arenalog.NewStderr(config.GetEnv("ARENA_LOG_LEVEL", "info"))
	defer arenalog.Sync(log)

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	spectateAddr := config.GetEnv("SPECTATE_ADDR", "")
	log.Infow("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "spectate", spectateAddr)

	sessionCtx, endSessions := context.WithCancel(context.Background())
	defer endSessions()
	h := newHost(sessionCtx, log)

	var spectateSrv *http.Server
	if spectateAddr != "" {
		h.hub = spectate.NewHub(log.Named("spectate"))
		spectateSrv = &http.Server{Addr: spectateAddr, Handler: h.hub.Handler()}
		go func() {
			log.Infow("spectator feed listening", "addr", spectateAddr)
			if err := spectateSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalw("spectator feed error", "error", err)
			}
		}()
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			h.gameMiddleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		log.Fatalw("failed to create server", "error", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Infow("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Fatalw("server error", "error", err)
		}
	}()

	<-done
	log.Info("shutting down")

	// Players see the shutdown screen and get disconnected by their clients.
	endSessions()
	if !h.wait(drainTimeout) {
		log.Warnw("sessions still open after drain timeout", "timeout", drainTimeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if spectateSrv != nil {
		h.hub.Close()
		if err := spectateSrv.Shutdown(ctx); err != nil {
			log.Warnw("spectator feed shutdown error", "error", err)
		}
	}
	if err := s.Shutdown(ctx); err != nil {
		log.Fatalw("shutdown error", "error", err)
	}
}

func newHost(ctx context.Context, log *zap.SugaredLogger) *gameHost {
	return &gameHost{ctx: ctx, log: log}
}

// wait blocks until every session ended or the timeout passed.
func (h *gameHost) wait(timeout time.Duration) bool {
	finished := make(chan struct{})
	go func() {
		h.sessions.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return true
	case <-time.After(timeout):
		return false
	}
}

// gameMiddleware runs one client and match per SSH session.
func (h *gameHost) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		h.sessions.Add(1)
		defer h.sessions.Done()

		log := h.log.With("user", sess.User())
		log.Infow("new game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		clientOpts := client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Names:        [2]string{sess.User(), ""},
			KickIdle:     true,
			Sink:         audio.NewBell(sess),
			Logger:       log,
		}
		if h.hub != nil {
			clientOpts.Spectators = h.hub
		}

		// A closed session ends input, which quits the client.
		c := client.NewClient(bufio.NewReader(sess), sess, clientOpts)
		if err := c.Run(h.ctx); err != nil {
			log.Warnw("game error", "error", err)
		}

		log.Info("session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
