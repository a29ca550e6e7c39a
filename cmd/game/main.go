package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/arena/internal/audio"
	"github.com/tomz197/arena/internal/config"
	"github.com/tomz197/arena/internal/logging"
	"github.com/tomz197/arena/internal/loop"
	"github.com/tomz197/arena/internal/loop/client"
)

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	modeName := flag.String("mode", "", "start right away in duo, solo or trio")
	p1 := flag.String("p1", "", "name of player 1")
	p2 := flag.String("p2", "", "name of player 2")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	opts := client.ClientOptions{Names: [2]string{*p1, *p2}}
	if *modeName != "" {
		mode, err := loop.ParseMode(*modeName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(2)
		}
		opts.Mode = mode
		opts.AutoStart = true
	}

	log := logging.NewFile(
		config.GetEnv("ARENA_LOG_FILE", "arena.log"),
		config.GetEnv("ARENA_LOG_LEVEL", "info"),
	)
	defer logging.Sync(log)
	opts.Logger = log

	if !*mute {
		player := audio.NewPlayer(log)
		if err := player.Init(); err != nil {
			log.Warnw("audio unavailable, playing muted", "error", err)
		} else {
			defer player.Close()
			opts.Sink = player
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	if err := client.NewClient(reader, os.Stdout, opts).Run(ctx); err != nil {
		log.Errorw("game error", "error", err)
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
