package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/calvinmclean/ardumoto/api"
	"github.com/calvinmclean/ardumoto/controller"
	"github.com/calvinmclean/ardumoto/ui"
)

func main() {
	var serveAddr, remoteAddr string
	var move, rpm int
	var debug bool
	flag.StringVar(&serveAddr, "serve", "", "Serve the HTTP API on this address, like \":8080\"")
	flag.StringVar(&remoteAddr, "remote", "", "Run a move on a remote API, like \"http://localhost:8080\"")
	flag.IntVar(&move, "move", 0, "Number of steps for -remote. Negative values move in reverse")
	flag.IntVar(&rpm, "rpm", 0, "Speed for -remote. Zero keeps the current speed")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	if debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var err error
	switch {
	case remoteAddr != "":
		err = runRemote(ctx, remoteAddr, move, rpm)
	case serveAddr != "":
		err = runServer(ctx, serveAddr)
	case os.Getenv("ENABLE_UI") == "true":
		runUI(ctx)
	default:
		err = runCLI(ctx)
	}

	if err != nil {
		slog.Error("exiting with error", "error", err)
		os.Exit(1)
	}
}

func runRemote(ctx context.Context, addr string, steps, rpm int) error {
	m, err := api.NewClient(addr).Move(ctx, steps, rpm)
	if err != nil {
		return fmt.Errorf("error running move: %w", err)
	}

	fmt.Printf("moved %d steps (id=%s)\n", m.Steps, m.GetID())
	return nil
}

func runServer(ctx context.Context, addr string) error {
	c, err := controller.NewFromEnv()
	if err != nil {
		return err
	}
	defer c.Close()

	return api.New(c).Serve(ctx, addr)
}

func runUI(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	application := app.NewWithID("com.calvinmclean.ardumoto")
	jogUI := ui.NewJogUI(application)

	cfg, err := controller.NewConfigFromEnv()
	if err != nil {
		cfg = controller.DefaultConfig()
	}

	configWindow := ui.NewConfigWindow(application)
	configWindow.OnSubmit = func(cfg controller.Config) {
		// opening the port waits for the board to reset, so keep it off the UI goroutine
		go func() {
			c, err := controller.New(cfg)
			if err != nil {
				fyne.Do(func() { jogUI.ShowError(err) })
				return
			}

			r, w := io.Pipe()

			// read from Stdin also
			go func() {
				_, _ = io.Copy(w, os.Stdin)
			}()

			go func() {
				defer c.Close()
				err := c.Run(ctx, r, io.MultiWriter(os.Stdout, jogUI))
				if err != nil {
					slog.Error("error running controller", "error", err)
				}
			}()

			fyne.Do(func() { jogUI.Show(ctx, cfg, w) })
		}()
	}
	configWindow.Show(&cfg)

	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			application.Quit()
		})
	}()

	application.Run()
}

func runCLI(ctx context.Context) error {
	c, err := controller.NewFromEnv()
	if err != nil {
		return err
	}
	defer c.Close()

	return c.Run(ctx, os.Stdin, os.Stdout)
}
