package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/AbdulWasayUl/go-weather-logger/internal/api"
	"github.com/AbdulWasayUl/go-weather-logger/internal/config"
	"github.com/AbdulWasayUl/go-weather-logger/internal/db"
	"github.com/AbdulWasayUl/go-weather-logger/internal/logger"
	"github.com/AbdulWasayUl/go-weather-logger/internal/scheduler"
	"github.com/AbdulWasayUl/go-weather-logger/services/weather"
)

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout)
	if err != nil {
		logger.Error("%v", err)
	}
	logger.Sync()
	if err != nil {
		log.Fatalf("%v", err)
	}
}

// run wires the application and blocks until the menu exits or the watch is
// interrupted. Startup failures are returned, never fatal, so main can flush
// the logger first.
func run(args []string, in io.Reader, out io.Writer) error {
	flags := flag.NewFlagSet("weather-logger", flag.ContinueOnError)
	flags.SetOutput(out)
	watchCity := flags.String("watch", "", "look up this city periodically instead of showing the menu")
	interval := flags.Duration("interval", 10*time.Minute, "lookup interval for -watch")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Printf("Failed to initialize logger, using stderr: %v", err)
	}

	fmt.Fprintln(out, "Initializing Weather Data Logger...")

	ctx := context.Background()
	store, err := db.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer store.Close(ctx)

	client := api.NewClient(cfg.WeatherAPIBaseURL, cfg.WeatherAPIKey, cfg.WeatherAPITimeout)
	svc := weather.NewService(client, store, cfg.HistoryLimit)

	if *watchCity != "" {
		return runWatch(svc, *watchCity, *interval, out)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	defer signal.Stop(quit)
	go func() {
		if _, ok := <-quit; !ok {
			return
		}
		fmt.Fprintln(out, "\n\nApplication interrupted by user. Goodbye!")
		logger.Info("Received interrupt signal. Shutting down...")
		_ = store.Close(context.Background())
		logger.Sync()
		os.Exit(0)
	}()

	NewMenu(svc, in, out).Run(ctx)
	return nil
}

func runWatch(svc *weather.Service, city string, interval time.Duration, out io.Writer) error {
	if err := weather.ValidateCity(city); err != nil {
		return fmt.Errorf("invalid -watch city: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(out, "Watching %s every %s. Press Ctrl+C to stop.\n", city, interval)

	err := scheduler.New().Watch(ctx, city, interval, func(ctx context.Context, city string) {
		result, err := svc.Lookup(ctx, city)
		printLookup(out, result, err)
	})
	if err != nil {
		return fmt.Errorf("failed to start watch: %w", err)
	}
	logger.Info("Received interrupt signal. Watch stopped.")
	return nil
}
