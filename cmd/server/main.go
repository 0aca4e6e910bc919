package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wdi/internal/api"
	"wdi/internal/catalog"
	"wdi/internal/config"
	"wdi/internal/engine"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

func fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	os.Exit(1)
}

// loadConfig overlays command flags on the defaults.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Default()
	flags := cmd.Flags()
	if s, _ := flags.GetString("file"); s != "" {
		cfg.DataFile = s
	}
	if s, _ := flags.GetString("addr"); s != "" {
		cfg.Addr = s
	}
	if flags.Changed("skip-rows") {
		cfg.Load.SkipRows, _ = flags.GetInt("skip-rows")
	}
	if flags.Changed("trailer-cols") {
		cfg.Load.TrailerColumns, _ = flags.GetInt("trailer-cols")
	}
	if flags.Changed("fill") {
		cfg.Load.FillValue, _ = flags.GetFloat64("fill")
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit, _ = flags.GetFloat64("rate-limit")
	}
	if v, _ := flags.GetStringArray("country"); len(v) > 0 {
		cfg.Countries = v
	}
	if v, _ := flags.GetStringArray("indicator"); len(v) > 0 {
		cfg.Indicators = v
	}
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}
	return cfg
}

func newServer(h *api.Handler, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit))))
	}
	h.RegisterRoutes(e)
	return e
}

func serve(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)

	// The API is live immediately and answers 503 until the ETL publishes data
	h := api.NewHandler(nil)
	e := newServer(h, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Println("BACKGROUND: Starting ETL Pipeline...")
		t0 := time.Now()

		result, err := engine.Run(cfg.DataFile, &cfg.Load, cfg.Criteria(), catalog.Default.Labels())
		if err != nil {
			return err
		}
		h.SetData(result)

		log.Printf("BACKGROUND: ETL Complete in %v. Selected %d rows, %d columns. API is fully ready.",
			time.Since(t0), result.SelectedRows.Len(), result.SelectedColumns.NumColumns())
		return nil
	})

	g.Go(func() error {
		log.Printf("Server ready on %s (Data loading in background...)", cfg.Addr)
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		e.Logger.Fatal(err)
	}
}

func describe(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	result, err := engine.Run(cfg.DataFile, &cfg.Load, cfg.Criteria(), catalog.Default.Labels())
	if err != nil {
		fatal("%v", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(engine.Describe(result.SelectedColumns)); err != nil {
		fatal("%v", err)
	}
}

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset in the background and serve tables and charts over HTTP",
		Args:  cobra.NoArgs,
		Run:   serve}
	cmd.Flags().String("addr", "", "listen address (default: :8080)")
	cmd.Flags().Float64("rate-limit", 0, "requests per second per client, 0 disables (default: 20)")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "describe",
		Short: "Print summary statistics of the selected columns",
		Args:  cobra.NoArgs,
		Run:   describe}
	root.AddCommand(cmd)
}

func main() {
	var root = &cobra.Command{Use: "wdi"}
	root.PersistentFlags().StringP("file", "f", "", "World Bank CSV export")
	root.PersistentFlags().Int("skip-rows", 4, "metadata lines before the header")
	root.PersistentFlags().Int("trailer-cols", 3, "trailing non-data columns to drop")
	root.PersistentFlags().Float64("fill", 0, "value for missing cells")
	root.PersistentFlags().StringArrayP("country", "c", nil, "country to select (repeatable)")
	root.PersistentFlags().StringArrayP("indicator", "i", nil, "indicator to select (repeatable)")
	addCommands(root)
	root.Execute()
}
