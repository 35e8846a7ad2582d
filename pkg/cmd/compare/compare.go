package compare

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/minisector-dominance/log"
	"github.com/mpapenbr/minisector-dominance/pkg/cache"
	"github.com/mpapenbr/minisector-dominance/pkg/cmd/util"
	"github.com/mpapenbr/minisector-dominance/pkg/config"
	"github.com/mpapenbr/minisector-dominance/pkg/otel"
	"github.com/mpapenbr/minisector-dominance/pkg/processing/dominance"
	"github.com/mpapenbr/minisector-dominance/pkg/render"
	"github.com/mpapenbr/minisector-dominance/pkg/render/htmlmap"
	"github.com/mpapenbr/minisector-dominance/pkg/render/plotmap"
	"github.com/mpapenbr/minisector-dominance/pkg/report"
	"github.com/mpapenbr/minisector-dominance/pkg/telemetry"
	"github.com/mpapenbr/minisector-dominance/pkg/telemetry/openf1"
)

func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "renders the minisector dominance map of two drivers",
		Long: `Loads the fastest lap of both drivers, splits the lap into minisectors
and colors the track by the driver with the higher mean speed per minisector.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context(), cmd.OutOrStdout())
		},
	}
	return cmd
}

//nolint:funlen // by design
func runCompare(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := util.SetupLogger()
	if err != nil {
		return err
	}
	//nolint:errcheck // nothing to do on failure
	defer logger.Sync()

	runLogger := logger.With(log.String("run", uuid.NewString()))
	ctx = log.AddToContext(ctx, runLogger)

	if config.EnableTelemetry {
		telOpts := []otel.Option{otel.WithRuntimeMetrics(true)}
		if config.TelemetryEndpoint != "" {
			telOpts = append(telOpts, otel.WithEndpoint(config.TelemetryEndpoint))
		}
		tel, err := otel.SetupTelemetry(ctx, os.Stderr, telOpts...)
		if err != nil {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		} else {
			log.Debug("telemetry enabled", log.String("exporter", tel.Exporter()))
			defer func() {
				if err := tel.Shutdown(context.Background()); err != nil {
					log.Warn("telemetry shutdown", log.ErrorField(err))
				}
			}()
		}
	}

	cfg := config.Default()
	cfg.OutputDir = config.OutputDir
	cfg.HTML = config.HTML
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := util.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	fetcher := cache.NewFetcher(
		cache.WithHTTPClient(&http.Client{
			Timeout: util.ParseDuration(config.Timeout, time.Minute),
		}),
		cache.WithStore(store),
		cache.WithLogger(runLogger.Named("cache")))
	src := openf1.New(
		openf1.WithBaseURL(config.SourceURL),
		openf1.WithGetter(fetcher),
		openf1.WithLogger(runLogger.Named("openf1")))

	runLogger.Info("Loading telemetry",
		log.String("session", cfg.SessionRef().String()),
		log.String("driverA", string(cfg.DriverA)),
		log.String("driverB", string(cfg.DriverB)))
	comparison, err := telemetry.LoadComparison(ctx, src, cfg)
	if err != nil {
		return err
	}

	pipeline := dominance.NewPipeline(
		dominance.WithMinisectors(cfg.Minisectors),
		dominance.WithDrivers(comparison.Drivers[0], comparison.Drivers[1]),
		dominance.WithClampLastMinisector(cfg.ClampLastMinisector),
		dominance.WithLogger(runLogger.Named("dominance")))
	result, err := pipeline.Run(ctx, comparison.Pooled())
	if err != nil {
		return err
	}

	legend := legendOf(result.Codes)
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	pngPath := cfg.OutputPath("png")
	if err := plotmap.RenderFile(pngPath, result.Segments, legend,
		plotmap.WithSize(cfg.Width, cfg.Height),
		plotmap.WithDPI(cfg.DPI),
		plotmap.WithLineWidth(cfg.LineWidth),
		plotmap.WithLogger(runLogger.Named("render")),
	); err != nil {
		return err
	}
	if cfg.HTML {
		htmlPath := cfg.OutputPath("html")
		if err := htmlmap.RenderFile(htmlPath, result.Segments, legend,
			htmlmap.WithTitle(
				fmt.Sprintf("%s vs %s", comparison.Drivers[0], comparison.Drivers[1]),
				fmt.Sprintf("%d %s - %s",
					comparison.Session.Season,
					comparison.Session.Country,
					comparison.Session.Name)),
		); err != nil {
			return err
		}
		runLogger.Info("Interactive map written", log.String("file", htmlPath))
	}

	report.Write(out, &report.Summary{
		Session:  comparison.Session,
		Drivers:  result.Codes.Drivers(),
		Laps:     comparison.Laps[:],
		Stats:    result.Stats,
		Wins:     result.Wins(),
		Output:   pngPath,
		Segments: len(result.Segments),
	})
	runLogger.Info("Comparison done",
		log.String("file", pngPath),
		log.Int("minisectors", len(result.Dominance)),
		log.Int("segments", len(result.Segments)),
		log.Any("wins", result.Wins()))
	return nil
}

func legendOf(codes dominance.Codes) []render.LegendEntry {
	ret := make([]render.LegendEntry, 0, len(codes))
	for _, d := range codes.Drivers() {
		ret = append(ret, render.LegendEntry{Code: codes[d], Driver: d})
	}
	return ret
}
