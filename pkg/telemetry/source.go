package telemetry

import (
	"context"
	"fmt"

	"github.com/mpapenbr/minisector-dominance/log"
	"github.com/mpapenbr/minisector-dominance/pkg/config"
	"github.com/mpapenbr/minisector-dominance/pkg/model"
)

// Source provides session, lap and telemetry data.
type Source interface {
	Session(ctx context.Context, ref model.SessionRef) (*model.Session, error)
	FastestLap(ctx context.Context, s *model.Session, driver model.DriverID) (*model.Lap, error)
	Telemetry(ctx context.Context, s *model.Session, lap *model.Lap) ([]model.Sample, error)
}

// LoadComparison loads the fastest lap telemetry of both configured drivers.
// The samples are tagged with the driver and returned in config order.
func LoadComparison(ctx context.Context, src Source, cfg config.Config) (
	*model.Comparison, error,
) {
	logger := log.GetFromContext(ctx).Named("telemetry")
	session, err := src.Session(ctx, cfg.SessionRef())
	if err != nil {
		return nil, fmt.Errorf("resolve session %s: %w", cfg.SessionRef(), err)
	}
	logger.Debug("session resolved",
		log.Int("key", session.Key),
		log.String("name", session.Name),
		log.String("location", session.Location))

	ret := &model.Comparison{Session: session, Drivers: cfg.Drivers()}
	for i, driver := range ret.Drivers {
		lap, err := src.FastestLap(ctx, session, driver)
		if err != nil {
			return nil, fmt.Errorf("fastest lap of %s: %w", driver, err)
		}
		samples, err := src.Telemetry(ctx, session, lap)
		if err != nil {
			return nil, fmt.Errorf("telemetry of %s lap %d: %w", driver, lap.Number, err)
		}
		if len(samples) == 0 {
			return nil, fmt.Errorf("%w: %s lap %d has no samples",
				model.ErrEmptyTelemetry, driver, lap.Number)
		}
		for j := range samples {
			samples[j].Driver = driver
		}
		logger.Debug("telemetry loaded",
			log.String("driver", string(driver)),
			log.Int("lap", lap.Number),
			log.Duration("lapTime", lap.Duration),
			log.Int("samples", len(samples)),
			log.Float64("distance", samples[len(samples)-1].Distance))
		ret.Laps[i] = lap
		ret.Samples[i] = samples
	}
	return ret, nil
}
