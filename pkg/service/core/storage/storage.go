package storage

import (
	"context"
	"time"

	"github.com/navikt/gds-console/pkg/config/v2"
	"github.com/navikt/gds-console/pkg/datashare"
	"github.com/navikt/gds-console/pkg/service"
	"github.com/navikt/gds-console/pkg/service/core/storage/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type ViewJanitor interface {
	Run(ctx context.Context, interval time.Duration)
	Metrics() []prometheus.Collector
}

type Stores struct {
	ViewStorage service.ViewStorage[*datashare.View]
	ViewJanitor ViewJanitor
}

func NewStores(
	cfg config.Config,
	log zerolog.Logger,
) *Stores {
	views := memory.NewViewStorage[*datashare.View](
		cfg.Console.ViewIdleTimeout(),
		log.With().Str("component", "views").Logger(),
	)

	return &Stores{
		ViewStorage: views,
		ViewJanitor: views,
	}
}
