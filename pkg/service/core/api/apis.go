package api

import (
	"github.com/navikt/gds-console/pkg/cache"
	"github.com/navikt/gds-console/pkg/config/v2"
	"github.com/navikt/gds-console/pkg/gds"
	"github.com/navikt/gds-console/pkg/service"
	httpapi "github.com/navikt/gds-console/pkg/service/core/api/http"
	slackapi "github.com/navikt/gds-console/pkg/service/core/api/slack"
	"github.com/navikt/gds-console/pkg/service/core/api/static"
	"github.com/navikt/gds-console/pkg/service/core/cache/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type Clients struct {
	DataShareAPI       service.DataShareAPI
	DataShareAnnouncer service.DataShareAnnouncer

	metrics []prometheus.Collector
}

func (c *Clients) Metrics() []prometheus.Collector {
	return c.metrics
}

func NewClients(
	cache cache.Cacher,
	gdsClient gds.Operations,
	cfg config.Config,
	log zerolog.Logger,
) *Clients {
	dsAPI := httpapi.NewDataShareAPI(gdsClient, log.With().Str("component", "gds").Logger())

	var announcer service.DataShareAnnouncer = static.NewSlackAPI(log.With().Str("component", "slack").Logger())
	if cfg.Slack.Enabled {
		announcer = slackapi.NewSlackAPI(cfg.Slack.WebhookURL, cfg.Console.BaseURL, cfg.Slack.Channel)
	}

	return &Clients{
		DataShareAPI:       memory.NewDataShareAPICache(dsAPI, cache),
		DataShareAnnouncer: announcer,
		metrics:            dsAPI.Metrics(),
	}
}
