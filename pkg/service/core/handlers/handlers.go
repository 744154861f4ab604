package handlers

import (
	"github.com/navikt/gds-console/pkg/service/core"
	"github.com/rs/zerolog"
)

type Handlers struct {
	DataShareViewHandler *DataShareViewHandler
}

func NewHandlers(s *core.Services, log zerolog.Logger) *Handlers {
	return &Handlers{
		DataShareViewHandler: NewDataShareViewHandler(
			s.DataShareViewService,
			log.With().Str("component", "datashare_views").Logger(),
		),
	}
}
