package static

import (
	"context"

	"github.com/navikt/gds-console/pkg/service"
	"github.com/rs/zerolog"
)

type slackAPI struct {
	log zerolog.Logger
}

var _ service.DataShareAnnouncer = &slackAPI{}

func (s *slackAPI) InformDataShareDeleted(_ context.Context, ds *service.DataShare, deletedBy string) error {
	s.log.Info().Msgf("Datashare %d (%s) deleted by %s, slack is disabled", ds.ID, ds.Name, deletedBy)

	return nil
}

func NewSlackAPI(log zerolog.Logger) *slackAPI {
	return &slackAPI{
		log: log,
	}
}
