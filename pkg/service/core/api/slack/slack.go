package slack

import (
	"context"
	"fmt"

	"github.com/navikt/gds-console/pkg/errs"
	"github.com/navikt/gds-console/pkg/service"
	slackapi "github.com/slack-go/slack"
)

type slackAPI struct {
	webhookURL string
	consoleURL string
	channel    string
}

var _ service.DataShareAnnouncer = &slackAPI{}

func (a *slackAPI) InformDataShareDeleted(ctx context.Context, ds *service.DataShare, deletedBy string) error {
	const op errs.Op = "slackAPI.InformDataShareDeleted"

	if ds == nil {
		return errs.E(errs.InvalidRequest, op, fmt.Errorf("no datashare given"))
	}

	message := fmt.Sprintf(
		"%s har slettet datashare *%s* (id %d) i tjenesten %s.\nOversikt: %s/gds/mydatasharelisting",
		deletedBy,
		ds.Name,
		ds.ID,
		ds.Service,
		a.consoleURL,
	)

	err := slackapi.PostWebhookContext(ctx, a.webhookURL, &slackapi.WebhookMessage{
		Channel: a.channel,
		Text:    message,
	})
	if err != nil {
		return errs.E(errs.IO, op, err)
	}

	return nil
}

func NewSlackAPI(webhookURL, consoleURL, channel string) *slackAPI {
	return &slackAPI{
		webhookURL: webhookURL,
		consoleURL: consoleURL,
		channel:    channel,
	}
}
