package datashare

import (
	"context"
	"fmt"

	"github.com/navikt/gds-console/pkg/errs"
	"github.com/navikt/gds-console/pkg/service"
)

// AcceptRequest grants a displayed dataset request and refreshes the
// request list. Upstream failures end up as notifications.
func (v *View) AcceptRequest(ctx context.Context, id int64) error {
	const op errs.Op = "datashare.View.AcceptRequest"

	if !v.perm.CanAcceptRequests {
		return errs.E(op, errs.Unauthorized, errs.Str("not allowed to accept datashare requests"))
	}

	if err := v.begin(op); err != nil {
		return err
	}
	defer v.end()

	r, ok := v.requests.Find(func(r service.DataShareDataset) bool { return r.ID == id })
	if !ok {
		return errs.E(op, errs.NotExist, errs.Parameter("requestId"), errs.Str("request is not displayed"))
	}

	if r.Status != service.DataShareDatasetStatusRequested {
		return errs.E(op, errs.InvalidRequest, errs.Parameter("requestId"),
			fmt.Errorf("only %s requests can be accepted, request %d is %s", service.DataShareDatasetStatusRequested, r.ID, r.Status))
	}

	r.Status = service.DataShareDatasetStatusGranted
	r.Approver = v.cfg.Actor.Name

	_, err := v.api.UpdateDataShareDataset(ctx, &r)
	if err != nil {
		v.log.Error().Err(err).Int64("request_id", id).Msg("accepting datashare request")
		v.notifyLocked(service.NotificationError, failureMessage(msgRequestAcceptFailed, err))

		return nil
	}

	v.notifyLocked(service.NotificationSuccess, msgRequestAccepted)

	_, err = v.requests.Refresh(ctx)
	v.logListError(listRequests, err)

	return nil
}
