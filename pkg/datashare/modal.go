package datashare

import (
	"context"

	"github.com/navikt/gds-console/pkg/errs"
	"github.com/navikt/gds-console/pkg/service"
)

// OpenModal opens a dialog. Targets are looked up among the displayed list
// items. Opening a dialog replaces the one that is open.
func (v *View) OpenModal(input service.OpenModalInput) error {
	const op errs.Op = "datashare.View.OpenModal"

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.editState == service.EditStateConfirmingDiscard {
		return errs.E(op, errs.InvalidRequest, errs.Str("unsaved changes must be saved or discarded first"))
	}

	modal, err := v.buildModal(op, input)
	if err != nil {
		return err
	}

	v.modal = modal

	return nil
}

// buildModal must be called with mu held.
func (v *View) buildModal(op errs.Op, input service.OpenModalInput) (*service.ModalState, error) {
	switch input.Kind {
	case service.ModalDeleteResource:
		if !v.perm.CanManageResources {
			return nil, errs.E(op, errs.Unauthorized, errs.Str("not allowed to delete shared resources"))
		}

		r, err := v.displayedResource(op, input.TargetID)
		if err != nil {
			return nil, err
		}

		return &service.ModalState{
			Kind:       input.Kind,
			TargetID:   r.ID,
			TargetName: r.Name,
			Message:    resourceDeleteMessage(r),
			Resource:   r,
		}, nil

	case service.ModalDeleteRequest:
		if !v.perm.CanDeleteRequests {
			return nil, errs.E(op, errs.Unauthorized, errs.Str("not allowed to delete datashare requests"))
		}

		r, ok := v.requests.Find(func(r service.DataShareDataset) bool { return r.ID == input.TargetID })
		if !ok {
			return nil, errs.E(op, errs.NotExist, errs.Parameter("targetId"), errs.Str("request is not displayed"))
		}

		return &service.ModalState{
			Kind:       input.Kind,
			TargetID:   r.ID,
			TargetName: r.DatasetName,
			Message:    requestDeleteMessage(&r, v.dataShareName()),
			Request:    &r,
		}, nil

	case service.ModalDeleteDataShare:
		if !v.perm.CanDeleteDataShare {
			return nil, errs.E(op, errs.Unauthorized, errs.Str("not allowed to delete the datashare"))
		}

		if v.dataShare == nil {
			return nil, errs.E(op, errs.InvalidRequest, errs.Str("datashare is not loaded"))
		}

		return &service.ModalState{
			Kind:       input.Kind,
			TargetID:   v.dataShare.ID,
			TargetName: v.dataShare.Name,
			Message:    dataShareDeleteMessage(v.dataShare.Name),
		}, nil

	case service.ModalConditions:
		r, err := v.displayedResource(op, input.TargetID)
		if err != nil {
			return nil, err
		}

		return &service.ModalState{
			Kind:       input.Kind,
			TargetID:   r.ID,
			TargetName: r.Name,
			Resource:   r,
		}, nil

	case service.ModalResourceEditor:
		if input.TargetID == 0 {
			if !v.perm.CanAddResources {
				return nil, errs.E(op, errs.Unauthorized, errs.Str("not allowed to add shared resources"))
			}

			return &service.ModalState{Kind: input.Kind}, nil
		}

		if !v.perm.CanManageResources {
			return nil, errs.E(op, errs.Unauthorized, errs.Str("not allowed to edit shared resources"))
		}

		r, err := v.displayedResource(op, input.TargetID)
		if err != nil {
			return nil, err
		}

		return &service.ModalState{
			Kind:       input.Kind,
			TargetID:   r.ID,
			TargetName: r.Name,
			Resource:   r,
		}, nil

	case service.ModalConfirmDiscard:
		return nil, errs.E(op, errs.InvalidRequest, errs.Parameter("kind"), errs.Str("opened by switching tab with unsaved changes"))
	}

	return nil, errs.E(op, errs.InvalidRequest, errs.Parameter("kind"), errs.Str("unknown dialog "+string(input.Kind)))
}

func (v *View) displayedResource(op errs.Op, id int64) (*service.SharedResource, error) {
	r, ok := v.resources.Find(func(r service.SharedResource) bool { return r.ID == id })
	if !ok {
		return nil, errs.E(op, errs.NotExist, errs.Parameter("targetId"), errs.Str("shared resource is not displayed"))
	}

	return &r, nil
}

func (v *View) dataShareName() string {
	if v.dataShare == nil {
		return ""
	}

	return v.dataShare.Name
}

// CloseModal closes the open dialog. Closing the unsaved changes dialog
// keeps the edits and stays on the current tab.
func (v *View) CloseModal() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.editState == service.EditStateConfirmingDiscard {
		v.editState = service.EditStateEditing
		v.pendingTab = ""

		return
	}

	v.modal = nil
}

// ConfirmModal performs the action of the open dialog. Confirming the
// unsaved changes dialog saves them.
func (v *View) ConfirmModal(ctx context.Context) error {
	const op errs.Op = "datashare.View.ConfirmModal"

	if err := v.begin(op); err != nil {
		return err
	}
	defer v.end()

	v.mu.Lock()
	if v.editState == service.EditStateConfirmingDiscard {
		v.mu.Unlock()
		return v.resolveDiscard(ctx, op, true)
	}

	modal := v.modal
	v.mu.Unlock()

	if modal == nil {
		return errs.E(op, errs.InvalidRequest, errs.Str("no dialog is open"))
	}

	switch modal.Kind {
	case service.ModalDeleteResource:
		v.closeModal(modal)
		v.deleteResource(ctx, modal.TargetID)
	case service.ModalDeleteRequest:
		v.deleteRequest(ctx, modal)
	case service.ModalDeleteDataShare:
		v.closeModal(modal)
		v.deleteDataShare(ctx)
	case service.ModalConditions:
		v.closeModal(modal)
	case service.ModalResourceEditor:
		return errs.E(op, errs.InvalidRequest, errs.Str("the resource editor is closed by submitting a resource"))
	}

	return nil
}

// closeModal closes modal if it is still the open dialog.
func (v *View) closeModal(modal *service.ModalState) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.modal == modal {
		v.modal = nil
	}
}

func (v *View) deleteResource(ctx context.Context, id int64) {
	err := v.api.DeleteSharedResource(ctx, id)
	if err != nil {
		v.log.Error().Err(err).Int64("resource_id", id).Msg("deleting shared resource")
		v.notifyLocked(service.NotificationError, failureMessage(msgResourceDeleteFailed, err))

		return
	}

	v.notifyLocked(service.NotificationSuccess, msgResourceDeleted)

	_, err = v.resources.Refresh(ctx)
	v.logListError(listResources, err)
}

// deleteRequest keeps the dialog open when the deletion fails.
func (v *View) deleteRequest(ctx context.Context, modal *service.ModalState) {
	success, failure := requestDeletedMessages(modal.Request)

	err := v.api.DeleteDataShareDataset(ctx, modal.TargetID)
	if err != nil {
		v.log.Error().Err(err).Int64("request_id", modal.TargetID).Msg("deleting datashare request")
		v.notifyLocked(service.NotificationError, failureMessage(failure, err))

		return
	}

	v.closeModal(modal)
	v.notifyLocked(service.NotificationSuccess, success)

	_, err = v.requests.Refresh(ctx)
	v.logListError(listRequests, err)
}

func (v *View) deleteDataShare(ctx context.Context) {
	v.mu.Lock()
	var ds service.DataShare
	if v.dataShare != nil {
		ds = *v.dataShare
	}
	v.mu.Unlock()

	err := v.api.DeleteDataShare(ctx, v.cfg.DataShareID, true)
	if err != nil {
		v.log.Error().Err(err).Msg("deleting datashare")
		v.notifyLocked(service.NotificationError, failureMessage(msgDataShareDeleteFailed, err))

		return
	}

	v.mu.Lock()
	v.notify(service.NotificationSuccess, msgDataShareDeleted)
	v.redirect = ListingPath
	v.mu.Unlock()

	v.log.Info().Str("deleted_by", v.cfg.Actor.Name).Msg("datashare deleted")

	if v.cfg.OnDataShareDeleted != nil {
		v.cfg.OnDataShareDeleted(ctx, &ds, v.cfg.Actor.Name)
	}
}

// SubmitResource creates or updates the resource of the open resource
// editor. Upstream failures keep the editor open.
func (v *View) SubmitResource(ctx context.Context, r *service.SharedResource) error {
	const op errs.Op = "datashare.View.SubmitResource"

	if r == nil {
		return errs.E(op, errs.InvalidRequest, errs.Str("missing shared resource"))
	}

	if err := v.begin(op); err != nil {
		return err
	}
	defer v.end()

	v.mu.Lock()
	modal := v.modal
	def := v.def
	v.mu.Unlock()

	if modal == nil || modal.Kind != service.ModalResourceEditor {
		return errs.E(op, errs.InvalidRequest, errs.Str("the resource editor is not open"))
	}

	res := *r
	res.ID = modal.TargetID
	res.DataShareID = v.cfg.DataShareID

	if err := ValidateResource(def, &res); err != nil {
		return errs.E(op, errs.Validation, errs.Parameter("resource"), err)
	}

	var err error

	success := msgResourceAdded
	if res.ID == 0 {
		_, err = v.api.CreateSharedResource(ctx, &res)
	} else {
		success = msgResourceUpdated
		_, err = v.api.UpdateSharedResource(ctx, &res)
	}

	if err != nil {
		v.log.Error().Err(err).Int64("resource_id", res.ID).Msg("saving shared resource")
		v.notifyLocked(service.NotificationError, failureMessage(msgResourceSaveFailed, err))

		return nil
	}

	v.closeModal(modal)
	v.notifyLocked(service.NotificationSuccess, success)

	_, err = v.resources.Refresh(ctx)
	v.logListError(listResources, err)

	return nil
}

func (v *View) notifyLocked(level service.NotificationLevel, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.notify(level, msg)
}
