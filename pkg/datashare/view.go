// Package datashare implements the datashare detail page as a view model:
// the loaded datashare and its schema, the edit state machine, the paged
// resource and request lists, confirmation dialogs and the JSON export.
//
// A View is safe for concurrent use. Its lock is never held while calling
// the upstream API.
package datashare

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/navikt/gds-console/pkg/errs"
	"github.com/navikt/gds-console/pkg/service"
	"github.com/rs/zerolog"
)

const maxNotifications = 10

const (
	listResources = "resources"
	listRequests  = "requests"
)

type Config struct {
	DataShareID  int64
	Actor        service.Actor
	ItemsPerPage int
	BaseURL      string

	// OnStale is called with the list name when a list response is discarded.
	OnStale func(list string)
	// OnDataShareDeleted is called once the datashare is deleted upstream.
	OnDataShareDeleted func(ctx context.Context, ds *service.DataShare, deletedBy string)

	Now func() time.Time
}

type View struct {
	api  service.DataShareAPI
	log  zerolog.Logger
	cfg  Config
	perm service.ViewPermissions

	resources *ListFetcher[service.SharedResource]
	requests  *ListFetcher[service.DataShareDataset]

	mu            sync.Mutex
	busy          bool
	loadState     service.LoadState
	editState     service.EditState
	tab           service.Tab
	pendingTab    service.Tab
	dataShare     *service.DataShare
	svc           *service.ServiceDescriptor
	def           *service.ServiceDef
	loaded        service.DataShareDraft
	draft         service.DataShareDraft
	modal         *service.ModalState
	notifications []service.Notification
	redirect      string
}

func New(api service.DataShareAPI, log zerolog.Logger, cfg Config) *View {
	if cfg.ItemsPerPage <= 0 {
		cfg.ItemsPerPage = ItemsPerPage
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	v := &View{
		api:       api,
		log:       log.With().Int64("datashare_id", cfg.DataShareID).Logger(),
		cfg:       cfg,
		perm:      Permissions(cfg.Actor),
		loadState: service.LoadStateIdle,
		editState: service.EditStateViewing,
		tab:       service.TabOverview,
		loaded:    draftFrom(nil),
		draft:     draftFrom(nil),
	}

	v.resources = NewListFetcher[service.SharedResource](cfg.DataShareID, cfg.ItemsPerPage, api.ListSharedResources, v.staleHook(listResources))
	v.requests = NewListFetcher[service.DataShareDataset](cfg.DataShareID, cfg.ItemsPerPage, api.ListDataShareDatasets, v.staleHook(listRequests))

	return v
}

func (v *View) staleHook(list string) func() {
	return func() {
		v.log.Debug().Str("list", list).Msg("discarding stale list response")

		if v.cfg.OnStale != nil {
			v.cfg.OnStale(list)
		}
	}
}

// Load fetches the datashare, then its service and service definition. A
// failure to fetch the schema leaves the datashare usable.
func (v *View) Load(ctx context.Context) error {
	const op errs.Op = "datashare.View.Load"

	if err := v.begin(op); err != nil {
		return err
	}
	defer v.end()

	return v.load(ctx)
}

func (v *View) load(ctx context.Context) error {
	const op errs.Op = "datashare.View.load"

	v.mu.Lock()
	v.loadState = service.LoadStateLoading
	v.mu.Unlock()

	ds, err := v.api.GetDataShare(ctx, v.cfg.DataShareID)
	if err != nil {
		v.log.Error().Err(err).Msg("fetching datashare details")

		v.mu.Lock()
		v.loadState = service.LoadStateFailed
		v.mu.Unlock()

		return errs.E(op, err)
	}

	svc, def := v.loadSchema(ctx, ds.Service)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.dataShare = ds
	v.svc = svc
	v.def = def
	v.loaded = draftFrom(ds)
	v.draft = copyDraft(v.loaded)
	v.editState = service.EditStateViewing
	v.pendingTab = ""
	v.loadState = service.LoadStateLoaded

	return nil
}

func (v *View) loadSchema(ctx context.Context, serviceName string) (*service.ServiceDescriptor, *service.ServiceDef) {
	svc, err := v.api.GetServiceByName(ctx, serviceName)
	if err != nil {
		v.log.Warn().Err(err).Str("service", serviceName).Msg("fetching service, resource schema unavailable")
		return nil, nil
	}

	def, err := v.api.GetServiceDefByName(ctx, svc.Type)
	if err != nil {
		v.log.Warn().Err(err).Str("service_type", svc.Type).Msg("fetching service definition, resource schema unavailable")
		return svc, nil
	}

	return svc, def
}

// BeginEdit marks the datashare as being edited.
func (v *View) BeginEdit() error {
	const op errs.Op = "datashare.View.BeginEdit"

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkEditable(op); err != nil {
		return err
	}

	v.editState = service.EditStateEditing

	return nil
}

// UpdateDraft applies local edits. Every accepted edit leaves the view in
// the editing state.
func (v *View) UpdateDraft(input service.DraftInput) error {
	const op errs.Op = "datashare.View.UpdateDraft"

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkEditable(op); err != nil {
		return err
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return errs.E(op, errs.Validation, errs.Parameter("name"), errs.Str("datashare name is required"))
	}

	if input.Principals != nil {
		if err := input.Principals.Validate(); err != nil {
			return errs.E(op, errs.Validation, errs.Parameter("principals"), err)
		}
	}

	if input.Name != nil {
		v.draft.Name = strings.TrimSpace(*input.Name)
	}

	if input.Description != nil {
		v.draft.Description = *input.Description
	}

	if input.TermsOfUse != nil {
		v.draft.TermsOfUse = *input.TermsOfUse
	}

	if input.Principals != nil {
		v.draft.Principals = input.Principals.Normalize()
	}

	v.editState = service.EditStateEditing

	return nil
}

// checkEditable must be called with mu held.
func (v *View) checkEditable(op errs.Op) error {
	if !v.perm.CanEdit {
		return errs.E(op, errs.Unauthorized, errs.Str("only a system admin or a principal with ADMIN permission may edit the datashare"))
	}

	if v.dataShare == nil {
		return errs.E(op, errs.InvalidRequest, errs.Str("datashare is not loaded"))
	}

	if v.busy {
		return errs.E(op, errs.Conflict, errs.Str("an operation on the datashare is in progress"))
	}

	if v.editState == service.EditStateConfirmingDiscard {
		return errs.E(op, errs.InvalidRequest, errs.Str("unsaved changes must be saved or discarded first"))
	}

	return nil
}

// Save sends the edited datashare upstream. An upstream failure is reported
// as a notification and the edits are kept.
func (v *View) Save(ctx context.Context) error {
	const op errs.Op = "datashare.View.Save"

	if err := v.begin(op); err != nil {
		return err
	}
	defer v.end()

	_, err := v.save(ctx)

	return err
}

func (v *View) save(ctx context.Context) (bool, error) {
	const op errs.Op = "datashare.View.save"

	v.mu.Lock()

	if !v.perm.CanEdit {
		v.mu.Unlock()
		return false, errs.E(op, errs.Unauthorized, errs.Str("only a system admin or a principal with ADMIN permission may edit the datashare"))
	}

	if v.dataShare == nil || v.editState == service.EditStateViewing {
		v.mu.Unlock()
		return false, errs.E(op, errs.InvalidRequest, errs.Str("there are no changes to save"))
	}

	loaded := copyDraft(v.loaded)
	draft := copyDraft(v.draft)
	ds := *v.dataShare
	v.mu.Unlock()

	ds.Name = draft.Name
	ds.Description = draft.Description
	ds.TermsOfUse = draft.TermsOfUse
	ds.ACL = draft.Principals.ACL()

	updated, err := v.api.UpdateDataShare(ctx, &ds)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.pendingTab = ""

	if err != nil {
		v.log.Error().Err(err).Msg("updating datashare")
		v.editState = service.EditStateEditing
		v.notify(service.NotificationError, failureMessage(msgDataShareUpdateFailed, err))

		return false, nil
	}

	if updated == nil {
		updated = &ds
	}

	changes, err := Changes(loaded, draft)
	if err != nil {
		v.log.Warn().Err(err).Msg("computing datashare changelog")
	}

	v.log.Info().Interface("changes", changes).Msg("datashare updated")

	v.dataShare = updated
	v.loaded = draftFrom(updated)
	v.draft = copyDraft(v.loaded)
	v.editState = service.EditStateViewing
	v.notify(service.NotificationSuccess, msgDataShareUpdated)

	return true, nil
}

// Cancel discards local edits by loading the datashare again.
func (v *View) Cancel(ctx context.Context) error {
	const op errs.Op = "datashare.View.Cancel"

	if err := v.begin(op); err != nil {
		return err
	}
	defer v.end()

	v.cancel(ctx)

	return nil
}

func (v *View) cancel(ctx context.Context) {
	v.mu.Lock()
	v.editState = service.EditStateViewing
	v.pendingTab = ""
	v.modal = nil
	v.draft = copyDraft(v.loaded)
	v.mu.Unlock()

	// Failures are logged and reflected in the load state.
	_ = v.load(ctx)
}

// SelectTab switches tab. With unsaved edits the switch is held back until
// the user decides what to do with them.
func (v *View) SelectTab(ctx context.Context, tab service.Tab) error {
	const op errs.Op = "datashare.View.SelectTab"

	if !tab.Valid() {
		return errs.E(op, errs.InvalidRequest, errs.Parameter("tab"), errs.Str("unknown tab "+string(tab)))
	}

	v.mu.Lock()

	switch v.editState {
	case service.EditStateEditing, service.EditStateConfirmingDiscard:
		v.editState = service.EditStateConfirmingDiscard
		v.pendingTab = tab
		v.mu.Unlock()

		return nil
	}

	v.tab = tab
	v.mu.Unlock()

	v.enterTab(ctx, tab)

	return nil
}

// ResolveDiscard answers the unsaved changes dialog. Saving switches tab
// only when the save succeeds; discarding reloads and switches.
func (v *View) ResolveDiscard(ctx context.Context, save bool) error {
	const op errs.Op = "datashare.View.ResolveDiscard"

	if err := v.begin(op); err != nil {
		return err
	}
	defer v.end()

	return v.resolveDiscard(ctx, op, save)
}

func (v *View) resolveDiscard(ctx context.Context, op errs.Op, save bool) error {
	v.mu.Lock()
	if v.editState != service.EditStateConfirmingDiscard {
		v.mu.Unlock()
		return errs.E(op, errs.InvalidRequest, errs.Str("there is no pending tab switch"))
	}

	tab := v.pendingTab
	v.mu.Unlock()

	if save {
		saved, err := v.save(ctx)
		if err != nil {
			return errs.E(op, err)
		}

		if !saved {
			return nil
		}
	} else {
		v.cancel(ctx)
	}

	v.mu.Lock()
	v.tab = tab
	v.mu.Unlock()

	v.enterTab(ctx, tab)

	return nil
}

func (v *View) enterTab(ctx context.Context, tab service.Tab) {
	switch tab {
	case service.TabResources:
		_, err := v.resources.Fetch(ctx, v.resources.Filter(), 0, false)
		v.logListError(listResources, err)
	case service.TabSharedWith:
		_, err := v.requests.Fetch(ctx, v.requests.Filter(), 0, false)
		v.logListError(listRequests, err)
	}
}

// ListResources shows a page of the shared resources.
func (v *View) ListResources(ctx context.Context, input service.ListInput) error {
	const op errs.Op = "datashare.View.ListResources"

	if input.Page < 0 {
		return errs.E(op, errs.InvalidRequest, errs.Parameter("page"), errs.Str("page must not be negative"))
	}

	_, err := v.resources.Fetch(ctx, ParseSearchFilter(input.Search, ResourceSearchOptions), input.Page, false)
	v.logListError(listResources, err)

	return nil
}

// ListRequests shows a page of the dataset requests.
func (v *View) ListRequests(ctx context.Context, input service.ListInput) error {
	const op errs.Op = "datashare.View.ListRequests"

	if input.Page < 0 {
		return errs.E(op, errs.InvalidRequest, errs.Parameter("page"), errs.Str("page must not be negative"))
	}

	_, err := v.requests.Fetch(ctx, ParseSearchFilter(input.Search, RequestSearchOptions), input.Page, false)
	v.logListError(listRequests, err)

	return nil
}

func (v *View) logListError(list string, err error) {
	if err == nil || errors.Is(err, ErrStaleResponse) {
		return
	}

	v.log.Error().Err(err).Str("list", list).Msg("fetching list")
}

// begin marks the view busy for the duration of a mutating operation.
func (v *View) begin(op errs.Op) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.busy {
		return errs.E(op, errs.Conflict, errs.Str("an operation on the datashare is in progress"))
	}

	v.busy = true

	return nil
}

func (v *View) end() {
	v.mu.Lock()
	v.busy = false
	v.mu.Unlock()
}

// notify must be called with mu held.
func (v *View) notify(level service.NotificationLevel, msg string) {
	v.notifications = append(v.notifications, service.Notification{
		Level:   level,
		Message: msg,
		Time:    v.cfg.Now(),
	})

	if len(v.notifications) > maxNotifications {
		v.notifications = v.notifications[len(v.notifications)-maxNotifications:]
	}
}

// Snapshot returns a copy of the view state.
func (v *View) Snapshot() *service.DataShareViewState {
	v.mu.Lock()
	defer v.mu.Unlock()

	changes, err := Changes(v.loaded, v.draft)
	if err != nil {
		v.log.Warn().Err(err).Msg("computing datashare changelog")
	}

	if changes == nil {
		changes = []service.DraftChange{}
	}

	st := &service.DataShareViewState{
		DataShareID:       v.cfg.DataShareID,
		LoadState:         v.loadState,
		EditState:         v.editState,
		SaveCancelVisible: v.editState == service.EditStateEditing,
		Tab:               v.tab,
		PendingTab:        v.pendingTab,
		Service:           v.svc,
		ServiceDef:        v.def,
		Draft:             copyDraft(v.draft),
		PendingChanges:    changes,
		Permissions:       v.perm,
		Resources:         v.resources.State(),
		Requests:          v.requests.State(),
		Notifications:     append([]service.Notification{}, v.notifications...),
		Redirect:          v.redirect,
		Links: service.ViewLinks{
			Self:     strings.TrimSuffix(v.cfg.BaseURL, "/") + DetailPath(v.cfg.DataShareID),
			FullView: FullViewPath(v.cfg.DataShareID),
			Listing:  ListingPath,
		},
	}

	if v.dataShare != nil {
		ds := *v.dataShare
		st.DataShare = &ds
	}

	switch {
	case v.editState == service.EditStateConfirmingDiscard:
		st.Modal = &service.ModalState{
			Kind:    service.ModalConfirmDiscard,
			Message: "Would you like to save the changes?",
		}
	case v.modal != nil:
		m := *v.modal
		st.Modal = &m
	}

	return st
}

// Deleted reports whether the datashare was deleted through this view.
func (v *View) Deleted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.redirect != ""
}
