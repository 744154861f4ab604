package core

import (
	"context"
	"fmt"
	"time"

	"github.com/navikt/gds-console/pkg/datashare"
	"github.com/navikt/gds-console/pkg/errs"
	"github.com/navikt/gds-console/pkg/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const announceTimeout = 10 * time.Second

var _ service.DataShareViewService = &dataShareViewService{}

type dataShareViewService struct {
	api          service.DataShareAPI
	announcer    service.DataShareAnnouncer
	views        service.ViewStorage[*datashare.View]
	itemsPerPage int
	baseURL      string
	log          zerolog.Logger

	stale *prometheus.CounterVec
}

func (s *dataShareViewService) OpenView(ctx context.Context, input service.OpenViewInput) (*service.DataShareViewState, error) {
	const op errs.Op = "dataShareViewService.OpenView"

	if input.DataShareID <= 0 {
		return nil, errs.E(errs.InvalidRequest, op, errs.Parameter("dataShareId"), fmt.Errorf("invalid datashare id: %d", input.DataShareID))
	}

	if input.Permission != "" && !input.Permission.Valid() {
		return nil, errs.E(errs.InvalidRequest, op, errs.Parameter("userAclPerm"), fmt.Errorf("unknown permission: %s", input.Permission))
	}

	v := datashare.New(s.api, s.log, datashare.Config{
		DataShareID:        input.DataShareID,
		Actor:              input.Actor,
		ItemsPerPage:       s.itemsPerPage,
		BaseURL:            s.baseURL,
		OnStale:            s.onStale,
		OnDataShareDeleted: s.announce,
	})

	err := v.Load(ctx)
	if err != nil && !errs.KindIs(errs.IO, err) {
		return nil, errs.E(op, err)
	}

	id, err := s.views.Add(v)
	if err != nil {
		return nil, errs.E(op, err)
	}

	s.log.Info().Str("view_id", id).Int64("datashare_id", input.DataShareID).Str("actor", input.Name).Msg("opened datashare view")

	return snapshot(id, v), nil
}

func (s *dataShareViewService) GetView(_ context.Context, viewID string) (*service.DataShareViewState, error) {
	const op errs.Op = "dataShareViewService.GetView"

	v, err := s.views.Get(viewID)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return snapshot(viewID, v), nil
}

func (s *dataShareViewService) CloseView(_ context.Context, viewID string) error {
	const op errs.Op = "dataShareViewService.CloseView"

	err := s.views.Delete(viewID)
	if err != nil {
		return errs.E(op, err)
	}

	return nil
}

func (s *dataShareViewService) BeginEdit(_ context.Context, viewID string) (*service.DataShareViewState, error) {
	const op errs.Op = "dataShareViewService.BeginEdit"

	return s.with(op, viewID, func(v *datashare.View) error {
		return v.BeginEdit()
	})
}

func (s *dataShareViewService) UpdateDraft(_ context.Context, viewID string, input service.DraftInput) (*service.DataShareViewState, error) {
	const op errs.Op = "dataShareViewService.UpdateDraft"

	return s.with(op, viewID, func(v *datashare.View) error {
		return v.UpdateDraft(input)
	})
}

func (s *dataShareViewService) Save(ctx context.Context, viewID string) (*service.DataShareViewState, error) {
	const op errs.Op = "dataShareViewService.Save"

	return s.with(op, viewID, func(v *datashare.View) error {
		return v.Save(ctx)
	})
}

func (s *dataShareViewService) CancelEdit(ctx context.Context, viewID string) (*service.DataShareViewState, error) {
	const op errs.Op = "dataShareViewService.CancelEdit"

	return s.with(op, viewID, func(v *datashare.View) error {
		return v.Cancel(ctx)
	})
}

func (s *dataShareViewService) SelectTab(ctx context.Context, viewID string, tab service.Tab) (*service.DataShareViewState, error) {
	const op errs.Op = "dataShareViewService.SelectTab"

	return s.with(op, viewID, func(v *datashare.View) error {
		return v.SelectTab(ctx, tab)
	})
}

func (s *dataShareViewService) ResolveDiscard(ctx context.Context, viewID string, save bool) (*service.DataShareViewState, error) {
	const op errs.Op = "dataShareViewService.ResolveDiscard"

	return s.with(op, viewID, func(v *datashare.View) error {
		return v.ResolveDiscard(ctx, save)
	})
}

func (s *dataShareViewService) ListResources(ctx context.Context, viewID string, input service.ListInput) (*service.DataShareViewState, error) {
	const op errs.Op = "dataShareViewService.ListResources"

	return s.with(op, viewID, func(v *datashare.View) error {
		return v.ListResources(ctx, input)
	})
}

func (s *dataShareViewService) ListRequests(ctx context.Context, viewID string, input service.ListInput) (*service.DataShareViewState, error) {
	const op errs.Op = "dataShareViewService.ListRequests"

	return s.with(op, viewID, func(v *datashare.View) error {
		return v.ListRequests(ctx, input)
	})
}

func (s *dataShareViewService) AcceptRequest(ctx context.Context, viewID string, requestID int64) (*service.DataShareViewState, error) {
	const op errs.Op = "dataShareViewService.AcceptRequest"

	return s.with(op, viewID, func(v *datashare.View) error {
		return v.AcceptRequest(ctx, requestID)
	})
}

func (s *dataShareViewService) OpenModal(_ context.Context, viewID string, input service.OpenModalInput) (*service.DataShareViewState, error) {
	const op errs.Op = "dataShareViewService.OpenModal"

	return s.with(op, viewID, func(v *datashare.View) error {
		return v.OpenModal(input)
	})
}

// ConfirmModal runs the confirmed action. A view whose datashare got
// deleted is dropped from the registry once its final state is returned.
func (s *dataShareViewService) ConfirmModal(ctx context.Context, viewID string) (*service.DataShareViewState, error) {
	const op errs.Op = "dataShareViewService.ConfirmModal"

	v, err := s.views.Get(viewID)
	if err != nil {
		return nil, errs.E(op, err)
	}

	err = v.ConfirmModal(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	st := snapshot(viewID, v)

	if v.Deleted() {
		if err := s.views.Delete(viewID); err != nil {
			s.log.Warn().Err(err).Str("view_id", viewID).Msg("removing view of deleted datashare")
		}
	}

	return st, nil
}

func (s *dataShareViewService) CloseModal(_ context.Context, viewID string) (*service.DataShareViewState, error) {
	const op errs.Op = "dataShareViewService.CloseModal"

	return s.with(op, viewID, func(v *datashare.View) error {
		v.CloseModal()
		return nil
	})
}

func (s *dataShareViewService) SubmitResource(ctx context.Context, viewID string, r *service.SharedResource) (*service.DataShareViewState, error) {
	const op errs.Op = "dataShareViewService.SubmitResource"

	return s.with(op, viewID, func(v *datashare.View) error {
		return v.SubmitResource(ctx, r)
	})
}

func (s *dataShareViewService) Export(ctx context.Context, viewID string) (*service.ExportFile, error) {
	const op errs.Op = "dataShareViewService.Export"

	v, err := s.views.Get(viewID)
	if err != nil {
		return nil, errs.E(op, err)
	}

	file, err := v.Export(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return file, nil
}

func (s *dataShareViewService) with(op errs.Op, viewID string, fn func(v *datashare.View) error) (*service.DataShareViewState, error) {
	v, err := s.views.Get(viewID)
	if err != nil {
		return nil, errs.E(op, err)
	}

	err = fn(v)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return snapshot(viewID, v), nil
}

func (s *dataShareViewService) onStale(list string) {
	s.stale.WithLabelValues(list).Inc()
}

func (s *dataShareViewService) announce(ctx context.Context, ds *service.DataShare, deletedBy string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), announceTimeout)
	defer cancel()

	err := s.announcer.InformDataShareDeleted(ctx, ds, deletedBy)
	if err != nil {
		s.log.Error().Err(err).Int64("datashare_id", ds.ID).Msg("announcing datashare deletion")
	}
}

func (s *dataShareViewService) Metrics() []prometheus.Collector {
	return []prometheus.Collector{s.stale}
}

func snapshot(viewID string, v *datashare.View) *service.DataShareViewState {
	st := v.Snapshot()
	st.ViewID = viewID

	return st
}

func NewDataShareViewService(
	api service.DataShareAPI,
	announcer service.DataShareAnnouncer,
	views service.ViewStorage[*datashare.View],
	itemsPerPage int,
	baseURL string,
	log zerolog.Logger,
) *dataShareViewService {
	return &dataShareViewService{
		api:          api,
		announcer:    announcer,
		views:        views,
		itemsPerPage: itemsPerPage,
		baseURL:      baseURL,
		log:          log,
		stale: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gds_console",
			Name:      "stale_list_responses_total",
			Help:      "List responses discarded because a newer fetch was issued.",
		}, []string{"list"}),
	}
}
