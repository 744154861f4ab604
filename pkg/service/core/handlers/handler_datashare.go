package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/navikt/gds-console/pkg/datashare"
	"github.com/navikt/gds-console/pkg/errs"
	"github.com/navikt/gds-console/pkg/service"
	"github.com/navikt/gds-console/pkg/service/core/transport"
	"github.com/rs/zerolog"
)

const (
	viewIDParam    = "viewID"
	requestIDParam = "requestID"
)

type DataShareViewHandler struct {
	service service.DataShareViewService
	log     zerolog.Logger
}

func (h *DataShareViewHandler) OpenView(ctx context.Context, _ *http.Request, in service.OpenViewInput) (*service.DataShareViewState, error) {
	return h.service.OpenView(ctx, in)
}

func (h *DataShareViewHandler) GetView(ctx context.Context, _ *http.Request, _ any) (*service.DataShareViewState, error) {
	return h.service.GetView(ctx, viewID(ctx))
}

func (h *DataShareViewHandler) CloseView(ctx context.Context, _ *http.Request, _ any) (*transport.Empty, error) {
	err := h.service.CloseView(ctx, viewID(ctx))
	if err != nil {
		return nil, err
	}

	return &transport.Empty{}, nil
}

func (h *DataShareViewHandler) BeginEdit(ctx context.Context, _ *http.Request, _ any) (*service.DataShareViewState, error) {
	return h.service.BeginEdit(ctx, viewID(ctx))
}

func (h *DataShareViewHandler) UpdateDraft(ctx context.Context, _ *http.Request, in service.DraftInput) (*service.DataShareViewState, error) {
	return h.service.UpdateDraft(ctx, viewID(ctx), in)
}

func (h *DataShareViewHandler) Save(ctx context.Context, _ *http.Request, _ any) (*service.DataShareViewState, error) {
	return h.service.Save(ctx, viewID(ctx))
}

func (h *DataShareViewHandler) CancelEdit(ctx context.Context, _ *http.Request, _ any) (*service.DataShareViewState, error) {
	return h.service.CancelEdit(ctx, viewID(ctx))
}

func (h *DataShareViewHandler) SelectTab(ctx context.Context, _ *http.Request, in service.TabInput) (*service.DataShareViewState, error) {
	const op errs.Op = "DataShareViewHandler.SelectTab"

	if !in.Tab.Valid() {
		return nil, errs.E(errs.InvalidRequest, op, errs.Parameter("tab"), fmt.Errorf("unknown tab: %s", in.Tab))
	}

	return h.service.SelectTab(ctx, viewID(ctx), in.Tab)
}

func (h *DataShareViewHandler) ResolveDiscard(ctx context.Context, _ *http.Request, in service.DiscardInput) (*service.DataShareViewState, error) {
	return h.service.ResolveDiscard(ctx, viewID(ctx), in.Save)
}

func (h *DataShareViewHandler) ListResources(ctx context.Context, r *http.Request, _ any) (*service.DataShareViewState, error) {
	const op errs.Op = "DataShareViewHandler.ListResources"

	in, err := listInputFromQuery(r, datashare.ResourceSearchOptions)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return h.service.ListResources(ctx, viewID(ctx), in)
}

func (h *DataShareViewHandler) ListRequests(ctx context.Context, r *http.Request, _ any) (*service.DataShareViewState, error) {
	const op errs.Op = "DataShareViewHandler.ListRequests"

	in, err := listInputFromQuery(r, datashare.RequestSearchOptions)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return h.service.ListRequests(ctx, viewID(ctx), in)
}

func (h *DataShareViewHandler) AcceptRequest(ctx context.Context, _ *http.Request, _ any) (*service.DataShareViewState, error) {
	const op errs.Op = "DataShareViewHandler.AcceptRequest"

	id, err := strconv.ParseInt(chi.URLParamFromCtx(ctx, requestIDParam), 10, 64)
	if err != nil || id <= 0 {
		return nil, errs.E(errs.InvalidRequest, op, errs.Parameter("requestId"), fmt.Errorf("invalid request id: %s", chi.URLParamFromCtx(ctx, requestIDParam)))
	}

	return h.service.AcceptRequest(ctx, viewID(ctx), id)
}

func (h *DataShareViewHandler) OpenModal(ctx context.Context, _ *http.Request, in service.OpenModalInput) (*service.DataShareViewState, error) {
	return h.service.OpenModal(ctx, viewID(ctx), in)
}

func (h *DataShareViewHandler) ConfirmModal(ctx context.Context, _ *http.Request, _ any) (*service.DataShareViewState, error) {
	return h.service.ConfirmModal(ctx, viewID(ctx))
}

func (h *DataShareViewHandler) CloseModal(ctx context.Context, _ *http.Request, _ any) (*service.DataShareViewState, error) {
	return h.service.CloseModal(ctx, viewID(ctx))
}

func (h *DataShareViewHandler) SubmitResource(ctx context.Context, _ *http.Request, in *service.SharedResource) (*service.DataShareViewState, error) {
	return h.service.SubmitResource(ctx, viewID(ctx), in)
}

func (h *DataShareViewHandler) Export(ctx context.Context, _ *http.Request, _ any) (*transport.Attachment, error) {
	file, err := h.service.Export(ctx, viewID(ctx))
	if err != nil {
		return nil, err
	}

	h.log.Info().Str("view_id", viewID(ctx)).Str("file", file.FileName).Int("bytes", len(file.Data)).Msg("exported datashare")

	return transport.NewAttachment(file.FileName, file.ContentType, file.Data), nil
}

func viewID(ctx context.Context) string {
	return chi.URLParamFromCtx(ctx, viewIDParam)
}

// listInputFromQuery reads the page number and one search token per known
// search category from the query string.
func listInputFromQuery(r *http.Request, options []datashare.SearchOption) (service.ListInput, error) {
	const op errs.Op = "handlers.listInputFromQuery"

	q := r.URL.Query()
	in := service.ListInput{}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return in, errs.E(errs.InvalidRequest, op, errs.Parameter("page"), err)
		}

		in.Page = page
	}

	for _, opt := range options {
		value := q.Get(opt.Category)
		if value == "" {
			continue
		}

		if !opt.Accepts(value) {
			return in, errs.E(errs.InvalidRequest, op, errs.Parameter(opt.Category), fmt.Errorf("unknown %s: %s", opt.Category, value))
		}

		in.Search = append(in.Search, service.SearchToken{Category: opt.Category, Value: value})
	}

	return in, nil
}

func NewDataShareViewHandler(s service.DataShareViewService, log zerolog.Logger) *DataShareViewHandler {
	return &DataShareViewHandler{
		service: s,
		log:     log,
	}
}
