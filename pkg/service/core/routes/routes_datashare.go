package routes

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/navikt/gds-console/pkg/service/core/handlers"
	"github.com/navikt/gds-console/pkg/service/core/transport"
	"github.com/rs/zerolog"
)

type DataShareViewEndpoints struct {
	OpenView       http.HandlerFunc
	GetView        http.HandlerFunc
	CloseView      http.HandlerFunc
	BeginEdit      http.HandlerFunc
	UpdateDraft    http.HandlerFunc
	Save           http.HandlerFunc
	CancelEdit     http.HandlerFunc
	SelectTab      http.HandlerFunc
	ResolveDiscard http.HandlerFunc
	ListResources  http.HandlerFunc
	ListRequests   http.HandlerFunc
	AcceptRequest  http.HandlerFunc
	OpenModal      http.HandlerFunc
	ConfirmModal   http.HandlerFunc
	CloseModal     http.HandlerFunc
	SubmitResource http.HandlerFunc
	Export         http.HandlerFunc
}

func NewDataShareViewEndpoints(log zerolog.Logger, h *handlers.DataShareViewHandler) *DataShareViewEndpoints {
	return &DataShareViewEndpoints{
		OpenView:       transport.For(h.OpenView).RequestFromJSON().Build(log),
		GetView:        transport.For(h.GetView).Build(log),
		CloseView:      transport.For(h.CloseView).Build(log),
		BeginEdit:      transport.For(h.BeginEdit).Build(log),
		UpdateDraft:    transport.For(h.UpdateDraft).RequestFromJSON().Build(log),
		Save:           transport.For(h.Save).Build(log),
		CancelEdit:     transport.For(h.CancelEdit).Build(log),
		SelectTab:      transport.For(h.SelectTab).RequestFromJSON().Build(log),
		ResolveDiscard: transport.For(h.ResolveDiscard).RequestFromJSON().Build(log),
		ListResources:  transport.For(h.ListResources).Build(log),
		ListRequests:   transport.For(h.ListRequests).Build(log),
		AcceptRequest:  transport.For(h.AcceptRequest).Build(log),
		OpenModal:      transport.For(h.OpenModal).RequestFromJSON().Build(log),
		ConfirmModal:   transport.For(h.ConfirmModal).Build(log),
		CloseModal:     transport.For(h.CloseModal).Build(log),
		SubmitResource: transport.For(h.SubmitResource).RequestFromJSON().Build(log),
		Export:         transport.For(h.Export).Build(log),
	}
}

func NewDataShareViewRoutes(endpoints *DataShareViewEndpoints) AddRoutesFn {
	return func(router chi.Router) {
		router.Route("/api/datashare-views", func(r chi.Router) {
			r.Post("/", endpoints.OpenView)
			r.Route("/{viewID}", func(r chi.Router) {
				r.Get("/", endpoints.GetView)
				r.Delete("/", endpoints.CloseView)
				r.Post("/edit", endpoints.BeginEdit)
				r.Put("/draft", endpoints.UpdateDraft)
				r.Post("/save", endpoints.Save)
				r.Post("/cancel", endpoints.CancelEdit)
				r.Post("/tab", endpoints.SelectTab)
				r.Post("/discard", endpoints.ResolveDiscard)
				r.Get("/resources", endpoints.ListResources)
				r.Post("/resources", endpoints.SubmitResource)
				r.Get("/requests", endpoints.ListRequests)
				r.Post("/requests/{requestID}/accept", endpoints.AcceptRequest)
				r.Post("/modal", endpoints.OpenModal)
				r.Delete("/modal", endpoints.CloseModal)
				r.Post("/modal/confirm", endpoints.ConfirmModal)
				r.Get("/export", endpoints.Export)
			})
		})
	}
}
