package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/navikt/gds-console/pkg/errs"
	"github.com/navikt/gds-console/pkg/gds"
	"github.com/navikt/gds-console/pkg/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var _ service.DataShareAPI = &dataShareAPI{}

type dataShareAPI struct {
	ops gds.Operations
	log zerolog.Logger

	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

func (a *dataShareAPI) GetDataShare(ctx context.Context, id int64) (*service.DataShare, error) {
	const op errs.Op = "dataShareAPI.GetDataShare"

	var ds *gds.DataShare

	err := a.observe("get_datashare", func() (err error) {
		ds, err = a.ops.GetDataShare(ctx, id)
		return err
	})
	if err != nil {
		return nil, errs.E(op, kindOf(err), errs.Parameter("id"), err)
	}

	return dataShareFromWire(ds), nil
}

func (a *dataShareAPI) UpdateDataShare(ctx context.Context, ds *service.DataShare) (*service.DataShare, error) {
	const op errs.Op = "dataShareAPI.UpdateDataShare"

	var updated *gds.DataShare

	err := a.observe("update_datashare", func() (err error) {
		updated, err = a.ops.UpdateDataShare(ctx, ds.ID, dataShareToWire(ds))
		return err
	})
	if err != nil {
		return nil, errs.E(op, kindOf(err), err)
	}

	return dataShareFromWire(updated), nil
}

func (a *dataShareAPI) DeleteDataShare(ctx context.Context, id int64, forceDelete bool) error {
	const op errs.Op = "dataShareAPI.DeleteDataShare"

	err := a.observe("delete_datashare", func() error {
		return a.ops.DeleteDataShare(ctx, id, forceDelete)
	})
	if err != nil {
		return errs.E(op, kindOf(err), errs.Parameter("id"), err)
	}

	return nil
}

func (a *dataShareAPI) GetServiceByName(ctx context.Context, name string) (*service.ServiceDescriptor, error) {
	const op errs.Op = "dataShareAPI.GetServiceByName"

	var svc *gds.Service

	err := a.observe("get_service", func() (err error) {
		svc, err = a.ops.GetServiceByName(ctx, name)
		return err
	})
	if err != nil {
		return nil, errs.E(op, kindOf(err), errs.Parameter("service"), err)
	}

	return &service.ServiceDescriptor{
		ID:          svc.ID,
		Name:        svc.Name,
		DisplayName: svc.DisplayName,
		Type:        svc.Type,
		Description: svc.Description,
		IsEnabled:   svc.IsEnabled,
	}, nil
}

func (a *dataShareAPI) GetServiceDefByName(ctx context.Context, name string) (*service.ServiceDef, error) {
	const op errs.Op = "dataShareAPI.GetServiceDefByName"

	var def *gds.ServiceDef

	err := a.observe("get_service_def", func() (err error) {
		def, err = a.ops.GetServiceDefByName(ctx, name)
		return err
	})
	if err != nil {
		return nil, errs.E(op, kindOf(err), errs.Parameter("service_type"), err)
	}

	return serviceDefFromWire(def), nil
}

func (a *dataShareAPI) ListSharedResources(ctx context.Context, q service.ListQuery) (*service.Page[service.SharedResource], error) {
	const op errs.Op = "dataShareAPI.ListSharedResources"

	var res *gds.SharedResources

	err := a.observe("list_shared_resources", func() (err error) {
		res, err = a.ops.SearchSharedResources(ctx, searchParams(q))
		return err
	})
	if err != nil {
		return nil, errs.E(op, kindOf(err), err)
	}

	return pageFromWire(res, sharedResourceFromWire), nil
}

func (a *dataShareAPI) CreateSharedResource(ctx context.Context, r *service.SharedResource) (*service.SharedResource, error) {
	const op errs.Op = "dataShareAPI.CreateSharedResource"

	var created *gds.SharedResource

	err := a.observe("create_shared_resource", func() (err error) {
		created, err = a.ops.CreateSharedResource(ctx, sharedResourceToWire(r))
		return err
	})
	if err != nil {
		return nil, errs.E(op, kindOf(err), err)
	}

	out := sharedResourceFromWire(*created)

	return &out, nil
}

func (a *dataShareAPI) UpdateSharedResource(ctx context.Context, r *service.SharedResource) (*service.SharedResource, error) {
	const op errs.Op = "dataShareAPI.UpdateSharedResource"

	var updated *gds.SharedResource

	err := a.observe("update_shared_resource", func() (err error) {
		updated, err = a.ops.UpdateSharedResource(ctx, r.ID, sharedResourceToWire(r))
		return err
	})
	if err != nil {
		return nil, errs.E(op, kindOf(err), err)
	}

	out := sharedResourceFromWire(*updated)

	return &out, nil
}

func (a *dataShareAPI) DeleteSharedResource(ctx context.Context, id int64) error {
	const op errs.Op = "dataShareAPI.DeleteSharedResource"

	err := a.observe("delete_shared_resource", func() error {
		return a.ops.DeleteSharedResource(ctx, id)
	})
	if err != nil {
		return errs.E(op, kindOf(err), errs.Parameter("id"), err)
	}

	return nil
}

func (a *dataShareAPI) ListDataShareDatasets(ctx context.Context, q service.ListQuery) (*service.Page[service.DataShareDataset], error) {
	const op errs.Op = "dataShareAPI.ListDataShareDatasets"

	var res *gds.DataShareDatasets

	err := a.observe("list_datashare_datasets", func() (err error) {
		res, err = a.ops.SearchDataShareDatasets(ctx, searchParams(q))
		return err
	})
	if err != nil {
		return nil, errs.E(op, kindOf(err), err)
	}

	return pageFromWire(res, dataShareDatasetFromWire), nil
}

func (a *dataShareAPI) UpdateDataShareDataset(ctx context.Context, d *service.DataShareDataset) (*service.DataShareDataset, error) {
	const op errs.Op = "dataShareAPI.UpdateDataShareDataset"

	var updated *gds.DataShareDataset

	err := a.observe("update_datashare_dataset", func() (err error) {
		updated, err = a.ops.UpdateDataShareDataset(ctx, d.ID, dataShareDatasetToWire(d))
		return err
	})
	if err != nil {
		return nil, errs.E(op, kindOf(err), errs.Parameter("id"), err)
	}

	out := dataShareDatasetFromWire(*updated)

	return &out, nil
}

func (a *dataShareAPI) DeleteDataShareDataset(ctx context.Context, id int64) error {
	const op errs.Op = "dataShareAPI.DeleteDataShareDataset"

	err := a.observe("delete_datashare_dataset", func() error {
		return a.ops.DeleteDataShareDataset(ctx, id)
	})
	if err != nil {
		return errs.E(op, kindOf(err), errs.Parameter("id"), err)
	}

	return nil
}

func (a *dataShareAPI) observe(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	a.duration.WithLabelValues(operation).Observe(elapsed.Seconds())

	if err != nil {
		a.failures.WithLabelValues(operation, statusLabel(err)).Inc()
		a.log.Debug().Err(err).Str("operation", operation).Dur("elapsed", elapsed).Msg("gds_request_failed")
	}

	return err
}

// Metrics returns the collectors to register for the upstream calls.
func (a *dataShareAPI) Metrics() []prometheus.Collector {
	return []prometheus.Collector{a.duration, a.failures}
}

func statusLabel(err error) string {
	var gerr *gds.Error
	if errors.As(err, &gerr) {
		return strconv.Itoa(gerr.HTTPStatus)
	}

	return "transport"
}

func kindOf(err error) errs.Kind {
	var gerr *gds.Error
	if !errors.As(err, &gerr) {
		return errs.IO
	}

	switch gerr.HTTPStatus {
	case http.StatusBadRequest:
		return errs.InvalidRequest
	case http.StatusUnauthorized:
		return errs.Unauthenticated
	case http.StatusForbidden:
		return errs.Unauthorized
	case http.StatusNotFound:
		return errs.NotExist
	case http.StatusConflict:
		return errs.Conflict
	}

	return errs.IO
}

func NewDataShareAPI(ops gds.Operations, log zerolog.Logger) *dataShareAPI {
	return &dataShareAPI{
		ops: ops,
		log: log,
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gds_console",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of calls to the governed data sharing API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gds_console",
			Subsystem: "upstream",
			Name:      "errors_total",
			Help:      "Failed calls to the governed data sharing API.",
		}, []string{"operation", "status"}),
	}
}
