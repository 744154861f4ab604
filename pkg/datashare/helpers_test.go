package datashare_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/navikt/gds-console/pkg/service"
)

// upstreamError mimics an upstream failure carrying a msgDesc.
type upstreamError struct {
	msg string
}

func (e *upstreamError) Error() string       { return "upstream: " + e.msg }
func (e *upstreamError) Description() string { return e.msg }

type fakeAPI struct {
	mu sync.Mutex

	dataShare    *service.DataShare
	dataShareErr error
	svc          *service.ServiceDescriptor
	svcErr       error
	def          *service.ServiceDef
	defErr       error

	resources    []service.SharedResource
	resourcesErr error
	requests     []service.DataShareDataset
	requestsErr  error

	updateErr          error
	deleteDataShareErr error
	deleteResourceErr  error
	deleteRequestErr   error
	createResourceErr  error
	updateRequestErr   error

	getCalls        int
	updated         []*service.DataShare
	forceDelete     []bool
	deletedResource []int64
	deletedRequests []int64
	created         []*service.SharedResource
	updatedRes      []*service.SharedResource
	resourceQueries []service.ListQuery
	requestQueries  []service.ListQuery
	updatedRequests []*service.DataShareDataset
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		dataShare: &service.DataShare{
			ID:          42,
			Name:        "sales",
			Description: "sales data",
			TermsOfUse:  "be nice",
			Service:     "dev_hive",
			ACL: &service.ACL{
				Users: map[string]service.Permission{"alice": service.PermissionView},
			},
		},
		svc: &service.ServiceDescriptor{ID: 1, Name: "dev_hive", Type: "hive"},
		def: &service.ServiceDef{
			Name: "hive",
			Resources: []service.ResourceDef{
				{Name: "database", Level: 10, Mandatory: true},
				{Name: "table", Level: 20, Parent: "database", Mandatory: true},
				{Name: "column", Level: 30, Parent: "table"},
			},
			AccessTypes: []service.AccessTypeDef{{Name: "select"}, {Name: "update"}},
		},
	}
}

func (f *fakeAPI) GetDataShare(_ context.Context, id int64) (*service.DataShare, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getCalls++

	if f.dataShareErr != nil {
		return nil, f.dataShareErr
	}

	if f.dataShare.ID != id {
		return nil, fmt.Errorf("no datashare %d", id)
	}

	ds := *f.dataShare

	return &ds, nil
}

func (f *fakeAPI) UpdateDataShare(_ context.Context, ds *service.DataShare) (*service.DataShare, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updated = append(f.updated, ds)

	if f.updateErr != nil {
		return nil, f.updateErr
	}

	cp := *ds
	cp.Version++
	f.dataShare = &cp

	out := cp

	return &out, nil
}

func (f *fakeAPI) DeleteDataShare(_ context.Context, _ int64, forceDelete bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.forceDelete = append(f.forceDelete, forceDelete)

	return f.deleteDataShareErr
}

func (f *fakeAPI) GetServiceByName(_ context.Context, _ string) (*service.ServiceDescriptor, error) {
	return f.svc, f.svcErr
}

func (f *fakeAPI) GetServiceDefByName(_ context.Context, _ string) (*service.ServiceDef, error) {
	return f.def, f.defErr
}

func (f *fakeAPI) ListSharedResources(_ context.Context, q service.ListQuery) (*service.Page[service.SharedResource], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.resourceQueries = append(f.resourceQueries, q)

	if f.resourcesErr != nil {
		return nil, f.resourcesErr
	}

	return page(f.resources, q), nil
}

func (f *fakeAPI) CreateSharedResource(_ context.Context, r *service.SharedResource) (*service.SharedResource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.created = append(f.created, r)

	if f.createResourceErr != nil {
		return nil, f.createResourceErr
	}

	cp := *r
	cp.ID = int64(100 + len(f.resources))
	f.resources = append(f.resources, cp)

	return &cp, nil
}

func (f *fakeAPI) UpdateSharedResource(_ context.Context, r *service.SharedResource) (*service.SharedResource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updatedRes = append(f.updatedRes, r)

	return r, nil
}

func (f *fakeAPI) DeleteSharedResource(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deletedResource = append(f.deletedResource, id)

	if f.deleteResourceErr != nil {
		return f.deleteResourceErr
	}

	for i, r := range f.resources {
		if r.ID == id {
			f.resources = append(f.resources[:i], f.resources[i+1:]...)
			break
		}
	}

	return nil
}

func (f *fakeAPI) ListDataShareDatasets(_ context.Context, q service.ListQuery) (*service.Page[service.DataShareDataset], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requestQueries = append(f.requestQueries, q)

	if f.requestsErr != nil {
		return nil, f.requestsErr
	}

	return page(f.requests, q), nil
}

func (f *fakeAPI) UpdateDataShareDataset(_ context.Context, d *service.DataShareDataset) (*service.DataShareDataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updatedRequests = append(f.updatedRequests, d)

	if f.updateRequestErr != nil {
		return nil, f.updateRequestErr
	}

	for i := range f.requests {
		if f.requests[i].ID == d.ID {
			f.requests[i] = *d
		}
	}

	cp := *d

	return &cp, nil
}

func (f *fakeAPI) DeleteDataShareDataset(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deletedRequests = append(f.deletedRequests, id)

	return f.deleteRequestErr
}

func page[T any](items []T, q service.ListQuery) *service.Page[T] {
	start := q.StartIndex
	if start > len(items) {
		start = len(items)
	}

	end := start + q.PageSize
	if end > len(items) || end < start {
		end = len(items)
	}

	list := append([]T{}, items[start:end]...)

	return &service.Page[T]{
		List:       list,
		StartIndex: q.StartIndex,
		PageSize:   q.PageSize,
		TotalCount: len(items),
		ResultSize: len(list),
	}
}

func resourcesN(n int) []service.SharedResource {
	out := make([]service.SharedResource, 0, n)

	for i := 1; i <= n; i++ {
		out = append(out, service.SharedResource{
			ID:          int64(i),
			Name:        fmt.Sprintf("r%d", i),
			DataShareID: 42,
			Resource: map[string]service.PolicyResource{
				"database": {Values: []string{"sales"}},
			},
			AccessTypes:   []string{"select"},
			ConditionExpr: "IS_ACCESSED_BEFORE('2030-01-01')",
		})
	}

	return out
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

var (
	admin  = service.Actor{Name: "bob", Permission: service.PermissionAdmin}
	viewer = service.Actor{Name: "carol", Permission: service.PermissionView}
)
