package mock

import (
	"context"

	"github.com/navikt/gds-console/pkg/service"
	"github.com/stretchr/testify/mock"
)

var _ service.DataShareAPI = &DataShareAPIMock{}

type DataShareAPIMock struct {
	mock.Mock
}

func (m *DataShareAPIMock) GetDataShare(ctx context.Context, id int64) (*service.DataShare, error) {
	args := m.Called(ctx, id)
	ds, _ := args.Get(0).(*service.DataShare)

	return ds, args.Error(1)
}

func (m *DataShareAPIMock) UpdateDataShare(ctx context.Context, ds *service.DataShare) (*service.DataShare, error) {
	args := m.Called(ctx, ds)
	updated, _ := args.Get(0).(*service.DataShare)

	return updated, args.Error(1)
}

func (m *DataShareAPIMock) DeleteDataShare(ctx context.Context, id int64, forceDelete bool) error {
	args := m.Called(ctx, id, forceDelete)
	return args.Error(0)
}

func (m *DataShareAPIMock) GetServiceByName(ctx context.Context, name string) (*service.ServiceDescriptor, error) {
	args := m.Called(ctx, name)
	svc, _ := args.Get(0).(*service.ServiceDescriptor)

	return svc, args.Error(1)
}

func (m *DataShareAPIMock) GetServiceDefByName(ctx context.Context, name string) (*service.ServiceDef, error) {
	args := m.Called(ctx, name)
	def, _ := args.Get(0).(*service.ServiceDef)

	return def, args.Error(1)
}

func (m *DataShareAPIMock) ListSharedResources(ctx context.Context, q service.ListQuery) (*service.Page[service.SharedResource], error) {
	args := m.Called(ctx, q)
	page, _ := args.Get(0).(*service.Page[service.SharedResource])

	return page, args.Error(1)
}

func (m *DataShareAPIMock) CreateSharedResource(ctx context.Context, r *service.SharedResource) (*service.SharedResource, error) {
	args := m.Called(ctx, r)
	created, _ := args.Get(0).(*service.SharedResource)

	return created, args.Error(1)
}

func (m *DataShareAPIMock) UpdateSharedResource(ctx context.Context, r *service.SharedResource) (*service.SharedResource, error) {
	args := m.Called(ctx, r)
	updated, _ := args.Get(0).(*service.SharedResource)

	return updated, args.Error(1)
}

func (m *DataShareAPIMock) DeleteSharedResource(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *DataShareAPIMock) ListDataShareDatasets(ctx context.Context, q service.ListQuery) (*service.Page[service.DataShareDataset], error) {
	args := m.Called(ctx, q)
	page, _ := args.Get(0).(*service.Page[service.DataShareDataset])

	return page, args.Error(1)
}

func (m *DataShareAPIMock) UpdateDataShareDataset(ctx context.Context, d *service.DataShareDataset) (*service.DataShareDataset, error) {
	args := m.Called(ctx, d)
	updated, _ := args.Get(0).(*service.DataShareDataset)

	return updated, args.Error(1)
}

func (m *DataShareAPIMock) DeleteDataShareDataset(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ service.DataShareAnnouncer = &DataShareAnnouncerMock{}

type DataShareAnnouncerMock struct {
	mock.Mock
}

func (m *DataShareAnnouncerMock) InformDataShareDeleted(ctx context.Context, ds *service.DataShare, deletedBy string) error {
	args := m.Called(ctx, ds, deletedBy)
	return args.Error(0)
}
