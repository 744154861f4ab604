package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/navikt/gds-console/pkg/errs"
	"github.com/navikt/gds-console/pkg/gds"
	"github.com/navikt/gds-console/pkg/service"
	httpapi "github.com/navikt/gds-console/pkg/service/core/api/http"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *gds.Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return gds.New(srv.URL, "admin", "secret", srv.Client())
}

func TestDataShareAPI_GetDataShare(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gds/datashare/42", r.URL.Path)

		_ = json.NewEncoder(w).Encode(gds.DataShare{
			ID:         42,
			Name:       "sales",
			Service:    "dev_hive",
			CreateTime: 1700000000000,
			ACL: &gds.ACL{
				Users:  map[string]string{"alice": "VIEW"},
				Groups: map[string]string{"analysts": "ADMIN"},
			},
		})
	})

	api := httpapi.NewDataShareAPI(client, zerolog.Nop())

	ds, err := api.GetDataShare(context.Background(), 42)
	require.NoError(t, err)

	created := time.UnixMilli(1700000000000).UTC()

	assert.Equal(t, int64(42), ds.ID)
	assert.Equal(t, "sales", ds.Name)
	assert.Equal(t, &created, ds.CreateTime)
	assert.Nil(t, ds.UpdateTime)
	assert.Equal(t, map[string]service.Permission{"alice": service.PermissionView}, ds.ACL.Users)
	assert.Equal(t, map[string]service.Permission{"analysts": service.PermissionAdmin}, ds.ACL.Groups)
	assert.Empty(t, ds.ACL.Roles)
}

func TestDataShareAPI_UpdateDataShare(t *testing.T) {
	var got gds.DataShare

	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/gds/datashare/42", r.URL.Path)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(got)
	})

	api := httpapi.NewDataShareAPI(client, zerolog.Nop())

	updated := time.UnixMilli(1700000000000).UTC()

	ds, err := api.UpdateDataShare(context.Background(), &service.DataShare{
		ID:         42,
		Name:       "sales-v2",
		UpdateTime: &updated,
		ACL:        &service.ACL{Users: map[string]service.Permission{"bob": service.PermissionAdmin}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1700000000000), got.UpdateTime)
	assert.Equal(t, map[string]string{"bob": "ADMIN"}, got.ACL.Users)
	assert.Equal(t, "sales-v2", ds.Name)
}

func TestDataShareAPI_ListDataShareDatasets(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gds/datashare/dataset", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("dataShareId"))
		assert.Equal(t, "5", r.URL.Query().Get("startIndex"))

		_ = json.NewEncoder(w).Encode(gds.DataShareDatasets{
			StartIndex: 5,
			PageSize:   5,
			TotalCount: 6,
			ResultSize: 1,
			List: []gds.DataShareDataset{
				{ID: 7, DataShareID: 42, DatasetID: 3, DatasetName: "orders", Status: "ACTIVE"},
			},
		})
	})

	api := httpapi.NewDataShareAPI(client, zerolog.Nop())

	page, err := api.ListDataShareDatasets(context.Background(), service.ListQuery{
		DataShareID: 42,
		Page:        1,
		PageSize:    5,
		StartIndex:  5,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, page.TotalCount)
	assert.Equal(t, []service.DataShareDataset{
		{ID: 7, DataShareID: 42, DatasetID: 3, DatasetName: "orders", Status: service.DataShareDatasetStatusActive},
	}, page.List)
}

func TestDataShareAPI_UpdateDataShareDataset(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/gds/datashare/dataset/8", r.URL.Path)

		in := &gds.DataShareDataset{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(in))
		assert.Equal(t, "GRANTED", in.Status)
		assert.Equal(t, int64(0), in.CreateTime)

		_ = json.NewEncoder(w).Encode(in)
	})

	api := httpapi.NewDataShareAPI(client, zerolog.Nop())

	got, err := api.UpdateDataShareDataset(context.Background(), &service.DataShareDataset{
		ID:          8,
		DataShareID: 42,
		DatasetID:   4,
		Status:      service.DataShareDatasetStatusGranted,
		Approver:    "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, &service.DataShareDataset{
		ID:          8,
		DataShareID: 42,
		DatasetID:   4,
		Status:      service.DataShareDatasetStatusGranted,
		Approver:    "alice",
	}, got)
}

func TestDataShareAPI_ErrorKinds(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		expect errs.Kind
	}{
		{name: "bad request", status: http.StatusBadRequest, expect: errs.InvalidRequest},
		{name: "unauthenticated", status: http.StatusUnauthorized, expect: errs.Unauthenticated},
		{name: "forbidden", status: http.StatusForbidden, expect: errs.Unauthorized},
		{name: "not found", status: http.StatusNotFound, expect: errs.NotExist},
		{name: "conflict", status: http.StatusConflict, expect: errs.Conflict},
		{name: "server error", status: http.StatusInternalServerError, expect: errs.IO},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"statusCode":1,"msgDesc":"datashare is in use"}`))
			})

			api := httpapi.NewDataShareAPI(client, zerolog.Nop())

			err := api.DeleteSharedResource(context.Background(), 3)
			require.Error(t, err)
			assert.True(t, errs.KindIs(tc.expect, err))

			var d interface{ Description() string }
			require.ErrorAs(t, err, &d)
			assert.Equal(t, "datashare is in use", d.Description())
		})
	}
}

func TestDataShareAPI_Metrics(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})

	api := httpapi.NewDataShareAPI(client, zerolog.Nop())

	_ = api.DeleteDataShareDataset(context.Background(), 1)
	_ = api.DeleteDataShareDataset(context.Background(), 2)

	collectors := api.Metrics()
	require.Len(t, collectors, 2)

	assert.Equal(t, 1, testutil.CollectAndCount(collectors[0]))
	assert.Equal(t, 1, testutil.CollectAndCount(collectors[1]))
	assert.Equal(t, float64(2), testutil.ToFloat64(collectors[1]))
}
