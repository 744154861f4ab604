package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/navikt/gds-console/pkg/errs"
	"github.com/navikt/gds-console/pkg/service"
	"github.com/navikt/gds-console/pkg/service/core/api/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackAPI_InformDataShareDeleted(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	api := slack.NewSlackAPI(srv.URL, "https://ranger.example.com", "#gds")

	err := api.InformDataShareDeleted(context.Background(), &service.DataShare{ID: 42, Name: "sales", Service: "dev_hive"}, "bob")
	require.NoError(t, err)

	assert.Equal(t, "#gds", got["channel"])
	assert.Contains(t, got["text"], "bob har slettet datashare *sales* (id 42)")
	assert.Contains(t, got["text"], "https://ranger.example.com/gds/mydatasharelisting")
}

func TestSlackAPI_WebhookFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	api := slack.NewSlackAPI(srv.URL, "", "")

	err := api.InformDataShareDeleted(context.Background(), &service.DataShare{ID: 1}, "bob")
	require.Error(t, err)
	assert.True(t, errs.KindIs(errs.IO, err))
}
