package formapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-blueprint/components/formapi"
	"github.com/goliatone/go-blueprint/pkg/lookup"
	"github.com/goliatone/go-blueprint/pkg/projection"
	"github.com/goliatone/go-blueprint/pkg/rules"
	"github.com/goliatone/go-blueprint/pkg/schema"
	"github.com/goliatone/go-blueprint/pkg/store"
)

func testBlueprint() *schema.Blueprint {
	return &schema.Blueprint{
		Key:    "company_request",
		Name:   "Company Request",
		Status: schema.StatusActive,
		Fields: []schema.Field{
			{
				Name:        "companyName",
				Label:       "Company name",
				DataType:    schema.DataTypeString,
				Required:    true,
				Normalizers: []string{"trim"},
				Rules: []schema.Rule{
					{Type: "required", OrderIndex: 0},
					{Type: lookup.RuleUniqueWorkspaceName, OrderIndex: 1},
				},
			},
		},
	}
}

func newServer(t *testing.T, services lookup.Services, fns ...formapi.OptionFn) *httptest.Server {
	t.Helper()
	memory, err := store.NewMemory(testBlueprint())
	require.NoError(t, err)

	options := []formapi.OptionFn{
		formapi.WithProjection(projection.New(memory)),
		formapi.WithEvaluator(rules.New(memory, rules.WithLookups(lookup.NewRegistry(services)))),
	}
	options = append(options, fns...)

	mux := http.NewServeMux()
	require.NoError(t, formapi.RegisterRoutes(mux, "/api", options...))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestListBlueprints(t *testing.T) {
	server := newServer(t, lookup.NewMemory())

	resp, err := http.Get(server.URL + "/api/blueprints?status=active")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list projection.List
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "company_request", list.Items[0].Key)
	assert.NotNil(t, list.Items[0].InitialValues, "fields default to included")
}

func TestGetBlueprint(t *testing.T) {
	server := newServer(t, lookup.NewMemory())

	resp, err := http.Get(server.URL + "/api/blueprints/company_request")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var bp projection.Blueprint
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bp))
	assert.Equal(t, "company_request", bp.Key)
	require.Len(t, bp.Fields, 1)
	require.Len(t, bp.Fields[0].Rules, 2)
}

func TestGetBlueprintNotFound(t *testing.T) {
	server := newServer(t, lookup.NewMemory())

	resp, err := http.Get(server.URL + "/api/blueprints/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidateField(t *testing.T) {
	services := lookup.NewMemory()
	services.AddWorkspace("acme inc")
	server := newServer(t, services)

	body := `{"field": "companyName", "value": "Acme Inc", "context": {"values": {}}}`
	resp, err := http.Post(server.URL+"/api/blueprints/company_request/validate", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var verdict rules.Verdict
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&verdict))
	assert.False(t, verdict.Valid)
	require.Len(t, verdict.Errors, 1)
	assert.Contains(t, verdict.Errors[0].Message, "already exists")
}

func TestValidateFieldUnknownBlueprint(t *testing.T) {
	server := newServer(t, lookup.NewMemory())

	body := `{"field": "companyName", "value": "x"}`
	resp, err := http.Post(server.URL+"/api/blueprints/missing/validate", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidateFieldLookupFailureIsBadGateway(t *testing.T) {
	memory, err := store.NewMemory(testBlueprint())
	require.NoError(t, err)

	registry := lookup.NewRegistry(nil)
	registry.Register(lookup.RuleUniqueWorkspaceName, func(ctx context.Context, value string) (bool, error) {
		return false, errors.New("connection refused")
	})

	mux := http.NewServeMux()
	require.NoError(t, formapi.RegisterRoutes(mux, "/api",
		formapi.WithProjection(projection.New(memory)),
		formapi.WithEvaluator(rules.New(memory, rules.WithLookups(registry))),
	))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	body := `{"field": "companyName", "value": "Acme"}`
	resp, err := http.Post(server.URL+"/api/blueprints/company_request/validate", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestValidateFieldBadRequest(t *testing.T) {
	server := newServer(t, lookup.NewMemory())

	resp, err := http.Post(server.URL+"/api/blueprints/company_request/validate", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(server.URL+"/api/blueprints/company_request/validate", "application/json", strings.NewReader(`{"value": "x"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGuardRejectsRequests(t *testing.T) {
	server := newServer(t, lookup.NewMemory(), formapi.WithGuard(func(r *http.Request) error {
		return formapi.StatusError{Code: http.StatusUnauthorized}
	}))

	resp, err := http.Get(server.URL + "/api/blueprints")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIncludeFlags(t *testing.T) {
	server := newServer(t, lookup.NewMemory())

	resp, err := http.Get(server.URL + "/api/blueprints/company_request?includeFields=false")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var bp projection.Blueprint
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bp))
	assert.Empty(t, bp.Fields)
	assert.Nil(t, bp.InitialValues)
}
