package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/loan_dashboard/internal/apperrors"
	"github.com/SscSPs/loan_dashboard/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", 5*time.Second)
}

func TestListOpportunities_DecodesArrayAndKeepsUnknownAttributes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/opportunities_v2/", r.URL.Path)
		_, _ = io.WriteString(w, `[
			{"id":"a1","name":"Alice","pipeline":"Purchase","monetaryValue":"$1,250,000","actualClosingDate":"2024-03-10T00:00:00Z","followers":["Liz"],"followUpFriday":true,"contactPhone":"555-0101"},
			{"id":"b2","name":"Bob","monetaryValue":null,"actualClosingDate":null,"followers":null}
		]`)
	})

	records, err := NewOpportunityRepository(client).ListOpportunities(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	a := records[0]
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, "1250000", a.MonetaryValue.Decimal.String())
	require.NotNil(t, a.ActualClosingDate)
	assert.Equal(t, "2024-03-10", a.ActualClosingDate.String())
	assert.True(t, a.FollowUpFriday)
	assert.Equal(t, []string{"Liz"}, a.Followers)
	assert.Equal(t, "555-0101", a.Extra["contactPhone"])

	b := records[1]
	assert.False(t, b.MonetaryValue.Valid)
	assert.Nil(t, b.ActualClosingDate)
	assert.False(t, b.HasFollowers())
}

func TestListOpportunities_DecodesEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results":[{"id":"a1"}]}`)
	})

	records, err := NewOpportunityRepository(client).ListOpportunities(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a1", records[0].ID)
}

func TestListOpportunities_ServerErrorIsUpstream(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{"message":"reporting database unavailable"}`)
	})

	_, err := NewOpportunityRepository(client).ListOpportunities(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))
	assert.Contains(t, err.Error(), "reporting database unavailable")
}

func TestFindOpportunityByID_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/opportunities_v2/missing", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := NewOpportunityRepository(client).FindOpportunityByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.False(t, errors.Is(err, apperrors.ErrUpstream))
}

func TestUpdateCustomFields_SendsBody(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/update_custom_fields_v2/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})

	err := NewOpportunityRepository(client).UpdateCustomFields(context.Background(), "a1", "Purchase",
		map[string]any{"stage": "Closed", "followUpFriday": true})
	require.NoError(t, err)
	assert.Equal(t, "a1", got["id"])
	assert.Equal(t, "Purchase", got["pipeline"])
	assert.Equal(t, map[string]any{"stage": "Closed", "followUpFriday": true}, got["updates"])
}

func TestListPipelines_FlattensCatalog(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"pipelines":[
			{"Purchase":[{"id":"s1","name":"Application"},{"id":2,"name":"Underwriting"}]},
			{"Refinance":[{"id":"s9","name":"Closed"}]}
		]}`)
	})

	pipelines, err := NewOpportunityRepository(client).ListPipelines(context.Background())
	require.NoError(t, err)
	require.Len(t, pipelines, 2)

	purchase, ok := domain.FindPipeline(pipelines, "Purchase")
	require.True(t, ok)
	stage, ok := purchase.StageByName("Underwriting")
	require.True(t, ok)
	assert.Equal(t, "2", stage.ID)
}

func TestReadErrorMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"loan_amount":["A valid number is required."],"borrower":["This field may not be blank."]}`)
	})

	err := client.doJSON(context.Background(), http.MethodPost, "/termdata/a1/", map[string]string{}, nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "borrower: This field may not be blank., loan_amount: A valid number is required.", apiErr.Message)
}

func TestDoJSON_EmptyErrorBodyUsesDefaultMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.doJSON(context.Background(), http.MethodGet, "/x", nil, nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, defaultErrorMessage, apiErr.Message)
}

func TestDoJSON_TransportFailureIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	client := NewClient(srv.URL, time.Second)

	err := client.doJSON(context.Background(), http.MethodGet, "/x", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
	assert.Equal(t, 0, StatusCode(err))
}
