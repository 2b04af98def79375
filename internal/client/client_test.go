package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbuslabs/waitlist-service/domain/waitlist"
)

func testDraft() waitlist.Draft {
	return waitlist.Draft{
		Name:        "Jordan Rivers",
		Email:       "jordan@example.com",
		PhoneNumber: "5551234567",
		HowHeard:    "instagram",
	}
}

func TestSignupSendsDraftAndLocale(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/waitlist", r.URL.Path)
		assert.Equal(t, "es", r.Header.Get("Accept-Language"))

		var req waitlist.SignupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "jordan@example.com", req.Email)
		assert.Equal(t, "instagram", req.HowHeard)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"code":201,"data":{"id":1},"message":"You're on the list!"}`))
	}))
	defer server.Close()

	err := New(server.URL, "es").Signup(context.Background(), testDraft())
	assert.NoError(t, err)
}

func TestSignupSurfacesFieldErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":400,"data":[{"field":"email","message":"Enter a valid email address."}],"message":"Something went wrong"}`))
	}))
	defer server.Close()

	err := New(server.URL, "").Signup(context.Background(), testDraft())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Something went wrong", apiErr.Message)
	assert.Equal(t, "Enter a valid email address.", apiErr.FieldErrors["email"])
}

func TestSignupHandlesNonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	err := New(server.URL, "").Signup(context.Background(), testDraft())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
