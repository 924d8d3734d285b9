package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign_Verify(t *testing.T) {
	payload := []byte(`{"type":"alert.created"}`)
	sig := Sign("topsecret", payload)

	assert.Contains(t, sig, "sha256=")
	assert.True(t, Verify("topsecret", payload, sig))
	assert.False(t, Verify("wrong", payload, sig))
	assert.False(t, Verify("topsecret", []byte("tampered"), sig))
}

func TestSender_SendsSignedPayload(t *testing.T) {
	var gotSignature, gotEvent string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-Centinela-Signature")
		gotEvent = r.Header.Get("X-Centinela-Event")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := NewSender(server.URL, "topsecret")
	err := s.Send(context.Background(), EventPayload{
		Type:      "alert.created",
		Data:      map[string]string{"identity": "Pedro"},
		Timestamp: time.Now(),
	})

	require.NoError(t, err)
	assert.Equal(t, "alert.created", gotEvent)
	assert.True(t, Verify("topsecret", gotBody, gotSignature))

	var payload EventPayload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "alert.created", payload.Type)
}

func TestSender_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	s := NewSender(server.URL, "s")
	err := s.Send(context.Background(), EventPayload{Type: "alert.created"})
	assert.Error(t, err)
}

func TestSender_MissingURL(t *testing.T) {
	s := NewSender("", "s")
	err := s.Send(context.Background(), EventPayload{Type: "alert.created"})
	assert.Error(t, err)
}
