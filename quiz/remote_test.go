package quiz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemoteProvider(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/profession-tests/military-professions":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(militaryProfessions)
		case "/profession-tests/flaky":
			if calls.Load() == 2 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write(militaryProfessions)
		case "/profession-tests/broken":
			_, _ = w.Write([]byte(`{"test_id": "broken", "questions": []}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := NewRemoteProvider(srv.URL, "secret", DefaultTestID)

	ds, err := p.Dataset(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, DefaultTestID, ds.TestID)
	require.Len(t, ds.Questions, 2)

	ds, err = p.Dataset(context.Background(), "flaky")
	require.NoError(t, err)
	require.Len(t, ds.Questions, 2)
	require.EqualValues(t, 3, calls.Load())

	_, err = p.Dataset(context.Background(), "missing")
	require.ErrorIs(t, err, ErrUnknownTest)

	_, err = p.Dataset(context.Background(), "broken")
	require.ErrorIs(t, err, ErrInvalidDataset)
}

func TestRemoteProviderCallerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer cadet-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write(militaryProfessions)
	}))
	defer srv.Close()

	anonymous := NewRemoteProvider(srv.URL, "", DefaultTestID)
	_, err := anonymous.Dataset(context.Background(), "")
	require.Error(t, err)

	ds, err := anonymous.Dataset(WithToken(context.Background(), "cadet-token"), "")
	require.NoError(t, err)
	require.Equal(t, DefaultTestID, ds.TestID)

	// the caller's token wins over the configured one
	service := NewRemoteProvider(srv.URL, "service-token", DefaultTestID)
	_, err = service.Dataset(context.Background(), "")
	require.Error(t, err)
	_, err = service.Dataset(WithToken(context.Background(), "cadet-token"), "")
	require.NoError(t, err)

	require.Empty(t, TokenFromContext(WithToken(context.Background(), "")))
}
