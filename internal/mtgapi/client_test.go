package mtgapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/xcube/pkg/types"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(
		WithBaseURL(srv.URL+"/"),
		WithHTTPClient(srv.Client()),
		WithRetry(3, 5*time.Second),
		WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	)
}

func TestClient_CardsPaginates(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cards", r.URL.Path)
		assert.Equal(t, "Sol Ring", r.URL.Query().Get("name"))
		assert.Equal(t, strconv.Itoa(PageSize), r.URL.Query().Get("pageSize"))
		page := r.URL.Query().Get("page")
		pages = append(pages, page)

		n := 0
		switch page {
		case "1":
			n = PageSize
		case "2":
			n = 3
		}
		cards := make([]types.Printing, n)
		for i := range cards {
			cards[i] = types.Printing{Name: "Sol Ring", SetCode: "LEA", Number: fmt.Sprint(i)}
		}
		json.NewEncoder(w).Encode(map[string]any{"cards": cards})
	}))
	defer srv.Close()

	got, err := newTestClient(srv).Cards(context.Background(), "Sol Ring")
	require.NoError(t, err)
	assert.Len(t, got, PageSize+3)
	assert.Equal(t, []string{"1", "2"}, pages, "stops after a short page")
}

func TestClient_SetsJoinsTypes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sets", r.URL.Path)
		assert.Equal(t, "core,expansion", r.URL.Query().Get("type"))
		w.Write([]byte(`{"sets":[{"code":"LEB","name":"Limited Edition Beta","type":"core","releaseDate":"1993-10-04"}]}`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv).Sets(context.Background(), []string{"core", "expansion"})
	require.NoError(t, err)
	assert.Equal(t, []types.Set{{Code: "LEB", Name: "Limited Edition Beta", Type: "core", ReleaseDate: "1993-10-04"}}, got)
}

func TestClient_DecodesMultiFaceNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cards":[{"name":"Fire","names":["Fire","Ice"],"set":"APC","number":"128a","layout":"split"}]}`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv).Cards(context.Background(), "Fire")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"Fire", "Ice"}, got[0].Names)
	assert.Equal(t, "split", got[0].Layout)
}

func TestClient_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"cards":[]}`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv).Cards(context.Background(), "Mana Crypt")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_GivesUpAfterMaxTries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Cards(context.Background(), "Mana Crypt")
	var se *StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, se.Status)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Sets(context.Background(), nil)
	var se *StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cards":`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Cards(context.Background(), "Sol Ring")
	assert.ErrorContains(t, err, "decode cards")
}
