package sslapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
	"github.com/riskibarqy/ssl-bot/internal/platform/resilience"
	"github.com/riskibarqy/ssl-bot/internal/usecase"
)

func newTestClient(baseURL string, retries int, breaker resilience.CircuitBreakerConfig) *Client {
	return NewClient(ClientConfig{
		BaseURL:        baseURL,
		Timeout:        2 * time.Second,
		MaxRetries:     retries,
		RetryWaitMin:   time.Millisecond,
		RetryWaitMax:   2 * time.Millisecond,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestFetchStandings_SendsQueryAndNormalizes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != standingsPath {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("season"); got != "24" {
			t.Errorf("season query mismatch: %q", got)
		}
		if got := r.URL.Query().Get("league"); got != "1" {
			t.Errorf("league query mismatch: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"team":"Tokyo S.C.","p":30,"gd":10,"gf":25,"matchday":"1","matchtype":1},{"team":"Cairo City","p":12,"matchday":"2","matchtype":"1"}]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 0, resilience.DefaultCircuitBreakerConfig())
	rows, err := client.FetchStandings(context.Background(), 24, 1)
	if err != nil {
		t.Fatalf("fetch standings: %v", err)
	}
	if len(rows) != 2 || rows[0].Team != "Tokyo S.C." || rows[1].Points != 12 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestFetchStandings_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 2, resilience.DefaultCircuitBreakerConfig())
	rows, err := client.FetchStandings(context.Background(), 23, 2)
	if err != nil {
		t.Fatalf("fetch standings: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", got)
	}
}

func TestFetchStandings_UpstreamFailureOpensBreaker(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 0, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	_, err := client.FetchStandings(context.Background(), 23, 1)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	_, err = client.FetchStandings(context.Background(), 23, 1)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable from open breaker, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("open breaker must not reach upstream, calls=%d", got)
	}
}

// blockingUpstream fails the first request, then parks every later request
// until release is called.
type blockingUpstream struct {
	srv      *httptest.Server
	calls    atomic.Int32
	arrived  chan struct{}
	gate     chan struct{}
	openGate sync.Once
}

func newBlockingUpstream(t *testing.T) *blockingUpstream {
	t.Helper()

	u := &blockingUpstream{
		arrived: make(chan struct{}, 8),
		gate:    make(chan struct{}),
	}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u.calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		u.arrived <- struct{}{}
		<-u.gate
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(func() {
		u.release()
		u.srv.Close()
	})
	return u
}

func (u *blockingUpstream) release() {
	u.openGate.Do(func() { close(u.gate) })
}

func (u *blockingUpstream) waitArrival(t *testing.T) {
	t.Helper()
	select {
	case <-u.arrived:
	case <-time.After(2 * time.Second):
		t.Fatal("upstream request never arrived")
	}
}

func TestFetchStandings_SharedHalfOpenRequestClosesBreaker(t *testing.T) {
	t.Parallel()

	upstream := newBlockingUpstream(t)
	client := newTestClient(upstream.srv.URL, 0, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      50 * time.Millisecond,
		HalfOpenMaxReq:   2,
	})

	if _, err := client.FetchStandings(context.Background(), 24, 1); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if got := client.breaker.State(); got != resilience.CircuitStateOpen {
		t.Fatalf("expected open breaker, got %s", got)
	}
	time.Sleep(80 * time.Millisecond)

	errs := make(chan error, 2)
	fetch := func() {
		_, err := client.FetchStandings(context.Background(), 24, 1)
		errs <- err
	}
	go fetch()
	upstream.waitArrival(t)
	go fetch()
	time.Sleep(20 * time.Millisecond)
	upstream.release()

	for range 2 {
		if err := <-errs; err != nil {
			t.Fatalf("concurrent half-open fetch: %v", err)
		}
	}
	// A shared request counts as one half-open trial, so one more success is
	// needed before the breaker closes.
	if _, err := client.FetchStandings(context.Background(), 24, 2); err != nil {
		t.Fatalf("follow-up fetch: %v", err)
	}
	if got := client.breaker.State(); got != resilience.CircuitStateClosed {
		t.Fatalf("expected breaker to close after half-open successes, got %s", got)
	}
}

func TestFetchStandings_CallerCancelDoesNotFailSharedRequest(t *testing.T) {
	t.Parallel()

	upstream := newBlockingUpstream(t)
	upstream.calls.Store(1)
	client := newTestClient(upstream.srv.URL, 0, resilience.DefaultCircuitBreakerConfig())

	cancelCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	canceled := make(chan error, 1)
	go func() {
		_, err := client.FetchStandings(cancelCtx, 24, 1)
		canceled <- err
	}()
	upstream.waitArrival(t)

	survivor := make(chan error, 1)
	go func() {
		_, err := client.FetchStandings(context.Background(), 24, 1)
		survivor <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	select {
	case err := <-canceled:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled for the canceled caller, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("canceled caller did not return")
	}

	upstream.release()
	if err := <-survivor; err != nil {
		t.Fatalf("other caller must still get the table: %v", err)
	}
	if got := client.breaker.State(); got != resilience.CircuitStateClosed {
		t.Fatalf("expected closed breaker, got %s", got)
	}
}

func TestFetchStandings_MalformedPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"team":"Tokyo S.C."}]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 0, resilience.DefaultCircuitBreakerConfig())
	_, err := client.FetchStandings(context.Background(), 23, 1)
	if !errors.Is(err, usecase.ErrMalformedData) {
		t.Fatalf("expected ErrMalformedData, got %v", err)
	}
}

func TestFetchDraftClass_AcademyOmitsClass(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != draftClassPath {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Has("class") {
			t.Errorf("academy request must not send class")
		}
		_, _ = w.Write([]byte(`[{"tpe":900,"name":"Rookie","username":"r1"}]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 0, resilience.DefaultCircuitBreakerConfig())
	rows, err := client.FetchDraftClass(context.Background(), nil)
	if err != nil {
		t.Fatalf("fetch draft class: %v", err)
	}
	if len(rows) != 1 || rows[0].TPE != 900 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestFetchDraftClass_RejectsNonPositiveClass(t *testing.T) {
	t.Parallel()

	client := newTestClient("http://127.0.0.1:1", 0, resilience.DefaultCircuitBreakerConfig())
	class := 0
	if _, err := client.FetchDraftClass(context.Background(), &class); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
