package apifootball

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/topcornerhq/topcorner/internal/platform/resilience"
	"github.com/topcornerhq/topcorner/internal/usecase"
)

const fixturePayload = `{
	"get": "fixtures",
	"errors": [],
	"results": 1,
	"response": [
		{
			"fixture": {"id": 710551, "date": "2026-08-28T19:00:00+00:00", "status": {"short": "FT", "elapsed": 90}},
			"league": {"name": "Premier League"},
			"teams": {"home": {"name": "Arsenal"}, "away": {"name": "Tottenham"}},
			"goals": {"home": 2, "away": 1}
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		Timeout:    2 * time.Second,
		MaxRetries: 0,
	})
	return client, server
}

func TestFetchLiveFixtures(t *testing.T) {
	var gotKey, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-apisports-key")
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(fixturePayload))
	})

	fixtures, err := client.FetchLiveFixtures(context.Background())
	if err != nil {
		t.Fatalf("FetchLiveFixtures: %v", err)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header = %q", gotKey)
	}
	if gotQuery != "live=all" {
		t.Fatalf("query = %q, want live=all", gotQuery)
	}

	if len(fixtures) != 1 {
		t.Fatalf("fixtures = %d, want 1", len(fixtures))
	}
	f := fixtures[0]
	if f.MatchID != 710551 || f.HomeTeam != "Arsenal" || f.AwayTeam != "Tottenham" {
		t.Fatalf("mapped fixture = %+v", f)
	}
	if f.HomeGoals != 2 || f.AwayGoals != 1 || f.Status != "FT" || f.Elapsed != 90 {
		t.Fatalf("mapped score = %+v", f)
	}
	if !f.Finished() {
		t.Fatal("FT fixture must report finished")
	}
	if f.KickoffAt.IsZero() {
		t.Fatal("kickoff must parse")
	}
}

func TestFetchFixturesByIDsChunksRequests(t *testing.T) {
	var mu sync.Mutex
	var idParams []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		idParams = append(idParams, r.URL.Query().Get("ids"))
		mu.Unlock()
		_, _ = w.Write([]byte(`{"response": []}`))
	})

	ids := make([]int64, 45)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	if _, err := client.FetchFixturesByIDs(context.Background(), ids); err != nil {
		t.Fatalf("FetchFixturesByIDs: %v", err)
	}

	if len(idParams) != 3 {
		t.Fatalf("requests = %d, want 3 chunks for 45 ids", len(idParams))
	}
	for _, param := range idParams {
		if n := len(strings.Split(param, "-")); n > fixtureIDChunkSize {
			t.Fatalf("chunk carries %d ids, cap is %d", n, fixtureIDChunkSize)
		}
	}
}

func TestFetchFixturesByIDsSurvivesFailedChunk(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		first := strings.SplitN(r.URL.Query().Get("ids"), "-", 2)[0]
		if first == "21" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"response": [
			{
				"fixture": {"id": ` + first + `, "date": "2026-08-28T19:00:00+00:00", "status": {"short": "FT", "elapsed": 90}},
				"league": {"name": "Premier League"},
				"teams": {"home": {"name": "Arsenal"}, "away": {"name": "Tottenham"}},
				"goals": {"home": 2, "away": 1}
			}
		]}`))
	})

	ids := make([]int64, 45)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	fixtures, err := client.FetchFixturesByIDs(context.Background(), ids)
	if err != nil {
		t.Fatalf("FetchFixturesByIDs: %v", err)
	}

	if len(fixtures) != 2 {
		t.Fatalf("fixtures = %d, want 2 from the surviving chunks", len(fixtures))
	}
	seen := make(map[int64]bool, len(fixtures))
	for _, f := range fixtures {
		seen[f.MatchID] = true
	}
	if !seen[1] || !seen[41] {
		t.Fatalf("missing fixtures from healthy chunks: %v", seen)
	}
	if seen[21] {
		t.Fatalf("fixture from the failed chunk should be absent")
	}
}

func TestFetchFixturesByIDsAllChunksFailed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	ids := make([]int64, 45)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	if _, err := client.FetchFixturesByIDs(context.Background(), ids); err == nil {
		t.Fatalf("expected error when every chunk fails")
	}
}

func TestFetchFixturesByIDsEmptyInput(t *testing.T) {
	client := NewClient(ClientConfig{APIKey: "k"})
	fixtures, err := client.FetchFixturesByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchFixturesByIDs: %v", err)
	}
	if fixtures != nil {
		t.Fatalf("fixtures = %v, want nil", fixtures)
	}
}

func TestExecuteRequestRetriesTransientStatus(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(fixturePayload))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		MaxRetries: 2,
	})

	fixtures, err := client.FetchLiveFixtures(context.Background())
	if err != nil {
		t.Fatalf("FetchLiveFixtures: %v", err)
	}
	if len(fixtures) != 1 {
		t.Fatalf("fixtures = %d, want 1", len(fixtures))
	}
	if hits.Load() != 2 {
		t.Fatalf("hits = %d, want a retry after 429", hits.Load())
	}
}

func TestExecuteRequestDoesNotRetryClientError(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"invalid key"}`))
	})

	if _, err := client.FetchLiveFixtures(context.Background()); err == nil {
		t.Fatal("expected an error for 403")
	}
	if hits.Load() != 1 {
		t.Fatalf("hits = %d, want no retries on 403", hits.Load())
	}
}

func TestCircuitBreakerRejectsWhenOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		if _, err := client.FetchLiveFixtures(context.Background()); err == nil {
			t.Fatal("expected provider failure")
		}
	}

	_, err := client.FetchLiveFixtures(context.Background())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("err = %v, want ErrDependencyUnavailable once the circuit opens", err)
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	got := sanitizeSensitiveText("dial failed for key abc123 x-apisports-key: abc123", "abc123")
	if strings.Contains(got, "abc123") {
		t.Fatalf("key leaked: %q", got)
	}
}
