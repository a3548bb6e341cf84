package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dappshell/internal/appstate"
	"dappshell/internal/contract"
	"dappshell/internal/models"
	"dappshell/internal/storage"
	"dappshell/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandle struct{}

func (stubHandle) Address() string { return "0x5FbDB2315678afecb367f032d93F642f64180aa3" }
func (stubHandle) OpenProposalRegistration(ctx context.Context) (contract.Value, error) {
	return contract.Value{}, nil
}
func (stubHandle) CurrentSessionStatus(ctx context.Context) (contract.Value, error) {
	return contract.Value{}, nil
}

type failingRepository struct {
	*storage.MemoryRepository
}

func (failingRepository) Ping(ctx context.Context) error {
	return errors.New("connection refused")
}

func newTestServer(t *testing.T, repo storage.Repository) (*Server, *appstate.Store) {
	t.Helper()
	shell, err := view.NewShell()
	require.NoError(t, err)

	store := appstate.NewStore()
	return NewServer(0, repo, store, shell, Info{RPCURL: "http://127.0.0.1:8545", ChainKind: "evm"}), store
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestIndexRendersShell(t *testing.T) {
	repo := storage.NewMemoryRepository(0)
	server, store := newTestServer(t, repo)

	rec := get(t, server, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Waiting for the contract to be bound.")

	store.SetContract(stubHandle{}, "5777", "")
	require.NoError(t, repo.SaveProbeOutcome(context.Background(), &models.ProbeOutcome{
		Generation:    1,
		SessionStatus: "VotesTallied",
		StartedAt:     time.Now(),
	}))

	rec = get(t, server, "/")
	body := rec.Body.String()
	assert.Contains(t, body, "VotesTallied")
	assert.Less(t, strings.Index(body, `id="intro"`), strings.Index(body, `id="footer"`))
}

func TestUnknownPathIsNotFound(t *testing.T) {
	server, _ := newTestServer(t, storage.NewMemoryRepository(0))

	rec := get(t, server, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t, storage.NewMemoryRepository(0))

	rec := get(t, server, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var health models.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
	assert.Equal(t, "healthy", health.Status)
	assert.False(t, health.ContractPresent)

	server, _ = newTestServer(t, failingRepository{storage.NewMemoryRepository(0)})
	rec = get(t, server, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestState(t *testing.T) {
	server, store := newTestServer(t, storage.NewMemoryRepository(0))
	store.SetContract(stubHandle{}, "5777", "0xcaller")

	rec := get(t, server, "/state")
	require.Equal(t, http.StatusOK, rec.Code)

	var state models.StateView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	assert.True(t, state.ContractPresent)
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", state.ContractAddress)
	assert.Equal(t, uint64(1), state.Generation)
}

func TestProbesEndpoints(t *testing.T) {
	repo := storage.NewMemoryRepository(0)
	server, _ := newTestServer(t, repo)

	rec := get(t, server, "/probes/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, server, "/probes")
	require.Equal(t, http.StatusOK, rec.Code)
	var list models.ProbeListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Equal(t, 0, list.Count)
	assert.NotNil(t, list.Probes)

	base := time.Now()
	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.SaveProbeOutcome(context.Background(), &models.ProbeOutcome{
			Generation: uint64(i),
			StartedAt:  base.Add(time.Duration(i) * time.Second),
		}))
	}

	rec = get(t, server, "/probes?limit=2&offset=0")
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, 2, list.Limit)
	assert.Equal(t, uint64(3), list.Probes[0].Generation)

	rec = get(t, server, "/probes/latest")
	require.Equal(t, http.StatusOK, rec.Code)
	var latest models.ProbeOutcome
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&latest))
	assert.Equal(t, uint64(3), latest.Generation)
}

func TestMetricsEndpoint(t *testing.T) {
	server, _ := newTestServer(t, storage.NewMemoryRepository(0))

	rec := get(t, server, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
