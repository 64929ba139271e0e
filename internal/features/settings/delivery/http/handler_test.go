package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twitch-giveaway-backend/internal/common/middleware"
	"twitch-giveaway-backend/internal/common/signature"
	"twitch-giveaway-backend/internal/features/settings/collector"
	"twitch-giveaway-backend/internal/features/settings/models"
	"twitch-giveaway-backend/internal/features/settings/repository"
	"twitch-giveaway-backend/internal/features/settings/service"
)

const secret = "shared-secret"

type memoryRepo struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
	failWith error
}

func (r *memoryRepo) Get(_ context.Context, id string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	p, ok := r.profiles[id]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return &p, nil
}

func (r *memoryRepo) put(_ context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.BroadcasterID] = *p
	return nil
}

func (r *memoryRepo) Update(_ context.Context, id string, fn func(*models.Profile) error) (*models.Profile, error) {
	return r.update(id, false, fn)
}

func (r *memoryRepo) Upsert(_ context.Context, id string, fn func(*models.Profile) error) (*models.Profile, error) {
	return r.update(id, true, fn)
}

func (r *memoryRepo) update(id string, create bool, fn func(*models.Profile) error) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	p, ok := r.profiles[id]
	if !ok {
		if !create {
			return nil, repository.ErrProfileNotFound
		}
		p = models.Profile{BroadcasterID: id}
	}
	if err := fn(&p); err != nil {
		return nil, err
	}
	r.profiles[id] = p
	return &p, nil
}

type fakeCollector struct {
	mu        sync.Mutex
	creates   []collector.CreateRequest
	createErr error
	endErr    error
}

func (f *fakeCollector) Create(_ context.Context, req collector.CreateRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, req)
	if f.createErr != nil {
		return "", f.createErr
	}
	return fmt.Sprintf("g%d", len(f.creates)), nil
}

func (f *fakeCollector) End(context.Context, string) error { return f.endErr }

type fakeAnnouncer struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeAnnouncer) Announce(_ context.Context, _ *models.Profile, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return nil
}

type testEnv struct {
	router    *gin.Engine
	repo      *memoryRepo
	collector *fakeCollector
	announcer *fakeAnnouncer
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		repo:      &memoryRepo{profiles: make(map[string]models.Profile)},
		collector: &fakeCollector{},
		announcer: &fakeAnnouncer{},
	}
	svc := service.NewSettingsService(env.repo, env.collector, env.announcer, service.NewLottery(), "http://orchestrator/webhook")

	env.router = gin.New()
	env.router.Use(middleware.RequestID(), middleware.HandleErrors())
	NewSettingsHandler(svc, secret).RegisterRoutes(env.router)
	return env
}

func (e *testEnv) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seed(t *testing.T, p models.Profile) {
	t.Helper()
	require.NoError(t, e.repo.put(context.Background(), &p))
}

func (e *testEnv) active(t *testing.T, id string) *string {
	t.Helper()
	p, err := e.repo.Get(context.Background(), id)
	require.NoError(t, err)
	return p.ActiveGiveawayID
}

func strptr(s string) *string { return &s }

const endedBody = `{"type":"giveaway_ended","giveaway_id":"g1","entries":[{"username":"alice"},{"username":"bob","sub_tier":"1000"}],"broadcaster_id":"42","original_command":"!join"}`

func TestWebhook_SignedPayloadClearsActiveID(t *testing.T) {
	env := newEnv(t)
	env.seed(t, models.Profile{BroadcasterID: "42", BroadcasterName: "streamer", ActiveGiveawayID: strptr("g1")})

	w := env.do(http.MethodPost, "/webhook", endedBody, map[string]string{
		signature.Header: signature.Sign(secret, []byte(endedBody)),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, env.active(t, "42"))
	require.Len(t, env.announcer.messages, 1)
	assert.Contains(t, []string{"🎉 Winner is @alice!", "🎉 Winner is @bob!"}, env.announcer.messages[0])
}

func TestWebhook_SignatureMismatchRejected(t *testing.T) {
	env := newEnv(t)
	env.seed(t, models.Profile{BroadcasterID: "42", BroadcasterName: "streamer", ActiveGiveawayID: strptr("g1")})

	w := env.do(http.MethodPost, "/webhook", endedBody, map[string]string{
		signature.Header: signature.Sign("wrong", []byte(endedBody)),
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid Signature", resp["error"])

	require.NotNil(t, env.active(t, "42"))
	assert.Equal(t, "g1", *env.active(t, "42"))
	assert.Empty(t, env.announcer.messages)
}

func TestWebhook_SignatureOverDifferentBodyRejected(t *testing.T) {
	env := newEnv(t)
	env.seed(t, models.Profile{BroadcasterID: "42", ActiveGiveawayID: strptr("g1")})

	reformatted := strings.Replace(endedBody, `"entries":`, `"entries" :`, 1)
	w := env.do(http.MethodPost, "/webhook", reformatted, map[string]string{
		signature.Header: signature.Sign(secret, []byte(endedBody)),
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "g1", *env.active(t, "42"))
}

func TestWebhook_LegacySignatureHeader(t *testing.T) {
	env := newEnv(t)
	env.seed(t, models.Profile{BroadcasterID: "42", ActiveGiveawayID: strptr("g1")})

	w := env.do(http.MethodPost, "/webhook", endedBody, map[string]string{
		signature.LegacyHeader: signature.Sign(secret, []byte(endedBody)),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, env.active(t, "42"))
}

func TestWebhook_UnsignedAccepted(t *testing.T) {
	env := newEnv(t)
	env.seed(t, models.Profile{BroadcasterID: "42", ActiveGiveawayID: strptr("g1")})

	w := env.do(http.MethodPost, "/webhook", endedBody, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, env.active(t, "42"))
}

func TestWebhook_BadBody(t *testing.T) {
	env := newEnv(t)

	w := env.do(http.MethodPost, "/webhook", `{not json`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_OtherEventsIgnored(t *testing.T) {
	env := newEnv(t)
	env.seed(t, models.Profile{BroadcasterID: "42", ActiveGiveawayID: strptr("g1")})

	w := env.do(http.MethodPost, "/webhook", `{"type":"something_else","broadcaster_id":"42","entries":[]}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "g1", *env.active(t, "42"))
}

func TestWebhook_UnknownBroadcasterStillOK(t *testing.T) {
	env := newEnv(t)

	w := env.do(http.MethodPost, "/webhook", endedBody, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.collector.creates)
}

func TestWebhook_LoopWithZeroEntriesRecreates(t *testing.T) {
	env := newEnv(t)
	env.seed(t, models.Profile{
		BroadcasterID:    "42",
		BroadcasterName:  "streamer",
		IsLooping:        true,
		CurrentPrize:     "Key",
		CurrentCommand:   "!join",
		CurrentDuration:  30,
		ActiveGiveawayID: strptr("old"),
	})
	body := `{"type":"giveaway_ended","entries":[],"broadcaster_id":"42","original_command":"!join"}`

	w := env.do(http.MethodPost, "/webhook", body, map[string]string{
		signature.Header: signature.Sign(secret, []byte(body)),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.collector.creates, 1)
	assert.Equal(t, 30, env.collector.creates[0].Duration)
	assert.True(t, env.collector.creates[0].IsLooping)
	assert.Equal(t, "g1", *env.active(t, "42"))
	assert.Empty(t, env.announcer.messages)
}

func TestWebhook_LoopRestartFailureStillOK(t *testing.T) {
	env := newEnv(t)
	env.collector.createErr = collector.ErrUnavailable
	env.seed(t, models.Profile{BroadcasterID: "42", BroadcasterName: "streamer", IsLooping: true, ActiveGiveawayID: strptr("old")})

	w := env.do(http.MethodPost, "/webhook", endedBody, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "old", *env.active(t, "42"))
}

func TestStart(t *testing.T) {
	env := newEnv(t)

	w := env.do(http.MethodPost, "/api/v1/broadcasters/42/giveaway/start",
		`{"command":"!join","duration":60,"message":"GG {user}","prize":"Key","channel":"Streamer"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"id":"g1"}`, w.Body.String())

	w = env.do(http.MethodGet, "/api/v1/broadcasters/42/giveaway/status", "", nil)
	assert.JSONEq(t, `{"active_id":"g1"}`, w.Body.String())
}

func TestStart_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		body   string
		status int
	}{
		{"missing command", nil, `{"duration":60,"message":"m","channel":"c"}`, http.StatusBadRequest},
		{"missing message", nil, `{"command":"!join","duration":60,"channel":"c"}`, http.StatusBadRequest},
		{"collector offline", collector.ErrUnavailable, `{"command":"!join","duration":60,"message":"m","channel":"c"}`, http.StatusServiceUnavailable},
		{"collector error", &collector.APIError{Status: 500, Message: "Failed to join channel"}, `{"command":"!join","duration":60,"message":"m","channel":"c"}`, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			env.collector.createErr = tt.err

			w := env.do(http.MethodPost, "/api/v1/broadcasters/42/giveaway/start", tt.body, nil)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestStatus_NoProfile(t *testing.T) {
	env := newEnv(t)

	w := env.do(http.MethodGet, "/api/v1/broadcasters/42/giveaway/status", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"active_id":null}`, w.Body.String())
}

func TestStorageFailureMapsToStorageError(t *testing.T) {
	env := newEnv(t)
	env.repo.failWith = fmt.Errorf("%w: dial tcp: connection refused", repository.ErrStorage)

	for _, path := range []string{
		"/api/v1/broadcasters/42/giveaway/status",
		"/api/v1/broadcasters/42/weights",
	} {
		w := env.do(http.MethodGet, path, "", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "STORAGE_ERROR", body["code"], path)
	}
}

func TestEnd_NotFound(t *testing.T) {
	env := newEnv(t)
	env.collector.endErr = collector.ErrNotFound
	env.seed(t, models.Profile{BroadcasterID: "42", ActiveGiveawayID: strptr("g1")})

	w := env.do(http.MethodPost, "/api/v1/broadcasters/42/giveaway/end", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPost, "/api/v1/broadcasters/unknown/giveaway/end", `{}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWeightsAndStopLoop(t *testing.T) {
	env := newEnv(t)

	w := env.do(http.MethodGet, "/api/v1/broadcasters/42/weights", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"broadcaster":1000,"moderator":500,"vip":200,"t3":150,"t2":50,"t1":10,"follower":2,"viewer":1}`, w.Body.String())

	w = env.do(http.MethodPut, "/api/v1/broadcasters/42/weights", `{"vip":3}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/v1/broadcasters/42/weights", "", nil)
	assert.JSONEq(t, `{"vip":3}`, w.Body.String())

	w = env.do(http.MethodPut, "/api/v1/broadcasters/42/identity", `{"broadcaster_name":"Streamer","access_token":"tok"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/api/v1/broadcasters/42/giveaway/stop-loop", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/api/v1/broadcasters/unknown/giveaway/stop-loop", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
