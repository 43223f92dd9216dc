package integration

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sephirode/realDesia/api/rest"
	"github.com/Sephirode/realDesia/api/sse"
	"github.com/Sephirode/realDesia/audit"
	"github.com/Sephirode/realDesia/cache"
	"github.com/Sephirode/realDesia/config"
	"github.com/Sephirode/realDesia/game/player"
	mw "github.com/Sephirode/realDesia/middleware"
	"github.com/Sephirode/realDesia/resource"
	"github.com/Sephirode/realDesia/scheduler"
	"github.com/Sephirode/realDesia/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// TestServer wraps a real HTTP server with every subsystem wired together.
type TestServer struct {
	DB      *gorm.DB
	Cache   cache.Cache
	PubSub  cache.PubSub
	SM      *player.SessionManager
	Store   *player.Store
	Audit   *audit.Service
	Sched   *scheduler.Scheduler
	Catalog *resource.Catalog
	Server  *httptest.Server
	URL     string // http://127.0.0.1:<port>
}

// NewTestServer creates a fully wired server over the fixture catalog.
// It mirrors the dependency wiring in main.go.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	return newTestServer(t, testutil.Catalog(t))
}

// NewTestServerWithResources creates a test server that loads definition
// tables from dataPath.
func NewTestServerWithResources(t *testing.T, dataPath string) *TestServer {
	t.Helper()
	catalog, err := resource.NewLoader(dataPath).Load()
	require.NoError(t, err, "failed to load definitions from %s", dataPath)
	return newTestServer(t, catalog)
}

func newTestServer(t *testing.T, catalog *resource.Catalog) *TestServer {
	gin.SetMode(gin.TestMode)

	// ---- Infrastructure ----
	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	pubsub := testutil.SetupTestPubSub(t)
	logger := zap.NewNop()
	cfg := config.Default()
	cfg.Game.StartItems = []config.ItemStack{{Name: "Potion", Count: 3}}

	auditSvc := audit.NewWithOptions(db, logger, audit.Options{FlushInterval: 20 * time.Millisecond})

	// ---- Game Systems ----
	sm := player.NewSessionManager(logger)
	store := player.NewStore(db, catalog)
	sched := scheduler.New(logger)
	scheduler.RegisterAutosave(sched, sm, store, 50*time.Millisecond)
	if sw, ok := c.(cache.Sweeper); ok {
		scheduler.RegisterSweep(sched, scheduler.CacheSweepTask, time.Minute, sw.Sweep)
	}

	// ---- Gin HTTP Server ----
	r := gin.New()
	r.Use(mw.TraceID(), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(1000), 2000))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": sm.Count()})
	})

	restH := rest.NewHandler(rest.Deps{
		Catalog:  catalog,
		Sessions: sm,
		Store:    store,
		Audit:    auditSvc,
		Cache:    c,
		PubSub:   pubsub,
		Battle:   cfg.Battle,
		Game:     cfg.Game,
		Logger:   logger,
	})
	sseH := sse.NewHandler(pubsub, c, logger)

	api := r.Group("/api")
	restH.Register(api)
	api.GET("/battles/:battle_id/events", sseH.ServeBattle)

	// ---- Start server ----
	server := httptest.NewServer(r)
	ts := &TestServer{
		DB:      db,
		Cache:   c,
		PubSub:  pubsub,
		SM:      sm,
		Store:   store,
		Audit:   auditSvc,
		Sched:   sched,
		Catalog: catalog,
		Server:  server,
		URL:     server.URL,
	}
	t.Cleanup(ts.Close)
	return ts
}

// Close shuts down the server and background workers.
func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.Sched.Stop()
	ts.Audit.Stop(context.Background())
}

// Do sends a JSON request and decodes a JSON object response.
func (ts *TestServer) Do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp.StatusCode, out
}

// CreateSession creates a session for className and returns its id.
func (ts *TestServer) CreateSession(t *testing.T, className, name string) string {
	t.Helper()
	code, body := ts.Do(t, http.MethodPost, "/api/sessions", map[string]string{"class": className, "name": name})
	require.Equal(t, http.StatusCreated, code, "create session: %v", body)
	return body["id"].(string)
}

// Event is one server-sent event.
type Event struct {
	Name string
	Data string
}

// EventStream reads server-sent events from a battle stream.
type EventStream struct {
	resp   *http.Response
	reader *bufio.Reader
}

// OpenBattleStream subscribes to a battle's events and waits for the
// connected event, so a battle started afterwards is fully observed.
func (ts *TestServer) OpenBattleStream(t *testing.T, battleID string) *EventStream {
	t.Helper()
	resp, err := http.Get(ts.URL + "/api/battles/" + battleID + "/events")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	es := &EventStream{resp: resp, reader: bufio.NewReader(resp.Body)}
	ev, ok := es.Next()
	require.True(t, ok)
	require.Equal(t, "connected", ev.Name)
	return es
}

// Next returns the next event, or false once the stream has ended.
func (es *EventStream) Next() (Event, bool) {
	var ev Event
	for {
		line, err := es.reader.ReadString('\n')
		if err != nil {
			return Event{}, false
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if ev.Name != "" {
				return ev, true
			}
		case strings.HasPrefix(line, ":"):
			// keepalive comment
		case strings.HasPrefix(line, "event: "):
			ev.Name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.Data = strings.TrimPrefix(line, "data: ")
		}
	}
}

// All drains the stream.
func (es *EventStream) All() []Event {
	var out []Event
	for {
		ev, ok := es.Next()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

// Close releases the stream.
func (es *EventStream) Close() { es.resp.Body.Close() }

// OpenLateStream reads the single event served for an already finished battle.
func (ts *TestServer) OpenLateStream(t *testing.T, battleID string) Event {
	t.Helper()
	resp, err := http.Get(ts.URL + "/api/battles/" + battleID + "/events")
	require.NoError(t, err)
	es := &EventStream{resp: resp, reader: bufio.NewReader(resp.Body)}
	defer es.Close()
	ev, ok := es.Next()
	require.True(t, ok, "no event for finished battle")
	return ev
}
