package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/serroba/duckbin/internal/activity"
	"github.com/serroba/duckbin/internal/handlers"
	"github.com/serroba/duckbin/internal/snippet"
	"github.com/serroba/duckbin/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBaseURL = "http://localhost:8888"

var errDatabaseDown = errors.New("database is down")

// recordingPublisher remembers published activity.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, kind activity.Kind, s *snippet.Snippet) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, string(kind)+":"+string(s.Slug))
}

func (p *recordingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.events...)
}

// brokenStore fails every listing, as an unreachable database would.
type brokenStore struct {
	*store.MemoryStore
}

func (brokenStore) List(context.Context, snippet.Filter, snippet.PageRequest) (*snippet.Page, error) {
	return nil, errDatabaseDown
}

type testEnv struct {
	api       humatest.TestAPI
	publisher *recordingPublisher
}

func newTestEnv(t *testing.T, repo snippet.Repository, exposeInternal bool) *testEnv {
	t.Helper()

	draw, err := snippet.NewRandomSlugDrawer()
	require.NoError(t, err)

	service := snippet.NewService(repo, snippet.NewSlugGenerator(repo, draw), zap.NewNop())
	publisher := &recordingPublisher{}

	_, api := humatest.New(t)
	handlers.RegisterRoutes(api, handlers.NewSnippetHandler(service, publisher, testBaseURL, exposeInternal, zap.NewNop()))

	return &testEnv{api: api, publisher: publisher}
}

type envelope struct {
	Message string               `json:"message"`
	Snippet handlers.SnippetBody `json:"snippet"`
	URL     string               `json:"url"`
}

type problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Errors []struct {
		Message  string `json:"message"`
		Location string `json:"location"`
	} `json:"errors"`
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())

	return v
}

func (e *testEnv) create(t *testing.T, body map[string]any) envelope {
	t.Helper()

	resp := e.api.Post("/snippets", body)
	require.Equal(t, 201, resp.Code, resp.Body.String())

	return decode[envelope](t, resp)
}

func validBody() map[string]any {
	return map[string]any{
		"title":    "Hello",
		"code":     "fmt.Println(\"hi\")",
		"language": "go",
		"theme":    "dark",
	}
}
