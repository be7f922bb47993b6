package activity_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/duckbin/internal/activity"
	"github.com/serroba/duckbin/internal/messaging"
	"github.com/serroba/duckbin/internal/snippet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingStore struct {
	mu     sync.Mutex
	events []activity.SnippetEvent
	err    error
}

func (r *recordingStore) Record(_ context.Context, event *activity.SnippetEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, *event)

	return r.err
}

func (r *recordingStore) snapshot() []activity.SnippetEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]activity.SnippetEvent(nil), r.events...)
}

type mockPublisher struct {
	topics     []string
	messages   []*message.Message
	publishErr error
}

func (m *mockPublisher) Publish(topic string, msgs ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topics = append(m.topics, topic)
	m.messages = append(m.messages, msgs...)

	return nil
}

func (m *mockPublisher) Close() error { return nil }

func testSnippet() *snippet.Snippet {
	return &snippet.Snippet{Slug: "abcDEF1", Title: "Hello", Code: "print(1)", Language: "python", Theme: "dark"}
}

func TestKindTopics(t *testing.T) {
	assert.Equal(t, activity.TopicSnippetCreated, activity.KindCreated.Topic())
	assert.Equal(t, activity.TopicSnippetViewed, activity.KindViewed.Topic())
	assert.Equal(t, activity.TopicSnippetUpdated, activity.KindUpdated.Topic())
	assert.Equal(t, activity.TopicSnippetDeleted, activity.KindDeleted.Topic())
}

func TestRequestMetaContext(t *testing.T) {
	assert.Equal(t, activity.RequestMeta{}, activity.RequestMetaFromContext(context.Background()))

	meta := activity.RequestMeta{ClientIP: "10.0.0.1", UserAgent: "curl/8", Referrer: "https://example.com"}
	ctx := activity.ContextWithRequestMeta(context.Background(), meta)

	assert.Equal(t, meta, activity.RequestMetaFromContext(ctx))
}

func TestPublisher_Publish(t *testing.T) {
	t.Run("publishes event with request metadata on the kind topic", func(t *testing.T) {
		mock := &mockPublisher{}
		publisher := activity.NewPublisher(mock, zap.NewNop())
		ctx := activity.ContextWithRequestMeta(context.Background(),
			activity.RequestMeta{ClientIP: "10.0.0.1", UserAgent: "curl/8"})

		publisher.Publish(ctx, activity.KindViewed, testSnippet())

		require.Len(t, mock.messages, 1)
		assert.Equal(t, []string{activity.TopicSnippetViewed}, mock.topics)

		var event activity.SnippetEvent
		require.NoError(t, json.Unmarshal(mock.messages[0].Payload, &event))
		assert.Equal(t, activity.KindViewed, event.Kind)
		assert.Equal(t, "abcDEF1", event.Slug)
		assert.Equal(t, "python", event.Language)
		assert.Equal(t, "10.0.0.1", event.ClientIP)
		assert.Equal(t, "curl/8", event.UserAgent)
		assert.WithinDuration(t, time.Now(), event.OccurredAt, time.Minute)
	})

	t.Run("swallows publish errors", func(t *testing.T) {
		publisher := activity.NewPublisher(&mockPublisher{publishErr: errors.New("down")}, zap.NewNop())

		assert.NotPanics(t, func() {
			publisher.Publish(context.Background(), activity.KindCreated, testSnippet())
		})
	})
}

func TestMultiStore(t *testing.T) {
	errFirst := errors.New("first failed")
	first := &recordingStore{err: errFirst}
	second := &recordingStore{}

	err := activity.MultiStore{first, second}.Record(context.Background(),
		&activity.SnippetEvent{Kind: activity.KindDeleted, Slug: "abcDEF1"})

	require.ErrorIs(t, err, errFirst)
	assert.Len(t, first.snapshot(), 1)
	assert.Len(t, second.snapshot(), 1)
}

func TestConsumerGroup_DeliversEveryKind(t *testing.T) {
	pubsub := messaging.NewInProcess(messaging.NewZapLogger(zap.NewNop()))
	store := &recordingStore{}

	group := activity.NewConsumerGroup(pubsub, store, zap.NewNop())
	require.NoError(t, group.Start(context.Background()))

	t.Cleanup(func() { _ = group.Shutdown() })

	publisher := activity.NewPublisher(pubsub, zap.NewNop())
	for _, kind := range activity.Kinds {
		publisher.Publish(context.Background(), kind, testSnippet())
	}

	require.Eventually(t, func() bool {
		return len(store.snapshot()) == len(activity.Kinds)
	}, time.Second, 10*time.Millisecond)

	seen := make(map[activity.Kind]bool)
	for _, event := range store.snapshot() {
		seen[event.Kind] = true
		assert.Equal(t, "abcDEF1", event.Slug)
	}

	assert.Len(t, seen, len(activity.Kinds))
}
