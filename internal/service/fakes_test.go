package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/SuryanshuBanerjee/tempmitra/internal/cache"
	"github.com/SuryanshuBanerjee/tempmitra/internal/metrics"
	"github.com/SuryanshuBanerjee/tempmitra/internal/model"
	"github.com/SuryanshuBanerjee/tempmitra/internal/repository/memory"
	"github.com/SuryanshuBanerjee/tempmitra/internal/triage"
)

type broadcastEvent struct {
	msgType string
	payload interface{}
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (b *fakeBroadcaster) BroadcastToCounselors(msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{msgType: msgType, payload: payload})
}

func (b *fakeBroadcaster) ofType(msgType string) []broadcastEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []broadcastEvent
	for _, e := range b.events {
		if e.msgType == msgType {
			out = append(out, e)
		}
	}
	return out
}

var errCacheDown = errors.New("cache unavailable")

// flakyCache wraps a session cache and fails writes while the flags are set.
type flakyCache struct {
	cache.SessionCache
	mu         sync.Mutex
	failSet    bool
	failDelete bool
}

func (c *flakyCache) setFailures(set, del bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failSet, c.failDelete = set, del
}

func (c *flakyCache) Set(ctx context.Context, session *model.ChatSession) error {
	c.mu.Lock()
	fail := c.failSet
	c.mu.Unlock()
	if fail {
		return errCacheDown
	}
	return c.SessionCache.Set(ctx, session)
}

func (c *flakyCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	fail := c.failDelete
	c.mu.Unlock()
	if fail {
		return errCacheDown
	}
	return c.SessionCache.Delete(ctx, id)
}

// useFlakyCache swaps the chat service onto a cache whose writes can be failed.
func (env *testEnv) useFlakyCache() *flakyCache {
	fc := &flakyCache{SessionCache: env.cache}
	env.chat.sessionCache = fc
	return fc
}

type testEnv struct {
	mr          *miniredis.Miniredis
	client      *redis.Client
	sessions    *memory.SessionRepo
	messages    *memory.MessageRepo
	screenings  *memory.ScreeningRepo
	cache       cache.SessionCache
	locker      cache.SessionLocker
	analytics   cache.AnalyticsCache
	broadcaster *fakeBroadcaster
	classifier  *triage.Classifier
	metrics     *metrics.Metrics
	clock       time.Time

	chat      *ChatService
	screening *ScreeningService
	dashboard *AnalyticsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	env := &testEnv{
		mr:          mr,
		client:      client,
		sessions:    memory.NewSessionRepo(),
		messages:    memory.NewMessageRepo(),
		screenings:  memory.NewScreeningRepo(),
		cache:       cache.NewSessionCache(client, time.Minute),
		locker:      cache.NewSessionLocker(client, time.Second, 0),
		analytics:   cache.NewAnalyticsCache(client),
		broadcaster: &fakeBroadcaster{},
		classifier:  triage.NewClassifier(triage.DefaultLexicon()),
		metrics:     metrics.New(prometheus.NewRegistry()),
		clock:       time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	tick := func() time.Time {
		env.clock = env.clock.Add(time.Second)
		return env.clock
	}

	env.chat = NewChatService(env.sessions, env.messages, env.cache, env.locker, env.analytics, env.classifier, env.metrics)
	env.chat.SetBroadcaster(env.broadcaster)
	env.chat.now = tick

	env.screening = NewScreeningService(env.screenings, env.metrics)
	env.screening.now = tick

	env.dashboard = NewAnalyticsService(env.sessions, env.messages, env.screenings, env.analytics, env.classifier)
	env.dashboard.now = tick
	return env
}
