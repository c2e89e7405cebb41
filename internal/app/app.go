package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SuryanshuBanerjee/tempmitra/internal/cache"
	"github.com/SuryanshuBanerjee/tempmitra/internal/config"
	"github.com/SuryanshuBanerjee/tempmitra/internal/metrics"
	"github.com/SuryanshuBanerjee/tempmitra/internal/repository"
	"github.com/SuryanshuBanerjee/tempmitra/internal/repository/memory"
	"github.com/SuryanshuBanerjee/tempmitra/internal/service"
	"github.com/SuryanshuBanerjee/tempmitra/internal/triage"
)

// App holds the wired repositories, caches and services
type App struct {
	SessionRepo   repository.SessionRepo
	MessageRepo   repository.MessageRepo
	ScreeningRepo repository.ScreeningRepo

	SessionCache   cache.SessionCache
	SessionLocker  cache.SessionLocker
	AnalyticsCache cache.AnalyticsCache

	Classifier *triage.Classifier
	Metrics    *metrics.Metrics

	AuthService      *service.AuthService
	ChatService      *service.ChatService
	ScreeningService *service.ScreeningService
	AnalyticsService *service.AnalyticsService
}

// New wires the application. A nil db selects the in-memory repositories.
func New(cfg *config.Config, db *mongo.Database, rdb *redis.Client, reg prometheus.Registerer) *App {
	a := &App{
		SessionCache:   cache.NewSessionCache(rdb, cfg.SessionCacheTTL),
		SessionLocker:  cache.NewSessionLocker(rdb, cfg.SessionLockTTL, cfg.SessionLockWait),
		AnalyticsCache: cache.NewAnalyticsCache(rdb),
		Classifier:     triage.NewClassifier(triage.DefaultLexicon()),
		Metrics:        metrics.New(reg),
	}

	if db != nil {
		a.SessionRepo = repository.NewSessionRepo(db)
		a.MessageRepo = repository.NewMessageRepo(db)
		a.ScreeningRepo = repository.NewScreeningRepo(db)
	} else {
		a.SessionRepo = memory.NewSessionRepo()
		a.MessageRepo = memory.NewMessageRepo()
		a.ScreeningRepo = memory.NewScreeningRepo()
	}

	a.AuthService = service.NewAuthService(cfg.JWTSecret)
	a.ChatService = service.NewChatService(a.SessionRepo, a.MessageRepo, a.SessionCache, a.SessionLocker, a.AnalyticsCache, a.Classifier, a.Metrics)
	a.ScreeningService = service.NewScreeningService(a.ScreeningRepo, a.Metrics)
	a.AnalyticsService = service.NewAnalyticsService(a.SessionRepo, a.MessageRepo, a.ScreeningRepo, a.AnalyticsCache, a.Classifier)
	return a
}
