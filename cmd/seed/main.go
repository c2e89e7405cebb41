package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SuryanshuBanerjee/tempmitra/internal/app"
	"github.com/SuryanshuBanerjee/tempmitra/internal/config"
	"github.com/SuryanshuBanerjee/tempmitra/internal/model"
	"github.com/SuryanshuBanerjee/tempmitra/internal/observability"
	"github.com/SuryanshuBanerjee/tempmitra/internal/repository"
)

type seedOptions struct {
	students    int
	messages    int
	printTokens bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replay sample conversations and screenings into the triage store",
		Long: `Seed sends sample student conversations and screening submissions
through the chat and screening services, so sessions, messages, risk
profiles and analytics counters are populated exactly as live traffic
would populate them.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.students, "students", 5, "number of sample students")
	cmd.Flags().IntVar(&opts.messages, "messages", 4, "maximum messages per conversation")
	cmd.Flags().BoolVar(&opts.printTokens, "print-tokens", false, "print dev tokens for a counselor and an admin")
	return cmd
}

func run(ctx context.Context, opts *seedOptions) error {
	cfg := config.Load()
	log := observability.Init(os.Stderr, cfg.LogLevel)

	var db *mongo.Database
	if cfg.StoreBackend != "memory" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		defer client.Disconnect(ctx)
		if err := client.Ping(connectCtx, nil); err != nil {
			return fmt.Errorf("failed to ping MongoDB: %w", err)
		}
		db = client.Database(cfg.MongoDatabase)
		repository.EnsureIndexes(ctx, db)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}

	a := app.New(cfg, db, rdb, prometheus.NewRegistry())

	for i := 0; i < opts.students; i++ {
		userID := fmt.Sprintf("student-%03d", i+1)
		if err := seedStudent(ctx, a, userID, i, opts.messages); err != nil {
			return fmt.Errorf("seed %s: %w", userID, err)
		}
	}

	recount, err := a.AnalyticsService.RecomputeTopics(ctx)
	if err != nil {
		return err
	}
	overview, err := a.AnalyticsService.Overview(ctx)
	if err != nil {
		return err
	}
	log.Info("seed complete", "students", opts.students, "messages_scanned", recount.MessagesScanned)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(overview); err != nil {
		return err
	}

	if opts.printTokens {
		for _, who := range []struct {
			id   string
			role model.Role
		}{{"counselor-001", model.RoleCounselor}, {"admin-001", model.RoleAdmin}} {
			token, err := a.AuthService.IssueToken(who.id, who.role, 24*time.Hour)
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s): %s\n", who.id, who.role, token)
		}
	}
	return nil
}

func seedStudent(ctx context.Context, a *app.App, userID string, n, maxMessages int) error {
	convo := sampleConversations[n%len(sampleConversations)]
	if maxMessages > 0 && len(convo) > maxMessages {
		convo = convo[:maxMessages]
	}

	var sessionID string
	for _, text := range convo {
		resp, err := a.ChatService.SendMessage(ctx, userID, &model.SendMessageRequest{SessionID: sessionID, Message: text})
		if err != nil {
			return err
		}
		sessionID = resp.SessionID
	}
	if sessionID != "" && n%2 == 0 {
		if _, err := a.ChatService.EndSession(ctx, sessionID, nil); err != nil {
			return err
		}
	}

	screening := sampleScreenings[n%len(sampleScreenings)]
	_, err := a.ScreeningService.Submit(ctx, userID, screening.instrument, screening.answers)
	return err
}
