package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-kenyajobs/internal/cache"
	"go-kenyajobs/internal/config"
	"go-kenyajobs/internal/dates"
	"go-kenyajobs/internal/dedup"
	"go-kenyajobs/internal/filter"
	"go-kenyajobs/internal/fingerprint"
	"go-kenyajobs/internal/freshness"
	"go-kenyajobs/internal/httpclient"
	"go-kenyajobs/internal/notify"
	"go-kenyajobs/internal/runner"
	"go-kenyajobs/internal/schedule"
	"go-kenyajobs/internal/source"
	"go-kenyajobs/internal/source/careerpoint"
	"go-kenyajobs/internal/source/myjobmag"
	"go-kenyajobs/internal/store"
)

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Keywords: %v", cfg.Keywords)

	//init telegram bot (optional)
	var bot *notify.Bot
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		var err error
		bot, err = notify.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("❌ Failed to init Telegram Bot: %v", err)
		}
		log.Println("🤖 Telegram Bot initialized.")
	}

	//cancel on interrupt; accepted jobs are flushed as they land, so a
	//mid-run interrupt loses nothing already confirmed
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("🚀 Starting Kenya Job Aggregator...")

	if cfg.RunEvery != "" {
		scheduler := schedule.New(cfg.RunEvery, func() {
			runOnce(ctx, cfg, bot)
		})
		if err := scheduler.Start(); err != nil {
			log.Fatalf("❌ Failed to start scheduler: %v", err)
		}
		<-ctx.Done()
		scheduler.Stop()
	} else {
		runOnce(ctx, cfg, bot)
	}

	log.Println("🏁 Execution finished.")
}

// runOnce builds a fresh, today-scoped dependency graph and executes one
// aggregation run. Everything is constructed here and passed down; nothing
// in the pipeline holds ambient global state.
func runOnce(ctx context.Context, cfg *config.Config, bot *notify.Bot) {
	now := time.Now()
	today := dates.Day(now)

	fp, err := fingerprint.Compute(cfg.Keywords, today, fingerprint.Version)
	if err != nil {
		log.Printf("❌ Fingerprint error: %v", err)
		return
	}
	log.Printf("🔧 Run fingerprint: %s...", fp[:12])

	//cache: redis when configured, per-day file otherwise
	var cacheStore cache.Store
	if cfg.RedisURL != "" {
		cacheStore, err = cache.NewRedisCache(cfg.RedisURL, fp, today)
		if err != nil {
			log.Printf("⚠️ Redis unavailable, falling back to file cache: %v", err)
			cacheStore = cache.NewFileCache(cfg.CacheDir, fp, today)
		}
	} else {
		cacheStore = cache.NewFileCache(cfg.CacheDir, fp, today)
	}
	defer cacheStore.Close()

	//persisted store: postgres when configured, per-day files otherwise
	var persisted store.Store
	if cfg.DatabaseURL != "" {
		persisted, err = store.NewPgStore(ctx, cfg.DatabaseURL, today)
		if err != nil {
			log.Printf("❌ Database unavailable: %v", err)
			return
		}
	} else {
		persisted, err = store.NewFileStore(cfg.DataDir, today)
		if err != nil {
			log.Printf("❌ Failed to open data store: %v", err)
			return
		}
	}
	defer persisted.Close()

	links, err := persisted.Links()
	if err != nil {
		log.Printf("⚠️ Could not load today's links, dedup starts empty: %v", err)
	}

	policy := freshness.New(now, cfg.RecencyDays)
	matcher := filter.NewMatcher(cfg.RelevantKeywords)
	merger := dedup.NewMerger(policy, links)

	client := httpclient.New(30*time.Second, 2*time.Second)
	fetchers := []source.Fetcher{
		myjobmag.New(client),
		careerpoint.New(client),
	}

	r := runner.New(policy, matcher, cacheStore, persisted, merger, fetchers, cfg.Keywords, cfg.MaxPages)
	summary := r.Run(ctx)

	report(summary, bot)
}

func report(summary runner.Summary, bot *notify.Bot) {
	log.Printf("\n📦 Run complete in %v", summary.Elapsed.Round(time.Second))
	log.Printf("📊 Cache hits: %d | Pages fetched: %d | New jobs: %d",
		summary.CacheHits, summary.PagesFetched, summary.NewAccepted)
	for name, postings := range summary.Results {
		log.Printf("   %-20s: %3d jobs", name, len(postings))
	}
	if summary.PersistFailures > 0 {
		log.Printf("❌ %d posting(s) could not be persisted; check the data directory", summary.PersistFailures)
		if bot != nil {
			if err := bot.SendError(fmt.Errorf("%d posting(s) could not be persisted", summary.PersistFailures)); err != nil {
				log.Printf("⚠️ Failed to send error to Telegram: %v", err)
			}
		}
	}

	if bot == nil {
		return
	}

	for _, posting := range summary.NewPostings {
		if err := bot.SendPosting(posting); err != nil {
			log.Printf("⚠️ Failed to send job to Telegram: %v", err)
		}
		//1 second delay to avoid 429
		time.Sleep(1 * time.Second)
	}
	if summary.NewAccepted > 0 {
		if err := bot.SendStatus(
			time.Now().Format("2006-01-02") + ": aggregation finished"); err != nil {
			log.Printf("⚠️ Failed to send status to Telegram: %v", err)
		}
	}
}
