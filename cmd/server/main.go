package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ticketline/ticketline/internal/cache"
	"github.com/ticketline/ticketline/internal/config"
	"github.com/ticketline/ticketline/internal/events"
	"github.com/ticketline/ticketline/internal/ops"
	"github.com/ticketline/ticketline/internal/receipt"
	"github.com/ticketline/ticketline/internal/repository"
	"github.com/ticketline/ticketline/internal/store"
	"github.com/ticketline/ticketline/internal/tcpserver"
	"github.com/ticketline/ticketline/internal/ticketing"
)

// seedCatalog is inserted on first boot when SEED_CATALOG is set and
// the movies table is empty.
var seedCatalog = []repository.MovieParams{
	{Title: "The Matrix", CinemaRoom: 1, ReleaseDate: "2025-06-01", EndDate: "2025-06-30", TicketsAvailable: 100, TicketPrice: 120.00},
	{Title: "The One", CinemaRoom: 2, ReleaseDate: "2025-06-01", EndDate: "2025-06-30", TicketsAvailable: 100, TicketPrice: 120.00},
	{Title: "Mabiba", CinemaRoom: 3, ReleaseDate: "2025-06-01", EndDate: "2025-06-30", TicketsAvailable: 100, TicketPrice: 180.00},
	{Title: "Phoenix", CinemaRoom: 4, ReleaseDate: "2025-06-01", EndDate: "2025-06-30", TicketsAvailable: 100, TicketPrice: 220.00},
	{Title: "The Pump", CinemaRoom: 5, ReleaseDate: "2025-06-01", EndDate: "2025-06-30", TicketsAvailable: 100, TicketPrice: 110.00},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[ticketd] ", log.LstdFlags|log.Lshortfile)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer st.Close()

	if err := st.Migrate(dbCtx, cfg.MigrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	repo := repository.New(st)

	if cfg.SeedCatalog {
		if err := seedIfEmpty(dbCtx, repo, logger); err != nil {
			log.Fatalf("seed catalog: %v", err)
		}
	}

	receipts, err := receipt.NewFileSink(cfg.ReceiptDir)
	if err != nil {
		log.Fatalf("init receipt sink: %v", err)
	}

	var publisher ticketing.EventPublisher
	if cfg.AMQPURL != "" {
		publisher = events.NewPublisher(cfg.AMQPURL, logger)
	}

	redisClient := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if cfg.RedisAddr != "" && redisClient == nil {
		logger.Printf("redis at %s unreachable, serving without listing cache", cfg.RedisAddr)
	}
	movieCache := cache.NewMovieList(redisClient, time.Duration(cfg.CacheTTLSecs)*time.Second)

	sales := ticketing.New(repo, receipts, publisher, logger)
	dispatcher := tcpserver.NewDispatcher(repo, sales, movieCache, logger)
	server := tcpserver.New(cfg.ListenAddr, dispatcher,
		time.Duration(cfg.ReadTimeoutSecs)*time.Second,
		time.Duration(cfg.WriteTimeoutSecs)*time.Second,
		logger)
	opsServer := ops.New(cfg.OpsAddr, st, logger)

	serverErrCh := make(chan error, 2)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()
	go func() {
		if err := opsServer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil {
			log.Printf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("ops shutdown error: %v", err)
	}
}

func seedIfEmpty(ctx context.Context, repo *repository.Repository, logger *log.Logger) error {
	movies, err := repo.Movies.List(ctx)
	if err != nil {
		return err
	}
	if len(movies) > 0 {
		return nil
	}
	for _, params := range seedCatalog {
		if _, err := repo.Movies.Create(ctx, params); err != nil {
			return err
		}
	}
	logger.Printf("seeded catalog with %d movies", len(seedCatalog))
	return nil
}
