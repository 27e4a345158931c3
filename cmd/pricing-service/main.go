package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nurpe/tourops-pricing/internal/auth"
	"github.com/nurpe/tourops-pricing/internal/cache"
	"github.com/nurpe/tourops-pricing/internal/config"
	"github.com/nurpe/tourops-pricing/internal/db"
	"github.com/nurpe/tourops-pricing/internal/excel"
	httphandler "github.com/nurpe/tourops-pricing/internal/http"
	"github.com/nurpe/tourops-pricing/internal/http/middleware"
	"github.com/nurpe/tourops-pricing/internal/logger"
	"github.com/nurpe/tourops-pricing/internal/pdf"
	"github.com/nurpe/tourops-pricing/internal/pricing"
	"github.com/nurpe/tourops-pricing/internal/repository"
	"github.com/nurpe/tourops-pricing/internal/repository/memory"
	"github.com/nurpe/tourops-pricing/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	var (
		offerings service.OfferingCatalog
		rates     service.RateStore
		currency  service.CurrencyStore
	)
	switch cfg.DB.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		offerings, rates, currency = store, store, store
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		if cfg.DB.SeedFile == "" {
			log.Warn().Msg("MEMORY_SEED_FILE is not set, the offering catalog is empty")
		} else {
			count, err := store.SeedOfferingsFile(cfg.DB.SeedFile)
			if err != nil {
				log.Fatal().Err(err).Str("path", cfg.DB.SeedFile).Msg("failed to seed offering catalog")
			}
			log.Info().Int("offerings", count).Str("path", cfg.DB.SeedFile).Msg("offering catalog seeded")
		}
	default:
		database, err := db.New(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect database")
		}
		offerings = repository.NewOfferingRepository(database)
		rates = repository.NewRateRepository(database)
		currency = repository.NewExchangeRepository(database)
	}

	var exchangeCache service.ExchangeCache
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("exchange cache disabled")
		} else {
			defer rdb.Close()
			exchangeCache = cache.NewExchangeCache(rdb)
		}
	}

	engine := pricing.NewEngine()
	quoteService := service.NewQuoteService(offerings, rates, engine, pdf.NewGenerator(cfg.Pricing.BaseCurrency), log)
	rateService := service.NewRateService(offerings, rates, excel.NewGenerator(), log)
	exchangeService := service.NewExchangeService(currency, exchangeCache, cfg.Pricing.ExchangeCacheTTL, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(quoteService, rateService, exchangeService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.CORSAllowedOrigins, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Str("storage", cfg.DB.Driver).Msg("starting pricing service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
