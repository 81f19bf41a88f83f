package main

import (
	"context"
	"flag"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/capsulesearch/engine/cache"
	"github.com/capsulesearch/engine/limiter"
	"github.com/capsulesearch/engine/search"
	"github.com/capsulesearch/engine/service"
	gemsvc "github.com/capsulesearch/engine/service/gemini"
	"github.com/capsulesearch/engine/store"
	"github.com/capsulesearch/engine/store/memory"
	"github.com/capsulesearch/engine/store/postgres"
)

var (
	appName = "capsule-search"
	appSha  = "populated-at-link-time"
)

func main() {
	host, _ := os.Hostname()
	rootLogger := logrus.New()
	logger := rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSha,
		"host": host,
	})

	if err := run(logger); err != nil {
		logger.WithField("err", err).Error("shutting down due to error")
		return
	}
	logger.Info("shutdown complete")
}

func run(logger *logrus.Entry) error {
	svcGroup, st, err := setupServices(logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGHUP)
	defer cancel()

	return svcGroup.Run(ctx, logger)
}

func setupServices(logger *logrus.Entry) (service.ServiceGroup, store.Store, error) {
	var gemCfg gemsvc.Config

	flag.StringVar(&gemCfg.ListenAddr, "listen-addr", ":1965", "The address to listen for incoming Gemini requests")
	flag.StringVar(&gemCfg.CertFile, "tls-cert", "", "Path to the TLS certificate used to serve Gemini connections")
	flag.StringVar(&gemCfg.KeyFile, "tls-key", "", "Path to the TLS private key used to serve Gemini connections")

	storeURI := flag.String("store-uri", "memory://", "The URI for connecting to the page store (supported URIs: memory://, postgresql://user@host/db?sslmode=disable)")
	cacheTTL := flag.Duration("cache-ttl", cache.MinTTL, "The duration for which a query's ranked result list is cached before being rebuilt")
	janitorInterval := flag.Duration("cache-janitor-interval", cache.MinTTL, "The time between sweeps that evict expired result-cache entries")
	flag.Parse()

	st, err := getStore(*storeURI, logger)
	if err != nil {
		return nil, nil, err
	}

	resultCache := cache.New(*cacheTTL)
	orch, err := search.New(search.Config{
		Store:   st,
		Cache:   resultCache,
		Limiter: &limiter.Limiter{},
		Logger:  logger.WithField("service", "search"),
	})
	if err != nil {
		return nil, nil, err
	}

	srv := &server{orch: orch}
	gemCfg.Handler = srv.handle
	gemCfg.Logger = logger.WithField("service", "gemini")

	var svc service.Service
	var svcGroup service.ServiceGroup
	if svc, err = gemsvc.NewService(gemCfg); err == nil {
		svcGroup = append(svcGroup, svc)
	} else {
		return nil, nil, err
	}

	svcGroup = append(svcGroup, &cache.Janitor{
		Cache:    resultCache,
		Interval: *janitorInterval,
		Logger:   logger.WithField("service", "cache-janitor"),
	})

	return svcGroup, st, nil
}

func getStore(storeURI string, logger *logrus.Entry) (store.Store, error) {
	if storeURI == "" {
		return nil, xerrors.Errorf("store URI must be specified with --store-uri")
	}

	uri, err := url.Parse(storeURI)
	if err != nil {
		return nil, xerrors.Errorf("could not parse store URI: %w", err)
	}

	switch uri.Scheme {
	case "memory":
		logger.Info("using in-memory store")
		return memory.New()
	case "postgresql":
		logger.Info("using postgres store")
		return postgres.Open(storeURI)
	default:
		return nil, xerrors.Errorf("unsupported store URI scheme: %q", uri.Scheme)
	}
}
