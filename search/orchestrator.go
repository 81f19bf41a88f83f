// Package search implements the search orchestrator: the Gemini-facing
// operations that compose query parsing, the page store, HITS ranking,
// filtering, caching, and admission limiting into rendered responses.
package search

import (
	"io/ioutil"

	"github.com/hashicorp/go-multierror"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/capsulesearch/engine/cache"
	"github.com/capsulesearch/engine/limiter"
	"github.com/capsulesearch/engine/store"
)

const resultsPerPage = 10

// Config encapsulates the orchestrator's dependencies.
type Config struct {
	// Store is the page store adapter used for lexical, inbound-link,
	// snippet, and backlink lookups.
	Store store.Store

	// Cache holds ranked result lists keyed by normalized query text. If
	// nil, a process-wide cache with the minimum TTL is created.
	Cache *cache.Cache

	// Limiter bounds the number of concurrently in-flight searches. If
	// nil, a new Limiter is created.
	Limiter *limiter.Limiter

	// Logger receives structured debug/warn logging for each request. If
	// nil an output-discarding logger is used.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.Store == nil {
		err = multierror.Append(err, xerrors.Errorf("page store has not been provided"))
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.New(cache.MinTTL)
	}
	if cfg.Limiter == nil {
		cfg.Limiter = &limiter.Limiter{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: ioutil.Discard})
	}
	return err
}

// Orchestrator ties query parsing, ranking, filtering, caching, and
// admission limiting into the search, jump, and backlinks operations.
type Orchestrator struct {
	cfg Config
	// sanitizer strips stray HTML/markup from store-provided titles and
	// previews before sanitizeGemini's Gemini-specific pass runs over them.
	sanitizer *bluemonday.Policy
}

// New validates cfg and returns a ready-to-use Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("search orchestrator: config validation failed: %w", err)
	}
	return &Orchestrator{cfg: cfg, sanitizer: bluemonday.StrictPolicy()}, nil
}
