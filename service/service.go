package service

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Service is a long-running component of the process: the gemini front-end
// listener today, with room for a cache janitor or similar background
// worker alongside it.
type Service interface {
	Name() string

	// Run executes the service and blocks until the context gets cancelled
	// or an error occurs.
	Run(context.Context) error
}

// ServiceGroup runs a fixed set of Service instances side by side.
type ServiceGroup []Service

// Run starts every service in the group in its own goroutine and blocks
// until the context is cancelled or any service returns an error, at which
// point the remaining services are cancelled too. logger receives a
// start/stop/error line per service; a nil logger falls back to the
// standard logrus logger.
func (g ServiceGroup) Run(ctx context.Context, logger *logrus.Entry) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, len(g))
	wg.Add(len(g))
	for _, s := range g {
		go func(s Service) {
			defer wg.Done()
			svcLog := logger.WithField("service", s.Name())
			svcLog.Info("service starting")
			if err := s.Run(runCtx); err != nil {
				svcLog.WithError(err).Error("service exited with error")
				errCh <- xerrors.Errorf("%s: %w", s.Name(), err)
				cancel()
				return
			}
			svcLog.Info("service stopped")
		}(s)
	}

	<-runCtx.Done()
	wg.Wait()

	close(errCh)
	var err error
	for svcErr := range errCh {
		err = multierror.Append(err, svcErr)
	}
	return err
}
