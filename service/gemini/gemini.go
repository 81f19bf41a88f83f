// Package gemini implements the Gemini-protocol front-end service: a
// TLS listener that reads a single CRLF-terminated request line per
// connection, dispatches it to a Handler, and writes back a status line
// plus body.
package gemini

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"io/ioutil"
	"net"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// maxRequestLine bounds a Gemini request line per the protocol's 1024-byte
// URL limit, plus the trailing CRLF.
const maxRequestLine = 1024 + 2

// Handler dispatches a single request URL to a Gemini status, meta line,
// and (for status 20) a text/gemini body.
type Handler func(ctx context.Context, requestURL string) (status int, meta string, body string)

// Config encapsulates the settings for the Gemini front-end service.
type Config struct {
	// ListenAddr is the TCP address to listen on, e.g. ":1965".
	ListenAddr string

	// CertFile and KeyFile locate the TLS certificate Gemini requires for
	// every connection.
	CertFile, KeyFile string

	// Handler answers each incoming request.
	Handler Handler

	// Logger receives per-connection debug/warn logging. If not defined
	// an output-discarding logger is used.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.ListenAddr == "" {
		err = multierror.Append(err, xerrors.Errorf("listen address has not been specified"))
	}
	if cfg.CertFile == "" || cfg.KeyFile == "" {
		err = multierror.Append(err, xerrors.Errorf("TLS cert and key files have not been specified"))
	}
	if cfg.Handler == nil {
		err = multierror.Append(err, xerrors.Errorf("handler has not been provided"))
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: ioutil.Discard})
	}
	return err
}

// Service implements the Gemini front-end.
type Service struct {
	cfg Config
}

// NewService creates a new Gemini front-end service instance.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("gemini service: config validation failed: %w", err)
	}
	return &Service{cfg: cfg}, nil
}

// Name implements service.Service.
func (svc *Service) Name() string { return "gemini" }

// Run implements service.Service.
func (svc *Service) Run(ctx context.Context) error {
	cert, err := tls.LoadX509KeyPair(svc.cfg.CertFile, svc.cfg.KeyFile)
	if err != nil {
		return xerrors.Errorf("gemini: load TLS cert: %w", err)
	}

	l, err := tls.Listen("tcp", svc.cfg.ListenAddr, &tls.Config{Certificates: []tls.Certificate{cert}})
	if err != nil {
		return xerrors.Errorf("gemini: listen: %w", err)
	}
	defer func() { _ = l.Close() }()

	go func() {
		<-ctx.Done()
		_ = l.Close()
	}()

	svc.cfg.Logger.WithField("addr", svc.cfg.ListenAddr).Info("starting gemini server")
	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return xerrors.Errorf("gemini: accept: %w", err)
		}
		go svc.handle(ctx, conn)
	}
}

func (svc *Service) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(30 * time.Second))

	line, err := bufio.NewReaderSize(conn, maxRequestLine).ReadSlice('\n')
	if err != nil {
		svc.cfg.Logger.WithError(err).Debug("gemini: read request line")
		return
	}
	requestURL := strings.TrimRight(string(line), "\r\n")

	status, meta, body := svc.cfg.Handler(ctx, requestURL)
	fmt.Fprintf(conn, "%d %s\r\n", status, meta)
	if status == 20 {
		_, _ = conn.Write([]byte(body))
	}
}
