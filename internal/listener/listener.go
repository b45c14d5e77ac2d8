package listener

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"shortages/internal/config"
	"shortages/internal/connectors"
	gmailconnector "shortages/internal/connectors/gmail"
	imapconnector "shortages/internal/connectors/imap"
	"shortages/internal/logging"
	"shortages/internal/shortage"
	"shortages/internal/storage"
)

// Service polls a mailbox and imports shortage lists into the list.
type Service struct {
	db        *storage.DB
	cfg       config.Config
	connector connectors.MailConnector
	importer  *ImportService
	logger    *zap.Logger
}

func NewService(db *storage.DB, cfg config.Config, connector connectors.MailConnector, ctrl *shortage.Controller, logger *zap.Logger) *Service {
	logger = logging.OrNop(logger)
	return &Service{
		db:        db,
		cfg:       cfg,
		connector: connector,
		importer:  NewImportService(db, ctrl, logger),
		logger:    logger,
	}
}

// Run repeats fetch and import cycles until ctx is done. A failed cycle is
// logged and retried on the next tick.
func (s *Service) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.MailListenerIntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	for {
		if err := s.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Error("listener cycle failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

func (s *Service) RunCycle(ctx context.Context) error {
	fetch := connectors.NewFetchService(s.db, s.cfg.RawMailDir, s.connector, s.logger)
	fetched, err := fetch.FetchAndStore(ctx, s.cfg.MailListenerLabel, s.cfg.MailListenerFetchMax)
	if err != nil {
		return err
	}

	results, err := s.importer.ImportPending(s.cfg.MailListenerBatch, s.connector.Provider())
	if err != nil {
		return err
	}

	imported := 0
	for _, r := range results {
		imported += r.Imported
	}
	s.logger.Info("listener cycle done",
		zap.String("provider", s.connector.Provider()),
		zap.Int("fetched", fetched.Fetched),
		zap.Int("new", fetched.New),
		zap.Int("emails", len(results)),
		zap.Int("items", imported),
	)
	return nil
}

// MakeConnector builds the connector named by provider.
func MakeConnector(ctx context.Context, cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(ctx, cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", provider)
	}
}
