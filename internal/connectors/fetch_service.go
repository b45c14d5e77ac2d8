package connectors

import (
	"context"

	"go.uber.org/zap"

	"shortages/internal/logging"
	"shortages/internal/storage"
)

type FetchService struct {
	connector MailConnector
	store     *MailStoreService
	logger    *zap.Logger
}

type FetchResult struct {
	Fetched int
	New     int
}

func NewFetchService(db *storage.DB, rawMailDir string, connector MailConnector, logger *zap.Logger) *FetchService {
	logger = logging.OrNop(logger)
	return &FetchService{
		connector: connector,
		store:     NewMailStoreService(db, rawMailDir),
		logger:    logger,
	}
}

// FetchAndStore saves every fetched message. Messages seen before keep their
// status, so an imported list is never imported twice.
func (s *FetchService) FetchAndStore(ctx context.Context, label string, max int) (FetchResult, error) {
	messages, err := s.connector.FetchInbox(ctx, label, max)
	if err != nil {
		return FetchResult{}, err
	}

	res := FetchResult{Fetched: len(messages)}
	for _, msg := range messages {
		row, created, err := s.store.Store(msg)
		if err != nil {
			return res, err
		}
		if created {
			res.New++
			s.logger.Debug("mail stored", zap.Int("email_id", row.ID), zap.String("subject", row.Subject))
		}
	}

	s.logger.Info("mail fetched", zap.String("provider", s.connector.Provider()), zap.Int("fetched", res.Fetched), zap.Int("new", res.New))
	return res, nil
}
