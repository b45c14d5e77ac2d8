package listener

import (
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shortages/internal"
	"shortages/internal/logging"
	"shortages/internal/pipeline"
	"shortages/internal/shortage"
	"shortages/internal/storage"
)

// ImportService moves shortage lists from stored emails into the list.
type ImportService struct {
	db     *storage.DB
	ctrl   *shortage.Controller
	logger *zap.Logger
}

func NewImportService(db *storage.DB, ctrl *shortage.Controller, logger *zap.Logger) *ImportService {
	logger = logging.OrNop(logger)
	return &ImportService{db: db, ctrl: ctrl, logger: logger}
}

type ImportResult struct {
	EmailID  int
	Status   string
	Lines    int
	Imported int
}

// ImportPending handles up to limit fetched emails, optionally only those of
// one provider. It stops at the first email that cannot be read.
func (s *ImportService) ImportPending(limit int, provider string) ([]ImportResult, error) {
	pending, err := s.db.ListEmailsByStatus(internal.EmailFetched, provider, limit)
	if err != nil {
		return nil, err
	}

	var out []ImportResult
	for _, email := range pending {
		res, err := s.ImportEmail(email)
		if err != nil {
			_ = s.db.UpdateEmailStatus(email.ID, internal.EmailFailed)
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (s *ImportService) ImportEmail(email internal.EmailRow) (ImportResult, error) {
	raw, err := os.ReadFile(email.RawRef)
	if err != nil {
		return ImportResult{}, err
	}

	content, err := pipeline.ExtractEmail(raw)
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{EmailID: email.ID, Status: internal.EmailSkipped, Lines: len(content.Entries)}
	detect := pipeline.DetectShortageList(firstNonEmpty(content.Subject, email.Subject), content.Text, content.HTML, content.Attachments)
	if detect.IsShortageList && len(content.Entries) > 0 {
		imported, err := s.ctrl.Import(content.Entries)
		if err != nil {
			return ImportResult{}, err
		}
		res.Status = internal.EmailImported
		res.Imported = len(imported)
	}

	if err := s.db.UpdateEmailStatus(email.ID, res.Status); err != nil {
		return ImportResult{}, err
	}
	_ = s.db.InsertRun(uuid.NewString(), string(internal.SourceEmail)+":"+email.Provider, map[string]int{
		"emailId":  email.ID,
		"lines":    res.Lines,
		"imported": res.Imported,
	})

	s.logger.Info("mail import done",
		zap.Int("email_id", email.ID),
		zap.String("status", res.Status),
		zap.Float64("score", detect.Score),
		zap.Int("imported", res.Imported),
	)
	return res, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
