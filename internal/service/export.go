package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/timedeposit/timedeposit/internal/model"
	"github.com/timedeposit/timedeposit/internal/storage"
)

const ExportContentType = "application/json"

// GoalExport is the downloadable snapshot of a user's goals.
type GoalExport struct {
	ExportedAt time.Time         `json:"exportedAt"`
	Summary    model.GoalSummary `json:"summary"`
	Goals      []GoalExportEntry `json:"goals"`
}

type GoalExportEntry struct {
	*model.Goal
	Transactions []*model.Transaction `json:"transactions"`
}

// ExportResult carries either a download link or the document itself.
type ExportResult struct {
	URL      string
	Filename string
	Body     []byte
}

type ExportService struct {
	goals        *GoalService
	transactions *TransactionService
	storage      storage.Storage // nil streams exports directly
	now          func() time.Time
}

func NewExportService(goals *GoalService, transactions *TransactionService, store storage.Storage) *ExportService {
	return &ExportService{
		goals:        goals,
		transactions: transactions,
		storage:      store,
		now:          time.Now,
	}
}

func (s *ExportService) Build(ctx context.Context, userID string) (*GoalExport, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	goals, err := s.goals.Goals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	summary, err := s.goals.Summary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize goals: %w", err)
	}

	export := &GoalExport{
		ExportedAt: s.now().UTC(),
		Summary:    summary,
		Goals:      make([]GoalExportEntry, 0, len(goals)),
	}

	for _, g := range goals {
		txns, err := s.transactions.Transactions(ctx, userID, g.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list deposits: %w", err)
		}
		export.Goals = append(export.Goals, GoalExportEntry{Goal: g, Transactions: txns})
	}

	return export, nil
}

// Export renders the user's goals. With storage configured the document is
// uploaded and a presigned URL is returned instead of the body.
func (s *ExportService) Export(ctx context.Context, userID string) (*ExportResult, error) {
	export, err := s.Build(ctx, userID)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	filename := fmt.Sprintf("goals-%s.json", export.ExportedAt.Format("20060102-150405"))
	if s.storage == nil {
		return &ExportResult{Filename: filename, Body: body}, nil
	}

	key := fmt.Sprintf("exports/%s/%s", userID, filename)
	err = s.storage.Save(ctx, key, ExportContentType, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to store export: %w", err)
	}

	url, err := s.storage.PresignedURL(ctx, key)
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			slog.Warn("failed to remove unsigned export", "error", delErr, "key", key)
		}
		return nil, fmt.Errorf("failed to sign export URL: %w", err)
	}

	slog.Info("goal export stored", "user_id", userID, "key", key, "goals", len(export.Goals))
	return &ExportResult{URL: url, Filename: filename}, nil
}
