package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"sedesupport/internal/domain"
	"sedesupport/internal/pagelist"
)

// directoryRecord is a facility row as returned by the legacy directory.
// The directory predates this service and its list endpoints disagree on
// envelope shape, which is why the import walks it through pagelist.
type directoryRecord struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
}

type sedeImportService struct {
	fetch    pagelist.FetchFunc
	sedeRepo domain.SedeRepository
	pageSize int
	logger   *slog.Logger
}

// NewSedeImportService creates a SedeImportService that reads pages from the
// given fetch capability and upserts each record by code.
func NewSedeImportService(fetch pagelist.FetchFunc, sedeRepo domain.SedeRepository, pageSize int, logger *slog.Logger) domain.SedeImportService {
	return &sedeImportService{
		fetch:    fetch,
		sedeRepo: sedeRepo,
		pageSize: pageSize,
		logger:   logger,
	}
}

// ImportAll walks every page of the directory and upserts the records.
// Individual records that fail to decode or persist are counted as skipped;
// only a page-level fetch failure aborts the run.
func (s *sedeImportService) ImportAll(ctx context.Context) (*domain.SedeImportSummary, error) {
	ctrl := pagelist.NewController(s.fetch, pagelist.Config{
		PageSize:          s.pageSize,
		DisableAutoReload: true,
		Logger:            s.logger,
	})

	summary := &domain.SedeImportSummary{}
	for {
		if err := ctrl.Load(ctx); err != nil {
			return nil, fmt.Errorf("directory page %d: %w", ctrl.State().Page, err)
		}
		state := ctrl.State()
		summary.Pages++

		for _, raw := range state.Items {
			var rec directoryRecord
			if err := json.Unmarshal(raw, &rec); err != nil || rec.Code == "" {
				s.logger.Warn("skipping malformed directory record", "page", state.Page, "error", err)
				summary.Skipped++
				continue
			}
			now := time.Now()
			sede := domain.NewSede(rec.Name, rec.Code, rec.Address, rec.City, rec.Phone, now, now)
			if err := s.sedeRepo.UpsertByCode(ctx, sede); err != nil {
				s.logger.Warn("failed to upsert directory record", "code", rec.Code, "error", err)
				summary.Skipped++
				continue
			}
			summary.Imported++
		}

		if state.Page >= state.TotalPages {
			break
		}
		if err := ctrl.NextPage(ctx); err != nil {
			return nil, fmt.Errorf("directory page %d: %w", state.Page+1, err)
		}
	}

	s.logger.Info("directory import finished",
		"pages", summary.Pages, "imported", summary.Imported, "skipped", summary.Skipped)
	return summary, nil
}
