package audit

import (
	"context"
	"fmt"
	"time"

	"femida-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Repository is the persistence surface for the trail. Append-only: there is
// deliberately no update or delete.
type Repository interface {
	Append(ctx context.Context, e *domain.AuditEntry) error
	List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error)
	Count(ctx context.Context) (int64, error)
}

// Service records and serves the audit trail. Record is best-effort: a failed
// append is logged and swallowed so it can never roll back or fail the
// operation it describes.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "audit").Logger(),
	}
}

func (s *Service) Record(ctx context.Context, userID *int64, action domain.AuditAction, objectType string, objectID int64, details string) {
	e := &domain.AuditEntry{
		EventID:    uuid.NewString(),
		UserID:     userID,
		Action:     action,
		ObjectType: objectType,
		ObjectID:   objectID,
		Details:    details,
		Timestamp:  time.Now(),
	}
	if err := s.repo.Append(ctx, e); err != nil {
		s.log.Error().Err(err).
			Str("action", string(action)).
			Str("object_type", objectType).
			Int64("object_id", objectID).
			Msg("audit append failed")
	}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, int64, error) {
	entries, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ExportExcel renders the whole trail, newest first, as an xlsx workbook.
func (s *Service) ExportExcel(ctx context.Context) (*excelize.File, error) {
	entries, err := s.repo.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "AuditLog"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Event ID", "User ID", "Action", "Object Type", "Object ID", "Details", "Timestamp"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		start, _ := excelize.CoordinatesToCellName(1, 1)
		end, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheet, start, end, style)
	}

	for i, e := range entries {
		var userID any
		if e.UserID != nil {
			userID = *e.UserID
		}
		row := []any{e.ID, e.EventID, userID, string(e.Action), e.ObjectType, e.ObjectID, e.Details, e.Timestamp.Format(time.RFC3339)}
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
	}

	return f, nil
}
