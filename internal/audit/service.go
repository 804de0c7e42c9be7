package audit

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// TimelineRepository is the query surface the service needs.
type TimelineRepository interface {
	TimelineWindow(ctx context.Context, filters TimelineFilters, offset, limit int) ([]Record, error)
}

// Service coordinates audit timeline reads.
type Service struct {
	repo TimelineRepository
}

// NewService constructs the timeline service.
func NewService(repo TimelineRepository) *Service {
	return &Service{repo: repo}
}

// Timeline returns one page of the tenant's audit log, newest first.
func (s *Service) Timeline(ctx context.Context, filters TimelineFilters) (Result, error) {
	if s.repo == nil {
		return Result{}, fmt.Errorf("audit: repository not configured")
	}
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 50 {
		pageSize = 50
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	rows, err := s.repo.TimelineWindow(ctx, filters, offset, pageSize+1)
	if err != nil {
		return Result{}, err
	}
	hasNext := len(rows) > pageSize
	if hasNext {
		rows = rows[:pageSize]
	}
	paging := PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext}
	if page > 1 {
		paging.PrevPage = page - 1
	}
	if hasNext {
		paging.NextPage = page + 1
	}
	return Result{Rows: rows, Paging: paging}, nil
}

// ExportCSV streams the filtered timeline as CSV, paging through the
// repository so large logs stay bounded in memory.
func (s *Service) ExportCSV(ctx context.Context, filters TimelineFilters, w io.Writer) error {
	if s.repo == nil {
		return fmt.Errorf("audit: repository not configured")
	}
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"occurred_at", "actor_id", "verb", "entity", "entity_id", "detail"}); err != nil {
		return err
	}
	const batch = 500
	offset := 0
	for {
		rows, err := s.repo.TimelineWindow(ctx, filters, offset, batch)
		if err != nil {
			return err
		}
		for _, record := range rows {
			if err := writer.Write([]string{
				record.At.UTC().Format(time.RFC3339),
				strconv.FormatInt(record.ActorID, 10),
				record.Verb,
				record.Entity,
				record.EntityID,
				record.Detail,
			}); err != nil {
				return err
			}
		}
		if len(rows) < batch {
			break
		}
		offset += batch
	}
	writer.Flush()
	return writer.Error()
}
