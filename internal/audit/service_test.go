package audit

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

type stubTimelineRepo struct {
	rows     []Record
	lastCall struct {
		offset int
		limit  int
	}
}

func (s *stubTimelineRepo) TimelineWindow(ctx context.Context, filters TimelineFilters, offset, limit int) ([]Record, error) {
	s.lastCall.offset = offset
	s.lastCall.limit = limit
	if offset >= len(s.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.rows) {
		end = len(s.rows)
	}
	return s.rows[offset:end], nil
}

func record(at string, actor int64, verb string) Record {
	ts, _ := time.Parse(time.RFC3339, at)
	return Record{TenantID: 1, ActorID: actor, Verb: verb, Entity: "tasks", At: ts}
}

func TestServiceTimelinePaging(t *testing.T) {
	repo := &stubTimelineRepo{rows: []Record{
		record("2026-03-10T10:00:00Z", 9, "DENIED_UPDATE"),
		record("2026-03-09T09:00:00Z", 9, "DENIED_DELETE"),
		record("2026-03-08T08:00:00Z", 3, "VETOED_CREATE"),
	}}
	svc := NewService(repo)

	result, err := svc.Timeline(context.Background(), TimelineFilters{TenantID: 1, Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if !result.Paging.HasNext {
		t.Fatalf("expected hasNext true")
	}
	if result.Paging.NextPage != 2 {
		t.Fatalf("expected next page 2, got %d", result.Paging.NextPage)
	}
	if repo.lastCall.limit != 3 {
		t.Fatalf("expected lookahead limit 3, got %d", repo.lastCall.limit)
	}
}

func TestServiceTimelineClampsPageSize(t *testing.T) {
	repo := &stubTimelineRepo{}
	svc := NewService(repo)
	if _, err := svc.Timeline(context.Background(), TimelineFilters{TenantID: 1, PageSize: 500}); err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if repo.lastCall.limit != 51 {
		t.Fatalf("expected clamped limit 51, got %d", repo.lastCall.limit)
	}
}

func TestServiceExportCSV(t *testing.T) {
	repo := &stubTimelineRepo{rows: []Record{
		{TenantID: 1, ActorID: 9, Verb: "DENIED_UPDATE", Entity: "tasks", EntityID: "42", Detail: "scope", At: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)},
	}}
	svc := NewService(repo)

	var buf bytes.Buffer
	if err := svc.ExportCSV(context.Background(), TimelineFilters{TenantID: 1}, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "occurred_at,actor_id,verb,entity,entity_id,detail" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "DENIED_UPDATE") || !strings.Contains(lines[1], "42") {
		t.Fatalf("unexpected row %q", lines[1])
	}
}
