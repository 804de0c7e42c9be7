package timeentries

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/praxis-suite/praxis/internal/authz"
	"github.com/praxis-suite/praxis/internal/platform/httpx"
)

// Service wraps time entry rules on top of the permission engine.
type Service struct {
	repo     Repository
	resolver *authz.Resolver
}

// NewService constructs the service.
func NewService(repo Repository, resolver *authz.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// List returns entries the caller may see. The engine decides whether
// the listing is unrestricted, team-wide or own-only.
func (s *Service) List(ctx context.Context, id authz.Identity, filters ListFilters) ([]Entry, error) {
	scope, err := s.resolver.FilterForList(ctx, id, authz.ResourceTimeEntries, authz.ActionRead)
	if err != nil {
		return nil, err
	}
	if !scope.Unrestricted {
		filters.OwnerIDs = scope.OwnerIDs
	}
	return s.repo.List(ctx, id.TenantID, filters)
}

// Get loads one entry after an owner-scoped read check.
func (s *Service) Get(ctx context.Context, id authz.Identity, entryID int64) (*Entry, error) {
	entry, err := s.repo.FindByID(ctx, id.TenantID, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceTimeEntries, authz.ActionRead, authz.WithOwner(entry.UserID)); err != nil {
		return nil, err
	}
	return entry, nil
}

// Create logs hours for the caller.
func (s *Service) Create(ctx context.Context, id authz.Identity, input CreateInput) (*Entry, error) {
	return s.repo.Insert(ctx, Entry{
		TenantID: id.TenantID,
		TaskID:   input.TaskID,
		UserID:   id.UserID,
		Day:      input.Day,
		Hours:    input.Hours,
		Note:     input.Note,
		Status:   StatusDraft,
	})
}

// Update applies changes after an owner-scoped check. Approved entries
// are frozen.
func (s *Service) Update(ctx context.Context, id authz.Identity, entryID int64, input UpdateInput) (*Entry, error) {
	entry, err := s.repo.FindByID(ctx, id.TenantID, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceTimeEntries, authz.ActionUpdate, authz.WithOwner(entry.UserID)); err != nil {
		return nil, err
	}
	if entry.Status == StatusApproved {
		return nil, fmt.Errorf("%w: approved entries are frozen", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, id.TenantID, entryID, input)
}

// Approve locks an entry after a scoped check against its owner.
func (s *Service) Approve(ctx context.Context, id authz.Identity, entryID int64) (*Entry, error) {
	entry, err := s.repo.FindByID(ctx, id.TenantID, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceTimeEntries, authz.ActionApprove, authz.WithOwner(entry.UserID)); err != nil {
		return nil, err
	}
	return s.repo.SetStatus(ctx, id.TenantID, entryID, StatusApproved)
}

// Delete removes an entry after an owner-scoped check.
func (s *Service) Delete(ctx context.Context, id authz.Identity, entryID int64) error {
	entry, err := s.repo.FindByID(ctx, id.TenantID, entryID)
	if err != nil {
		return err
	}
	if err := s.resolver.Assert(ctx, id, authz.ResourceTimeEntries, authz.ActionDelete, authz.WithOwner(entry.UserID)); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id.TenantID, entryID)
}

// ExportCSV streams the caller's visible entries as CSV, constrained by
// the same engine filter the listing uses.
func (s *Service) ExportCSV(ctx context.Context, id authz.Identity, filters ListFilters, w io.Writer) error {
	scope, err := s.resolver.FilterForList(ctx, id, authz.ResourceTimeEntries, authz.ActionExport)
	if err != nil {
		return err
	}
	if !scope.Unrestricted {
		filters.OwnerIDs = scope.OwnerIDs
	}
	entries, err := s.repo.List(ctx, id.TenantID, filters)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"day", "user_id", "task_id", "hours", "status", "note"}); err != nil {
		return err
	}
	for _, entry := range entries {
		record := []string{
			entry.Day.Format("2006-01-02"),
			strconv.FormatInt(entry.UserID, 10),
			strconv.FormatInt(entry.TaskID, 10),
			strconv.FormatFloat(entry.Hours, 'f', 2, 64),
			entry.Status,
			entry.Note,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
