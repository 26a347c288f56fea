package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/crucial707/asset-tracker/internal/apperr"
	"github.com/crucial707/asset-tracker/internal/lifecycle"
	"github.com/crucial707/asset-tracker/internal/metrics"
	"github.com/crucial707/asset-tracker/internal/models"
	"github.com/crucial707/asset-tracker/internal/pagination"
	"github.com/crucial707/asset-tracker/internal/query"
	"github.com/google/uuid"
)

// AssetStore persists assets. Update must hold the record exclusively while
// mutate runs so that concurrent mutations of one asset serialise.
type AssetStore interface {
	Get(ctx context.Context, id uuid.UUID) (models.Asset, error)
	List(ctx context.Context, f query.Filter, p pagination.Params) ([]models.Asset, int, error)
	Create(ctx context.Context, a models.Asset) (models.Asset, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*models.Asset) error) (models.Asset, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
}

// UserLookup resolves assignees.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

// AssetService implements the asset list, CRUD, assignment and report
// operations on top of a store.
type AssetService struct {
	assets AssetStore
	users  UserLookup

	// Now and NewID are replaceable in tests.
	Now   func() time.Time
	NewID func() uuid.UUID
}

func NewAssetService(assets AssetStore, users UserLookup) *AssetService {
	return &AssetService{
		assets: assets,
		users:  users,
		Now:    func() time.Time { return time.Now().UTC() },
		NewID:  uuid.New,
	}
}

// ListResult is one page of assets plus its pagination metadata.
type ListResult struct {
	Assets     []models.Asset  `json:"assets"`
	Pagination pagination.Meta `json:"pagination"`
}

// List returns the page p of assets matching f, newest first.
func (s *AssetService) List(ctx context.Context, f query.Filter, p pagination.Params) (ListResult, error) {
	p = p.Normalize()
	assets, total, err := s.assets.List(ctx, f, p)
	if err != nil {
		return ListResult{}, err
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	return ListResult{Assets: assets, Pagination: pagination.NewMeta(p, total)}, nil
}

func (s *AssetService) Get(ctx context.Context, id uuid.UUID) (models.Asset, error) {
	return s.assets.Get(ctx, id)
}

// Create validates in and stores a new asset. Status defaults to available.
func (s *AssetService) Create(ctx context.Context, in models.AssetInput) (models.Asset, error) {
	if err := in.Validate(); err != nil {
		return models.Asset{}, err
	}
	state, err := lifecycle.Initial(in.Status, in.AssignedTo)
	if err != nil {
		return models.Asset{}, err
	}
	if state.AssignedTo != nil {
		if _, err := s.users.GetByID(ctx, *state.AssignedTo); err != nil {
			return models.Asset{}, err
		}
	}

	a := in.NewAsset(s.NewID())
	state.ApplyTo(&a)
	now := s.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	created, err := s.assets.Create(ctx, a)
	if err != nil {
		return models.Asset{}, err
	}
	slog.InfoContext(ctx, "asset created", "asset_id", created.ID, "status", created.Status)
	return created, nil
}

// Update applies a partial update. Status and assignee changes go through
// the lifecycle rules against the current stored state.
func (s *AssetService) Update(ctx context.Context, id uuid.UUID, patch models.AssetPatch) (models.Asset, error) {
	if err := apperr.NewValidationError(patch.Validate()); err != nil {
		return models.Asset{}, err
	}
	change := lifecycle.ChangeOf(patch)
	if change.AssignedTo.Set && !change.AssignedTo.Null {
		if _, err := s.users.GetByID(ctx, change.AssignedTo.Value); err != nil {
			return models.Asset{}, err
		}
	}

	var from, to models.Status
	updated, err := s.assets.Update(ctx, id, func(a *models.Asset) error {
		from = a.Status
		next, err := lifecycle.Apply(lifecycle.Of(*a), change)
		if err != nil {
			return err
		}
		patch.ApplyDetails(a)
		next.ApplyTo(a)
		a.UpdatedAt = s.Now()
		to = a.Status
		return nil
	})
	if err != nil {
		return models.Asset{}, err
	}
	s.recordTransition(ctx, id, from, to)
	return updated, nil
}

// Delete removes the asset unconditionally. The assignee, if any, is not
// touched.
func (s *AssetService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.assets.Delete(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "asset deleted", "asset_id", id)
	return nil
}

// Assign hands the asset to userID.
func (s *AssetService) Assign(ctx context.Context, id, userID uuid.UUID) (models.Asset, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return models.Asset{}, err
	}
	var from models.Status
	updated, err := s.assets.Update(ctx, id, func(a *models.Asset) error {
		from = a.Status
		next, err := lifecycle.Assign(lifecycle.Of(*a), userID)
		if err != nil {
			return err
		}
		next.ApplyTo(a)
		a.UpdatedAt = s.Now()
		return nil
	})
	if err != nil {
		return models.Asset{}, err
	}
	s.recordTransition(ctx, id, from, updated.Status)
	return updated, nil
}

// Unassign returns an assigned asset to available.
func (s *AssetService) Unassign(ctx context.Context, id uuid.UUID) (models.Asset, error) {
	var from models.Status
	updated, err := s.assets.Update(ctx, id, func(a *models.Asset) error {
		from = a.Status
		next, err := lifecycle.Unassign(lifecycle.Of(*a))
		if err != nil {
			return err
		}
		next.ApplyTo(a)
		a.UpdatedAt = s.Now()
		return nil
	})
	if err != nil {
		return models.Asset{}, err
	}
	s.recordTransition(ctx, id, from, updated.Status)
	return updated, nil
}

func (s *AssetService) recordTransition(ctx context.Context, id uuid.UUID, from, to models.Status) {
	if from == to {
		return
	}
	metrics.IncAssetTransition(string(from), string(to))
	slog.InfoContext(ctx, "asset status changed", "asset_id", id, "from", from, "to", to)
}

// StatusCount is one row of the status report.
type StatusCount struct {
	Status models.Status `json:"status"`
	Count  int           `json:"count"`
}

// StatusReport is the per-status asset count shown on the dashboard.
type StatusReport struct {
	StatusCounts []StatusCount `json:"statusCounts"`
	Total        int           `json:"total"`
}

// StatusReport counts all assets by status. Every status is listed, in
// lifecycle order, including those with no assets.
func (s *AssetService) StatusReport(ctx context.Context) (StatusReport, error) {
	counts, err := s.assets.CountByStatus(ctx)
	if err != nil {
		return StatusReport{}, err
	}
	report := StatusReport{StatusCounts: make([]StatusCount, 0, len(models.Statuses))}
	for _, st := range models.Statuses {
		n := counts[st]
		report.StatusCounts = append(report.StatusCounts, StatusCount{Status: st, Count: n})
		report.Total += n
	}
	return report, nil
}
