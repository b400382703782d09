package vehicles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/armada-fleet/armada/internal/shared"
)

// Service applies vehicle business rules on top of the repository.
type Service struct {
	repo   Repository
	audit  *shared.AuditLogger
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// List returns one page of non-deleted vehicles with pagination metadata.
func (s *Service) List(ctx context.Context, opts shared.ListOptions) ([]Vehicle, shared.Pagination, error) {
	items, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(opts.Page, opts.PerPage, total), nil
}

// Get fetches a vehicle by its public identifier.
func (s *Service) Get(ctx context.Context, publicID string) (Vehicle, error) {
	vehicle, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Vehicle{}, fmt.Errorf("vehicle with uuid %s: %w", publicID, shared.ErrNotFound)
		}
		return Vehicle{}, err
	}
	return vehicle, nil
}

// Create registers a vehicle after checking plate uniqueness. The check
// spans all rows regardless of soft-delete status: a deleted vehicle still
// reserves its plate.
func (s *Service) Create(ctx context.Context, actor *shared.Identity, req CreateVehicleRequest) (Vehicle, error) {
	exists, err := s.repo.ExistsByPlateNumber(ctx, req.PlateNumber, nil)
	if err != nil {
		return Vehicle{}, err
	}
	if exists {
		return Vehicle{}, fmt.Errorf("vehicle with plate number %q already exists: %w", req.PlateNumber, shared.ErrConflict)
	}

	status := req.Status
	if status == "" {
		status = shared.StatusActive
	}
	vehicle := Vehicle{
		PublicID:    uuid.NewString(),
		PlateNumber: req.PlateNumber,
		HullNumber:  req.HullNumber,
		Type:        req.Type,
		Brand:       req.Brand,
		Model:       req.Model,
		Status:      status,
		CreatedBy:   actorID(actor),
	}
	created, err := s.repo.Create(ctx, vehicle)
	if err != nil {
		return Vehicle{}, err
	}
	s.recordAudit(ctx, actor, "vehicle.create", created)
	return created, nil
}

// Update applies a partial update, re-checking plate uniqueness (excluding
// the vehicle itself) when the plate changes.
func (s *Service) Update(ctx context.Context, actor *shared.Identity, id shared.ID, req UpdateVehicleRequest) (Vehicle, error) {
	vehicle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Vehicle{}, fmt.Errorf("vehicle with id %s: %w", id, shared.ErrNotFound)
		}
		return Vehicle{}, err
	}

	if req.PlateNumber != nil && *req.PlateNumber != vehicle.PlateNumber {
		exists, err := s.repo.ExistsByPlateNumber(ctx, *req.PlateNumber, &id)
		if err != nil {
			return Vehicle{}, err
		}
		if exists {
			return Vehicle{}, fmt.Errorf("vehicle with plate number %q already exists: %w", *req.PlateNumber, shared.ErrConflict)
		}
		vehicle.PlateNumber = *req.PlateNumber
	}
	if req.HullNumber != nil {
		vehicle.HullNumber = *req.HullNumber
	}
	if req.Type != nil {
		vehicle.Type = *req.Type
	}
	if req.Brand != nil {
		vehicle.Brand = *req.Brand
	}
	if req.Model != nil {
		vehicle.Model = *req.Model
	}
	if req.Status != nil {
		vehicle.Status = *req.Status
	}
	vehicle.UpdatedBy = actorID(actor)

	updated, err := s.repo.Update(ctx, vehicle)
	if err != nil {
		return Vehicle{}, err
	}
	s.recordAudit(ctx, actor, "vehicle.update", updated)
	return updated, nil
}

// Delete soft-deletes a non-deleted vehicle and returns its plate number
// for the response message.
func (s *Service) Delete(ctx context.Context, actor *shared.Identity, id shared.ID) (string, error) {
	vehicle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", fmt.Errorf("vehicle with id %s not found or already deleted: %w", id, shared.ErrNotFound)
		}
		return "", err
	}
	if err := s.repo.SoftDelete(ctx, id, actorID(actor), time.Now().UTC()); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", fmt.Errorf("vehicle with id %s not found or already deleted: %w", id, shared.ErrNotFound)
		}
		return "", err
	}
	s.recordAudit(ctx, actor, "vehicle.delete", vehicle)
	return vehicle.PlateNumber, nil
}

func (s *Service) recordAudit(ctx context.Context, actor *shared.Identity, action string, vehicle Vehicle) {
	if s.audit == nil || actor == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "vehicle",
		EntityID: vehicle.ID.String(),
		Meta:     map[string]any{"plate_number": vehicle.PlateNumber},
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("record audit", slog.String("action", action), slog.Any("error", err))
	}
}

func actorID(actor *shared.Identity) *shared.ID {
	if actor == nil {
		return nil
	}
	id := actor.ID
	return &id
}
