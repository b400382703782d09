package drivers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/armada-fleet/armada/internal/shared"
)

// Service applies driver business rules on top of the repository.
type Service struct {
	repo   Repository
	audit  *shared.AuditLogger
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// List returns one page of non-deleted drivers with pagination metadata.
func (s *Service) List(ctx context.Context, opts shared.ListOptions) ([]Driver, shared.Pagination, error) {
	items, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(opts.Page, opts.PerPage, total), nil
}

// Get fetches a driver by its public identifier.
func (s *Service) Get(ctx context.Context, publicID string) (Driver, error) {
	driver, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Driver{}, fmt.Errorf("driver with uuid %s: %w", publicID, shared.ErrNotFound)
		}
		return Driver{}, err
	}
	return driver, nil
}

// Create registers a driver, resolving the optional vehicle assignment
// from the vehicle's public identifier.
func (s *Service) Create(ctx context.Context, actor *shared.Identity, req CreateDriverRequest) (Driver, error) {
	vehicleID, err := s.resolveVehicle(ctx, req.VehicleUUID)
	if err != nil {
		return Driver{}, err
	}

	status := req.Status
	if status == "" {
		status = shared.StatusActive
	}
	driver := Driver{
		PublicID:         uuid.NewString(),
		Name:             req.Name,
		PhoneNumber:      req.PhoneNumber,
		EmergencyContact: req.EmergencyContact,
		Address:          req.Address,
		Type:             req.Type,
		Status:           status,
		VehicleID:        vehicleID,
		CreatedBy:        actorID(actor),
	}
	created, err := s.repo.Create(ctx, driver)
	if err != nil {
		return Driver{}, err
	}
	s.recordAudit(ctx, actor, "driver.create", created)
	return created, nil
}

// Update applies a partial update to a non-deleted driver. An explicitly
// empty vehicle_uuid clears the assignment.
func (s *Service) Update(ctx context.Context, actor *shared.Identity, id shared.ID, req UpdateDriverRequest) (Driver, error) {
	driver, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Driver{}, fmt.Errorf("driver with id %s: %w", id, shared.ErrNotFound)
		}
		return Driver{}, err
	}

	if req.Name != nil {
		driver.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		driver.PhoneNumber = *req.PhoneNumber
	}
	if req.EmergencyContact != nil {
		driver.EmergencyContact = *req.EmergencyContact
	}
	if req.Address != nil {
		driver.Address = *req.Address
	}
	if req.Type != nil {
		driver.Type = *req.Type
	}
	if req.Status != nil {
		driver.Status = *req.Status
	}
	if req.VehicleUUID != nil {
		vehicleID, err := s.resolveVehicle(ctx, *req.VehicleUUID)
		if err != nil {
			return Driver{}, err
		}
		driver.VehicleID = vehicleID
	}
	driver.UpdatedBy = actorID(actor)

	updated, err := s.repo.Update(ctx, driver)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Driver{}, fmt.Errorf("driver with id %s: %w", id, shared.ErrNotFound)
		}
		return Driver{}, err
	}
	s.recordAudit(ctx, actor, "driver.update", updated)
	return updated, nil
}

// Delete soft-deletes a non-deleted driver and returns their name for
// the response message.
func (s *Service) Delete(ctx context.Context, actor *shared.Identity, id shared.ID) (string, error) {
	driver, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", fmt.Errorf("driver with id %s not found or already deleted: %w", id, shared.ErrNotFound)
		}
		return "", err
	}
	if err := s.repo.SoftDelete(ctx, id, actorID(actor), time.Now().UTC()); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", fmt.Errorf("driver with id %s not found or already deleted: %w", id, shared.ErrNotFound)
		}
		return "", err
	}
	s.recordAudit(ctx, actor, "driver.delete", driver)
	return driver.Name, nil
}

// resolveVehicle maps a vehicle's public identifier to its internal id.
// The empty string means no assignment. An identifier that does not
// resolve to a live vehicle is a validation failure, not a lookup miss:
// the driver, not the vehicle, is the request subject.
func (s *Service) resolveVehicle(ctx context.Context, vehicleUUID string) (*shared.ID, error) {
	if vehicleUUID == "" {
		return nil, nil
	}
	id, err := s.repo.FindVehicleIDByPublicID(ctx, vehicleUUID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewValidationError(fmt.Sprintf("vehicle with uuid %s does not exist", vehicleUUID))
		}
		return nil, err
	}
	return &id, nil
}

func (s *Service) recordAudit(ctx context.Context, actor *shared.Identity, action string, driver Driver) {
	if s.audit == nil || actor == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "driver",
		EntityID: driver.ID.String(),
		Meta:     map[string]any{"name": driver.Name},
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
