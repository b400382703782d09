package roles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/armada-fleet/armada/internal/shared"
)

// Service applies role business rules on top of the repository.
type Service struct {
	repo   Repository
	audit  *shared.AuditLogger
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// List returns one page of non-deleted roles with pagination metadata.
func (s *Service) List(ctx context.Context, opts shared.ListOptions) ([]Role, shared.Pagination, error) {
	items, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(opts.Page, opts.PerPage, total), nil
}

// Get fetches a role by its public identifier.
func (s *Service) Get(ctx context.Context, publicID string) (Role, error) {
	role, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Role{}, fmt.Errorf("role with uuid %s: %w", publicID, shared.ErrNotFound)
		}
		return Role{}, err
	}
	return role, nil
}

// Create inserts a new role after checking name uniqueness. The check
// spans all rows regardless of soft-delete status: a deleted role still
// reserves its name.
func (s *Service) Create(ctx context.Context, actor *shared.Identity, req CreateRoleRequest) (Role, error) {
	exists, err := s.repo.ExistsByName(ctx, req.Name, nil)
	if err != nil {
		return Role{}, err
	}
	if exists {
		return Role{}, fmt.Errorf("role with name %q already exists: %w", req.Name, shared.ErrConflict)
	}

	status := req.Status
	if status == "" {
		status = shared.StatusActive
	}
	role := Role{
		PublicID:    uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		CreatedBy:   actorID(actor),
	}
	created, err := s.repo.Create(ctx, role)
	if err != nil {
		return Role{}, err
	}
	s.recordAudit(ctx, actor, "role.create", created)
	return created, nil
}

// Update applies a partial update to a non-deleted role, re-checking name
// uniqueness (excluding the role itself) when the name changes.
func (s *Service) Update(ctx context.Context, actor *shared.Identity, id shared.ID, req UpdateRoleRequest) (Role, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Role{}, fmt.Errorf("role with id %s: %w", id, shared.ErrNotFound)
		}
		return Role{}, err
	}

	if req.Name != nil && *req.Name != role.Name {
		exists, err := s.repo.ExistsByName(ctx, *req.Name, &id)
		if err != nil {
			return Role{}, err
		}
		if exists {
			return Role{}, fmt.Errorf("role with name %q already exists: %w", *req.Name, shared.ErrConflict)
		}
		role.Name = *req.Name
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.Status != nil {
		role.Status = *req.Status
	}
	role.UpdatedBy = actorID(actor)

	updated, err := s.repo.Update(ctx, role)
	if err != nil {
		return Role{}, err
	}
	s.recordAudit(ctx, actor, "role.update", updated)
	return updated, nil
}

// Delete soft-deletes a non-deleted role and returns its name for the
// response message. The row is retained with the deletion audit fields.
func (s *Service) Delete(ctx context.Context, actor *shared.Identity, id shared.ID) (string, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", fmt.Errorf("role with id %s not found or already deleted: %w", id, shared.ErrNotFound)
		}
		return "", err
	}
	if err := s.repo.SoftDelete(ctx, id, actorID(actor), time.Now().UTC()); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", fmt.Errorf("role with id %s not found or already deleted: %w", id, shared.ErrNotFound)
		}
		return "", err
	}
	s.recordAudit(ctx, actor, "role.delete", role)
	return role.Name, nil
}

func (s *Service) recordAudit(ctx context.Context, actor *shared.Identity, action string, role Role) {
	if s.audit == nil || actor == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "role",
		EntityID: role.ID.String(),
		Meta:     map[string]any{"name": role.Name},
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
