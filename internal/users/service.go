package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/armada-fleet/armada/internal/shared"
)

// Service applies user management rules on top of the repository.
type Service struct {
	repo   Repository
	audit  *shared.AuditLogger
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// List returns one page of non-deleted users with pagination metadata.
func (s *Service) List(ctx context.Context, opts shared.ListOptions) ([]User, shared.Pagination, error) {
	items, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(opts.Page, opts.PerPage, total), nil
}

// Get fetches a user by its public identifier.
func (s *Service) Get(ctx context.Context, publicID string) (User, error) {
	user, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return User{}, fmt.Errorf("user with uuid %s: %w", publicID, shared.ErrNotFound)
		}
		return User{}, err
	}
	return user, nil
}

// Create inserts a new user account. Username and email are each checked
// for uniqueness across all rows, including soft-deleted ones.
func (s *Service) Create(ctx context.Context, actor *shared.Identity, req CreateUserRequest) (User, error) {
	if taken, err := s.repo.ExistsByUsername(ctx, req.Username, nil); err != nil {
		return User{}, err
	} else if taken {
		return User{}, fmt.Errorf("user with username %q already exists: %w", req.Username, shared.ErrConflict)
	}
	if taken, err := s.repo.ExistsByEmail(ctx, req.Email, nil); err != nil {
		return User{}, err
	} else if taken {
		return User{}, fmt.Errorf("user with email %q already exists: %w", req.Email, shared.ErrConflict)
	}

	roleID, err := s.resolveRole(ctx, req.RoleUUID)
	if err != nil {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	status := req.Status
	if status == "" {
		status = shared.StatusActive
	}
	user := User{
		PublicID:     uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Status:       status,
		RoleID:       roleID,
		CreatedBy:    actorID(actor),
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return User{}, err
	}
	s.recordAudit(ctx, actor, "user.create", created)
	return created, nil
}

// Update applies a partial update to a non-deleted user, re-checking
// uniqueness for any changed unique field, excluding the user itself.
func (s *Service) Update(ctx context.Context, actor *shared.Identity, id shared.ID, req UpdateUserRequest) (User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return User{}, fmt.Errorf("user with id %s: %w", id, shared.ErrNotFound)
		}
		return User{}, err
	}

	if req.Username != nil && *req.Username != user.Username {
		if taken, err := s.repo.ExistsByUsername(ctx, *req.Username, &id); err != nil {
			return User{}, err
		} else if taken {
			return User{}, fmt.Errorf("user with username %q already exists: %w", *req.Username, shared.ErrConflict)
		}
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		if taken, err := s.repo.ExistsByEmail(ctx, *req.Email, &id); err != nil {
			return User{}, err
		} else if taken {
			return User{}, fmt.Errorf("user with email %q already exists: %w", *req.Email, shared.ErrConflict)
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		user.PasswordHash = string(hash)
	}
	if req.RoleUUID != nil {
		roleID, err := s.resolveRole(ctx, *req.RoleUUID)
		if err != nil {
			return User{}, err
		}
		user.RoleID = roleID
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	user.UpdatedBy = actorID(actor)

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return User{}, err
	}
	s.recordAudit(ctx, actor, "user.update", updated)
	return updated, nil
}

// Delete soft-deletes a non-deleted user. The record stays in storage
// with the deletion audit fields; any outstanding token for the user is
// rejected on its next request by identity resolution.
func (s *Service) Delete(ctx context.Context, actor *shared.Identity, id shared.ID) (string, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", fmt.Errorf("user with id %s not found or already deleted: %w", id, shared.ErrNotFound)
		}
		return "", err
	}
	if err := s.repo.SoftDelete(ctx, id, actorID(actor), time.Now().UTC()); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", fmt.Errorf("user with id %s not found or already deleted: %w", id, shared.ErrNotFound)
		}
		return "", err
	}
	s.recordAudit(ctx, actor, "user.delete", user)
	return user.Username, nil
}

// resolveRole maps an optional role public id onto the internal id. An
// unknown role is an input error, not a 404 on the user operation.
func (s *Service) resolveRole(ctx context.Context, roleUUID string) (*shared.ID, error) {
	if roleUUID == "" {
		return nil, nil
	}
	roleID, err := s.repo.FindRoleIDByPublicID(ctx, roleUUID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewValidationError(fmt.Sprintf("role with uuid %s does not exist", roleUUID))
		}
		return nil, err
	}
	return &roleID, nil
}

func (s *Service) recordAudit(ctx context.Context, actor *shared.Identity, action string, user User) {
	if s.audit == nil || actor == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "user",
		EntityID: user.ID.String(),
		Meta:     map[string]any{"username": user.Username},
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
