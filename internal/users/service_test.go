package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/armada-fleet/armada/internal/shared"
	_ "github.com/armada-fleet/armada/testing"
)

type mockRepository struct {
	byID    map[shared.ID]User
	deleted map[shared.ID]bool
	roles   map[string]shared.ID
	nextID  shared.ID
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		byID:    map[shared.ID]User{},
		deleted: map[shared.ID]bool{},
		roles:   map[string]shared.ID{},
		nextID:  1,
	}
}

func (m *mockRepository) seed(user User) User {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	m.byID[user.ID] = user
	return user
}

func (m *mockRepository) List(ctx context.Context, opts shared.ListOptions) ([]User, int, error) {
	var items []User
	for _, u := range m.byID {
		if !m.deleted[u.ID] {
			items = append(items, u)
		}
	}
	return items, len(items), nil
}

func (m *mockRepository) GetByPublicID(ctx context.Context, publicID string) (User, error) {
	for _, u := range m.byID {
		if u.PublicID == publicID && !m.deleted[u.ID] {
			return u, nil
		}
	}
	return User{}, shared.ErrNotFound
}

func (m *mockRepository) GetByID(ctx context.Context, id shared.ID) (User, error) {
	u, ok := m.byID[id]
	if !ok || m.deleted[id] {
		return User{}, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepository) ExistsByUsername(ctx context.Context, username string, excludeID *shared.ID) (bool, error) {
	for _, u := range m.byID {
		if u.Username == username {
			if excludeID != nil && u.ID == *excludeID {
				continue
			}
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) ExistsByEmail(ctx context.Context, email string, excludeID *shared.ID) (bool, error) {
	for _, u := range m.byID {
		if u.Email == email {
			if excludeID != nil && u.ID == *excludeID {
				continue
			}
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) FindRoleIDByPublicID(ctx context.Context, roleUUID string) (shared.ID, error) {
	id, ok := m.roles[roleUUID]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return id, nil
}

func (m *mockRepository) Create(ctx context.Context, user User) (User, error) {
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.byID[user.ID] = user
	return user, nil
}

func (m *mockRepository) Update(ctx context.Context, user User) (User, error) {
	if _, ok := m.byID[user.ID]; !ok || m.deleted[user.ID] {
		return User{}, shared.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	m.byID[user.ID] = user
	return user, nil
}

func (m *mockRepository) SoftDelete(ctx context.Context, id shared.ID, deletedBy *shared.ID, at time.Time) error {
	if _, ok := m.byID[id]; !ok || m.deleted[id] {
		return shared.ErrNotFound
	}
	m.deleted[id] = true
	return nil
}

var _ Repository = (*mockRepository)(nil)

const operatorRoleUUID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

func actor() *shared.Identity {
	return &shared.Identity{ID: 99, Username: "admin", Status: shared.StatusActive}
}

func TestCreateUser(t *testing.T) {
	repo := newMockRepository()
	repo.roles[operatorRoleUUID] = 3
	svc := NewService(repo, nil, nil)

	created, err := svc.Create(context.Background(), actor(), CreateUserRequest{
		Username: "driver1",
		Email:    "driver1@example.com",
		Password: "Secret123!",
		RoleUUID: operatorRoleUUID,
	})
	require.NoError(t, err)
	assert.Equal(t, "driver1", created.Username)
	assert.Equal(t, shared.StatusActive, created.Status)
	assert.NotEmpty(t, created.PublicID)
	require.NotNil(t, created.RoleID)
	assert.Equal(t, shared.ID(3), *created.RoleID)

	// Stored hash verifies against the submitted password.
	stored := repo.byID[created.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Secret123!")))
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	repo := newMockRepository()
	repo.seed(User{Username: "driver1", Email: "old@example.com", Status: shared.StatusActive})
	svc := NewService(repo, nil, nil)

	_, err := svc.Create(context.Background(), actor(), CreateUserRequest{
		Username: "driver1", Email: "new@example.com", Password: "Secret123!",
	})
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	repo.seed(User{Username: "other", Email: "taken@example.com", Status: shared.StatusActive})
	svc := NewService(repo, nil, nil)

	_, err := svc.Create(context.Background(), actor(), CreateUserRequest{
		Username: "driver1", Email: "taken@example.com", Password: "Secret123!",
	})
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestCreateUserUnknownRole(t *testing.T) {
	svc := NewService(newMockRepository(), nil, nil)

	_, err := svc.Create(context.Background(), actor(), CreateUserRequest{
		Username: "driver1", Email: "driver1@example.com", Password: "Secret123!",
		RoleUUID: operatorRoleUUID,
	})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages[0], operatorRoleUUID)
}

func TestUpdateUserPartial(t *testing.T) {
	repo := newMockRepository()
	seeded := repo.seed(User{Username: "driver1", Email: "driver1@example.com", Status: shared.StatusActive})
	svc := NewService(repo, nil, nil)

	email := "new@example.com"
	updated, err := svc.Update(context.Background(), actor(), seeded.ID, UpdateUserRequest{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "driver1", updated.Username)
	assert.Equal(t, "new@example.com", updated.Email)
}

func TestUpdateUserPasswordRehash(t *testing.T) {
	repo := newMockRepository()
	seeded := repo.seed(User{Username: "driver1", Email: "d@example.com", PasswordHash: "old-hash", Status: shared.StatusActive})
	svc := NewService(repo, nil, nil)

	password := "NewSecret1"
	_, err := svc.Update(context.Background(), actor(), seeded.ID, UpdateUserRequest{Password: &password})
	require.NoError(t, err)

	stored := repo.byID[seeded.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("NewSecret1")))
}

func TestUpdateUserUsernameConflict(t *testing.T) {
	repo := newMockRepository()
	repo.seed(User{Username: "taken", Email: "a@example.com", Status: shared.StatusActive})
	seeded := repo.seed(User{Username: "driver1", Email: "b@example.com", Status: shared.StatusActive})
	svc := NewService(repo, nil, nil)

	username := "taken"
	_, err := svc.Update(context.Background(), actor(), seeded.ID, UpdateUserRequest{Username: &username})
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestDeleteUser(t *testing.T) {
	repo := newMockRepository()
	seeded := repo.seed(User{Username: "driver1", Email: "d@example.com", Status: shared.StatusActive})
	svc := NewService(repo, nil, nil)

	username, err := svc.Delete(context.Background(), actor(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "driver1", username)

	_, err = svc.Delete(context.Background(), actor(), seeded.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteUserWithoutActor(t *testing.T) {
	repo := newMockRepository()
	seeded := repo.seed(User{Username: "driver1", Email: "d@example.com", Status: shared.StatusActive})
	svc := NewService(repo, nil, nil)

	username, err := svc.Delete(context.Background(), nil, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "driver1", username)
}
