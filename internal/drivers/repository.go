package drivers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/armada-fleet/armada/internal/platform/db"
	"github.com/armada-fleet/armada/internal/shared"
)

// Repository defines persistence operations for drivers.
type Repository interface {
	List(ctx context.Context, opts shared.ListOptions) ([]Driver, int, error)
	GetByPublicID(ctx context.Context, publicID string) (Driver, error)
	GetByID(ctx context.Context, id shared.ID) (Driver, error)
	FindVehicleIDByPublicID(ctx context.Context, publicID string) (shared.ID, error)
	Create(ctx context.Context, driver Driver) (Driver, error)
	Update(ctx context.Context, driver Driver) (Driver, error)
	SoftDelete(ctx context.Context, id shared.ID, deletedBy *shared.ID, at time.Time) error
}

// PGRepository provides PostgreSQL backed persistence. Reads join the
// live vehicle row so the assignment surfaces as the vehicle's public
// identifier.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const driverColumns = `d.id, d.driver_uuid, d.name, d.phone_number, d.emergency_contact, d.address, d.driver_type, d.status, d.vehicle_id, v.vehicle_uuid, d.created_by, d.updated_by, d.created_at, d.updated_at`

const activeDrivers = `FROM drivers d
LEFT JOIN vehicles v ON v.id = d.vehicle_id AND v.deleted_at IS NULL
WHERE d.deleted_at IS NULL`

// List returns one page of non-deleted drivers plus the total count,
// both read inside one RepeatableRead transaction.
func (r *PGRepository) List(ctx context.Context, opts shared.ListOptions) ([]Driver, int, error) {
	where := activeDrivers
	args := []any{}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (d.name ILIKE $` + n + ` OR d.phone_number ILIKE $` + n + `)`
	}

	query := `SELECT ` + driverColumns + ` ` + where +
		` ORDER BY ` + sortClause(opts.SortBy, opts.SortOrder) +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	countQuery := `SELECT COUNT(*) ` + where

	var (
		items []Driver
		total int
	)
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
			return err
		}
		rows, err := tx.Query(ctx, query, append(args, opts.PerPage, opts.Offset())...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			driver, err := scanDriver(rows)
			if err != nil {
				return err
			}
			items = append(items, driver)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByPublicID fetches a non-deleted driver by its opaque identifier.
func (r *PGRepository) GetByPublicID(ctx context.Context, publicID string) (Driver, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+driverColumns+` `+activeDrivers+` AND d.driver_uuid = $1`, publicID)
	return scanDriverNotFound(row)
}

// GetByID fetches a non-deleted driver by internal id.
func (r *PGRepository) GetByID(ctx context.Context, id shared.ID) (Driver, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+driverColumns+` `+activeDrivers+` AND d.id = $1`, id.Int64())
	return scanDriverNotFound(row)
}

// FindVehicleIDByPublicID resolves a vehicle's opaque identifier to its
// internal id. Soft-deleted vehicles do not resolve.
func (r *PGRepository) FindVehicleIDByPublicID(ctx context.Context, publicID string) (shared.ID, error) {
	var id shared.ID
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM vehicles WHERE vehicle_uuid = $1 AND deleted_at IS NULL`, publicID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, shared.ErrNotFound
	}
	return id, err
}

// Create inserts a new driver.
func (r *PGRepository) Create(ctx context.Context, driver Driver) (Driver, error) {
	var id shared.ID
	err := r.pool.QueryRow(ctx, `
INSERT INTO drivers (driver_uuid, name, phone_number, emergency_contact, address, driver_type, status, vehicle_id, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`,
		driver.PublicID, driver.Name, driver.PhoneNumber, driver.EmergencyContact,
		driver.Address, driver.Type, driver.Status, idArg(driver.VehicleID), idArg(driver.CreatedBy)).Scan(&id)
	if err != nil {
		return Driver{}, err
	}
	return r.GetByID(ctx, id)
}

// Update persists the full field set of a non-deleted driver.
func (r *PGRepository) Update(ctx context.Context, driver Driver) (Driver, error) {
	tag, err := r.pool.Exec(ctx, `
UPDATE drivers
SET name = $2, phone_number = $3, emergency_contact = $4, address = $5, driver_type = $6, status = $7, vehicle_id = $8, updated_by = $9, updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL`,
		driver.ID.Int64(), driver.Name, driver.PhoneNumber, driver.EmergencyContact,
		driver.Address, driver.Type, driver.Status, idArg(driver.VehicleID), idArg(driver.UpdatedBy))
	if err != nil {
		return Driver{}, err
	}
	if tag.RowsAffected() == 0 {
		return Driver{}, shared.ErrNotFound
	}
	return r.GetByID(ctx, driver.ID)
}

// SoftDelete stamps the deletion marker on a live row.
func (r *PGRepository) SoftDelete(ctx context.Context, id shared.ID, deletedBy *shared.ID, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE drivers SET deleted_at = $2, deleted_by = $3 WHERE id = $1 AND deleted_at IS NULL`,
		id.Int64(), at, idArg(deletedBy))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanDriver(row pgx.Row) (Driver, error) {
	var (
		driver    Driver
		vehicleID *int64
		createdBy *int64
		updatedBy *int64
	)
	err := row.Scan(&driver.ID, &driver.PublicID, &driver.Name, &driver.PhoneNumber,
		&driver.EmergencyContact, &driver.Address, &driver.Type, &driver.Status,
		&vehicleID, &driver.VehicleUUID, &createdBy, &updatedBy, &driver.CreatedAt, &driver.UpdatedAt)
	if err != nil {
		return Driver{}, err
	}
	driver.VehicleID = toID(vehicleID)
	driver.CreatedBy = toID(createdBy)
	driver.UpdatedBy = toID(updatedBy)
	return driver, nil
}

func scanDriverNotFound(row pgx.Row) (Driver, error) {
	driver, err := scanDriver(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Driver{}, shared.ErrNotFound
	}
	return driver, err
}

func sortClause(sortBy, sortOrder string) string {
	dir := "DESC"
	if sortOrder == "asc" {
		dir = "ASC"
	}
	switch sortBy {
	case "name":
		return "d.name " + dir
	case "phone_number":
		return "d.phone_number " + dir
	case "status":
		return "d.status " + dir
	case "updated_at":
		return "d.updated_at " + dir
	default:
		return "d.created_at " + dir
	}
}

func toID(v *int64) *shared.ID {
	if v == nil {
		return nil
	}
	id := shared.ID(*v)
	return &id
}

func idArg(id *shared.ID) any {
	if id == nil {
		return nil
	}
	return id.Int64()
}

var _ Repository = (*PGRepository)(nil)
