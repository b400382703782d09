package vehicles

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/armada-fleet/armada/internal/platform/db"
	"github.com/armada-fleet/armada/internal/shared"
)

// Repository defines persistence operations for vehicles.
type Repository interface {
	List(ctx context.Context, opts shared.ListOptions) ([]Vehicle, int, error)
	GetByPublicID(ctx context.Context, publicID string) (Vehicle, error)
	GetByID(ctx context.Context, id shared.ID) (Vehicle, error)
	ExistsByPlateNumber(ctx context.Context, plate string, excludeID *shared.ID) (bool, error)
	Create(ctx context.Context, vehicle Vehicle) (Vehicle, error)
	Update(ctx context.Context, vehicle Vehicle) (Vehicle, error)
	SoftDelete(ctx context.Context, id shared.ID, deletedBy *shared.ID, at time.Time) error
}

// PGRepository provides PostgreSQL backed persistence with the soft-delete
// predicate baked into every read.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const vehicleColumns = `id, vehicle_uuid, plate_number, hull_number, vehicle_type, brand, model, status, created_by, updated_by, created_at, updated_at`

const activeVehicles = `FROM vehicles WHERE deleted_at IS NULL`

// List returns one page of non-deleted vehicles plus the total count,
// both read inside one RepeatableRead transaction.
func (r *PGRepository) List(ctx context.Context, opts shared.ListOptions) ([]Vehicle, int, error) {
	where := activeVehicles
	args := []any{}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (plate_number ILIKE $` + n + ` OR brand ILIKE $` + n + ` OR model ILIKE $` + n + `)`
	}

	query := `SELECT ` + vehicleColumns + ` ` + where +
		` ORDER BY ` + sortClause(opts.SortBy, opts.SortOrder) +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	countQuery := `SELECT COUNT(*) ` + where

	var (
		items []Vehicle
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
			vehicle, err := scanVehicle(rows)
			if err != nil {
				return err
			}
			items = append(items, vehicle)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByPublicID fetches a non-deleted vehicle by its opaque identifier.
func (r *PGRepository) GetByPublicID(ctx context.Context, publicID string) (Vehicle, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+vehicleColumns+` `+activeVehicles+` AND vehicle_uuid = $1`, publicID)
	return scanVehicleNotFound(row)
}

// GetByID fetches a non-deleted vehicle by internal id.
func (r *PGRepository) GetByID(ctx context.Context, id shared.ID) (Vehicle, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+vehicleColumns+` `+activeVehicles+` AND id = $1`, id.Int64())
	return scanVehicleNotFound(row)
}

// ExistsByPlateNumber checks plate uniqueness across ALL rows, including
// soft-deleted ones, optionally excluding one record.
func (r *PGRepository) ExistsByPlateNumber(ctx context.Context, plate string, excludeID *shared.ID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM vehicles WHERE plate_number = $1`
	args := []any{plate}
	if excludeID != nil {
		query += ` AND id <> $2`
		args = append(args, excludeID.Int64())
	}
	query += `)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, args...).Scan(&exists)
	return exists, err
}

// Create inserts a new vehicle.
func (r *PGRepository) Create(ctx context.Context, vehicle Vehicle) (Vehicle, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO vehicles (vehicle_uuid, plate_number, hull_number, vehicle_type, brand, model, status, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+vehicleColumns,
		vehicle.PublicID, vehicle.PlateNumber, vehicle.HullNumber, vehicle.Type,
		vehicle.Brand, vehicle.Model, vehicle.Status, idArg(vehicle.CreatedBy))
	created, err := scanVehicle(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Vehicle{}, fmt.Errorf("vehicle with plate number %q already exists: %w", vehicle.PlateNumber, shared.ErrConflict)
		}
		return Vehicle{}, err
	}
	return created, nil
}

// Update persists the full field set of a non-deleted vehicle.
func (r *PGRepository) Update(ctx context.Context, vehicle Vehicle) (Vehicle, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE vehicles
SET plate_number = $2, hull_number = $3, vehicle_type = $4, brand = $5, model = $6, status = $7, updated_by = $8, updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
RETURNING `+vehicleColumns,
		vehicle.ID.Int64(), vehicle.PlateNumber, vehicle.HullNumber, vehicle.Type,
		vehicle.Brand, vehicle.Model, vehicle.Status, idArg(vehicle.UpdatedBy))
	updated, err := scanVehicleNotFound(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Vehicle{}, fmt.Errorf("vehicle with plate number %q already exists: %w", vehicle.PlateNumber, shared.ErrConflict)
		}
		return Vehicle{}, err
	}
	return updated, nil
}

// SoftDelete stamps the deletion marker on a live row.
func (r *PGRepository) SoftDelete(ctx context.Context, id shared.ID, deletedBy *shared.ID, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE vehicles SET deleted_at = $2, deleted_by = $3 WHERE id = $1 AND deleted_at IS NULL`,
		id.Int64(), at, idArg(deletedBy))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanVehicle(row pgx.Row) (Vehicle, error) {
	var (
		vehicle   Vehicle
		createdBy *int64
		updatedBy *int64
	)
	err := row.Scan(&vehicle.ID, &vehicle.PublicID, &vehicle.PlateNumber, &vehicle.HullNumber,
		&vehicle.Type, &vehicle.Brand, &vehicle.Model, &vehicle.Status,
		&createdBy, &updatedBy, &vehicle.CreatedAt, &vehicle.UpdatedAt)
	if err != nil {
		return Vehicle{}, err
	}
	vehicle.CreatedBy = toID(createdBy)
	vehicle.UpdatedBy = toID(updatedBy)
	return vehicle, nil
}

func scanVehicleNotFound(row pgx.Row) (Vehicle, error) {
	vehicle, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Vehicle{}, shared.ErrNotFound
	}
	return vehicle, err
}

func sortClause(sortBy, sortOrder string) string {
	dir := "DESC"
	if sortOrder == "asc" {
		dir = "ASC"
	}
	switch sortBy {
	case "plate_number":
		return "plate_number " + dir
	case "brand":
		return "brand " + dir
	case "status":
		return "status " + dir
	case "updated_at":
		return "updated_at " + dir
	default:
		return "created_at " + dir
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repository = (*PGRepository)(nil)
