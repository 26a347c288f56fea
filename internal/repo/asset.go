package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crucial707/asset-tracker/internal/apperr"
	"github.com/crucial707/asset-tracker/internal/models"
	"github.com/crucial707/asset-tracker/internal/pagination"
	"github.com/crucial707/asset-tracker/internal/query"
	"github.com/google/uuid"
)

// ========================
// REPOSITORY STRUCT
// ========================

type AssetRepo struct {
	DB *sql.DB
}

func NewAssetRepo(db *sql.DB) *AssetRepo {
	return &AssetRepo{DB: db}
}

const assetColumns = `a.id, a.asset_tag, a.name, a.category, a.manufacturer, a.model, a.serial_number,
		a.location, a.description, a.purchase_date, a.purchase_cost, a.warranty_expiry,
		a.status, a.assigned_to, a.created_at, a.updated_at`

// List rows resolve the assignee to name and email only.
const selectAssetList = `SELECT ` + assetColumns + `, u.name, u.email
		FROM assets a LEFT JOIN users u ON u.id = a.assigned_to`

// Single-asset reads add department and phone.
const selectAssetDetail = `SELECT ` + assetColumns + `, u.name, u.email, u.department, u.phone
		FROM assets a LEFT JOIN users u ON u.id = a.assigned_to`

type rowScanner interface {
	Scan(dest ...any) error
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanAsset(row rowScanner, detail bool) (models.Asset, error) {
	var (
		a                   models.Asset
		userName, userEmail sql.NullString
		userDept, userPhone sql.NullString
	)
	dest := []any{
		&a.ID, &a.AssetTag, &a.Name, &a.Category, &a.Manufacturer, &a.Model, &a.SerialNumber,
		&a.Location, &a.Description, &a.PurchaseDate, &a.PurchaseCost, &a.WarrantyExpiry,
		&a.Status, &a.AssignedTo, &a.CreatedAt, &a.UpdatedAt,
		&userName, &userEmail,
	}
	if detail {
		dest = append(dest, &userDept, &userPhone)
	}
	if err := row.Scan(dest...); err != nil {
		return models.Asset{}, err
	}
	if a.AssignedTo != nil {
		ref := &models.UserRef{ID: *a.AssignedTo, Name: userName.String, Email: userEmail.String}
		if detail {
			ref.Department = nullStringPtr(userDept)
			ref.Phone = nullStringPtr(userPhone)
		}
		a.Assignee = ref
	}
	return a, nil
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func getAsset(ctx context.Context, q rowQueryer, id uuid.UUID, lock bool) (models.Asset, error) {
	stmt := selectAssetDetail + ` WHERE a.id = $1`
	if lock {
		stmt += ` FOR UPDATE OF a`
	}
	a, err := scanAsset(q.QueryRowContext(ctx, stmt, id), true)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Asset{}, apperr.NotFound("asset")
	}
	return a, err
}

// ========================
// GET ASSET
// ========================

// Get returns one asset with its assignee fully resolved.
func (r *AssetRepo) Get(ctx context.Context, id uuid.UUID) (models.Asset, error) {
	return getAsset(ctx, r.DB, id, false)
}

// ========================
// LIST ASSETS (FILTER + PAGE)
// ========================

// List returns one page of the assets matching f, newest first (ties broken
// by id), together with the total count of matches. Count and page are read
// in a single repeatable-read transaction so they describe the same set.
func (r *AssetRepo) List(ctx context.Context, f query.Filter, p pagination.Params) ([]models.Asset, int, error) {
	p = p.Normalize()

	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	where, args := f.Where(1)

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets a `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	stmt := fmt.Sprintf(`%s %s ORDER BY a.created_at DESC, a.id DESC LIMIT $%d OFFSET $%d`,
		selectAssetList, where, n+1, n+2)
	rows, err := tx.QueryContext(ctx, stmt, append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows, false)
		if err != nil {
			return nil, 0, err
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

// ========================
// CREATE ASSET
// ========================

// Create inserts a and returns the stored record with its assignee resolved.
func (r *AssetRepo) Create(ctx context.Context, a models.Asset) (models.Asset, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Asset{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO assets (id, asset_tag, name, category, manufacturer, model, serial_number,
			location, description, purchase_date, purchase_cost, warranty_expiry,
			status, assigned_to, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		a.ID, a.AssetTag, a.Name, a.Category, a.Manufacturer, a.Model, a.SerialNumber,
		a.Location, a.Description, a.PurchaseDate, a.PurchaseCost, a.WarrantyExpiry,
		string(a.Status), a.AssignedTo, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return models.Asset{}, mapWriteError(err)
	}

	stored, err := getAsset(ctx, tx, a.ID, false)
	if err != nil {
		return models.Asset{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Asset{}, err
	}
	return stored, nil
}

// ========================
// UPDATE ASSET (ROW-LOCKED)
// ========================

// Update locks the asset row, lets mutate change it, writes it back and
// returns the stored record. Concurrent updates of the same asset serialise
// on the row lock, so mutate always sees the latest committed state. If
// mutate fails nothing is written.
func (r *AssetRepo) Update(ctx context.Context, id uuid.UUID, mutate func(*models.Asset) error) (models.Asset, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Asset{}, err
	}
	defer tx.Rollback()

	a, err := getAsset(ctx, tx, id, true)
	if err != nil {
		return models.Asset{}, err
	}
	if err := mutate(&a); err != nil {
		return models.Asset{}, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE assets SET asset_tag = $2, name = $3, category = $4, manufacturer = $5, model = $6,
			serial_number = $7, location = $8, description = $9, purchase_date = $10,
			purchase_cost = $11, warranty_expiry = $12, status = $13, assigned_to = $14, updated_at = $15
		 WHERE id = $1`,
		a.ID, a.AssetTag, a.Name, a.Category, a.Manufacturer, a.Model,
		a.SerialNumber, a.Location, a.Description, a.PurchaseDate,
		a.PurchaseCost, a.WarrantyExpiry, string(a.Status), a.AssignedTo, a.UpdatedAt,
	)
	if err != nil {
		return models.Asset{}, mapWriteError(err)
	}

	stored, err := getAsset(ctx, tx, id, false)
	if err != nil {
		return models.Asset{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Asset{}, err
	}
	return stored, nil
}

// ========================
// DELETE ASSET
// ========================

func (r *AssetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("asset")
	}
	return nil
}

// ========================
// COUNT BY STATUS
// ========================

// CountByStatus returns the number of assets per status. Statuses with no
// assets are absent from the map.
func (r *AssetRepo) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM assets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[models.Status(status)] = n
	}
	return counts, rows.Err()
}
