package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type EquipmentRepository struct {
	*base.Repository
}

func NewEquipmentRepository(db base.Querier) *EquipmentRepository {
	return &EquipmentRepository{Repository: base.NewRepository(db)}
}

// GetEquipment получает оборудование по ID
func (r *EquipmentRepository) GetEquipment(ctx context.Context, id uuid.UUID) (*model.Equipment, error) {
	query := `SELECT id, slug, name, is_active, created_at FROM equipment WHERE id = $1`

	e, err := scanEquipment(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get equipment by id: %w", err)
	}
	return e, nil
}

// GetBySlug получает оборудование по короткому имени
func (r *EquipmentRepository) GetBySlug(ctx context.Context, slug string) (*model.Equipment, error) {
	query := `SELECT id, slug, name, is_active, created_at FROM equipment WHERE slug = $1`

	e, err := scanEquipment(r.QueryRow(ctx, query, slug))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get equipment by slug: %w", err)
	}
	return e, nil
}

// ListActive всё оборудование, доступное для бронирования
func (r *EquipmentRepository) ListActive(ctx context.Context) ([]*model.Equipment, error) {
	query := `SELECT id, slug, name, is_active, created_at FROM equipment WHERE is_active ORDER BY name`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()

	var list []*model.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanEquipment(row pgx.Row) (*model.Equipment, error) {
	var e model.Equipment
	if err := row.Scan(&e.ID, &e.Slug, &e.Name, &e.IsActive, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
