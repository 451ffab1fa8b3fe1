package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rackplan-backend/internal/model"
	"rackplan-backend/internal/slot"
)

// Store defines the database operations behind the floor-plan engine.
type Store interface {
	DB() *gorm.DB

	CreateFloorPlan(ctx context.Context, plan *model.FloorPlan) error
	GetFloorPlan(ctx context.Context, id int64) (*model.FloorPlan, error)
	ApplyBulkUpdate(ctx context.Context, floorPlanID int64, req BulkUpdateRequest) (BulkUpdateResult, error)

	CreateRack(ctx context.Context, rack *model.Rack) error
	UpdateRack(ctx context.Context, rackID int64, edit RackEdit) (*model.Rack, error)
	DeleteRack(ctx context.Context, rackID int64) error
	RackOccupants(ctx context.Context, rackID int64) (*model.Rack, []slot.Occupant, error)

	PlaceEquipment(ctx context.Context, rackID int64, eq *model.Equipment) error
	UpdateEquipment(ctx context.Context, equipmentID int64, edit EquipmentEdit) (*model.Equipment, error)
	MoveEquipment(ctx context.Context, equipmentID int64, startU int) (*model.Equipment, error)
	DeleteEquipment(ctx context.Context, equipmentID int64) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for read-only handler queries.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// CreateFloorPlan creates the plan for a floor. Each floor owns at most one.
func (s *gormStore) CreateFloorPlan(ctx context.Context, plan *model.FloorPlan) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.FloorPlan{}).Where("floor_id = ?", plan.FloorID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing plan for floor %d: %w", plan.FloorID, err)
		}
		if count > 0 {
			return ErrFloorPlanExists
		}
		if plan.Version == 0 {
			plan.Version = 1
		}
		return tx.Create(plan).Error
	})
}

// GetFloorPlan loads a plan with its elements and racks, elements in paint
// order and racks in sort order.
func (s *gormStore) GetFloorPlan(ctx context.Context, id int64) (*model.FloorPlan, error) {
	var plan model.FloorPlan
	err := s.db.WithContext(ctx).
		Preload("Elements", func(db *gorm.DB) *gorm.DB { return db.Order("z_index, id") }).
		Preload("Racks", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, id") }).
		First(&plan, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Kind: KindFloorPlan, ID: id}
		}
		return nil, err
	}
	return &plan, nil
}

// lockPlan loads a plan inside a transaction, row-locked on dialects that
// support it, so concurrent mutations of the same plan serialize.
func lockPlan(tx *gorm.DB, floorPlanID int64) (*model.FloorPlan, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var plan model.FloorPlan
	if err := q.First(&plan, floorPlanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Kind: KindFloorPlan, ID: floorPlanID}
		}
		return nil, fmt.Errorf("failed to load floor plan %d: %w", floorPlanID, err)
	}
	return &plan, nil
}

// bumpVersion advances the plan's version by exactly one.
func bumpVersion(tx *gorm.DB, plan *model.FloorPlan) error {
	plan.Version++
	if err := tx.Model(&model.FloorPlan{}).Where("id = ?", plan.ID).
		Update("version", plan.Version).Error; err != nil {
		return fmt.Errorf("failed to bump version of floor plan %d: %w", plan.ID, err)
	}
	return nil
}

// rackOccupants loads a rack's equipment as allocator occupants, ascending
// by start slot.
func rackOccupants(tx *gorm.DB, rackID int64) ([]slot.Occupant, error) {
	var equipment []model.Equipment
	if err := tx.Where("rack_id = ?", rackID).Order("start_u").Find(&equipment).Error; err != nil {
		return nil, fmt.Errorf("failed to load equipment of rack %d: %w", rackID, err)
	}
	occupants := make([]slot.Occupant, len(equipment))
	for i, e := range equipment {
		occupants[i] = slot.Occupant{ID: e.ID, Name: e.Name, StartU: e.StartU, HeightU: e.HeightU}
	}
	return occupants, nil
}

func findRack(tx *gorm.DB, rackID int64) (*model.Rack, error) {
	var rack model.Rack
	if err := tx.First(&rack, rackID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Kind: KindRack, ID: rackID}
		}
		return nil, fmt.Errorf("failed to load rack %d: %w", rackID, err)
	}
	return &rack, nil
}
