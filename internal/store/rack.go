package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"rackplan-backend/internal/model"
	"rackplan-backend/internal/slot"
)

// Single-entity rack and equipment paths. Like the bulk path, every one of
// these mutations bumps the owning plan's version inside its transaction.

// CreateRack creates one rack on a plan, enforcing name uniqueness.
func (s *gormStore) CreateRack(ctx context.Context, rack *model.Rack) error {
	if rack.Name == "" {
		return ErrRackNameRequired
	}
	if rack.TotalU < 0 {
		return ErrInvalidTotalU
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := lockPlan(tx, rack.FloorPlanID)
		if err != nil {
			return err
		}
		var other model.Rack
		err = tx.Select("id").Where("floor_plan_id = ? AND name = ?", plan.ID, rack.Name).First(&other).Error
		if err == nil {
			return &NameConflictError{Name: rack.Name, RackID: other.ID}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check rack name: %w", err)
		}
		if err := tx.Create(rack).Error; err != nil {
			return fmt.Errorf("failed to create rack %q: %w", rack.Name, err)
		}
		return bumpVersion(tx, plan)
	})
}

// UpdateRack applies a partial edit to one rack.
func (s *gormStore) UpdateRack(ctx context.Context, rackID int64, edit RackEdit) (*model.Rack, error) {
	var updated *model.Rack
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rack, err := findRack(tx, rackID)
		if err != nil {
			return err
		}
		plan, err := lockPlan(tx, rack.FloorPlanID)
		if err != nil {
			return err
		}
		if edit.TotalU != nil && *edit.TotalU < 1 {
			return ErrInvalidTotalU
		}
		oldName := rack.Name
		applyRackEdit(rack, edit)
		if rack.Name == "" {
			return ErrRackNameRequired
		}
		if rack.Name != oldName {
			var other model.Rack
			err := tx.Select("id").
				Where("floor_plan_id = ? AND name = ? AND id <> ?", plan.ID, rack.Name, rack.ID).
				First(&other).Error
			if err == nil {
				return &NameConflictError{Name: rack.Name, RackID: other.ID}
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to check rack name: %w", err)
			}
		}
		if err := tx.Save(rack).Error; err != nil {
			return fmt.Errorf("failed to update rack %d: %w", rack.ID, err)
		}
		updated = rack
		return bumpVersion(tx, plan)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRack removes one rack. It refuses while the rack still owns
// equipment; the editor's bulk path is the one that cascades.
func (s *gormStore) DeleteRack(ctx context.Context, rackID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rack, err := findRack(tx, rackID)
		if err != nil {
			return err
		}
		plan, err := lockPlan(tx, rack.FloorPlanID)
		if err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&model.Equipment{}).Where("rack_id = ?", rack.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count equipment of rack %d: %w", rack.ID, err)
		}
		if count > 0 {
			return ErrRackNotEmpty
		}
		if err := tx.Delete(rack).Error; err != nil {
			return fmt.Errorf("failed to delete rack %d: %w", rack.ID, err)
		}
		return bumpVersion(tx, plan)
	})
}

// RackOccupants loads a rack together with its equipment as allocator
// occupants. Read-only.
func (s *gormStore) RackOccupants(ctx context.Context, rackID int64) (*model.Rack, []slot.Occupant, error) {
	db := s.db.WithContext(ctx)
	rack, err := findRack(db, rackID)
	if err != nil {
		return nil, nil, err
	}
	occupants, err := rackOccupants(db, rackID)
	if err != nil {
		return nil, nil, err
	}
	return rack, occupants, nil
}

// PlaceEquipment validates and persists a fresh placement.
func (s *gormStore) PlaceEquipment(ctx context.Context, rackID int64, eq *model.Equipment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rack, err := findRack(tx, rackID)
		if err != nil {
			return err
		}
		plan, err := lockPlan(tx, rack.FloorPlanID)
		if err != nil {
			return err
		}
		occupants, err := rackOccupants(tx, rack.ID)
		if err != nil {
			return err
		}
		if err := slot.ValidatePlacement(rack.TotalU, occupants, eq.StartU, eq.HeightU, 0); err != nil {
			return err
		}
		eq.RackID = rack.ID
		if err := tx.Create(eq).Error; err != nil {
			return fmt.Errorf("failed to create equipment %q: %w", eq.Name, err)
		}
		return bumpVersion(tx, plan)
	})
}

// UpdateEquipment re-validates with the item itself excluded, so in-place
// resizes and retypes never collide with their own old range.
func (s *gormStore) UpdateEquipment(ctx context.Context, equipmentID int64, edit EquipmentEdit) (*model.Equipment, error) {
	var updated *model.Equipment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eq, err := findEquipment(tx, equipmentID)
		if err != nil {
			return err
		}
		rack, err := findRack(tx, eq.RackID)
		if err != nil {
			return err
		}
		plan, err := lockPlan(tx, rack.FloorPlanID)
		if err != nil {
			return err
		}

		if edit.Name != nil {
			eq.Name = *edit.Name
		}
		if edit.StartU != nil {
			eq.StartU = *edit.StartU
		}
		if edit.HeightU != nil {
			eq.HeightU = *edit.HeightU
		}
		if edit.Attributes != nil {
			eq.Attributes = edit.Attributes
		}

		occupants, err := rackOccupants(tx, rack.ID)
		if err != nil {
			return err
		}
		if err := slot.ValidatePlacement(rack.TotalU, occupants, eq.StartU, eq.HeightU, eq.ID); err != nil {
			return err
		}
		if err := tx.Save(eq).Error; err != nil {
			return fmt.Errorf("failed to update equipment %d: %w", eq.ID, err)
		}
		updated = eq
		return bumpVersion(tx, plan)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MoveEquipment shifts an item to a new start slot at its current height.
func (s *gormStore) MoveEquipment(ctx context.Context, equipmentID int64, startU int) (*model.Equipment, error) {
	return s.UpdateEquipment(ctx, equipmentID, EquipmentEdit{StartU: &startU})
}

// DeleteEquipment removes one item and bumps the plan version.
func (s *gormStore) DeleteEquipment(ctx context.Context, equipmentID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eq, err := findEquipment(tx, equipmentID)
		if err != nil {
			return err
		}
		rack, err := findRack(tx, eq.RackID)
		if err != nil {
			return err
		}
		plan, err := lockPlan(tx, rack.FloorPlanID)
		if err != nil {
			return err
		}
		if err := tx.Delete(eq).Error; err != nil {
			return fmt.Errorf("failed to delete equipment %d: %w", eq.ID, err)
		}
		return bumpVersion(tx, plan)
	})
}

func findEquipment(tx *gorm.DB, equipmentID int64) (*model.Equipment, error) {
	var eq model.Equipment
	if err := tx.First(&eq, equipmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Kind: KindEquipment, ID: equipmentID}
		}
		return nil, fmt.Errorf("failed to load equipment %d: %w", equipmentID, err)
	}
	return &eq, nil
}
