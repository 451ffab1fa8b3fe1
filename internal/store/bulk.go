package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"rackplan-backend/internal/model"
)

// Create-time defaults for racks arriving through a bulk request.
const (
	defaultRackWidth  = 60
	defaultRackHeight = 100
	defaultRackTotalU = 12
)

// ApplyBulkUpdate applies one atomic batch of floor-plan edits: deletions
// first (scoped to the plan), then element upserts, then rack upserts in
// request order with batch-aware name checking, then plan-level settings,
// then exactly one version bump. Any failure rolls the whole call back.
func (s *gormStore) ApplyBulkUpdate(ctx context.Context, floorPlanID int64, req BulkUpdateRequest) (BulkUpdateResult, error) {
	var result BulkUpdateResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := lockPlan(tx, floorPlanID)
		if err != nil {
			return err
		}
		if req.BaseVersion != nil && *req.BaseVersion != plan.Version {
			return &VersionConflictError{FloorPlanID: plan.ID, Expected: *req.BaseVersion, Actual: plan.Version}
		}

		// Deletions precede upserts so a name freed here can be reused later
		// in the same batch. Ids belonging to other plans are ignored.
		if err := deleteElements(tx, floorPlanID, req.DeletedElementIDs); err != nil {
			return err
		}
		if err := deleteRacks(tx, floorPlanID, req.DeletedRackIDs); err != nil {
			return err
		}

		for _, edit := range req.Elements {
			if err := upsertElement(tx, floorPlanID, edit); err != nil {
				return err
			}
		}

		if err := upsertRacks(tx, floorPlanID, req.Racks); err != nil {
			return err
		}

		applyPlanSettings(plan, req)
		plan.Version++
		if err := tx.Save(plan).Error; err != nil {
			return fmt.Errorf("failed to save floor plan %d: %w", plan.ID, err)
		}

		result = BulkUpdateResult{FloorPlanID: plan.ID, NewVersion: plan.Version}
		return nil
	})
	if err != nil {
		return BulkUpdateResult{}, err
	}
	return result, nil
}

func deleteElements(tx *gorm.DB, floorPlanID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("floor_plan_id = ? AND id IN ?", floorPlanID, ids).
		Delete(&model.FloorPlanElement{}).Error; err != nil {
		return fmt.Errorf("failed to delete elements: %w", err)
	}
	return nil
}

func deleteRacks(tx *gorm.DB, floorPlanID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	// Resolve to racks actually owned by this plan, then drop their
	// equipment with them.
	var rackIDs []int64
	if err := tx.Model(&model.Rack{}).
		Where("floor_plan_id = ? AND id IN ?", floorPlanID, ids).
		Pluck("id", &rackIDs).Error; err != nil {
		return fmt.Errorf("failed to resolve racks to delete: %w", err)
	}
	if len(rackIDs) == 0 {
		return nil
	}
	if err := tx.Where("rack_id IN ?", rackIDs).Delete(&model.Equipment{}).Error; err != nil {
		return fmt.Errorf("failed to delete rack equipment: %w", err)
	}
	if err := tx.Where("id IN ?", rackIDs).Delete(&model.Rack{}).Error; err != nil {
		return fmt.Errorf("failed to delete racks: %w", err)
	}
	return nil
}

func upsertElement(tx *gorm.DB, floorPlanID int64, edit ElementEdit) error {
	if edit.ID == nil {
		element := model.FloorPlanElement{
			FloorPlanID: floorPlanID,
			ElementType: edit.ElementType,
			Properties:  edit.Properties,
			ZIndex:      0,
			IsVisible:   true,
		}
		if edit.ZIndex != nil {
			element.ZIndex = *edit.ZIndex
		}
		if edit.IsVisible != nil {
			element.IsVisible = *edit.IsVisible
		}
		if err := tx.Create(&element).Error; err != nil {
			return fmt.Errorf("failed to create element: %w", err)
		}
		return nil
	}

	var element model.FloorPlanElement
	if err := tx.Where("floor_plan_id = ?", floorPlanID).First(&element, *edit.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Kind: KindElement, ID: *edit.ID}
		}
		return fmt.Errorf("failed to load element %d: %w", *edit.ID, err)
	}
	if edit.ElementType != "" {
		element.ElementType = edit.ElementType
	}
	if edit.Properties != nil {
		element.Properties = edit.Properties
	}
	if edit.ZIndex != nil {
		element.ZIndex = *edit.ZIndex
	}
	if edit.IsVisible != nil {
		element.IsVisible = *edit.IsVisible
	}
	if err := tx.Save(&element).Error; err != nil {
		return fmt.Errorf("failed to update element %d: %w", element.ID, err)
	}
	return nil
}

// upsertRacks processes rack edits in request order. The name map starts
// from the post-deletion database state and is maintained across the batch,
// so a create collides with racks created earlier in the same request and a
// rename frees its old name.
func upsertRacks(tx *gorm.DB, floorPlanID int64, edits []RackEdit) error {
	if len(edits) == 0 {
		return nil
	}

	var existing []model.Rack
	if err := tx.Select("id", "name").Where("floor_plan_id = ?", floorPlanID).Find(&existing).Error; err != nil {
		return fmt.Errorf("failed to load rack names: %w", err)
	}
	nameToID := make(map[string]int64, len(existing))
	for _, r := range existing {
		nameToID[r.Name] = r.ID
	}

	for _, edit := range edits {
		if edit.ID == nil {
			if edit.Name == nil || *edit.Name == "" {
				return ErrRackNameRequired
			}
			if edit.TotalU != nil && *edit.TotalU < 1 {
				return ErrInvalidTotalU
			}
			if otherID, taken := nameToID[*edit.Name]; taken {
				return &NameConflictError{Name: *edit.Name, RackID: otherID}
			}
			rack := model.Rack{
				FloorPlanID: floorPlanID,
				Name:        *edit.Name,
				Width:       defaultRackWidth,
				Height:      defaultRackHeight,
				Rotation:    0,
				TotalU:      defaultRackTotalU,
			}
			applyRackEdit(&rack, edit)
			if err := tx.Create(&rack).Error; err != nil {
				return fmt.Errorf("failed to create rack %q: %w", rack.Name, err)
			}
			nameToID[rack.Name] = rack.ID
			continue
		}

		var rack model.Rack
		if err := tx.Where("floor_plan_id = ?", floorPlanID).First(&rack, *edit.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: KindRack, ID: *edit.ID}
			}
			return fmt.Errorf("failed to load rack %d: %w", *edit.ID, err)
		}
		if edit.TotalU != nil && *edit.TotalU < 1 {
			return ErrInvalidTotalU
		}
		oldName := rack.Name
		applyRackEdit(&rack, edit)
		if rack.Name != oldName {
			if otherID, taken := nameToID[rack.Name]; taken && otherID != rack.ID {
				return &NameConflictError{Name: rack.Name, RackID: otherID}
			}
			delete(nameToID, oldName)
			nameToID[rack.Name] = rack.ID
		}
		if err := tx.Save(&rack).Error; err != nil {
			return fmt.Errorf("failed to update rack %d: %w", rack.ID, err)
		}
	}
	return nil
}

// applyRackEdit copies the fields present in the edit onto the rack.
func applyRackEdit(rack *model.Rack, edit RackEdit) {
	if edit.Name != nil {
		rack.Name = *edit.Name
	}
	if edit.Code != nil {
		rack.Code = *edit.Code
	}
	if edit.X != nil {
		rack.X = *edit.X
	}
	if edit.Y != nil {
		rack.Y = *edit.Y
	}
	if edit.Width != nil {
		rack.Width = *edit.Width
	}
	if edit.Height != nil {
		rack.Height = *edit.Height
	}
	if edit.Rotation != nil {
		rack.Rotation = *edit.Rotation
	}
	if edit.TotalU != nil {
		rack.TotalU = *edit.TotalU
	}
	if edit.FrontImage != nil {
		rack.FrontImage = *edit.FrontImage
	}
	if edit.RearImage != nil {
		rack.RearImage = *edit.RearImage
	}
	if edit.SortOrder != nil {
		rack.SortOrder = *edit.SortOrder
	}
}

func applyPlanSettings(plan *model.FloorPlan, req BulkUpdateRequest) {
	if req.CanvasWidth != nil {
		plan.CanvasWidth = *req.CanvasWidth
	}
	if req.CanvasHeight != nil {
		plan.CanvasHeight = *req.CanvasHeight
	}
	if req.GridSize != nil {
		plan.GridSize = *req.GridSize
	}
	if req.BackgroundColor != nil {
		plan.BackgroundColor = *req.BackgroundColor
	}
}
