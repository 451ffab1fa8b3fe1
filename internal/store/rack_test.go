package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rackplan-backend/internal/model"
	"rackplan-backend/internal/slot"
)

func planVersion(t *testing.T, s Store, planID int64) int64 {
	t.Helper()
	var plan model.FloorPlan
	require.NoError(t, s.DB().First(&plan, planID).Error)
	return plan.Version
}

func TestCreateRack(t *testing.T) {
	s, db := newTestStore(t)
	plan := seedPlan(t, db)
	ctx := context.Background()

	rack := model.Rack{FloorPlanID: plan.ID, Name: "Rack A"}
	require.NoError(t, s.CreateRack(ctx, &rack))
	assert.NotZero(t, rack.ID)
	assert.Equal(t, int64(2), planVersion(t, s, plan.ID))

	// Duplicate name within the plan conflicts.
	err := s.CreateRack(ctx, &model.Rack{FloorPlanID: plan.ID, Name: "Rack A"})
	var conflict *NameConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, rack.ID, conflict.RackID)
	assert.Equal(t, int64(2), planVersion(t, s, plan.ID))

	// Missing name is rejected before touching the database.
	assert.ErrorIs(t, s.CreateRack(ctx, &model.Rack{FloorPlanID: plan.ID}), ErrRackNameRequired)

	// Unknown plan.
	err = s.CreateRack(ctx, &model.Rack{FloorPlanID: 999, Name: "Rack B"})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, KindFloorPlan, nf.Kind)
}

func TestUpdateRack(t *testing.T) {
	s, db := newTestStore(t)
	plan := seedPlan(t, db)
	ctx := context.Background()

	rackA := model.Rack{FloorPlanID: plan.ID, Name: "Rack A", TotalU: 24}
	rackB := model.Rack{FloorPlanID: plan.ID, Name: "Rack B", TotalU: 24}
	require.NoError(t, s.CreateRack(ctx, &rackA))
	require.NoError(t, s.CreateRack(ctx, &rackB))

	updated, err := s.UpdateRack(ctx, rackA.ID, RackEdit{X: float64p(200), Rotation: float64p(90)})
	require.NoError(t, err)
	assert.Equal(t, float64(200), updated.X)
	assert.Equal(t, float64(90), updated.Rotation)
	assert.Equal(t, "Rack A", updated.Name)
	assert.Equal(t, int64(4), planVersion(t, s, plan.ID))

	_, err = s.UpdateRack(ctx, rackA.ID, RackEdit{Name: strp("Rack B")})
	var conflict *NameConflictError
	require.True(t, errors.As(err, &conflict))

	_, err = s.UpdateRack(ctx, rackA.ID, RackEdit{TotalU: intp(0)})
	assert.ErrorIs(t, err, ErrInvalidTotalU)

	_, err = s.UpdateRack(ctx, 999, RackEdit{})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, KindRack, nf.Kind)
}

func TestDeleteRackRequiresEmpty(t *testing.T) {
	s, db := newTestStore(t)
	plan := seedPlan(t, db)
	ctx := context.Background()

	rack := model.Rack{FloorPlanID: plan.ID, Name: "Rack A", TotalU: 12}
	require.NoError(t, s.CreateRack(ctx, &rack))
	eq := model.Equipment{Name: "server", StartU: 1, HeightU: 2}
	require.NoError(t, s.PlaceEquipment(ctx, rack.ID, &eq))

	assert.ErrorIs(t, s.DeleteRack(ctx, rack.ID), ErrRackNotEmpty)

	require.NoError(t, s.DeleteEquipment(ctx, eq.ID))
	require.NoError(t, s.DeleteRack(ctx, rack.ID))

	_, _, err := s.RackOccupants(ctx, rack.ID)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestPlaceEquipment(t *testing.T) {
	s, db := newTestStore(t)
	plan := seedPlan(t, db)
	ctx := context.Background()

	rack := model.Rack{FloorPlanID: plan.ID, Name: "Rack A", TotalU: 10}
	require.NoError(t, s.CreateRack(ctx, &rack))
	versionBefore := planVersion(t, s, plan.ID)

	require.NoError(t, s.PlaceEquipment(ctx, rack.ID, &model.Equipment{Name: "A", StartU: 3, HeightU: 2}))
	assert.Equal(t, versionBefore+1, planVersion(t, s, plan.ID))

	// Overlap is a typed conflict naming the occupant, and persists nothing.
	err := s.PlaceEquipment(ctx, rack.ID, &model.Equipment{Name: "B", StartU: 4, HeightU: 2})
	var conflict *slot.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "A", conflict.Occupant.Name)
	assert.Equal(t, versionBefore+1, planVersion(t, s, plan.ID))

	// Out of range is checked before overlap.
	err = s.PlaceEquipment(ctx, rack.ID, &model.Equipment{Name: "C", StartU: 9, HeightU: 3})
	var oor *slot.OutOfRangeError
	require.True(t, errors.As(err, &oor))
	assert.Equal(t, slot.ReasonExceedsCapacity, oor.Reason)

	require.NoError(t, s.PlaceEquipment(ctx, rack.ID, &model.Equipment{Name: "B", StartU: 5, HeightU: 2}))

	_, occupants, err := s.RackOccupants(ctx, rack.ID)
	require.NoError(t, err)
	assert.Equal(t, []slot.Range{{Start: 1, End: 2}, {Start: 7, End: 10}}, slot.FreeRanges(rack.TotalU, occupants))
}

func TestUpdateAndMoveEquipment(t *testing.T) {
	s, db := newTestStore(t)
	plan := seedPlan(t, db)
	ctx := context.Background()

	rack := model.Rack{FloorPlanID: plan.ID, Name: "Rack A", TotalU: 10}
	require.NoError(t, s.CreateRack(ctx, &rack))
	eqA := model.Equipment{Name: "A", StartU: 3, HeightU: 2}
	eqB := model.Equipment{Name: "B", StartU: 6, HeightU: 2}
	require.NoError(t, s.PlaceEquipment(ctx, rack.ID, &eqA))
	require.NoError(t, s.PlaceEquipment(ctx, rack.ID, &eqB))

	// Growing in place excludes itself from the overlap check.
	updated, err := s.UpdateEquipment(ctx, eqA.ID, EquipmentEdit{HeightU: intp(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.HeightU)

	// Growing into a neighbor conflicts.
	_, err = s.UpdateEquipment(ctx, eqA.ID, EquipmentEdit{HeightU: intp(4)})
	var conflict *slot.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "B", conflict.Occupant.Name)

	// Move keeps the height.
	moved, err := s.MoveEquipment(ctx, eqB.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, moved.StartU)
	assert.Equal(t, 2, moved.HeightU)

	_, err = s.MoveEquipment(ctx, eqB.ID, 10)
	var oor *slot.OutOfRangeError
	require.True(t, errors.As(err, &oor))

	_, err = s.UpdateEquipment(ctx, 999, EquipmentEdit{})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, KindEquipment, nf.Kind)
}

func TestGetFloorPlanPreloadsChildren(t *testing.T) {
	s, db := newTestStore(t)
	plan := seedPlan(t, db)
	ctx := context.Background()

	_, err := s.ApplyBulkUpdate(ctx, plan.ID, BulkUpdateRequest{
		Elements: []ElementEdit{
			{ElementType: "wall", Properties: []byte(`{"points":[[0,0],[10,0]]}`), ZIndex: intp(2)},
			{ElementType: "column", Properties: []byte(`{"x":5,"y":5,"width":2,"height":2,"shape":"square"}`)},
		},
		Racks: []RackEdit{
			{Name: strp("Rack B"), SortOrder: intp(2)},
			{Name: strp("Rack A"), SortOrder: intp(1)},
		},
	})
	require.NoError(t, err)

	loaded, err := s.GetFloorPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Elements, 2)
	require.Len(t, loaded.Racks, 2)
	// Elements in paint order, racks in sort order.
	assert.Equal(t, "column", loaded.Elements[0].ElementType)
	assert.Equal(t, "Rack A", loaded.Racks[0].Name)
	assert.Equal(t, int64(2), loaded.Version)
}
