package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rackplan-backend/config"
	"rackplan-backend/internal/api"
	"rackplan-backend/internal/editor"
	"rackplan-backend/internal/model"
	"rackplan-backend/internal/store"
)

func setupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = testDB.AutoMigrate(
		&model.Substation{},
		&model.Floor{},
		&model.FloorPlan{},
		&model.FloorPlanElement{},
		&model.Rack{},
		&model.Equipment{},
		&model.PushSubscription{},
	)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	serverCfg := &config.ServerConfig{
		// Generous limits so the limiter never interferes with the test.
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTLSeconds: 1,
	}
	sessions := editor.NewSessionManager(50, time.Hour)
	router := api.NewRouter(store.NewGormStore(testDB), sessions, nil, nil, serverCfg)
	return router, testDB
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req, _ = http.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestFloorPlanLifecycle walks the full editing flow over HTTP: location
// setup, plan creation, a bulk edit batch, equipment placement with a slot
// conflict, and the derived free-range view.
func TestFloorPlanLifecycle(t *testing.T) {
	router, testDB := setupTestServer(t)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	var idOf struct {
		ID int64 `json:"id"`
	}

	// --- Location hierarchy ---
	w := doJSON(t, router, "POST", "/api/substations", gin.H{"name": "North substation", "address": "1 Grid Way"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &idOf))
	substationID := idOf.ID

	w = doJSON(t, router, "POST", fmt.Sprintf("/api/substations/%d/floors", substationID), gin.H{"name": "Ground floor", "level": 0})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &idOf))
	floorID := idOf.ID

	w = doJSON(t, router, "POST", fmt.Sprintf("/api/floors/%d/plan", floorID), gin.H{"name": "Ground floor layout"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &idOf))
	planID := idOf.ID

	// A second plan on the same floor is refused.
	w = doJSON(t, router, "POST", fmt.Sprintf("/api/floors/%d/plan", floorID), gin.H{"name": "Duplicate layout"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// --- Bulk edit: one wall element plus one rack in a single batch ---
	w = doJSON(t, router, "PUT", fmt.Sprintf("/api/plans/%d/bulk", planID), gin.H{
		"elements": []gin.H{
			{"elementType": "wall", "properties": gin.H{"length": 400}},
		},
		"racks": []gin.H{
			{"name": "R1", "totalU": 10},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var bulk struct {
		ID         int64 `json:"id"`
		NewVersion int64 `json:"newVersion"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bulk))
	assert.Equal(t, planID, bulk.ID)
	assert.Equal(t, int64(2), bulk.NewVersion)

	var rack model.Rack
	require.NoError(t, testDB.Where("floor_plan_id = ? AND name = ?", planID, "R1").First(&rack).Error)
	assert.Equal(t, 10, rack.TotalU)

	// --- Equipment placement ---
	w = doJSON(t, router, "POST", fmt.Sprintf("/api/racks/%d/equipment", rack.ID), gin.H{
		"name": "core-switch", "startU": 3, "heightU": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &idOf))
	switchID := idOf.ID

	// Overlapping placement names the occupant it collides with.
	w = doJSON(t, router, "POST", fmt.Sprintf("/api/racks/%d/equipment", rack.ID), gin.H{
		"name": "patch-panel", "startU": 4, "heightU": 2,
	})
	require.Equal(t, http.StatusConflict, w.Code)
	var conflict struct {
		ConflictEquipmentID int64 `json:"conflictEquipmentId"`
		ConflictStartU      int   `json:"conflictStartU"`
		ConflictEndU        int   `json:"conflictEndU"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conflict))
	assert.Equal(t, switchID, conflict.ConflictEquipmentID)
	assert.Equal(t, 3, conflict.ConflictStartU)
	assert.Equal(t, 4, conflict.ConflictEndU)

	// Placing past the rack top is rejected as impossible, not a conflict.
	w = doJSON(t, router, "POST", fmt.Sprintf("/api/racks/%d/equipment", rack.ID), gin.H{
		"name": "tall-server", "startU": 8, "heightU": 4,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// A placement in the clear succeeds.
	w = doJSON(t, router, "POST", fmt.Sprintf("/api/racks/%d/equipment", rack.ID), gin.H{
		"name": "patch-panel", "startU": 5, "heightU": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// --- Derived slot usage ---
	w = doJSON(t, router, "GET", fmt.Sprintf("/api/racks/%d/free_ranges", rack.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var free struct {
		FreeRanges []struct {
			Start int `json:"start"`
			End   int `json:"end"`
		} `json:"freeRanges"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &free))
	require.Len(t, free.FreeRanges, 2)
	assert.Equal(t, 1, free.FreeRanges[0].Start)
	assert.Equal(t, 2, free.FreeRanges[0].End)
	assert.Equal(t, 7, free.FreeRanges[1].Start)
	assert.Equal(t, 10, free.FreeRanges[1].End)

	// --- Plan read reflects everything at once ---
	w = doJSON(t, router, "GET", fmt.Sprintf("/api/plans/%d", planID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var plan struct {
		Version  int64 `json:"version"`
		Elements []struct {
			ElementType string `json:"elementType"`
		} `json:"elements"`
		Racks []struct {
			Name           string `json:"name"`
			UsedU          int    `json:"usedU"`
			EquipmentCount int    `json:"equipmentCount"`
		} `json:"racks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	// Two equipment mutations bumped the version past the bulk edit's 2.
	assert.Equal(t, int64(4), plan.Version)
	require.Len(t, plan.Elements, 1)
	assert.Equal(t, "wall", plan.Elements[0].ElementType)
	require.Len(t, plan.Racks, 1)
	assert.Equal(t, "R1", plan.Racks[0].Name)
	assert.Equal(t, 4, plan.Racks[0].UsedU)
	assert.Equal(t, 2, plan.Racks[0].EquipmentCount)

	// --- Export produces a workbook ---
	w = doJSON(t, router, "GET", fmt.Sprintf("/api/plans/%d/export", planID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.NotZero(t, w.Body.Len())
}

// TestBulkUpdateAtomicity verifies that a failing batch leaves no partial
// state behind and does not bump the plan version.
func TestBulkUpdateAtomicity(t *testing.T) {
	router, testDB := setupTestServer(t)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	var idOf struct {
		ID int64 `json:"id"`
	}
	w := doJSON(t, router, "POST", "/api/substations", gin.H{"name": "South substation"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &idOf))
	w = doJSON(t, router, "POST", fmt.Sprintf("/api/substations/%d/floors", idOf.ID), gin.H{"name": "Basement", "level": -1})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &idOf))
	w = doJSON(t, router, "POST", fmt.Sprintf("/api/floors/%d/plan", idOf.ID), gin.H{"name": "Basement layout"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &idOf))
	planID := idOf.ID

	// Duplicate rack names inside one batch abort the whole request,
	// including the element that would otherwise have been created.
	w = doJSON(t, router, "PUT", fmt.Sprintf("/api/plans/%d/bulk", planID), gin.H{
		"elements": []gin.H{{"elementType": "door"}},
		"racks":    []gin.H{{"name": "R1"}, {"name": "R1"}},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var elementCount, rackCount int64
	testDB.Model(&model.FloorPlanElement{}).Where("floor_plan_id = ?", planID).Count(&elementCount)
	testDB.Model(&model.Rack{}).Where("floor_plan_id = ?", planID).Count(&rackCount)
	assert.Zero(t, elementCount)
	assert.Zero(t, rackCount)

	var version int64
	testDB.Model(&model.FloorPlan{}).Select("version").Where("id = ?", planID).Scan(&version)
	assert.Equal(t, int64(1), version)

	// Stale optimistic precondition is refused with the live version.
	w = doJSON(t, router, "PUT", fmt.Sprintf("/api/plans/%d/bulk", planID), gin.H{
		"baseVersion": 99,
	})
	require.Equal(t, http.StatusConflict, w.Code)
	var stale struct {
		CurrentVersion int64 `json:"currentVersion"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stale))
	assert.Equal(t, int64(1), stale.CurrentVersion)
}
