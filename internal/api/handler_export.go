package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"rackplan-backend/internal/slot"
)

const exportSheet = "Inventory"

// ExportInventory handles GET /api/plans/{plan_id}/export. It renders the
// plan's racks and their equipment into an XLSX workbook, one row per
// equipment item plus a summary row per rack.
func (h *Handler) ExportInventory(c *gin.Context) {
	planID, err := strconv.ParseInt(c.Param("plan_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid plan ID"})
		return
	}

	plan, err := h.store.GetFloorPlan(c.Request.Context(), planID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", exportSheet)

	headers := []string{"Rack", "Total U", "Used U", "Free ranges", "Equipment", "Start U", "End U", "Height U"}
	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, title)
	}

	row := 2
	for _, rack := range plan.Racks {
		_, occupants, err := h.store.RackOccupants(c.Request.Context(), rack.ID)
		if err != nil {
			abortWithError(c, err)
			return
		}

		f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), rack.Name)
		f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), rack.TotalU)
		f.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), slot.UsedU(occupants))
		f.SetCellValue(exportSheet, fmt.Sprintf("D%d", row), formatRanges(slot.FreeRanges(rack.TotalU, occupants)))
		row++

		for _, occ := range occupants {
			f.SetCellValue(exportSheet, fmt.Sprintf("E%d", row), occ.Name)
			f.SetCellValue(exportSheet, fmt.Sprintf("F%d", row), occ.StartU)
			f.SetCellValue(exportSheet, fmt.Sprintf("G%d", row), occ.EndU())
			f.SetCellValue(exportSheet, fmt.Sprintf("H%d", row), occ.HeightU)
			row++
		}
	}

	filename := fmt.Sprintf("plan-%d-inventory.xlsx", plan.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func formatRanges(ranges []slot.Range) string {
	if len(ranges) == 0 {
		return "full"
	}
	out := ""
	for i, r := range ranges {
		if i > 0 {
			out += ", "
		}
		if r.Start == r.End {
			out += strconv.Itoa(r.Start)
		} else {
			out += fmt.Sprintf("%d-%d", r.Start, r.End)
		}
	}
	return out
}
