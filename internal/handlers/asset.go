package handlers

import (
	"net/http"

	"github.com/crucial707/asset-tracker/internal/models"
	"github.com/crucial707/asset-tracker/internal/query"
	"github.com/crucial707/asset-tracker/internal/service"
	"github.com/google/uuid"
)

type AssetHandler struct {
	Service *service.AssetService
}

//
// ==========================
// List Assets
// ==========================
//

func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	filter, page, err := query.Parse(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	result, err := h.Service.List(r.Context(), filter, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"assets":     result.Assets,
		"pagination": result.Pagination,
	})
}

//
// ==========================
// Get Asset By ID
// ==========================
//

func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "asset")
	if !ok {
		return
	}

	asset, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, asset)
}

//
// ==========================
// Create Asset
// ==========================
//

func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var input models.AssetInput
	if !decodeJSON(w, r, &input) {
		return
	}

	asset, err := h.Service.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, asset)
}

//
// ==========================
// Update Asset
// ==========================
//

func (h *AssetHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "asset")
	if !ok {
		return
	}

	var patch models.AssetPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	asset, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, asset)
}

//
// ==========================
// Delete Asset
// ==========================
//

func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "asset")
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, struct{}{})
}

//
// ==========================
// Assign / Unassign
// ==========================
//

func (h *AssetHandler) AssignAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "asset")
	if !ok {
		return
	}

	var input struct {
		UserID *uuid.UUID `json:"userId"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.UserID == nil {
		JSONValidationError(w, "validation failed", map[string]string{"userId": "is required"}, http.StatusBadRequest)
		return
	}

	asset, err := h.Service.Assign(r.Context(), id, *input.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, asset)
}

func (h *AssetHandler) UnassignAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "asset")
	if !ok {
		return
	}

	asset, err := h.Service.Unassign(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, asset)
}

//
// ==========================
// Status Report
// ==========================
//

func (h *AssetHandler) StatusReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.StatusReport(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"statusCounts": report.StatusCounts,
		"total":        report.Total,
	})
}
