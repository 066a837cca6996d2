package handler

import (
	"net/http"

	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"github.com/HamzaAshfaq01/sellsgoods/internal/service"
	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	categories service.CategoryService
	log        logger.Logger
}

func NewCategoryHandler(categories service.CategoryService, log logger.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, log: log}
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	category, err := h.categories.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) HandleListPaged(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	result, err := h.categories.ListPaged(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

type categoryPatchRequest struct {
	Name *string `json:"name"`
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req categoryPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	category, err := h.categories.Update(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
