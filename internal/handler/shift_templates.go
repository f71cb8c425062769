package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetAllShiftTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.repository.GetAllShiftTemplates(h.orgID(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次模板列表成功", templates)
}

func (h *Handler) GetShiftTemplate(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "班次模板ID无效")
		return
	}

	template, err := h.repository.GetShiftTemplate(id, h.orgID(r))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "班次模板不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取班次模板成功", template)
}
