package handler

import (
	"net/http"
)

func (h *Handler) GetAllStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.repository.GetAllStations(h.orgID(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取岗位列表成功", stations)
}

// GetStationRequirements 返回各岗位的人员需求汇总，覆盖率分析用的就是同一份数据
func (h *Handler) GetStationRequirements(w http.ResponseWriter, r *http.Request) {
	requirements, err := h.repository.GetStationRequirements(h.orgID(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	type stationRequirement struct {
		StationID   int64  `json:"stationID"`
		StationName string `json:"stationName"`
		RequiredMin int32  `json:"requiredMin"`
		RequiredMax int32  `json:"requiredMax"`
	}

	result := make([]stationRequirement, 0, len(requirements))
	for _, req := range requirements {
		result = append(result, stationRequirement{
			StationID:   req.StationID,
			StationName: req.StationName,
			RequiredMin: req.RequiredMin,
			RequiredMax: req.RequiredMax,
		})
	}

	h.successResponse(w, r, "获取岗位人员需求成功", result)
}
