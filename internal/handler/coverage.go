package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/schedulehub/backend/internal/coverage"
	"github.com/schedulehub/backend/internal/utils"
)

// GetCoverage 返回指定日期的岗位覆盖率报告。
// 报告读多写少，用 redis 做短 TTL 缓存，缓存不可用时退化为直接计算
func (h *Handler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format(utils.DateLayout)
	}
	if _, err := utils.ParseDate(date); err != nil {
		h.domainError(w, r, err)
		return
	}

	orgID := h.orgID(r)
	cacheKey := fmt.Sprintf("coverage_report_%d_%s", orgID, date)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if cached, err := h.redisClient.Get(ctx, cacheKey).Result(); err == nil {
		var report coverage.Report
		if err := json.Unmarshal([]byte(cached), &report); err == nil {
			h.successResponse(w, r, "获取覆盖率报告成功", &report)
			return
		}
	} else if err != redis.Nil {
		slog.Error("读取覆盖率报告缓存失败", "error", err)
	}

	requirements, err := h.repository.GetStationRequirements(orgID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	shiftRows, err := h.repository.GetCoverageShifts(orgID, date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	stations := make([]*coverage.StationInput, 0, len(requirements))
	for _, req := range requirements {
		stations = append(stations, &coverage.StationInput{
			ID:          req.StationID,
			Name:        req.StationName,
			RequiredMin: req.RequiredMin,
			RequiredMax: req.RequiredMax,
		})
	}

	shifts := make([]*coverage.ShiftWindow, 0, len(shiftRows))
	for _, row := range shiftRows {
		shifts = append(shifts, &coverage.ShiftWindow{
			StationID: row.StationID,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
		})
	}

	report, err := coverage.Analyze(date, stations, shifts, coverage.Thresholds{
		Optimal:          h.config.Coverage.OptimalThreshold,
		Warning:          h.config.Coverage.WarningThreshold,
		CriticalStations: h.config.Coverage.CriticalStations,
	})
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	if body, err := json.Marshal(report); err == nil {
		if err := h.redisClient.Set(ctx, cacheKey, body, time.Duration(h.config.Coverage.ReportCacheExpiry)*time.Second).Err(); err != nil {
			slog.Error("写入覆盖率报告缓存失败", "error", err)
		}
	}

	h.successResponse(w, r, "获取覆盖率报告成功", report)
}
