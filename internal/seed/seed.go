package seed

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/schedulehub/backend/internal/config"
	"github.com/schedulehub/backend/internal/domain"
	"github.com/schedulehub/backend/internal/repository"
	"github.com/schedulehub/backend/internal/utils"
)

// demoStations 和 demoTemplates 是一套可以直接演示完整排班流程的最小数据：
// 三个岗位、三个角色、早中晚三个班次模板
var demoStations = []string{"前台", "后厨", "收银"}

var demoRoles = []string{"服务员", "厨师", "收银员"}

var demoTemplates = []domain.ShiftTemplate{
	{
		Name:                 "早班",
		StartTime:            "06:00:00",
		EndTime:              "14:00:00",
		BreakDurationMinutes: 30,
		RequiredWorkers:      3,
		DaysOfWeek:           []int32{1, 2, 3, 4, 5, 6, 7},
		IsActive:             true,
	},
	{
		Name:                 "晚班",
		StartTime:            "14:00:00",
		EndTime:              "22:00:00",
		BreakDurationMinutes: 30,
		RequiredWorkers:      3,
		DaysOfWeek:           []int32{1, 2, 3, 4, 5, 6, 7},
		IsActive:             true,
	},
	{
		Name:                 "夜班",
		StartTime:            "22:00:00",
		EndTime:              "06:00:00",
		BreakDurationMinutes: 45,
		IsOvernight:          true,
		RequiredWorkers:      1,
		DaysOfWeek:           []int32{5, 6},
		IsActive:             true,
	},
}

// SeedDemoData 在指定组织下插入演示用的岗位、角色、人员需求和班次模板，
// 并生成 workerCount 个随机员工
func SeedDemoData(r *repository.Repository, cfg *config.Config, organizationName string, workerCount int) {
	org, err := r.GetOrganizationByName(organizationName)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			org = &domain.Organization{Name: organizationName}
			if err := r.CreateOrganization(org); err != nil {
				slog.Error("无法创建演示组织", "error", err)
				return
			}
		default:
			slog.Error("无法查询演示组织", "error", err)
			return
		}
	}

	roles := make([]*domain.WorkRole, 0, len(demoRoles))
	for _, name := range demoRoles {
		role := &domain.WorkRole{OrganizationID: org.ID, Name: name}
		if err := r.CreateWorkRole(role); err != nil {
			slog.Error("无法插入角色", "name", name, "error", err)
			continue
		}
		roles = append(roles, role)
	}

	for i, name := range demoStations {
		station := &domain.Station{OrganizationID: org.ID, Name: name}
		if err := r.CreateStation(station); err != nil {
			slog.Error("无法插入岗位", "name", name, "error", err)
			continue
		}

		if i < len(roles) {
			requirement := &domain.RoleRequirement{
				StationID:  station.ID,
				RoleID:     roles[i].ID,
				MinWorkers: 2,
				MaxWorkers: 4,
				Priority:   int32(i + 1),
			}
			if err := r.CreateRoleRequirement(requirement); err != nil {
				slog.Error("无法插入人员需求", "station", name, "error", err)
			}
		}
	}

	for _, template := range demoTemplates {
		t := template
		t.OrganizationID = org.ID
		if err := r.CreateShiftTemplate(&t); err != nil {
			slog.Error("无法插入班次模板", "name", t.Name, "error", err)
		}
	}

	created := 0
	for i := 0; i < workerCount; i++ {
		worker, err := utils.GenerateRandomWorker(org.ID, cfg.Seed.User.Password, cfg.Email.UserDomain)
		if err != nil {
			slog.Error("无法生成随机员工", "error", err)
			continue
		}
		if err := r.CreateUser(worker); err != nil {
			slog.Error("无法插入员工", "error", err)
			continue
		}
		created++
	}

	slog.Info("演示数据插入完成", "organization", organizationName, "workers", created)
}
