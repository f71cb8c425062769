package coverage

type Band string

const (
	BandOptimal  Band = "optimal"
	BandWarning  Band = "warning"
	BandCritical Band = "critical"
)

// Thresholds 是覆盖率分级的配置边界（百分比）。
// 分级本身是三档的，具体切分点来自配置而不是散落的常量
type Thresholds struct {
	Optimal          int
	Warning          int
	CriticalStations int
}

// StationInput 是一个岗位的人员需求汇总
type StationInput struct {
	ID          int64
	Name        string
	RequiredMin int32
	RequiredMax int32
}

// ShiftWindow 是当天某个岗位一条已分配班次的时间窗
type ShiftWindow struct {
	StationID int64
	StartTime string // HH:MM:SS
	EndTime   string // HH:MM:SS
}

type StationCoverage struct {
	StationID          int64  `json:"stationID"`
	StationName        string `json:"stationName"`
	RequiredStaffing   int    `json:"requiredStaffing"`
	MaxStaffing        int    `json:"maxStaffing"`
	CurrentStaffing    int    `json:"currentStaffing"`
	CoveragePercentage int    `json:"coveragePercentage"`
	Status             Band   `json:"status"`
}

type OrganizationSummary struct {
	OptimalCount       int `json:"optimalCount"`
	WarningCount       int `json:"warningCount"`
	CriticalCount      int `json:"criticalCount"`
	OverallCoverage    int `json:"overallCoverage"`
	TotalStations      int `json:"totalStations"`
	TotalRequiredStaff int `json:"totalRequiredStaff"`
	TotalCurrentStaff  int `json:"totalCurrentStaff"`
}

// CriticalPeriod 是一天内多个岗位同时人手不足的固定时间窗
type CriticalPeriod struct {
	Name      string   `json:"name"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Stations  []string `json:"stations"`
	Severity  Band     `json:"severity"`
}

type Report struct {
	Date            string             `json:"date"`
	Stations        []*StationCoverage `json:"stations"`
	Summary         *OrganizationSummary `json:"summary"`
	CriticalPeriods []*CriticalPeriod  `json:"criticalPeriods"`
}
