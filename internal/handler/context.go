package handler

type ContextKey string

var (
	RoleCtxKey      ContextKey = "role"
	SubCtxKey       ContextKey = "sub"
	OrgCtxKey       ContextKey = "org"
	RequestIDCtxKey ContextKey = "requestID"
	MyInfoCtx       ContextKey = "myInfo"
	ScheduleCtx     ContextKey = "schedule"
	ShiftCtx        ContextKey = "shift"
	ShiftTradeCtx   ContextKey = "shiftTrade"
)
