package scheduler

import "time"

type span struct {
	start time.Time
	end   time.Time
}

// conflictTracker 记录本次生成调用中每个员工已被占用的时间段。
// 它是请求级别的，每次 Generate 调用都会重新创建，
// 用于在还没有已提交行可查的情况下防止同一调用内的重复排班
type conflictTracker struct {
	booked map[int64][]span
}

func newConflictTracker() *conflictTracker {
	return &conflictTracker{
		booked: make(map[int64][]span),
	}
}

func (ct *conflictTracker) add(workerID int64, start, end time.Time) {
	ct.booked[workerID] = append(ct.booked[workerID], span{start: start, end: end})
}

// conflicts 判断 [start, end) 是否与该员工已占用的任一时间段重叠，
// 边界相接不算重叠
func (ct *conflictTracker) conflicts(workerID int64, start, end time.Time) bool {
	for _, s := range ct.booked[workerID] {
		if start.Before(s.end) && s.start.Before(end) {
			return true
		}
	}
	return false
}
