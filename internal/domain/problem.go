package domain

import "time"

// Depot 行程矩阵中仓库的节点编号，活动 i 对应节点 i+1
const Depot = 0

// Problem 一个 HHCRSP 实例
type Problem struct {
	ID            string      `json:"id"`
	Activities    int         `json:"activities"`
	Shifts        int         `json:"shifts"`
	Feasible      [][]bool    `json:"feasible"`      // [活动][班次]
	Travel        [][]float64 `json:"travel"`        // (活动数+1)²，节点 0 是仓库
	Start         []float64   `json:"start"`         // 时间窗开始
	End           []float64   `json:"end"`           // 时间窗结束
	Duration      []float64   `json:"duration"`      // 服务时长
	ShiftDuration []float64   `json:"shiftDuration"` // 班次的最大工作时长
	WX            float64     `json:"wx"`            // 行程权重
	WY            float64     `json:"wy"`            // 加班权重
	WZ            float64     `json:"wz"`            // 等待权重
	CreatedAt     time.Time   `json:"createdAt"`
}

// Node 活动在行程矩阵中的节点编号
func Node(activity int) int {
	return activity + 1
}

// FeasibleShifts 活动可以被安排的班次，按编号升序
func (p *Problem) FeasibleShifts(activity int) []int {
	if activity < 0 || activity >= len(p.Feasible) {
		return nil
	}
	shifts := make([]int, 0, len(p.Feasible[activity]))
	for s, ok := range p.Feasible[activity] {
		if ok {
			shifts = append(shifts, s)
		}
	}
	return shifts
}

// TravelTime 两个活动之间的行程时间，用 Depot 表示仓库
func (p *Problem) TravelTime(from, to int) float64 {
	return p.Travel[from][to]
}
