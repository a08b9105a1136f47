package model

// TaskStatus 任务状态枚举。
type TaskStatus string

const (
	TaskStatusCreated    TaskStatus = "CREATED"     // 初始状态，创建任务时赋予
	TaskStatusInProgress TaskStatus = "IN_PROGRESS" // 进行中
	TaskStatusCompleted  TaskStatus = "COMPLETED"   // 已完成（终态）
	TaskStatusCancelled  TaskStatus = "CANCELLED"   // 已取消（终态）
)

// taskTransitions 是静态的状态转移表：每个状态映射到可直接到达的状态集合。
// 终态（COMPLETED / CANCELLED）的转移集合为空。
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusCreated:    {TaskStatusInProgress, TaskStatusCancelled},
	TaskStatusInProgress: {TaskStatusCompleted, TaskStatusCancelled},
	TaskStatusCompleted:  {},
	TaskStatusCancelled:  {},
}

// Valid 判断状态值是否是已知的枚举成员。
func (s TaskStatus) Valid() bool {
	_, ok := taskTransitions[s]
	return ok
}

// Transitions 返回从当前状态可直接到达的状态集合。
//
// 返回的是副本，调用方修改不会影响转移表。
func (s TaskStatus) Transitions() []TaskStatus {
	next, ok := taskTransitions[s]
	if !ok {
		return nil
	}
	out := make([]TaskStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo 判断能否从当前状态直接转移到 target。
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	for _, next := range taskTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}
