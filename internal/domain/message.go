package domain

// RunMessage 投递到运行队列中的消息，携带完整的实例，worker 不需要访问问题存储
type RunMessage struct {
	RunID      string        `json:"runID"`
	Problem    *Problem      `json:"problem"`
	Parameters RunParameters `json:"parameters"`
}
