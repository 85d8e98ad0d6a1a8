package models

import "time"

// TaskHistory はタスク変更履歴のデータベース構造体を表します。
// タスクの作成時と更新のたびに、その時点のstatus/due_timeのスナップショットが
// 1行追加されます。履歴行は追記専用で、更新されることはありません。
type TaskHistory struct {
	ID        int        `json:"id,omitempty"`
	TaskID    int        `json:"task_id"`
	Status    TaskStatus `json:"status"`
	DueTime   time.Time  `json:"due_time"`
	CreatedAt time.Time  `json:"created_at"` // 記録時刻。タスク自身のcreated_atとは別物
}
