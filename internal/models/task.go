// Package modelsはタスク管理のデータ構造を定義します。
package models

import "time"

// TaskStatus はタスクの状態を表す列挙型です。
type TaskStatus string

const (
	StatusNew        TaskStatus = "new"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// Valid はTaskStatusが定義済みの値かどうかを返します。
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task はタスクのデータベース構造体を表します。
// JSONタグ: クライアントとの通信用
type Task struct {
	ID          int        `json:"id,omitempty"`
	UserID      int        `json:"user_id"` // 所有者。作成後は変更されない
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	DueTime     time.Time  `json:"due_time"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TaskCreateRequest はタスク作成リクエストの構造体です。
// statusは省略可能で、省略時は"new"になります。
type TaskCreateRequest struct {
	Title       string     `json:"title" binding:"required,max=100"`
	Description string     `json:"description" binding:"required,max=500"`
	DueTime     time.Time  `json:"due_time" binding:"required"`
	Status      TaskStatus `json:"status" binding:"omitempty,oneof=new in_progress done"`
}

// TaskUpdateRequest はタスク部分更新リクエストの構造体です。
// すべてのフィールドが省略可能で、送られたフィールドだけが上書きされます。
type TaskUpdateRequest struct {
	Title       *string     `json:"title" binding:"omitempty,max=100"`
	Description *string     `json:"description" binding:"omitempty,max=500"`
	DueTime     *time.Time  `json:"due_time"`
	Status      *TaskStatus `json:"status" binding:"omitempty,oneof=new in_progress done"`
}

// TaskFilter はタスク一覧の絞り込み条件を表します。
// nilのフィールドは条件なしを意味し、指定された条件はANDで結合されます。
type TaskFilter struct {
	Status     *TaskStatus
	DueTimeGTE *time.Time // due_time >= 下限（両端含む）
	DueTimeLTE *time.Time // due_time <= 上限
}
