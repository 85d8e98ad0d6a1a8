package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"go-task-tracker/backend/internal/models"
)

// ErrHistoryNotFound は履歴が見つからない場合のエラーです。
var ErrHistoryNotFound = errors.New("task history not found")

// TaskHistoryRepository は履歴テーブルの操作を行うための構造体です。
// 履歴は追記専用なので、UPDATE系のメソッドは存在しません。
type TaskHistoryRepository struct {
	DB *sql.DB
}

// NewTaskHistoryRepository は新しいTaskHistoryRepositoryインスタンスを作成します。
func NewTaskHistoryRepository(db *sql.DB) *TaskHistoryRepository {
	return &TaskHistoryRepository{DB: db}
}

// FindByTaskID は指定タスクの履歴をすべて取得します。
func (r *TaskHistoryRepository) FindByTaskID(taskID int) ([]*models.TaskHistory, error) {
	query := "SELECT id, task_id, status, due_time, created_at FROM task_history WHERE task_id = ? ORDER BY id"

	rows, err := r.DB.Query(query, taskID)
	if err != nil {
		log.Printf("Failed to query task history: %v", err)
		return nil, fmt.Errorf("could not query task history: %w", err)
	}
	defer rows.Close()

	var histories []*models.TaskHistory
	for rows.Next() {
		var h models.TaskHistory
		if err := rows.Scan(&h.ID, &h.TaskID, &h.Status, &h.DueTime, &h.CreatedAt); err != nil {
			log.Printf("Failed to scan task history: %v", err)
			return nil, fmt.Errorf("could not scan task history: %w", err)
		}
		histories = append(histories, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task history: %w", err)
	}
	return histories, nil
}

// FindByID は指定IDの履歴行を取得します。
func (r *TaskHistoryRepository) FindByID(id int) (*models.TaskHistory, error) {
	query := "SELECT id, task_id, status, due_time, created_at FROM task_history WHERE id = ?"

	var h models.TaskHistory
	err := r.DB.QueryRow(query, id).Scan(&h.ID, &h.TaskID, &h.Status, &h.DueTime, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHistoryNotFound
		}
		log.Printf("Failed to query task history by ID: %v", err)
		return nil, fmt.Errorf("could not query task history: %w", err)
	}
	return &h, nil
}

// DeleteByTaskID は指定タスクの履歴をすべて削除します。
// 履歴が1行もない場合はErrHistoryNotFoundを返します（空の履歴の削除はエラー扱い）。
func (r *TaskHistoryRepository) DeleteByTaskID(taskID int) error {
	result, err := r.DB.Exec("DELETE FROM task_history WHERE task_id = ?", taskID)
	if err != nil {
		log.Printf("Failed to delete task history: %v", err)
		return fmt.Errorf("could not delete task history: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrHistoryNotFound
	}
	return nil
}

// DeleteByID は指定IDの履歴行を1件削除します。
func (r *TaskHistoryRepository) DeleteByID(id int) error {
	result, err := r.DB.Exec("DELETE FROM task_history WHERE id = ?", id)
	if err != nil {
		log.Printf("Failed to delete task history by ID: %v", err)
		return fmt.Errorf("could not delete task history: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrHistoryNotFound
	}
	return nil
}
