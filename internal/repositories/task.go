// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go-task-tracker/backend/internal/models"
)

// ErrTaskNotFound はタスクが見つからない場合のエラーです。
// 他人のタスクへのアクセスも、存在を漏らさないように同じエラーにまとめます。
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository はデータベース操作を行うための構造体です。
type TaskRepository struct {
	DB *sql.DB
}

// NewTaskRepository は新しいTaskRepositoryインスタンスを作成します。
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

// buildFilterClause はTaskFilterをWHERE句の条件とプレースホルダー引数に変換します。
// 条件はすべてANDで結合されます。
func buildFilterClause(filter *models.TaskFilter, conds []string, args []interface{}) ([]string, []interface{}) {
	if filter == nil {
		return conds, args
	}
	if filter.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.DueTimeGTE != nil {
		conds = append(conds, "due_time >= ?")
		args = append(args, *filter.DueTimeGTE)
	}
	if filter.DueTimeLTE != nil {
		conds = append(conds, "due_time <= ?")
		args = append(args, *filter.DueTimeLTE)
	}
	return conds, args
}

// queryTasks は条件付きのSELECTを実行してタスクのスライスを返します。
func (r *TaskRepository) queryTasks(conds []string, args []interface{}) ([]*models.Task, error) {
	query := "SELECT id, user_id, title, description, status, due_time, created_at FROM tasks"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	// 同一クエリ内で順序が安定するように並び順を固定する
	query += " ORDER BY created_at, id"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		log.Printf("Failed to query tasks: %v", err)
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.DueTime, &t.CreatedAt); err != nil {
			log.Printf("Failed to scan task: %v", err)
			return nil, fmt.Errorf("could not scan task: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

// FindAll は全ユーザーのタスクをフィルター条件付きで取得します。
func (r *TaskRepository) FindAll(filter *models.TaskFilter) ([]*models.Task, error) {
	conds, args := buildFilterClause(filter, nil, nil)
	return r.queryTasks(conds, args)
}

// FindByUserID は指定ユーザーのタスクをフィルター条件付きで取得します。
func (r *TaskRepository) FindByUserID(userID int, filter *models.TaskFilter) ([]*models.Task, error) {
	conds := []string{"user_id = ?"}
	args := []interface{}{userID}
	conds, args = buildFilterClause(filter, conds, args)
	return r.queryTasks(conds, args)
}

// FindByIDForUser は指定IDのタスクを所有者条件付きで取得します。
// 所有者条件をSQL自体に含めることで、取得後のチェック漏れを防ぎます。
func (r *TaskRepository) FindByIDForUser(id, userID int) (*models.Task, error) {
	query := "SELECT id, user_id, title, description, status, due_time, created_at FROM tasks WHERE id = ? AND user_id = ?"

	var t models.Task
	err := r.DB.QueryRow(query, id, userID).Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.DueTime, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		log.Printf("Failed to query task by ID: %v", err)
		return nil, fmt.Errorf("could not query task: %w", err)
	}
	return &t, nil
}

// Create は新しいタスクと初期状態の履歴スナップショットを
// 同一トランザクションで挿入します。どちらかが失敗した場合は両方ロールバックされます。
func (r *TaskRepository) Create(t *models.Task) (*models.Task, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	t.CreatedAt = time.Now()

	result, err := tx.Exec(
		"INSERT INTO tasks (user_id, title, description, status, due_time, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		t.UserID, t.Title, t.Description, string(t.Status), t.DueTime, t.CreatedAt,
	)
	if err != nil {
		log.Printf("Failed to insert task: %v", err)
		return nil, fmt.Errorf("could not insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	t.ID = int(id)

	if err := insertHistorySnapshot(tx, t); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}
	return t, nil
}

// Update は指定IDのタスクを所有者条件付きで取得し、リクエストに含まれる
// フィールドだけをマージして更新します。更新後のstatus/due_timeの履歴スナップショットを
// 同一トランザクションで追加します。
func (r *TaskRepository) Update(id, userID int, req *models.TaskUpdateRequest) (*models.Task, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 更新対象をトランザクション内でロックして取得
	query := "SELECT id, user_id, title, description, status, due_time, created_at FROM tasks WHERE id = ? AND user_id = ? FOR UPDATE"
	var t models.Task
	err = tx.QueryRow(query, id, userID).Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.DueTime, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		log.Printf("Failed to query task for update: %v", err)
		return nil, fmt.Errorf("could not query task: %w", err)
	}

	// 送られてきたフィールドだけを上書きする（省略されたフィールドはそのまま）
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.DueTime != nil {
		t.DueTime = *req.DueTime
	}

	_, err = tx.Exec(
		"UPDATE tasks SET title = ?, description = ?, status = ?, due_time = ? WHERE id = ?",
		t.Title, t.Description, string(t.Status), t.DueTime, t.ID,
	)
	if err != nil {
		log.Printf("Failed to update task: %v", err)
		return nil, fmt.Errorf("could not update task: %w", err)
	}

	// どのフィールドを更新した場合でも、マージ後の状態を必ずスナップショットする
	if err := insertHistorySnapshot(tx, &t); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}
	return &t, nil
}

// insertHistorySnapshot はタスクの現在のstatus/due_timeを履歴テーブルに追加します。
func insertHistorySnapshot(tx *sql.Tx, t *models.Task) error {
	_, err := tx.Exec(
		"INSERT INTO task_history (task_id, status, due_time, created_at) VALUES (?, ?, ?, ?)",
		t.ID, string(t.Status), t.DueTime, time.Now(),
	)
	if err != nil {
		log.Printf("Failed to insert task history: %v", err)
		return fmt.Errorf("could not insert task history: %w", err)
	}
	return nil
}

// Delete は指定IDのタスクを所有者条件付きで削除します。
// 履歴行は外部キーのON DELETE CASCADEで一緒に削除されます。
func (r *TaskRepository) Delete(id, userID int) error {
	result, err := r.DB.Exec("DELETE FROM tasks WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		log.Printf("Failed to delete task: %v", err)
		return fmt.Errorf("could not delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
