package services

import (
	"go-task-tracker/backend/internal/models"
	"go-task-tracker/backend/internal/repositories"
)

// TaskService はタスク関連のビジネスロジックを扱います。
type TaskService struct {
	taskRepo *repositories.TaskRepository
}

// NewTaskService は新しいTaskServiceを作成します。
func NewTaskService(taskRepo *repositories.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// CreateTask は新しいタスクを作成します。
// 所有者はリクエストしたユーザーに固定され、初期状態の履歴が同時に記録されます。
func (s *TaskService) CreateTask(req *models.TaskCreateRequest, userID int) (*models.Task, error) {
	status := req.Status
	if status == "" {
		status = models.StatusNew // 省略時のデフォルト
	}
	task := &models.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		DueTime:     req.DueTime,
	}
	return s.taskRepo.Create(task)
}

// GetAllTasks は全ユーザーのタスクを取得します。所有者による絞り込みはありません。
func (s *TaskService) GetAllTasks(filter *models.TaskFilter) ([]*models.Task, error) {
	return s.taskRepo.FindAll(filter)
}

// GetUserTasks はリクエストしたユーザー自身のタスクを取得します。
func (s *TaskService) GetUserTasks(userID int, filter *models.TaskFilter) ([]*models.Task, error) {
	return s.taskRepo.FindByUserID(userID, filter)
}

// GetTaskByID は指定IDのタスクを取得します。
// 存在しない場合と他人のタスクの場合はどちらもErrTaskNotFoundになります。
func (s *TaskService) GetTaskByID(id, userID int) (*models.Task, error) {
	return s.taskRepo.FindByIDForUser(id, userID)
}

// UpdateTask はタスクを部分更新し、更新後の状態を履歴に記録します。
func (s *TaskService) UpdateTask(id int, req *models.TaskUpdateRequest, userID int) (*models.Task, error) {
	return s.taskRepo.Update(id, userID, req)
}

// DeleteTask はタスクを削除します。履歴もカスケードで削除されます。
func (s *TaskService) DeleteTask(id, userID int) error {
	return s.taskRepo.Delete(id, userID)
}
