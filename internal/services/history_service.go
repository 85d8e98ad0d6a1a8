package services

import (
	"go-task-tracker/backend/internal/models"
	"go-task-tracker/backend/internal/repositories"
)

// HistoryService はタスク履歴関連のビジネスロジックを扱います。
// すべての操作で、対象タスクがリクエストしたユーザーのものかを先に確認します。
type HistoryService struct {
	taskRepo    *repositories.TaskRepository
	historyRepo *repositories.TaskHistoryRepository
}

// NewHistoryService は新しいHistoryServiceを作成します。
func NewHistoryService(taskRepo *repositories.TaskRepository, historyRepo *repositories.TaskHistoryRepository) *HistoryService {
	return &HistoryService{taskRepo: taskRepo, historyRepo: historyRepo}
}

// GetTaskHistory は指定タスクの履歴をすべて取得します。
// タスクが存在しないか他人のものの場合はErrTaskNotFoundを返します。
func (s *HistoryService) GetTaskHistory(taskID, userID int) ([]*models.TaskHistory, error) {
	if _, err := s.taskRepo.FindByIDForUser(taskID, userID); err != nil {
		return nil, err
	}
	return s.historyRepo.FindByTaskID(taskID)
}

// DeleteTaskHistory は指定タスクの履歴をすべて削除します。
// タスクが存在しない・他人のもの・履歴が1行もない、のいずれもNotFound扱いです。
func (s *HistoryService) DeleteTaskHistory(taskID, userID int) error {
	if _, err := s.taskRepo.FindByIDForUser(taskID, userID); err != nil {
		return err
	}
	return s.historyRepo.DeleteByTaskID(taskID)
}

// DeleteHistoryByID は指定IDの履歴行を1件削除します。
// 履歴の親タスクがリクエストしたユーザーのものでない場合はErrTaskNotFoundを返します。
func (s *HistoryService) DeleteHistoryByID(historyID, userID int) error {
	history, err := s.historyRepo.FindByID(historyID)
	if err != nil {
		return err
	}
	if _, err := s.taskRepo.FindByIDForUser(history.TaskID, userID); err != nil {
		return err
	}
	return s.historyRepo.DeleteByID(historyID)
}
