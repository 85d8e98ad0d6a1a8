package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-task-tracker/backend/internal/models"
	"go-task-tracker/backend/internal/repositories"
	"go-task-tracker/backend/internal/services"
)

// HistoryHandler はタスク履歴関連のハンドラーを管理します。
type HistoryHandler struct {
	historyService *services.HistoryService
}

// NewHistoryHandler は新しいHistoryHandlerを作成します。
func NewHistoryHandler(historyService *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// GetTaskHistoryHandler は指定タスクの履歴一覧を取得します。
func (h *HistoryHandler) GetTaskHistoryHandler(c *gin.Context) {
	idStr := c.Param("id")
	taskID, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}
	userID, ok := userIDVal.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID type in context"})
		return
	}

	histories, err := h.historyService.GetTaskHistory(taskID, userID)
	if err != nil {
		if err == repositories.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task history"})
		return
	}
	if histories == nil {
		histories = []*models.TaskHistory{}
	}
	c.JSON(http.StatusOK, histories)
}

// DeleteTaskHistoryHandler は指定タスクの履歴をすべて削除します。
// 履歴が1行もないタスクへの削除はNotFound扱いです。
func (h *HistoryHandler) DeleteTaskHistoryHandler(c *gin.Context) {
	idStr := c.Param("id")
	taskID, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}
	userID, ok := userIDVal.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID type in context"})
		return
	}

	err = h.historyService.DeleteTaskHistory(taskID, userID)
	if err != nil {
		if err == repositories.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		if err == repositories.ErrHistoryNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "History not found for this task"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task history"})
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteHistoryByIDHandler は指定IDの履歴行を1件削除します。
func (h *HistoryHandler) DeleteHistoryByIDHandler(c *gin.Context) {
	idStr := c.Param("id")
	historyID, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}
	userID, ok := userIDVal.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID type in context"})
		return
	}

	err = h.historyService.DeleteHistoryByID(historyID, userID)
	if err != nil {
		if err == repositories.ErrHistoryNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task history not found"})
			return
		}
		if err == repositories.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task history"})
		return
	}
	c.Status(http.StatusNoContent)
}
