// Package routesはroutingを行います。
package routes

import (
	"database/sql"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go-task-tracker/backend/internal/handlers"
	"go-task-tracker/backend/internal/repositories"
	"go-task-tracker/backend/internal/services"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(db *sql.DB) *gin.Engine {
	r := gin.Default()

	// CORS対策
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"http://localhost:3000"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = true
	r.Use(cors.New(config))

	// リポジトリ
	taskRepo := repositories.NewTaskRepository(db)
	historyRepo := repositories.NewTaskHistoryRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// サービス
	taskService := services.NewTaskService(taskRepo)
	historyService := services.NewHistoryService(taskRepo, historyRepo)
	userService := services.NewUserService(userRepo)
	jwtService := services.NewJWTService()

	// ハンドラー
	userHandler := handlers.NewUserHandler(userService, jwtService)
	taskHandler := handlers.NewTaskHandler(taskService)
	historyHandler := handlers.NewHistoryHandler(historyService)

	// ルーティング
	r.GET("/api/hello", HelloHandler)
	r.GET("/api/dbcheck", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
	})
	r.POST("/api/register", userHandler.RegisterHandler)
	r.POST("/api/login", userHandler.LoginHandler)

	authorized := r.Group("/")
	authorized.Use(AuthMiddleware(jwtService))
	{
		authorized.GET("/api/tasks", taskHandler.GetAllTasksHandler)
		authorized.GET("/api/tasks/mine", taskHandler.GetMyTasksHandler)
		authorized.GET("/api/task/:id", taskHandler.GetTaskByIDHandler)
		authorized.POST("/api/task", taskHandler.CreateTaskHandler)
		authorized.PUT("/api/task/:id", taskHandler.UpdateTaskHandler)
		authorized.DELETE("/api/task/:id", taskHandler.DeleteTaskHandler)
		authorized.GET("/api/task/:id/history", historyHandler.GetTaskHistoryHandler)
		authorized.DELETE("/api/task/:id/history", historyHandler.DeleteTaskHistoryHandler)
		authorized.DELETE("/api/history/:id", historyHandler.DeleteHistoryByIDHandler)
		authorized.GET("/api/protected", userHandler.ProtectedHandler)
	}

	return r
}

func HelloHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from Go Backend!"})
}
