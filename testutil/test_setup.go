package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-task-tracker/backend/internal/models"
	"go-task-tracker/backend/internal/repositories"
	"go-task-tracker/backend/internal/routes"

	"github.com/joho/godotenv"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB はテスト用のデータベース接続を確立し、テーブルを作成し、テストデータを投入します。
func SetupTestDB(t *testing.T) (*sql.DB, *gin.Engine, *repositories.UserRepository) {

	// テストはinternal/配下のパッケージから実行されるため、リポジトリルートの.envを読む
	_ = godotenv.Load("../../.env")

	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "test-jwt-secret")
	}

	dbUser := os.Getenv("TEST_DB_USER")
	dbPass := os.Getenv("TEST_DB_PASS")
	dbHost := os.Getenv("TEST_DB_HOST")
	dbPort := os.Getenv("TEST_DB_PORT")
	dbName := os.Getenv("TEST_DB_NAME")

	// In Docker container, use "db" as hostname instead of 127.0.0.1
	if dbHost == "127.0.0.1" {
		dbHost = "db"
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", dbUser, dbPass, dbHost, dbPort, dbName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("Failed to open database connection: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("Failed to ping database: %v", err)
	}

	// 既存のテーブルを空にする (テストのたびにクリーンな状態にするため)
	// Foreign Key Constraint があるため、task_history -> tasks -> users の順
	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS=0;"); err != nil {
		log.Printf("Failed to disable foreign key checks: %v", err)
	}
	if _, err := db.Exec("TRUNCATE TABLE task_history"); err != nil {
		log.Printf("Failed to truncate task_history table (it might not exist yet): %v", err)
	}
	if _, err := db.Exec("TRUNCATE TABLE tasks"); err != nil {
		log.Printf("Failed to truncate tasks table (it might not exist yet): %v", err)
	}
	if _, err := db.Exec("TRUNCATE TABLE users"); err != nil {
		log.Printf("Failed to truncate users table (it might not exist yet): %v", err)
	}
	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS=1;"); err != nil {
		log.Printf("Failed to enable foreign key checks: %v", err)
	}

	// ユーザーテーブルの作成
	createUserTableSQL := `
    	CREATE TABLE IF NOT EXISTS users (
    		id INT AUTO_INCREMENT PRIMARY KEY,
    		username VARCHAR(255) NOT NULL UNIQUE,
    		email VARCHAR(255) NOT NULL UNIQUE,
    		password_hash VARCHAR(255) NOT NULL,
    		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
    	);`
	if _, err := db.Exec(createUserTableSQL); err != nil {
		t.Fatalf("Failed to create users table: %v", err)
	}

	// タスクテーブルの作成
	createTaskTableSQL := `
    	CREATE TABLE IF NOT EXISTS tasks (
    		id INT AUTO_INCREMENT PRIMARY KEY,
    		user_id INT NOT NULL,
    		title VARCHAR(100) NOT NULL,
    		description VARCHAR(500) NOT NULL DEFAULT '',
    		status ENUM('new', 'in_progress', 'done') NOT NULL DEFAULT 'new',
    		due_time DATETIME NOT NULL,
    		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
    	);`
	if _, err := db.Exec(createTaskTableSQL); err != nil {
		t.Fatalf("Failed to create tasks table: %v", err)
	}

	// タスク履歴テーブルの作成 (カスケード削除はストア側の制約で行う)
	createHistoryTableSQL := `
    	CREATE TABLE IF NOT EXISTS task_history (
    		id INT AUTO_INCREMENT PRIMARY KEY,
    		task_id INT NOT NULL,
    		status ENUM('new', 'in_progress', 'done') NOT NULL,
    		due_time DATETIME NOT NULL,
    		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    		FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE
    	);`
	if _, err := db.Exec(createHistoryTableSQL); err != nil {
		t.Fatalf("Failed to create task_history table: %v", err)
	}

	// テストユーザーの挿入
	userRepo := repositories.NewUserRepository(db)
	hashedPassword, _ := repositories.HashPassword("password123")
	normalUser := models.User{
		Username:     "normal_user",
		Email:        "normal_user@example.com",
		PasswordHash: hashedPassword,
	}
	if _, err := userRepo.Create(&normalUser); err != nil {
		log.Printf("Failed to create normal_user (might exist, or duplicate entry): %v", err)
	}

	hashedPasswordOther, _ := repositories.HashPassword("otherpass123")
	otherUser := models.User{
		Username:     "other_user",
		Email:        "other_user@example.com",
		PasswordHash: hashedPasswordOther,
	}
	if _, err := userRepo.Create(&otherUser); err != nil {
		log.Printf("Failed to create other_user (might exist, or duplicate entry): %v", err)
	}

	log.Println("Successfully set up test database!")

	// Ginルーターのセットアップ
	router := SetupTestRouter(t, db)

	return db, router, userRepo
}

// SetupTestRouter はテスト用のGinルーターをセットアップします。
func SetupTestRouter(t *testing.T, db *sql.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return routes.SetupRouter(db)
}

func CreateTestUser(t *testing.T, userRepo *repositories.UserRepository, username, email, password string) *models.User {
	hashedPassword, err := repositories.HashPassword(password)
	require.NoError(t, err)

	newUser := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	createdUser, err := userRepo.Create(&newUser)
	require.NoError(t, err)
	require.NotNil(t, createdUser)
	require.NotEqual(t, 0, createdUser.ID)
	return createdUser
}

// CreateTestTask はAPI経由でテスト用のタスクを作成し、作成されたタスクを返します。
func CreateTestTask(t *testing.T, router *gin.Engine, token, title, description string, dueTime time.Time, status models.TaskStatus) *models.Task {
	taskPayload := map[string]interface{}{
		"title":       title,
		"description": description,
		"due_time":    dueTime.Format(time.RFC3339),
	}
	if status != "" {
		taskPayload["status"] = string(status)
	}
	body, _ := json.Marshal(taskPayload)

	req, _ := http.NewRequest(http.MethodPost, "/api/task", bytes.NewBuffer(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, "タスク作成に失敗しました: %s", resp.Body.String())

	var createdTask models.Task
	err := json.Unmarshal(resp.Body.Bytes(), &createdTask)
	require.NoError(t, err)
	return &createdTask
}

func LoginAndGetToken(t *testing.T, router *gin.Engine, email, password string) (string, error) {
	loginPayload := map[string]string{
		"email":    email,
		"password": password,
	}
	body, _ := json.Marshal(loginPayload)

	req, _ := http.NewRequest(http.MethodPost, "/api/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", resp.Code, resp.Body.String())
	}

	var loginRes map[string]interface{}
	err := json.Unmarshal(resp.Body.Bytes(), &loginRes)
	if err != nil {
		return "", fmt.Errorf("failed to unmarshal login response: %w", err)
	}

	token, ok := loginRes["token"].(string)
	if !ok {
		return "", errors.New("token not found or not a string in login response")
	}
	return token, nil
}
