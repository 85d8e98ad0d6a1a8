package main

import (
	"log"

	"github.com/joho/godotenv"

	"go-task-tracker/backend/internal/database"
	"go-task-tracker/backend/internal/routes"
)

func main() {
	// .envファイルから環境変数を読み込む（存在しなくてもエラーにしない）
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using existing environment variables")
	}

	db := database.InitDB()
	defer db.Close()

	r := routes.SetupRouter(db)

	// サーバー起動
	log.Println("Server listening on port 8080...")
	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
