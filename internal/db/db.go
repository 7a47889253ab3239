package db

import (
	"fmt"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB ローカルミラーDB（SQLite）を初期化する。
// Sheetsに書けない環境でも監査行を失わないためのフォールバック先。
func InitDB(path string) error {
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("ミラーDBへの接続に失敗: %w", err)
	}

	if err := DB.AutoMigrate(&model.ResultRow{}); err != nil {
		return fmt.Errorf("ミラーDBのマイグレーションに失敗: %w", err)
	}
	return nil
}
