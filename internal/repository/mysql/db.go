package mysql

import (
	"fmt"

	"MyHome/internal/config"
	"MyHome/internal/model"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 打开 MySQL 连接并设置连接池
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(gmysql.Open(cfg.DSN), &gorm.Config{
		// 唯一键冲突翻译成 gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// AutoMigrate 自动建表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityAdmin{},
		&model.CommunityHouse{},
		&model.HouseMember{},
		&model.HouseMemberDocument{},
		&model.Amenity{},
		&model.AmenityBookingItem{},
		&model.Payment{},
		&model.SecurityToken{},
		&model.EventOutbox{},
	)
}
