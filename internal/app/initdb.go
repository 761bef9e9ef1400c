package app

import (
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vxsahu/crm-system/config"
	"github.com/vxsahu/crm-system/internal/domain"
	"github.com/vxsahu/crm-system/pkg/common"
)

// getDatabase opens the configured database. Postgres is the production
// engine; the pure-Go sqlite driver serves dev setups without a server.
func getDatabase(cfg config.DBConfig, workdir string) *gorm.DB {
	logLevel := gormlogger.Warn
	if cfg.Debug {
		logLevel = gormlogger.Info
	}
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Type {
	case "sqlite":
		dbfile := path.Join(workdir, "data", cfg.Name+".db")
		db, err = gorm.Open(sqlite.Open(dbfile), gormCfg)
	default:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=Asia/Kolkata",
			cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name)
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
	}
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.IdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
	}
	return db
}

// checkSuper makes sure a usable admin account exists after startup.
func (a *Application) checkSuper() {
	const superEmail = "admin@crm.local"
	const defaultPassword = "crm-system"

	var operator domain.Operator
	err := a.gormDB.Where("email = ?", superEmail).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, hashErr := common.HashPassword(defaultPassword)
		if hashErr != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(hashErr))
			return
		}
		if err := a.gormDB.Create(&domain.Operator{
			ID:        common.UUIDint64(),
			Email:     superEmail,
			Password:  hashed,
			Name:      "administrator",
			Level:     "admin",
			Status:    common.ENABLED,
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("email", superEmail))
		}
	case err != nil:
		zap.L().Error("failed to query admin account", zap.Error(err))
	}
}
