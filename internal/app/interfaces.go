package app

import (
	"github.com/vxsahu/crm-system/config"
	"github.com/vxsahu/crm-system/internal/oplog"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// OpLogProvider provides the operation log recorder
type OpLogProvider interface {
	OpLog() *oplog.Recorder
}

// AppContext combines all provider interfaces for full application context.
// Handlers should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	OpLogProvider

	// Application lifecycle methods
	MigrateDB() error
	InitDb()
	DropAll()
}
