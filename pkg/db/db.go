package db

import (
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MLTCorp/sincron-grupos-sub000/pkg/logging"
)

const (
	AppDB   = "app"
	AuditDB = "audit"
)

type DBConfig struct {
	Host     string
	User     string
	Password string
	DBName   string
	Port     string
	SSLMode  string
}

type DatabaseManager struct {
	connections map[string]*gorm.DB
	mu          sync.RWMutex
}

func NewDatabaseManager() *DatabaseManager {
	return &DatabaseManager{
		connections: make(map[string]*gorm.DB),
	}
}

func (dm *DatabaseManager) Connect(dbType string, config DBConfig, models ...interface{}) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	logger := logging.GetLogger("database")

	sslMode := config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.Host, config.User, config.Password, config.DBName, config.Port, sslMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("error opening %s database: %w", dbType, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("error getting underlying SQL DB for %s: %w", dbType, err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return fmt.Errorf("error auto-migrating models for %s: %w", dbType, err)
		}
	}

	dm.connections[dbType] = db
	logger.Info().Str("database", dbType).Msg("connection established")
	return nil
}

func (dm *DatabaseManager) GetDB(dbType string) (*gorm.DB, error) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	db, exists := dm.connections[dbType]
	if !exists {
		return nil, fmt.Errorf("no connection found for database: %s", dbType)
	}
	return db, nil
}

func (dm *DatabaseManager) CloseAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	logger := logging.GetLogger("database")

	for dbType, db := range dm.connections {
		sqlDB, err := db.DB()
		if err != nil {
			logger.Error().Err(err).Str("database", dbType).Msg("error getting underlying SQL DB")
			continue
		}
		if err := sqlDB.Close(); err != nil {
			logger.Error().Err(err).Str("database", dbType).Msg("error closing connection")
		}
	}
	dm.connections = make(map[string]*gorm.DB)
}
