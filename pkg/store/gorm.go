package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pwalczyk/dockerop/pkg/connection"
)

// ConnectionModel represents the connection table.
type ConnectionModel struct {
	ConnID   string `gorm:"column:conn_id;primaryKey;size:255;not null"`
	Host     string `gorm:"size:255"`
	Port     int
	Login    string `gorm:"size:255"`
	Password string `gorm:"size:255"`
	Schema   string `gorm:"size:255"`
	Extra    string `gorm:"type:text"`
}

// TableName specifies the table name for ConnectionModel.
func (ConnectionModel) TableName() string {
	return "connection"
}

// VariableModel represents the variable table.
type VariableModel struct {
	Key string `gorm:"column:key;primaryKey;size:255;not null"`
	Val string `gorm:"column:val;type:text"`
}

// TableName specifies the table name for VariableModel.
func (VariableModel) TableName() string {
	return "variable"
}

// GormStore reads connections and variables from an orchestrator metadata
// database through GORM.
type GormStore struct {
	db     *gorm.DB
	config *Config
}

// NewGormStore opens a GORM-backed store against the configured metadata
// database.
func NewGormStore(config *Config) (*GormStore, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(config.ConnectionURL), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Warn),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	pool := parsePoolConfig(config.Options)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	return &GormStore{db: db, config: config}, nil
}

// Migrate creates the connection and variable tables if they do not exist.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&ConnectionModel{}, &VariableModel{})
}

// GetConnection implements connection.Store.
func (s *GormStore) GetConnection(ctx context.Context, connectionID string) (*connection.Record, error) {
	var model ConnectionModel
	err := s.db.WithContext(ctx).First(&model, "conn_id = ?", connectionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("connection %q not found", connectionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query connection %q: %w", connectionID, err)
	}

	return &connection.Record{
		Host:     model.Host,
		Port:     model.Port,
		Login:    model.Login,
		Password: model.Password,
		Schema:   model.Schema,
		Extra:    model.Extra,
	}, nil
}

// GetVariable implements variable.Store.
func (s *GormStore) GetVariable(ctx context.Context, key string) (string, error) {
	var model VariableModel
	err := s.db.WithContext(ctx).First(&model, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("variable %q not found", key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query variable %q: %w", key, err)
	}

	return model.Val, nil
}

// Close closes the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
