package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sadopc/workpulse/internal/model"
)

type userDocument struct {
	UserID    string    `gorm:"primaryKey;type:text"`
	Data      []byte    `gorm:"type:jsonb;not null;default:'{}'::jsonb"`
	LastSync  string    `gorm:"type:text;not null;default:''"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

func (userDocument) TableName() string { return "user_documents" }

// PostgresRemote keeps one JSONB row per user.
type PostgresRemote struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*PostgresRemote, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect remote: %w", err)
	}
	if err := gdb.AutoMigrate(&userDocument{}); err != nil {
		return nil, fmt.Errorf("migrate remote: %w", err)
	}
	return &PostgresRemote{db: gdb}, nil
}

func (r *PostgresRemote) Fetch(ctx context.Context, userID string) (*Document, error) {
	var row userDocument
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	d, err := model.Decode(row.Data)
	if err != nil {
		return nil, fmt.Errorf("decode remote document: %w", err)
	}
	return &Document{Data: d, LastSync: row.LastSync, UpdatedAt: row.UpdatedAt}, nil
}

func (r *PostgresRemote) Store(ctx context.Context, userID string, doc *Document) error {
	raw, err := json.Marshal(doc.Data)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	row := userDocument{
		UserID:    userID,
		Data:      raw,
		LastSync:  doc.LastSync,
		UpdatedAt: doc.UpdatedAt,
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "last_sync", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("store document: %w", err)
	}
	return nil
}

func (r *PostgresRemote) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
