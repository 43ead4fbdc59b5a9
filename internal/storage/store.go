package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"intervue/internal/models"
)

// activeSessionKey is the fixed row key for the single active session; the
// store is the browser-reload-survival analogue of the original UI's
// persisted state.
const activeSessionKey = "current"

// sessionSnapshot is the single-row table holding the active session.
type sessionSnapshot struct {
	Key       string `gorm:"primaryKey"`
	Payload   string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// ErrNotFound is returned for lookups of missing archive entries.
var ErrNotFound = errors.New("not found")

// Store persists the active session and the archive of completed interviews.
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite file at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return New(db)
}

// New wraps an existing gorm connection; used by tests with an in-memory DSN.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&sessionSnapshot{}, &models.ArchivedSession{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveCurrent upserts the active session under the fixed key.
func (s *Store) SaveCurrent(session *models.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	row := sessionSnapshot{
		Key:       activeSessionKey,
		Payload:   string(payload),
		UpdatedAt: time.Now(),
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// LoadCurrent restores the active session, or returns a fresh pending session
// when none has been saved yet.
func (s *Store) LoadCurrent() (*models.Session, error) {
	var row sessionSnapshot
	err := s.db.First(&row, "key = ?", activeSessionKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(row.Payload), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if session.Prompted == nil {
		session.Prompted = make(map[string]bool)
	}
	return &session, nil
}

// AppendArchive stores one completed interview snapshot.
func (s *Store) AppendArchive(archived *models.ArchivedSession) error {
	if err := s.db.Create(archived).Error; err != nil {
		return fmt.Errorf("failed to archive session: %w", err)
	}
	return nil
}

// GetArchived looks up one archived interview by id.
func (s *Store) GetArchived(id string) (*models.ArchivedSession, error) {
	var archived models.ArchivedSession
	err := s.db.First(&archived, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get archived session: %w", err)
	}
	return &archived, nil
}

// ListArchived returns all archived interviews in completion order.
func (s *Store) ListArchived() ([]models.ArchivedSession, error) {
	var archived []models.ArchivedSession
	if err := s.db.Order("completed_at ASC").Find(&archived).Error; err != nil {
		return nil, fmt.Errorf("failed to list archived sessions: %w", err)
	}
	return archived, nil
}

// GetUnexported retrieves archive entries not yet written out by the exporter.
func (s *Store) GetUnexported() ([]models.ArchivedSession, error) {
	var archived []models.ArchivedSession
	if err := s.db.Where("exported = ?", false).Order("completed_at ASC").Find(&archived).Error; err != nil {
		return nil, fmt.Errorf("failed to get unexported sessions: %w", err)
	}
	return archived, nil
}

// MarkExported flags archive entries as written out.
func (s *Store) MarkExported(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now()
	if err := s.db.Model(&models.ArchivedSession{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"exported": true, "exported_at": &now}).Error; err != nil {
		return fmt.Errorf("failed to mark sessions exported: %w", err)
	}
	return nil
}
