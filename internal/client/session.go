package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kelfit/internal/db"
	"kelfit/internal/model"
)

const (
	keyToken        = "token"
	keyRefreshToken = "refresh_token"
	keyUser         = "user"
)

// Session is what a client remembers between runs.
type Session struct {
	Token        string
	RefreshToken string
	User         *model.User
}

// LoggedIn reports whether the session holds an access token.
func (s Session) LoggedIn() bool {
	return s.Token != ""
}

type sessionEntry struct {
	Key   string `gorm:"primaryKey;size:32"`
	Value []byte
}

func (sessionEntry) TableName() string {
	return "session"
}

// SessionStore keeps the session in a local SQLite file as key/value rows.
type SessionStore struct {
	db *gorm.DB
}

// OpenSessionStore opens or creates the session file at path.
func OpenSessionStore(path string) (*SessionStore, error) {
	gormDB, err := db.NewSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := gormDB.AutoMigrate(&sessionEntry{}); err != nil {
		_ = db.Close(gormDB)
		return nil, fmt.Errorf("migrate session table: %w", err)
	}
	return &SessionStore{db: gormDB}, nil
}

// Load returns the stored session. An empty store yields a zero Session.
func (s *SessionStore) Load(ctx context.Context) (Session, error) {
	var entries []sessionEntry
	if err := s.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session
	for _, entry := range entries {
		switch entry.Key {
		case keyToken:
			session.Token = string(entry.Value)
		case keyRefreshToken:
			session.RefreshToken = string(entry.Value)
		case keyUser:
			var user model.User
			if err := json.Unmarshal(entry.Value, &user); err != nil {
				return Session{}, fmt.Errorf("failed to decode stored user: %w", err)
			}
			session.User = &user
		}
	}
	return session, nil
}

// Save replaces the stored session with session.
func (s *SessionStore) Save(ctx context.Context, session Session) error {
	entries := []sessionEntry{
		{Key: keyToken, Value: []byte(session.Token)},
		{Key: keyRefreshToken, Value: []byte(session.RefreshToken)},
	}
	if session.User != nil {
		payload, err := json.Marshal(session.User)
		if err != nil {
			return fmt.Errorf("failed to encode user: %w", err)
		}
		entries = append(entries, sessionEntry{Key: keyUser, Value: payload})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if session.User == nil {
			if err := tx.Delete(&sessionEntry{}, "key = ?", keyUser).Error; err != nil {
				return fmt.Errorf("failed to clear stored user: %w", err)
			}
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).Create(&entries).Error
		if err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	})
}

// Clear removes every stored value.
func (s *SessionStore) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&sessionEntry{}).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close releases the session file.
func (s *SessionStore) Close() error {
	return db.Close(s.db)
}
