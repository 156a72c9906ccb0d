// Package storage implements the durable key-value store backing the
// storefront: whole collections serialized as JSON under a single key, with
// full-replace writes. Corrupt payloads degrade to empty collections and the
// offending row is cleared so the next write starts clean.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hamadpass/khodarji-backend/pkg/db"
	pkgerrors "github.com/hamadpass/khodarji-backend/pkg/errors"
	"github.com/hamadpass/khodarji-backend/pkg/logger"
)

// SchemaVersion tags every stored envelope; payloads written under a
// different version are treated the same as corrupt ones.
const SchemaVersion = 1

// Collection keys shared by the whole application.
const (
	KeyUsers    = "users"
	KeyProducts = "products"
	KeyOrders   = "orders"
	KeyCatalog  = "catalog_meta"
)

// CartKey returns the durable key for a session's cart snapshot.
func CartKey(sessionID string) string {
	return "cart:" + sessionID
}

// SessionUserKey returns the durable key for a session's identified user.
func SessionUserKey(sessionID string) string {
	return "session_user:" + sessionID
}

// Record is the row model for the records table.
type Record struct {
	Key       string `gorm:"primaryKey;column:key"`
	Version   int
	Payload   string
	UpdatedAt time.Time
}

// TableName implements gorm's table naming hook.
func (Record) TableName() string {
	return "records"
}

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Store mediates all durable reads and writes.
type Store struct {
	client *db.Client
	logg   *logger.Logger
}

// New wires a store over the shared database client.
func New(client *db.Client, logg *logger.Logger) *Store {
	return &Store{client: client, logg: logg}
}

// Read loads the value stored at key into dest. A missing row leaves dest
// untouched; a corrupt or version-mismatched payload clears the row and also
// leaves dest untouched. Only infrastructure failures surface as errors.
func (s *Store) Read(ctx context.Context, key string, dest any) error {
	var record Record
	err := s.client.DB().WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read record")
	}

	var env envelope
	if jsonErr := json.Unmarshal([]byte(record.Payload), &env); jsonErr != nil {
		return s.clearCorrupt(ctx, key, jsonErr)
	}
	if env.Version != SchemaVersion {
		return s.clearCorrupt(ctx, key, nil)
	}
	if jsonErr := json.Unmarshal(env.Data, dest); jsonErr != nil {
		return s.clearCorrupt(ctx, key, jsonErr)
	}
	return nil
}

// Write replaces the value stored at key.
func (s *Store) Write(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal record")
	}
	payload, err := json.Marshal(envelope{Version: SchemaVersion, Data: data})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal envelope")
	}

	record := Record{
		Key:       key,
		Version:   SchemaVersion,
		Payload:   string(payload),
		UpdatedAt: time.Now().UTC(),
	}
	err = s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		}).
		Create(&record).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write record")
	}
	return nil
}

// Delete removes the value stored at key; absent keys are a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.client.DB().WithContext(ctx).Delete(&Record{}, "key = ?", key).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete record")
	}
	return nil
}

func (s *Store) clearCorrupt(ctx context.Context, key string, cause error) error {
	if s.logg != nil {
		fields := map[string]any{"record_key": key}
		if cause != nil {
			fields["parse_error"] = cause.Error()
		}
		s.logg.Warn(s.logg.WithFields(ctx, fields), "discarding corrupt stored record")
	}
	if err := s.client.DB().WithContext(ctx).Delete(&Record{}, "key = ?", key).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear corrupt record")
	}
	return nil
}
