package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Project is a saved block workspace
type Project struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OwnerID     uint           `gorm:"not null;index" json:"ownerId"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Graph       GraphDocument  `gorm:"type:jsonb" json:"graph"`
	Artifacts   []Artifact     `gorm:"foreignKey:ProjectID" json:"artifacts,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string {
	return "projects"
}

// GraphDocument is the raw block graph as sent by the editor. It is
// decoded with block.ParseBytes only when a generation runs.
type GraphDocument json.RawMessage

// Value implements driver.Valuer for GORM
func (g GraphDocument) Value() (driver.Value, error) {
	if len(g) == 0 {
		return []byte(`{"blocks":[]}`), nil
	}
	return []byte(g), nil
}

// Scan implements sql.Scanner for GORM
func (g *GraphDocument) Scan(value any) error {
	if value == nil {
		*g = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*g = append((*g)[:0], v...)
	case string:
		*g = GraphDocument(v)
	default:
		return errors.New("failed to scan GraphDocument: expected []byte")
	}
	return nil
}

func (g GraphDocument) MarshalJSON() ([]byte, error) {
	if len(g) == 0 {
		return []byte("null"), nil
	}
	return g, nil
}

func (g *GraphDocument) UnmarshalJSON(data []byte) error {
	*g = append((*g)[:0], data...)
	return nil
}
