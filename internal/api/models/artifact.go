package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"blockgen/internal/gen"
)

// Artifact is the stored output of one generation pass over a project
type Artifact struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	ProjectID   uint        `gorm:"not null;index" json:"projectId"`
	PassID      string      `gorm:"not null;index" json:"passId"`
	Backend     string      `gorm:"not null" json:"backend"`
	Code        string      `gorm:"type:text" json:"code"`
	GraphHash   string      `gorm:"index" json:"graphHash"`
	Diagnostics Diagnostics `gorm:"type:jsonb" json:"diagnostics"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"createdAt"`
}

func (Artifact) TableName() string {
	return "artifacts"
}

type Diagnostics []gen.Diagnostic

// Value implements driver.Valuer for GORM
func (d Diagnostics) Value() (driver.Value, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for GORM
func (d *Diagnostics) Scan(value any) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan Diagnostics: expected []byte")
	}
	return json.Unmarshal(bytes, d)
}

// Blocking counts the diagnostics the editor shows as alerts
func (d Diagnostics) Blocking() int {
	count := 0
	for _, diag := range d {
		if diag.Blocking() {
			count++
		}
	}
	return count
}
