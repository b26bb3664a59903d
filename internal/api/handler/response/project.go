package response

import (
	"encoding/json"
	"time"

	"blockgen/internal/gen"
)

type Project struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Graph       json.RawMessage `json:"graph,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type Artifact struct {
	ID          uint             `json:"id"`
	ProjectID   uint             `json:"projectId"`
	PassID      string           `json:"passId"`
	Backend     string           `json:"backend"`
	Code        string           `json:"code"`
	GraphHash   string           `json:"graphHash"`
	Diagnostics []gen.Diagnostic `json:"diagnostics"`
	Blocking    int              `json:"blocking"`
	CreatedAt   time.Time        `json:"createdAt"`
}

type Backends struct {
	Backends []string `json:"backends"`
}

type Export struct {
	ArtifactID uint   `json:"artifactId"`
	Dialect    string `json:"dialect"`
	Table      string `json:"table"`
}
