package request

import "encoding/json"

// GenerateOptions overrides the server generator defaults. Nil fields keep
// the configured value.
type GenerateOptions struct {
	CommentWrap   *int  `json:"commentWrap" validate:"omitempty,min=10,max=200"`
	OneBasedIndex *bool `json:"oneBasedIndex"`
	LoopTrap      *bool `json:"loopTrap"`
	LoopTrapLimit *int  `json:"loopTrapLimit" validate:"omitempty,min=1"`
	Format        *bool `json:"format"`
}

// Generate is a stateless generation of a graph sent inline
type Generate struct {
	Graph   json.RawMessage  `json:"graph" validate:"required"`
	Backend string           `json:"backend" validate:"required"`
	Options *GenerateOptions `json:"options"`
}

type CreateProject struct {
	Name        string          `json:"name" validate:"required,max=120"`
	Description string          `json:"description" validate:"max=1000"`
	Graph       json.RawMessage `json:"graph"`
}

type UpdateProject struct {
	Name        *string         `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	Graph       json.RawMessage `json:"graph"`
}

// GenerateProject runs the listed backends over the stored graph. An empty
// list means every registered backend.
type GenerateProject struct {
	Backends []string         `json:"backends" validate:"omitempty,dive,required"`
	Options  *GenerateOptions `json:"options"`
}

type ExportArtifact struct {
	Table string `json:"table" validate:"omitempty,max=63"`
}

type MailArtifact struct {
	To      []string `json:"to" validate:"required,min=1,dive,email"`
	Subject string   `json:"subject" validate:"max=200"`
}

// MailCheck probes a mail server before it is used for artifact delivery
type MailCheck struct {
	Protocol string `json:"protocol" validate:"required,oneof=smtp imap"`
	Host     string `json:"host" validate:"required"`
	Port     int    `json:"port" validate:"required,min=1,max=65535"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	UseTLS   bool   `json:"useTls"`
}
