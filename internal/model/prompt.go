package model

import "time"

// Prompt represents a shared AI prompt as stored in the `prompts`
// table.  Every prompt belongs to exactly one creator via the
// CreatorID foreign key; the schema enforces the reference and the
// read path relies on it when joining the creator into responses.
//
// Fields:
//  ID        - primary key identifier.
//  CreatorID - foreign key into users.id.
//  Body      - the prompt text itself.
//  Tag       - a single free-form tag used for discovery.
//  CreatedAt - creation timestamp.
//  UpdatedAt - last update timestamp.
type Prompt struct {
	ID        uint64    // prompts.id
	CreatorID uint64    // prompts.creator_id
	Body      string    // prompts.body
	Tag       string    // prompts.tag
	CreatedAt time.Time // prompts.created_at
	UpdatedAt time.Time // prompts.updated_at
}
