package domain

import "github.com/google/uuid"

// GetID returns the entity id. Promoted to every entity embedding BaseModel.
func (b *BaseModel) GetID() uuid.UUID {
	return b.ID
}

// GetPosition returns the column's index within its board
func (c *Column) GetPosition() int {
	return c.Position
}

// SetPosition sets the column's index within its board
func (c *Column) SetPosition(pos int) {
	c.Position = pos
}

// GetPosition returns the task's index within its column
func (t *Task) GetPosition() int {
	return t.Position
}

// SetPosition sets the task's index within its column
func (t *Task) SetPosition(pos int) {
	t.Position = pos
}
