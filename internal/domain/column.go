package domain

import "github.com/google/uuid"

// Column is an ordered lane within a board holding tasks.
// Position is a zero-based dense index within the owning board.
type Column struct {
	BaseModel
	BoardID  uuid.UUID `gorm:"type:uuid;not null;index:idx_columns_board_id" json:"board_id"`
	Title    string    `gorm:"type:varchar(255);not null" json:"title"`
	Position int       `gorm:"not null" json:"position"`
	Tasks    []Task    `gorm:"foreignKey:ColumnID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
	Board    Board     `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"board,omitempty"`
}

// TableName specifies the table name for Column
func (Column) TableName() string {
	return "task_columns"
}
