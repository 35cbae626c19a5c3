package domain

import "github.com/google/uuid"

// Board is the task-tracking surface bound one-to-one to a workspace channel.
// The channel itself lives in the workspace service; only its id is stored here.
type Board struct {
	BaseModel
	ChannelID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_boards_channel_id" json:"channel_id"`
	Columns   []Column  `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"columns,omitempty"`
}

// TableName specifies the table name for Board
func (Board) TableName() string {
	return "boards"
}
