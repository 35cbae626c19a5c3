package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateColumnRequest represents the request to create a column on a board
type CreateColumnRequest struct {
	Title string `json:"title" binding:"required" example:"In Progress"`
}

// ColumnResponse represents a column with its position inside the board
type ColumnResponse struct {
	ID        uuid.UUID `json:"columnId"`
	BoardID   uuid.UUID `json:"boardId"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BoardResponse represents a board with its ordered columns
type BoardResponse struct {
	ID        uuid.UUID        `json:"boardId"`
	ChannelID uuid.UUID        `json:"channelId"`
	Columns   []ColumnResponse `json:"columns"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
