package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"task-board-api/internal/domain"
)

func TestBoardRepository_CreateAndFindByChannelID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBoardRepository(db)
	ctx := testContext()

	channelID := uuid.New()
	board := &domain.Board{ChannelID: channelID}
	require.NoError(t, repo.Create(ctx, board))
	assert.NotEqual(t, uuid.Nil, board.ID, "id should be generated before insert")

	found, err := repo.FindByChannelID(ctx, channelID)
	require.NoError(t, err)
	assert.Equal(t, board.ID, found.ID)
	assert.Equal(t, channelID, found.ChannelID)
}

func TestBoardRepository_FindByChannelID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBoardRepository(db)

	_, err := repo.FindByChannelID(testContext(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBoardRepository_SecondBoardForChannelRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBoardRepository(db)
	ctx := testContext()

	channelID := uuid.New()
	require.NoError(t, repo.Create(ctx, &domain.Board{ChannelID: channelID}))

	err := repo.Create(ctx, &domain.Board{ChannelID: channelID})
	require.Error(t, err)
	assert.True(t, IsDuplicateKeyError(err), "unique channel index should reject a second board, got: %v", err)
}

func TestBoardRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBoardRepository(db)
	ctx := testContext()

	board := seedBoard(t, db)

	found, err := repo.FindByID(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, board.ChannelID, found.ChannelID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
