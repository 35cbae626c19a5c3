package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-board-api/internal/domain"
	"task-board-api/internal/dto"
	"task-board-api/internal/metrics"
	"task-board-api/internal/ordering"
	"task-board-api/internal/repository"
	"task-board-api/internal/response"
)

const (
	boardCacheKeyPrefix = "board:channel:"
	boardCacheTTL       = time.Hour

	// Attempts at find-or-create before surfacing a conflict. A duplicate
	// key error means a concurrent creator committed first, so the very
	// next fetch normally succeeds.
	boardCreateAttempts = 3
)

// BoardService defines the interface for board and column business logic
type BoardService interface {
	GetOrCreateBoard(ctx context.Context, channelID uuid.UUID) (*dto.BoardResponse, error)
	CreateColumn(ctx context.Context, channelID uuid.UUID, req *dto.CreateColumnRequest) (*dto.ColumnResponse, error)
	GetColumns(ctx context.Context, channelID uuid.UUID) ([]*dto.ColumnResponse, error)
	DeleteColumn(ctx context.Context, columnID uuid.UUID) error
}

// boardServiceImpl is the implementation of BoardService
type boardServiceImpl struct {
	boardRepo  repository.BoardRepository
	columnRepo repository.ColumnRepository
	cache      *redis.Client
	boardLocks *keyedLocks
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewBoardService creates a new instance of BoardService. cache may be nil,
// in which case every lookup goes to the database.
func NewBoardService(
	boardRepo repository.BoardRepository,
	columnRepo repository.ColumnRepository,
	cache *redis.Client,
	m *metrics.Metrics,
	logger *zap.Logger,
) BoardService {
	return &boardServiceImpl{
		boardRepo:  boardRepo,
		columnRepo: columnRepo,
		cache:      cache,
		boardLocks: newKeyedLocks(),
		metrics:    m,
		logger:     logger,
	}
}

// GetOrCreateBoard returns the board bound to a channel, creating it on first
// access. A new board starts with no columns.
func (s *boardServiceImpl) GetOrCreateBoard(ctx context.Context, channelID uuid.UUID) (*dto.BoardResponse, error) {
	board, err := s.findOrCreateBoard(ctx, channelID)
	if err != nil {
		return nil, err
	}

	columns, err := s.columnRepo.FindByBoardID(ctx, board.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load board columns", err.Error())
	}

	return toBoardResponse(board, columns), nil
}

// CreateColumn appends a new column to the channel's board. The new column
// takes the position equal to the current column count.
func (s *boardServiceImpl) CreateColumn(ctx context.Context, channelID uuid.UUID, req *dto.CreateColumnRequest) (*dto.ColumnResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, response.NewAppError(response.ErrCodeValidation, "Column title must not be blank", "")
	}

	board, err := s.lookupBoard(ctx, channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found for channel", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find board", err.Error())
	}

	// Serialize appends per board so concurrent creations cannot claim the
	// same position.
	s.boardLocks.Lock(board.ID)
	defer s.boardLocks.Unlock(board.ID)

	columns, err := s.columnRepo.FindByBoardID(ctx, board.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load board columns", err.Error())
	}

	column := &domain.Column{
		BoardID:  board.ID,
		Title:    req.Title,
		Position: ordering.NextPosition(columns),
	}
	if err := s.columnRepo.Create(ctx, column); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create column", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementColumnCreated()
	}
	s.logger.Info("Column created",
		zap.String("board_id", board.ID.String()),
		zap.String("column_id", column.ID.String()),
		zap.Int("position", column.Position),
	)

	return toColumnResponse(column), nil
}

// GetColumns returns the columns of the channel's board in ascending position
func (s *boardServiceImpl) GetColumns(ctx context.Context, channelID uuid.UUID) ([]*dto.ColumnResponse, error) {
	board, err := s.lookupBoard(ctx, channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found for channel", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find board", err.Error())
	}

	columns, err := s.columnRepo.FindByBoardID(ctx, board.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load board columns", err.Error())
	}

	out := make([]*dto.ColumnResponse, 0, len(columns))
	for _, column := range columns {
		out = append(out, toColumnResponse(column))
	}
	return out, nil
}

// DeleteColumn deletes a column together with its tasks and their
// assignments. Surviving sibling columns keep their positions.
func (s *boardServiceImpl) DeleteColumn(ctx context.Context, columnID uuid.UUID) error {
	column, err := s.columnRepo.FindByID(ctx, columnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Column not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to find column", err.Error())
	}

	s.boardLocks.Lock(column.BoardID)
	defer s.boardLocks.Unlock(column.BoardID)

	if err := s.columnRepo.DeleteCascade(ctx, columnID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete column", err.Error())
	}

	s.logger.Info("Column deleted",
		zap.String("board_id", column.BoardID.String()),
		zap.String("column_id", columnID.String()),
	)
	return nil
}

// findOrCreateBoard resolves the board for a channel, creating it when
// absent. The unique index on channel_id decides races between concurrent
// creators; the loser re-fetches the winner's row.
func (s *boardServiceImpl) findOrCreateBoard(ctx context.Context, channelID uuid.UUID) (*domain.Board, error) {
	for attempt := 0; attempt < boardCreateAttempts; attempt++ {
		board, err := s.lookupBoard(ctx, channelID)
		if err == nil {
			return board, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find board", err.Error())
		}

		board = &domain.Board{ChannelID: channelID}
		err = s.boardRepo.Create(ctx, board)
		if err == nil {
			if s.metrics != nil {
				s.metrics.IncrementBoardCreated()
			}
			s.logger.Info("Board created",
				zap.String("board_id", board.ID.String()),
				zap.String("channel_id", channelID.String()),
			)
			s.cacheBoardID(ctx, channelID, board.ID)
			return board, nil
		}
		if !repository.IsDuplicateKeyError(err) {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create board", err.Error())
		}
		// Lost the creation race; the next lookup picks up the winner.
	}
	return nil, response.NewAppError(response.ErrCodeConflict, "Board creation kept conflicting for channel", channelID.String())
}

// lookupBoard finds a board by channel id, consulting the cache first.
// Returns gorm.ErrRecordNotFound when no board is bound to the channel.
func (s *boardServiceImpl) lookupBoard(ctx context.Context, channelID uuid.UUID) (*domain.Board, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, boardCacheKeyPrefix+channelID.String()).Result()
		if err == nil {
			if boardID, parseErr := uuid.Parse(cached); parseErr == nil {
				board, findErr := s.boardRepo.FindByID(ctx, boardID)
				if findErr == nil {
					return board, nil
				}
				// Stale cache entry; fall through to the channel lookup.
			}
		} else if err != redis.Nil {
			s.logger.Warn("Board cache lookup failed", zap.Error(err))
		}
	}

	board, err := s.boardRepo.FindByChannelID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	s.cacheBoardID(ctx, channelID, board.ID)
	return board, nil
}

// cacheBoardID stores the channel to board binding. The binding is immutable
// once created, so no invalidation path is needed.
func (s *boardServiceImpl) cacheBoardID(ctx context.Context, channelID, boardID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, boardCacheKeyPrefix+channelID.String(), boardID.String(), boardCacheTTL).Err(); err != nil {
		s.logger.Warn("Failed to cache board binding", zap.Error(err))
	}
}

// toBoardResponse converts a board and its ordered columns to a response DTO
func toBoardResponse(board *domain.Board, columns []*domain.Column) *dto.BoardResponse {
	columnResponses := make([]dto.ColumnResponse, 0, len(columns))
	for _, column := range columns {
		columnResponses = append(columnResponses, *toColumnResponse(column))
	}
	return &dto.BoardResponse{
		ID:        board.ID,
		ChannelID: board.ChannelID,
		Columns:   columnResponses,
		CreatedAt: board.CreatedAt,
		UpdatedAt: board.UpdatedAt,
	}
}

// toColumnResponse converts a column domain model to a response DTO
func toColumnResponse(column *domain.Column) *dto.ColumnResponse {
	return &dto.ColumnResponse{
		ID:        column.ID,
		BoardID:   column.BoardID,
		Title:     column.Title,
		Position:  column.Position,
		CreatedAt: column.CreatedAt,
		UpdatedAt: column.UpdatedAt,
	}
}
