package service

import (
	"github.com/retroloop-dev/retroloop/internal/domain"
)

// CarryOverStorage are the lookups the resolver needs.
type CarryOverStorage interface {
	FindLatestClosedBoardByTeam(teamLabel string, excludeId domain.BoardId) (*domain.Board, error)
	GetUnfinishedActionItems(boardId domain.BoardId) ([]domain.ActionItem, error)
}

// CarryOver surfaces unfinished action items from the most recently
// closed board sharing the team label. It is invoked at board creation
// and again on demand, because statuses change on the original items.
type CarryOver struct {
	storage CarryOverStorage
}

func NewCarryOver(storage CarryOverStorage) *CarryOver {
	return &CarryOver{storage}
}

// Resolve returns an empty list, without error, when the label is
// empty or no prior closed board carries it.
func (c *CarryOver) Resolve(teamLabel string, excludeId domain.BoardId) ([]domain.CarryOverItem, error) {
	if teamLabel == "" {
		return []domain.CarryOverItem{}, nil
	}

	source, err := c.storage.FindLatestClosedBoardByTeam(teamLabel, excludeId)
	if err != nil {
		return nil, err
	}
	if source == nil || source.ClosedAt == nil {
		return []domain.CarryOverItem{}, nil
	}

	unfinished, err := c.storage.GetUnfinishedActionItems(source.Id)
	if err != nil {
		return nil, err
	}

	items := make([]domain.CarryOverItem, 0, len(unfinished))
	for _, item := range unfinished {
		items = append(items, domain.CarryOverItem{
			ActionItem:       item,
			SourceBoardTitle: source.Title,
			SourceBoardSlug:  source.Slug,
			SourceClosedAt:   *source.ClosedAt,
		})
	}
	return items, nil
}

// Source exposes the resolved source board, used when a status change
// arrives for a carried-over item on a closed board.
func (c *CarryOver) Source(teamLabel string, excludeId domain.BoardId) (*domain.Board, error) {
	if teamLabel == "" {
		return nil, nil
	}
	return c.storage.FindLatestClosedBoardByTeam(teamLabel, excludeId)
}
