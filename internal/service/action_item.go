package service

import (
	"time"

	"github.com/retroloop-dev/retroloop/internal/broadcast"
	"github.com/retroloop-dev/retroloop/internal/domain"
	"github.com/retroloop-dev/retroloop/internal/errors"
	"github.com/retroloop-dev/retroloop/internal/policy"
)

type ActionItemService interface {
	Create(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId *domain.CardId, assigneeId *domain.ParticipantId, content string, dueDate *time.Time) (*domain.ActionItem, error)
	Update(slug domain.BoardSlug, requesterId domain.ParticipantId, itemId domain.ActionItemId, update domain.ActionItemUpdate) (*domain.ActionItem, error)
	Delete(slug domain.BoardSlug, requesterId domain.ParticipantId, itemId domain.ActionItemId) error
	ChangeStatus(slug domain.BoardSlug, requesterId domain.ParticipantId, itemId domain.ActionItemId, status domain.ActionItemStatus) (*domain.ActionItem, error)
}

type ActionItemStorage interface {
	SessionStorage
	GetCard(id domain.CardId) (*domain.Card, error)
	CreateActionItem(data domain.ActionItemCreationData) (*domain.ActionItem, error)
	GetActionItem(id domain.ActionItemId) (*domain.ActionItem, error)
	UpdateActionItem(id domain.ActionItemId, update domain.ActionItemUpdate) (*domain.ActionItem, error)
	UpdateActionItemStatus(id domain.ActionItemId, status domain.ActionItemStatus) error
	DeleteActionItem(id domain.ActionItemId) error
}

type ActionItem struct {
	storage   ActionItemStorage
	carryOver *CarryOver
	gateway   broadcast.Gateway
}

func NewActionItem(storage ActionItemStorage, carryOver *CarryOver, gateway broadcast.Gateway) *ActionItem {
	return &ActionItem{storage, carryOver, gateway}
}

func (a *ActionItem) itemFor(board *domain.Board, itemId domain.ActionItemId) (*domain.ActionItem, error) {
	item, err := a.storage.GetActionItem(itemId)
	if err != nil {
		return nil, err
	}
	if item.BoardId != board.Id {
		return nil, errors.BadRequest("Action item does not belong to this board")
	}
	return item, nil
}

// assigneeFor resolves an optional assignee and rejects participants of
// other boards.
func (a *ActionItem) assigneeFor(board *domain.Board, assigneeId *domain.ParticipantId) error {
	if assigneeId == nil {
		return nil
	}
	assignee, err := a.storage.GetParticipant(*assigneeId)
	if err != nil {
		return err
	}
	if assignee.BoardId != board.Id {
		return errors.BadRequest("Assignee does not belong to this board")
	}
	return nil
}

func (a *ActionItem) Create(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId *domain.CardId, assigneeId *domain.ParticipantId, content string, dueDate *time.Time) (*domain.ActionItem, error) {
	board, participant, err := requester(a.storage, slug, requesterId)
	if err != nil {
		return nil, err
	}

	// the creator authors the item
	subject := policy.Subject{IsFacilitator: participant.IsFacilitator, IsAuthor: true}
	if err := policy.Check(board.Phase, policy.ManageActionItem, subject); err != nil {
		return nil, err
	}

	content, err = validateContent(content, "Action item")
	if err != nil {
		return nil, err
	}

	if cardId != nil {
		card, err := a.storage.GetCard(*cardId)
		if err != nil {
			return nil, err
		}
		if card.BoardId != board.Id {
			return nil, errors.BadRequest("Card does not belong to this board")
		}
	}
	if err := a.assigneeFor(board, assigneeId); err != nil {
		return nil, err
	}

	item, err := a.storage.CreateActionItem(domain.ActionItemCreationData{
		BoardId:    board.Id,
		CreatorId:  participant.Id,
		CardId:     cardId,
		AssigneeId: assigneeId,
		Content:    content,
		DueDate:    dueDate,
	})
	if err != nil {
		return nil, err
	}

	a.gateway.Publish(board.Slug, domain.ActionItemCreated{Item: *item})
	return item, nil
}

func (a *ActionItem) Update(slug domain.BoardSlug, requesterId domain.ParticipantId, itemId domain.ActionItemId, update domain.ActionItemUpdate) (*domain.ActionItem, error) {
	board, participant, err := requester(a.storage, slug, requesterId)
	if err != nil {
		return nil, err
	}
	item, err := a.itemFor(board, itemId)
	if err != nil {
		return nil, err
	}

	subject := policy.Subject{IsFacilitator: participant.IsFacilitator, IsAuthor: item.CreatorId == participant.Id}
	if err := policy.Check(board.Phase, policy.ManageActionItem, subject); err != nil {
		return nil, err
	}

	if update.Content != nil {
		content, err := validateContent(*update.Content, "Action item")
		if err != nil {
			return nil, err
		}
		update.Content = &content
	}
	if err := a.assigneeFor(board, update.AssigneeId); err != nil {
		return nil, err
	}

	updated, err := a.storage.UpdateActionItem(item.Id, update)
	if err != nil {
		return nil, err
	}

	a.gateway.Publish(board.Slug, domain.ActionItemUpdated{Item: *updated})
	return updated, nil
}

func (a *ActionItem) Delete(slug domain.BoardSlug, requesterId domain.ParticipantId, itemId domain.ActionItemId) error {
	board, participant, err := requester(a.storage, slug, requesterId)
	if err != nil {
		return err
	}
	item, err := a.itemFor(board, itemId)
	if err != nil {
		return err
	}

	subject := policy.Subject{IsFacilitator: participant.IsFacilitator, IsAuthor: item.CreatorId == participant.Id}
	if err := policy.Check(board.Phase, policy.ManageActionItem, subject); err != nil {
		return err
	}

	if err := a.storage.DeleteActionItem(item.Id); err != nil {
		return err
	}

	a.gateway.Publish(board.Slug, domain.ActionItemDeleted{ItemId: item.Id})
	return nil
}

// ChangeStatus updates an item on this board, or a carried-over item
// living on the closed source board. Carried-over items keep a single
// row; progress marked from the new board lands on the original.
func (a *ActionItem) ChangeStatus(slug domain.BoardSlug, requesterId domain.ParticipantId, itemId domain.ActionItemId, status domain.ActionItemStatus) (*domain.ActionItem, error) {
	board, participant, err := requester(a.storage, slug, requesterId)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, errors.BadRequest("Unknown status")
	}

	item, err := a.storage.GetActionItem(itemId)
	if err != nil {
		return nil, err
	}

	if item.BoardId == board.Id {
		isAssignee := item.AssigneeId != nil && *item.AssigneeId == participant.Id
		subject := policy.Subject{IsFacilitator: participant.IsFacilitator, IsAssignee: isAssignee}
		if err := policy.Check(board.Phase, policy.ChangeItemStatus, subject); err != nil {
			return nil, err
		}
	} else {
		source, err := a.carryOver.Source(board.TeamLabel, board.Id)
		if err != nil {
			return nil, err
		}
		if source == nil || item.BoardId != source.Id {
			return nil, errors.BadRequest("Action item does not belong to this board")
		}
		subject := policy.Subject{IsFacilitator: participant.IsFacilitator}
		if err := policy.Check(domain.PhaseClosed, policy.ChangeItemStatus, subject); err != nil {
			return nil, err
		}
	}

	if err := a.storage.UpdateActionItemStatus(item.Id, status); err != nil {
		return nil, err
	}
	item.Status = status

	a.gateway.Publish(board.Slug, domain.ActionItemStatusChanged{ItemId: item.Id, Status: status})
	return item, nil
}
