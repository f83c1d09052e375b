package service

import (
	"github.com/retroloop-dev/retroloop/internal/domain"
	"github.com/retroloop-dev/retroloop/internal/errors"
	"github.com/retroloop-dev/retroloop/internal/export"
)

type ExportService interface {
	Export(slug domain.BoardSlug, requesterId domain.ParticipantId, format export.Format) ([]byte, error)
}

// Export renders a board through the full visibility pipeline, so an
// export can never leak more than the facilitator's own board view.
type Export struct {
	storage SessionStorage
	boards  BoardService
}

func NewExport(storage SessionStorage, boards BoardService) *Export {
	return &Export{storage, boards}
}

func (e *Export) Export(slug domain.BoardSlug, requesterId domain.ParticipantId, format export.Format) ([]byte, error) {
	_, participant, err := requester(e.storage, slug, requesterId)
	if err != nil {
		return nil, err
	}
	if !participant.IsFacilitator {
		return nil, errors.Forbidden("Only the facilitator can export the board")
	}

	view, err := e.boards.Get(slug, &participant.Id)
	if err != nil {
		return nil, err
	}
	return export.Render(view, format)
}
