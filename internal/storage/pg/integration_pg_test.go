package pg

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/retroloop-dev/retroloop/internal/config"
	"github.com/retroloop-dev/retroloop/internal/domain"
	internal_errors "github.com/retroloop-dev/retroloop/internal/errors"
)

var storage *Storage

func TestMain(m *testing.M) {
	ctx := context.Background()
	var container *postgres.PostgresContainer
	storage, container = mustSetup(ctx)
	defer teardown(ctx, storage, container)

	exitCode := m.Run()
	os.Exit(exitCode)
}

func mustSetup(ctx context.Context) (*Storage, *postgres.PostgresContainer) {
	dbName := "retroloop"
	dbUser := "user"
	dbPassword := "password"
	container, err := postgres.Run(ctx,
		"postgres:15.3-alpine",
		postgres.WithInitScripts(filepath.Join("migrations", "init.sql")),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			// First, we wait for the container to log readiness twice.
			// This is because it will restart itself after the first startup.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("failed to start container: %s", err)
	}
	containerPort, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		log.Fatalf("failed to obtain container port: %s", err)
	}
	port, err := strconv.Atoi(containerPort.Port())
	if err != nil {
		log.Fatalf("failed to obtain int container port: %s", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("failed to obtain container host: %s", err)
	}

	storage, err := New(&config.Config{Public: config.Public{Pg: config.Pg{Host: host, Port: port, User: dbUser, Password: dbPassword, Dbname: dbName}}})
	if err != nil {
		log.Fatalf("failed to connect to postgres container: %s", err)
	}
	return storage, container
}

func teardown(ctx context.Context, storage *Storage, container *postgres.PostgresContainer) {
	if err := storage.Cleanup(); err != nil {
		log.Printf("failed to close storage connection: %s", err)
	}
	if err := container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %s", err)
	}
}

var slugCounter atomic.Int64

// newBoard creates a fresh board so tests don't step on each other's
// rows. Each call gets a unique slug.
func newBoard(t *testing.T, data domain.BoardCreationData) *domain.Board {
	t.Helper()
	if data.Title == "" {
		data.Title = "Sprint 12"
	}
	if data.Framework == "" {
		data.Framework = "kpt"
	}
	if data.MaxVotesPerPerson == 0 {
		data.MaxVotesPerPerson = 5
	}
	columns, ok := domain.FrameworkColumns(data.Framework)
	require.True(t, ok)

	slug := domain.BoardSlug(fmt.Sprintf("board-%d", slugCounter.Add(1)))
	board, err := storage.CreateBoard(data, slug, columns)
	require.NoError(t, err)
	return board
}

func join(t *testing.T, boardId domain.BoardId, nickname domain.Nickname) *domain.Participant {
	t.Helper()
	participant, err := storage.AddParticipant(boardId, nickname)
	require.NoError(t, err)
	return participant
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var statusErr *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &statusErr)
	return statusErr.StatusCode
}

func TestCreateAndGetBoard(t *testing.T) {
	created := newBoard(t, domain.BoardCreationData{TeamLabel: "payments", IsPrivateWriting: true})

	board, err := storage.GetBoard(created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.Id, board.Id)
	assert.Equal(t, "Sprint 12", board.Title)
	assert.Equal(t, "payments", board.TeamLabel)
	assert.Equal(t, domain.PhaseWriting, board.Phase)
	assert.True(t, board.IsPrivateWriting)
	assert.Nil(t, board.ClosedAt)

	columns, err := storage.GetColumns(board.Id)
	require.NoError(t, err)
	require.Len(t, columns, 3)
	assert.Equal(t, "Keep", columns[0].Name)
	assert.Equal(t, "Problem", columns[1].Name)
	assert.Equal(t, "Try", columns[2].Name)
	for i, column := range columns {
		assert.Equal(t, i, column.SortOrder)
		assert.Equal(t, board.Id, column.BoardId)
	}

	column, err := storage.GetColumn(columns[1].Id)
	require.NoError(t, err)
	assert.Equal(t, "Problem", column.Name)
}

func TestGetBoardNotFound(t *testing.T) {
	_, err := storage.GetBoard("no-such-board")
	assert.Equal(t, 404, statusOf(t, err))
}

func TestIcebreakerInitialPhase(t *testing.T) {
	board := newBoard(t, domain.BoardCreationData{EnableIcebreaker: true})
	assert.Equal(t, domain.PhaseIcebreak, board.Phase)
}

func TestUpdateBoardPhase(t *testing.T) {
	board := newBoard(t, domain.BoardCreationData{})

	closed, err := storage.UpdateBoardPhase(board.Id, domain.PhaseVoting)
	require.NoError(t, err)
	assert.Nil(t, closed)

	got, err := storage.GetBoard(board.Slug)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseVoting, got.Phase)
	assert.True(t, got.UpdatedAt.After(board.UpdatedAt) || got.UpdatedAt.Equal(board.UpdatedAt))

	t.Run("unknown board", func(t *testing.T) {
		_, err := storage.UpdateBoardPhase(999999, domain.PhaseVoting)
		assert.Equal(t, 404, statusOf(t, err))
	})
}

func TestCloseBoardWritesSnapshot(t *testing.T) {
	board := newBoard(t, domain.BoardCreationData{TeamLabel: "infra"})
	alice := join(t, board.Id, "alice")
	columns, err := storage.GetColumns(board.Id)
	require.NoError(t, err)
	card, err := storage.CreateCard(board.Id, columns[0].Id, alice.Id, "rotate the pager")
	require.NoError(t, err)
	_, err = storage.AddVote(board.Id, card.Id, alice.Id, 5)
	require.NoError(t, err)

	closed, err := storage.UpdateBoardPhase(board.Id, domain.PhaseClosed)
	require.NoError(t, err)
	require.NotNil(t, closed)

	got, err := storage.GetBoard(board.Slug)
	require.NoError(t, err)
	require.NotNil(t, got.ClosedAt)
	assert.WithinDuration(t, *closed, *got.ClosedAt, time.Second)

	var participantCount, cardCount, voteCount int
	err = storage.db.QueryRow(`
	SELECT payload->>'participantCount', payload->>'cardCount', payload->>'voteCount'
	FROM board_snapshots WHERE board_id = $1`, board.Id).Scan(&participantCount, &cardCount, &voteCount)
	require.NoError(t, err)
	assert.Equal(t, 1, participantCount)
	assert.Equal(t, 1, cardCount)
	assert.Equal(t, 1, voteCount)
}

func TestFindLatestClosedBoardByTeam(t *testing.T) {
	label := "team-carryover"
	older := newBoard(t, domain.BoardCreationData{TeamLabel: label})
	newer := newBoard(t, domain.BoardCreationData{TeamLabel: label})
	current := newBoard(t, domain.BoardCreationData{TeamLabel: label})

	_, err := storage.UpdateBoardPhase(older.Id, domain.PhaseClosed)
	require.NoError(t, err)
	_, err = storage.UpdateBoardPhase(newer.Id, domain.PhaseClosed)
	require.NoError(t, err)

	found, err := storage.FindLatestClosedBoardByTeam(label, current.Id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, newer.Id, found.Id)

	t.Run("the excluded board is skipped", func(t *testing.T) {
		found, err := storage.FindLatestClosedBoardByTeam(label, newer.Id)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, older.Id, found.Id)
	})

	t.Run("no closed board means nil without error", func(t *testing.T) {
		found, err := storage.FindLatestClosedBoardByTeam("never-used-label", current.Id)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestFirstJoinerBecomesFacilitator(t *testing.T) {
	board := newBoard(t, domain.BoardCreationData{})

	alice := join(t, board.Id, "alice")
	assert.True(t, alice.IsFacilitator)
	assert.True(t, alice.IsOnline)

	bob := join(t, board.Id, "bob")
	assert.False(t, bob.IsFacilitator)

	participants, err := storage.ListParticipants(board.Id)
	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, domain.Nickname("alice"), participants[0].Nickname)
	assert.Equal(t, domain.Nickname("bob"), participants[1].Nickname)

	t.Run("unknown board", func(t *testing.T) {
		_, err := storage.AddParticipant(999999, "ghost")
		assert.Equal(t, 404, statusOf(t, err))
	})
}

func TestSetParticipantOnline(t *testing.T) {
	board := newBoard(t, domain.BoardCreationData{})
	alice := join(t, board.Id, "alice")

	require.NoError(t, storage.SetParticipantOnline(alice.Id, false))

	got, err := storage.GetParticipant(alice.Id)
	require.NoError(t, err)
	assert.False(t, got.IsOnline)

	err = storage.SetParticipantOnline(999999, true)
	assert.Equal(t, 404, statusOf(t, err))
}

func TestCardOrdering(t *testing.T) {
	board := newBoard(t, domain.BoardCreationData{})
	alice := join(t, board.Id, "alice")
	columns, err := storage.GetColumns(board.Id)
	require.NoError(t, err)
	keep, problem := columns[0].Id, columns[1].Id

	first, err := storage.CreateCard(board.Id, keep, alice.Id, "first")
	require.NoError(t, err)
	second, err := storage.CreateCard(board.Id, keep, alice.Id, "second")
	require.NoError(t, err)
	third, err := storage.CreateCard(board.Id, keep, alice.Id, "third")
	require.NoError(t, err)

	assert.Equal(t, 0, first.SortOrder)
	assert.Equal(t, 1, second.SortOrder)
	assert.Equal(t, 2, third.SortOrder)
	assert.Equal(t, domain.Nickname("alice"), first.AuthorNickname)

	t.Run("move within the column", func(t *testing.T) {
		require.NoError(t, storage.MoveCard(third.Id, keep, 0))
		assert.Equal(t, []domain.CardId{third.Id, first.Id, second.Id}, columnOrder(t, keep))
	})

	t.Run("move across columns recompacts the source", func(t *testing.T) {
		require.NoError(t, storage.MoveCard(first.Id, problem, 0))
		assert.Equal(t, []domain.CardId{first.Id}, columnOrder(t, problem))
		assert.Equal(t, []domain.CardId{third.Id, second.Id}, columnOrder(t, keep))
	})

	t.Run("index out of range", func(t *testing.T) {
		err := storage.MoveCard(second.Id, keep, 5)
		assert.Equal(t, 400, statusOf(t, err))
	})

	t.Run("delete closes the gap", func(t *testing.T) {
		require.NoError(t, storage.DeleteCard(third.Id))
		assert.Equal(t, []domain.CardId{second.Id}, columnOrder(t, keep))
		got, err := storage.GetCard(second.Id)
		require.NoError(t, err)
		assert.Equal(t, 0, got.SortOrder)
	})

	t.Run("delete unknown card", func(t *testing.T) {
		err := storage.DeleteCard(999999)
		assert.Equal(t, 404, statusOf(t, err))
	})
}

// columnOrder returns the card ids of one column by sort_order. Dense
// 0..n-1 ordering is asserted on the way.
func columnOrder(t *testing.T, columnId domain.ColumnId) []domain.CardId {
	t.Helper()
	rows, err := storage.db.Query(`
	SELECT id, sort_order FROM cards WHERE column_id = $1 ORDER BY sort_order`, columnId)
	require.NoError(t, err)
	defer rows.Close()

	var ids []domain.CardId
	for rows.Next() {
		var id domain.CardId
		var order int
		require.NoError(t, rows.Scan(&id, &order))
		require.Equal(t, len(ids), order)
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	return ids
}

func TestUpdateCardContent(t *testing.T) {
	board := newBoard(t, domain.BoardCreationData{})
	alice := join(t, board.Id, "alice")
	columns, err := storage.GetColumns(board.Id)
	require.NoError(t, err)
	card, err := storage.CreateCard(board.Id, columns[0].Id, alice.Id, "draft")
	require.NoError(t, err)

	require.NoError(t, storage.UpdateCardContent(card.Id, "final"))

	got, err := storage.GetCard(card.Id)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Content)

	err = storage.UpdateCardContent(999999, "x")
	assert.Equal(t, 404, statusOf(t, err))
}

func TestMarkCardDiscussed(t *testing.T) {
	board := newBoard(t, domain.BoardCreationData{})
	alice := join(t, board.Id, "alice")
	columns, err := storage.GetColumns(board.Id)
	require.NoError(t, err)
	first, err := storage.CreateCard(board.Id, columns[0].Id, alice.Id, "first")
	require.NoError(t, err)
	second, err := storage.CreateCard(board.Id, columns[1].Id, alice.Id, "second")
	require.NoError(t, err)

	order, err := storage.MarkCardDiscussed(second.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, order)

	order, err = storage.MarkCardDiscussed(first.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, order)

	t.Run("marking again keeps the original order", func(t *testing.T) {
		order, err := storage.MarkCardDiscussed(second.Id)
		require.NoError(t, err)
		assert.Equal(t, 0, order)
	})
}

func TestVoteQuota(t *testing.T) {
	board := newBoard(t, domain.BoardCreationData{})
	alice := join(t, board.Id, "alice")
	bob := join(t, board.Id, "bob")
	columns, err := storage.GetColumns(board.Id)
	require.NoError(t, err)
	first, err := storage.CreateCard(board.Id, columns[0].Id, alice.Id, "first")
	require.NoError(t, err)
	second, err := storage.CreateCard(board.Id, columns[0].Id, alice.Id, "second")
	require.NoError(t, err)

	tally, err := storage.AddVote(board.Id, first.Id, alice.Id, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, tally)

	tally, err = storage.AddVote(board.Id, first.Id, bob.Id, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, tally)

	t.Run("duplicate vote conflicts", func(t *testing.T) {
		_, err := storage.AddVote(board.Id, first.Id, alice.Id, 2)
		assert.Equal(t, 409, statusOf(t, err))
	})

	t.Run("quota is enforced across the board", func(t *testing.T) {
		_, err := storage.AddVote(board.Id, second.Id, alice.Id, 2)
		require.NoError(t, err)

		third, err := storage.CreateCard(board.Id, columns[0].Id, alice.Id, "third")
		require.NoError(t, err)
		_, err = storage.AddVote(board.Id, third.Id, alice.Id, 2)
		assert.Equal(t, 400, statusOf(t, err))

		used, err := storage.CountVotesByParticipant(board.Id, alice.Id)
		require.NoError(t, err)
		assert.Equal(t, 2, used)
	})

	t.Run("removing a vote frees the quota", func(t *testing.T) {
		tally, err := storage.RemoveVote(second.Id, alice.Id)
		require.NoError(t, err)
		assert.Equal(t, 0, tally)

		used, err := storage.CountVotesByParticipant(board.Id, alice.Id)
		require.NoError(t, err)
		assert.Equal(t, 1, used)
	})

	t.Run("removing a missing vote", func(t *testing.T) {
		_, err := storage.RemoveVote(second.Id, alice.Id)
		assert.Equal(t, 404, statusOf(t, err))
	})
}

func TestMemoLifecycle(t *testing.T) {
	board := newBoard(t, domain.BoardCreationData{})
	alice := join(t, board.Id, "alice")
	columns, err := storage.GetColumns(board.Id)
	require.NoError(t, err)
	card, err := storage.CreateCard(board.Id, columns[0].Id, alice.Id, "card")
	require.NoError(t, err)

	memo, err := storage.CreateMemo(card.Id, alice.Id, "follow up next sprint")
	require.NoError(t, err)
	assert.Equal(t, card.Id, memo.CardId)

	updated, err := storage.UpdateMemo(memo.Id, "follow up this sprint")
	require.NoError(t, err)
	assert.Equal(t, "follow up this sprint", updated.Content)

	got, err := storage.GetMemo(memo.Id)
	require.NoError(t, err)
	assert.Equal(t, "follow up this sprint", got.Content)

	require.NoError(t, storage.DeleteMemo(memo.Id))
	_, err = storage.GetMemo(memo.Id)
	assert.Equal(t, 404, statusOf(t, err))
}

func TestReactions(t *testing.T) {
	board := newBoard(t, domain.BoardCreationData{})
	alice := join(t, board.Id, "alice")
	columns, err := storage.GetColumns(board.Id)
	require.NoError(t, err)
	card, err := storage.CreateCard(board.Id, columns[0].Id, alice.Id, "card")
	require.NoError(t, err)

	reaction, err := storage.AddReaction(card.Id, alice.Id, "👍")
	require.NoError(t, err)
	assert.Equal(t, domain.Emoji("👍"), reaction.Emoji)

	t.Run("same emoji twice conflicts", func(t *testing.T) {
		_, err := storage.AddReaction(card.Id, alice.Id, "👍")
		assert.Equal(t, 409, statusOf(t, err))
	})

	t.Run("a different emoji is fine", func(t *testing.T) {
		_, err := storage.AddReaction(card.Id, alice.Id, "🎉")
		assert.NoError(t, err)
	})

	require.NoError(t, storage.RemoveReaction(card.Id, alice.Id, "👍"))
	err = storage.RemoveReaction(card.Id, alice.Id, "👍")
	assert.Equal(t, 404, statusOf(t, err))
}

func TestActionItems(t *testing.T) {
	board := newBoard(t, domain.BoardCreationData{})
	alice := join(t, board.Id, "alice")
	bob := join(t, board.Id, "bob")
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	first, err := storage.CreateActionItem(domain.ActionItemCreationData{
		BoardId: board.Id, CreatorId: alice.Id, AssigneeId: &bob.Id, Content: "rotate the pager", DueDate: &due,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, first.SortOrder)
	assert.Equal(t, domain.ActionItemOpen, first.Status)
	assert.Equal(t, domain.Nickname("bob"), first.AssigneeNickname)

	second, err := storage.CreateActionItem(domain.ActionItemCreationData{
		BoardId: board.Id, CreatorId: alice.Id, Content: "write the runbook",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, second.SortOrder)
	assert.Nil(t, second.AssigneeId)

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		content := "rotate the pager weekly"
		updated, err := storage.UpdateActionItem(first.Id, domain.ActionItemUpdate{Content: &content})
		require.NoError(t, err)
		assert.Equal(t, content, updated.Content)
		require.NotNil(t, updated.AssigneeId)
		assert.Equal(t, bob.Id, *updated.AssigneeId)
		require.NotNil(t, updated.DueDate)
		assert.WithinDuration(t, due, *updated.DueDate, time.Second)
	})

	t.Run("status change", func(t *testing.T) {
		require.NoError(t, storage.UpdateActionItemStatus(first.Id, domain.ActionItemDone))
		got, err := storage.GetActionItem(first.Id)
		require.NoError(t, err)
		assert.Equal(t, domain.ActionItemDone, got.Status)
	})

	t.Run("unfinished excludes done items", func(t *testing.T) {
		_, err := storage.CreateActionItem(domain.ActionItemCreationData{
			BoardId: board.Id, CreatorId: alice.Id, Content: "in progress one",
		})
		require.NoError(t, err)

		unfinished, err := storage.GetUnfinishedActionItems(board.Id)
		require.NoError(t, err)
		for _, item := range unfinished {
			assert.NotEqual(t, domain.ActionItemDone, item.Status)
			assert.NotEqual(t, first.Id, item.Id)
		}
		assert.Len(t, unfinished, 2)
	})

	t.Run("delete closes the sort gap", func(t *testing.T) {
		require.NoError(t, storage.DeleteActionItem(first.Id))
		items, err := storage.ListActionItems(board.Id)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, 0, items[0].SortOrder)
		assert.Equal(t, 1, items[1].SortOrder)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := storage.GetActionItem(999999)
		assert.Equal(t, 404, statusOf(t, err))
		err = storage.UpdateActionItemStatus(999999, domain.ActionItemDone)
		assert.Equal(t, 404, statusOf(t, err))
	})
}

func TestGetCardsHydration(t *testing.T) {
	board := newBoard(t, domain.BoardCreationData{})
	alice := join(t, board.Id, "alice")
	bob := join(t, board.Id, "bob")
	columns, err := storage.GetColumns(board.Id)
	require.NoError(t, err)

	card, err := storage.CreateCard(board.Id, columns[0].Id, alice.Id, "pairing on tricky bugs")
	require.NoError(t, err)
	bare, err := storage.CreateCard(board.Id, columns[1].Id, bob.Id, "flaky deploys")
	require.NoError(t, err)

	_, err = storage.AddVote(board.Id, card.Id, alice.Id, 5)
	require.NoError(t, err)
	_, err = storage.AddVote(board.Id, card.Id, bob.Id, 5)
	require.NoError(t, err)
	_, err = storage.CreateMemo(card.Id, bob.Id, "keep doing this")
	require.NoError(t, err)
	_, err = storage.AddReaction(card.Id, bob.Id, "👍")
	require.NoError(t, err)

	cards, err := storage.GetCards(board.Id)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	byId := make(map[domain.CardId]domain.Card)
	for _, c := range cards {
		byId[c.Id] = c
	}

	hydrated := byId[card.Id]
	assert.Equal(t, domain.Nickname("alice"), hydrated.AuthorNickname)
	assert.Equal(t, 2, hydrated.Votes)
	require.Len(t, hydrated.Memos, 1)
	assert.Equal(t, "keep doing this", hydrated.Memos[0].Content)
	require.Len(t, hydrated.Reactions, 1)
	assert.Equal(t, domain.Emoji("👍"), hydrated.Reactions[0].Emoji)

	empty := byId[bare.Id]
	assert.Equal(t, 0, empty.Votes)
	assert.Empty(t, empty.Memos)
	assert.Empty(t, empty.Reactions)
}
