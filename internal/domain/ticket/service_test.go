package ticket_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/domain/ticket"
	"github.com/pulseboard/pulseboard/internal/repository"
	"github.com/pulseboard/pulseboard/internal/repository/mocks"
)

func validInput() ticket.Input {
	return ticket.Input{
		Slug:      "fix-login",
		Title:     "Fix login",
		Summary:   "Login breaks on submit",
		Status:    "todo",
		ProjectID: "3",
	}
}

func TestTicketService_CreateParsesProjectID(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("Create", ctx, mock.MatchedBy(func(tkt *ticket.Ticket) bool {
		return tkt.ProjectID != nil && *tkt.ProjectID == 3
	})).Return(nil)

	svc := ticket.NewService(repo, nil)
	result, _ := svc.Create(ctx, validInput())
	require.True(t, result.Success)
	repo.AssertExpectations(t)
}

func TestTicketService_CreateNullProject(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("Create", ctx, mock.MatchedBy(func(tkt *ticket.Ticket) bool {
		return tkt.ProjectID == nil
	})).Return(nil)

	svc := ticket.NewService(repo, nil)
	in := validInput()
	in.ProjectID = "null"
	result, _ := svc.Create(ctx, in)
	require.True(t, result.Success)
}

func TestTicketService_CreateInvalidProjectID(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	svc := ticket.NewService(repo, nil)

	in := validInput()
	in.ProjectID = "not-a-number"
	result, _ := svc.Create(ctx, in)
	require.False(t, result.Success)
	require.Contains(t, result.Errors, "projectId")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTicketService_CreateMissingProject(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrForeignKeyViolation)

	svc := ticket.NewService(repo, nil)
	result, tags := svc.Create(ctx, validInput())
	require.False(t, result.Success)
	require.Equal(t, "project does not exist", result.Errors["projectId"])
	require.Empty(t, tags)
}

func TestTicketService_UpdateTags(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("Update", ctx, int64(8), mock.Anything, mock.Anything).
		Return(&ticket.Ticket{ID: 8}, nil)

	svc := ticket.NewService(repo, nil)
	result, tags := svc.Update(ctx, 8, validInput())
	require.True(t, result.Success)
	require.Equal(t, []string{"tickets:list", "tickets:detail:8", "tickets:version:8"}, tags)
}

func TestTicketService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TicketRepository{}
	repo.On("Get", ctx, int64(8)).Return((*ticket.Ticket)(nil), repository.ErrNotFound)

	svc := ticket.NewService(repo, nil)
	_, err := svc.Get(ctx, 8)
	require.ErrorIs(t, err, ticket.ErrNotFound)
}
