// Package mocks provides testify mocks for the domain repository
// interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pulseboard/pulseboard/internal/domain/member"
	"github.com/pulseboard/pulseboard/internal/domain/project"
	"github.com/pulseboard/pulseboard/internal/domain/ticket"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id int64) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Project, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Options(ctx context.Context) ([]project.Option, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Option); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, id int64, fields project.Fields, now time.Time) (*project.Project, error) {
	args := m.Called(ctx, id, fields, now)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) SoftDelete(ctx context.Context, id int64, now time.Time) (*project.Project, error) {
	args := m.Called(ctx, id, now)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Restore(ctx context.Context, id, versionNumber int64, now time.Time) (*project.Project, error) {
	args := m.Called(ctx, id, versionNumber, now)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Versions(ctx context.Context, entityID int64) ([]project.Version, error) {
	args := m.Called(ctx, entityID)
	if list, ok := args.Get(0).([]project.Version); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Version(ctx context.Context, entityID, versionNumber int64) (*project.Version, error) {
	args := m.Called(ctx, entityID, versionNumber)
	if v, ok := args.Get(0).(*project.Version); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) VersionCount(ctx context.Context, entityID int64) (int64, error) {
	args := m.Called(ctx, entityID)
	return args.Get(0).(int64), args.Error(1)
}

// TicketRepository is a mock for ticket.Repository.
type TicketRepository struct {
	mock.Mock
}

func (m *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TicketRepository) Get(ctx context.Context, id int64) (*ticket.Ticket, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*ticket.Ticket); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) List(ctx context.Context, opts ticket.ListOptions) ([]ticket.Ticket, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]ticket.Ticket); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) Update(ctx context.Context, id int64, fields ticket.Fields, now time.Time) (*ticket.Ticket, error) {
	args := m.Called(ctx, id, fields, now)
	if t, ok := args.Get(0).(*ticket.Ticket); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) SoftDelete(ctx context.Context, id int64, now time.Time) (*ticket.Ticket, error) {
	args := m.Called(ctx, id, now)
	if t, ok := args.Get(0).(*ticket.Ticket); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) Restore(ctx context.Context, id, versionNumber int64, now time.Time) (*ticket.Ticket, error) {
	args := m.Called(ctx, id, versionNumber, now)
	if t, ok := args.Get(0).(*ticket.Ticket); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) Versions(ctx context.Context, entityID int64) ([]ticket.Version, error) {
	args := m.Called(ctx, entityID)
	if list, ok := args.Get(0).([]ticket.Version); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) Version(ctx context.Context, entityID, versionNumber int64) (*ticket.Version, error) {
	args := m.Called(ctx, entityID, versionNumber)
	if v, ok := args.Get(0).(*ticket.Version); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) VersionCount(ctx context.Context, entityID int64) (int64, error) {
	args := m.Called(ctx, entityID)
	return args.Get(0).(int64), args.Error(1)
}

// MemberRepository is a mock for member.Repository.
type MemberRepository struct {
	mock.Mock
}

func (m *MemberRepository) Create(ctx context.Context, mem *member.Member) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *MemberRepository) Get(ctx context.Context, id int64) (*member.Member, error) {
	args := m.Called(ctx, id)
	if mem, ok := args.Get(0).(*member.Member); ok {
		return mem, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) List(ctx context.Context, opts member.ListOptions) ([]member.Member, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]member.Member); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) Options(ctx context.Context) ([]member.Option, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]member.Option); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) Update(ctx context.Context, id int64, fields member.Fields, now time.Time) (*member.Member, error) {
	args := m.Called(ctx, id, fields, now)
	if mem, ok := args.Get(0).(*member.Member); ok {
		return mem, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) SoftDelete(ctx context.Context, id int64, now time.Time) (*member.Member, error) {
	args := m.Called(ctx, id, now)
	if mem, ok := args.Get(0).(*member.Member); ok {
		return mem, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) Restore(ctx context.Context, id, versionNumber int64, now time.Time) (*member.Member, error) {
	args := m.Called(ctx, id, versionNumber, now)
	if mem, ok := args.Get(0).(*member.Member); ok {
		return mem, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) Versions(ctx context.Context, entityID int64) ([]member.Version, error) {
	args := m.Called(ctx, entityID)
	if list, ok := args.Get(0).([]member.Version); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) Version(ctx context.Context, entityID, versionNumber int64) (*member.Version, error) {
	args := m.Called(ctx, entityID, versionNumber)
	if v, ok := args.Get(0).(*member.Version); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) VersionCount(ctx context.Context, entityID int64) (int64, error) {
	args := m.Called(ctx, entityID)
	return args.Get(0).(int64), args.Error(1)
}
