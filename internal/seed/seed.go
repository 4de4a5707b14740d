// Package seed fills the database with generated sample data for local
// development. Generation is deterministic for a given seed so repeated
// runs against a fresh database produce the same rows.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/pulseboard/pulseboard/internal/domain/member"
	"github.com/pulseboard/pulseboard/internal/domain/project"
	"github.com/pulseboard/pulseboard/internal/domain/ticket"
)

var (
	adjectives = []string{
		"agile", "bold", "calm", "deep", "eager", "fresh", "grand", "keen",
		"lucid", "noble", "prime", "quick", "rapid", "solid", "vivid", "warm",
	}
	nouns = []string{
		"atlas", "beacon", "canyon", "delta", "ember", "falcon", "garnet",
		"harbor", "island", "jungle", "kernel", "lagoon", "meadow", "nebula",
		"orbit", "prairie", "quarry", "ridge", "summit", "tundra",
	}
	firstNames = []string{
		"Ada", "Blake", "Carmen", "Dmitri", "Elena", "Felix", "Grace",
		"Hugo", "Iris", "Jonas", "Kira", "Lando", "Mira", "Nora", "Otto",
		"Priya", "Quinn", "Rosa", "Sven", "Tessa",
	}
	lastNames = []string{
		"Adler", "Berg", "Castro", "Dias", "Eriksen", "Fontaine", "Grieg",
		"Huang", "Ibarra", "Jansen", "Kovacs", "Lindh", "Moreau", "Nakamura",
		"Okafor", "Petrov", "Quint", "Reyes", "Sato", "Toledo",
	}
	roles = []string{
		"Engineer", "Designer", "Product Manager", "Analyst", "Support Lead",
		"QA Engineer", "Tech Writer",
	}
)

// Counts controls how many rows of each entity get created.
type Counts struct {
	Projects int
	Tickets  int
	Members  int
}

// DefaultCounts mirrors a realistically sized dev dataset.
var DefaultCounts = Counts{Projects: 120, Tickets: 120, Members: 120}

// Seeder writes generated entities through the repositories so every row
// passes the same insert path the application uses.
type Seeder struct {
	projects project.Repository
	tickets  ticket.Repository
	members  member.Repository
	logger   *slog.Logger
	rng      *rand.Rand
}

// New creates a seeder with a fixed random seed.
func New(projects project.Repository, tickets ticket.Repository, members member.Repository, logger *slog.Logger) *Seeder {
	return &Seeder{
		projects: projects,
		tickets:  tickets,
		members:  members,
		logger:   logger,
		rng:      rand.New(rand.NewSource(1)),
	}
}

// Run creates the sample dataset. Creation times are staggered one minute
// apart so cursor pagination over createdAt has distinct values.
func (s *Seeder) Run(ctx context.Context, counts Counts) error {
	base := time.Now().UTC().Add(-time.Duration(counts.Projects+counts.Tickets+counts.Members) * time.Minute)

	projectIDs := make([]int64, 0, counts.Projects)
	for i := 0; i < counts.Projects; i++ {
		title := s.phrase()
		proj := &project.Project{
			Fields: project.Fields{
				Slug:        s.slug(title),
				Title:       title,
				Description: optional(s.phrase() + " initiative"),
				Status:      project.Statuses[s.rng.Intn(len(project.Statuses))],
				Owner:       optional(s.fullName()),
			},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.projects.Create(ctx, proj); err != nil {
			return fmt.Errorf("seeding project %d: %w", i, err)
		}
		projectIDs = append(projectIDs, proj.ID)
	}

	memberNames := make([]string, 0, counts.Members)
	offset := counts.Projects
	for i := 0; i < counts.Members; i++ {
		name := s.fullName()
		m := &member.Member{
			Fields: member.Fields{
				Slug:   s.slug(name),
				Name:   name,
				Email:  s.email(name, i),
				Status: member.Statuses[s.rng.Intn(len(member.Statuses))],
				Bio:    optional("Works on " + s.phrase() + "."),
				Role:   optional(roles[s.rng.Intn(len(roles))]),
			},
			CreatedAt: base.Add(time.Duration(offset+i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(offset+i) * time.Minute),
		}
		if err := s.members.Create(ctx, m); err != nil {
			return fmt.Errorf("seeding member %d: %w", i, err)
		}
		memberNames = append(memberNames, name)
	}

	offset += counts.Members
	for i := 0; i < counts.Tickets; i++ {
		title := s.phrase()
		t := &ticket.Ticket{
			Fields: ticket.Fields{
				Slug:    s.slug(title),
				Title:   title,
				Summary: optional("Follow up on the " + s.phrase() + " work."),
				Status:  ticket.Statuses[s.rng.Intn(len(ticket.Statuses))],
			},
			CreatedAt: base.Add(time.Duration(offset+i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(offset+i) * time.Minute),
		}
		if len(projectIDs) > 0 && s.rng.Intn(4) > 0 {
			t.ProjectID = &projectIDs[s.rng.Intn(len(projectIDs))]
		}
		if len(memberNames) > 0 && s.rng.Intn(4) > 0 {
			t.Assignee = optional(memberNames[s.rng.Intn(len(memberNames))])
		}
		if err := s.tickets.Create(ctx, t); err != nil {
			return fmt.Errorf("seeding ticket %d: %w", i, err)
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded database",
			"projects", counts.Projects,
			"tickets", counts.Tickets,
			"members", counts.Members,
		)
	}
	return nil
}

func (s *Seeder) phrase() string {
	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	return strings.ToUpper(adj[:1]) + adj[1:] + " " + noun
}

// slug appends a random suffix so repeated titles never collide on the
// unique slug column.
func (s *Seeder) slug(title string) string {
	cleaned := strings.ToLower(title)
	cleaned = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, cleaned)
	cleaned = strings.Trim(cleaned, "-")
	return fmt.Sprintf("%s-%06d", cleaned, s.rng.Intn(1000000))
}

func (s *Seeder) fullName() string {
	return firstNames[s.rng.Intn(len(firstNames))] + " " + lastNames[s.rng.Intn(len(lastNames))]
}

func (s *Seeder) email(name string, n int) string {
	local := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	return fmt.Sprintf("%s.%d@example.com", local, n)
}

func optional(s string) *string {
	return &s
}
