package repo

import (
	"context"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/pgdb"
	"gig-marketplace-api/pkg/postgres"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping() error
}

type User interface {
	CreateUser(ctx context.Context, input *entity.CreateUserInput) (uuid.UUID, error)
	GetUserById(ctx context.Context, id string) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
}

type Gig interface {
	CreateGig(ctx context.Context, input *entity.CreateGigInput) (uuid.UUID, error)
	GetGigById(ctx context.Context, id string) (*entity.Gig, error)
	GetOpenGigs(ctx context.Context, titleQuery string, pg *entity.PaginationInput) ([]entity.Gig, error)
	GetGigsByOwnerId(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.Gig, error)
	DeleteGig(ctx context.Context, id string) error
}

type Bid interface {
	CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error)
	GetBidById(ctx context.Context, id string) (*entity.Bid, error)
	GetBidsByGigId(ctx context.Context, gigId string, pg *entity.PaginationInput) ([]entity.Bid, error)
	GetBidsByFreelancerId(ctx context.Context, freelancerId string, pg *entity.PaginationInput) ([]entity.Bid, error)

	// HireBid flips the gig open -> assigned, marks bidId hired and every
	// other bid on the gig rejected, all in one transaction. The gig update
	// is conditional on status = open, so out of any number of concurrent
	// callers exactly one commits; the rest get ErrGigNotOpen.
	HireBid(ctx context.Context, gigId uuid.UUID, bidId uuid.UUID) error
}

type Repositories struct {
	Diagnostics
	User
	Gig
	Bid
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics: pgdb.NewDiagnosticsRepo(p),
		User:        pgdb.NewUserRepo(p),
		Gig:         pgdb.NewGigRepo(p),
		Bid:         pgdb.NewBidRepo(p),
	}
}
