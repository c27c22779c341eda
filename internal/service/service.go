package service

import (
	"context"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo"
)

type Diagnostics interface {
	Ping() error
}

type Auth interface {
	Register(ctx context.Context, name, email, password string) (string, *entity.UserOutputModel, error)
	Login(ctx context.Context, email, password string) (string, *entity.UserOutputModel, error)
	GetUserById(ctx context.Context, userId string) (*entity.UserOutputModel, error)
}

type Gig interface {
	CreateGig(ctx context.Context, input *entity.CreateGigInput) (*entity.GigOutputModel, error)
	GetGigById(ctx context.Context, gigId string) (*entity.GigOutputModel, error)
	GetOpenGigs(ctx context.Context, titleQuery string, pg *entity.PaginationInput) ([]entity.GigOutputModel, error)
	GetUserGigs(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.GigOutputModel, error)
	DeleteGig(ctx context.Context, gigId, callerId string) error
}

type Bid interface {
	PlaceBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error)
	GetUserBids(ctx context.Context, freelancerId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)
	GetGigBids(ctx context.Context, gigId, callerId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)

	// HireBid runs the hire transition on behalf of callerId and, on
	// commit, notifies the hired freelancer.
	HireBid(ctx context.Context, bidId, callerId string) (*entity.BidOutputModel, error)
}

// Notifier is the push channel for hired freelancers. Delivery is
// best-effort: implementations must not block and their failures are
// invisible to callers.
type Notifier interface {
	Notify(userID string, message string)
}

type Services struct {
	Diagnostics Diagnostics
	Auth        Auth
	Gig         Gig
	Bid         Bid
}

func NewServices(repos *repo.Repositories, notifier Notifier, jwtSecret []byte) *Services {
	return &Services{
		Diagnostics: NewDiagnosticsService(repos),
		Auth:        NewAuthService(repos, jwtSecret),
		Gig:         NewGigService(repos),
		Bid:         NewBidService(repos, notifier),
	}
}
