package service

import (
	"context"
	"errors"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/repo_errors"
)

type GigService struct {
	gigRepo repo.Gig
}

func NewGigService(repos *repo.Repositories) *GigService {
	return &GigService{
		gigRepo: repos.Gig,
	}
}

func (s *GigService) CreateGig(ctx context.Context, input *entity.CreateGigInput) (*entity.GigOutputModel, error) {
	id, err := s.gigRepo.CreateGig(ctx, input)
	if err != nil {
		return nil, err
	}

	gig, err := s.gigRepo.GetGigById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapGig(gig), nil
}

func (s *GigService) GetGigById(ctx context.Context, gigId string) (*entity.GigOutputModel, error) {
	gig, err := s.gigRepo.GetGigById(ctx, gigId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	return mapGig(gig), nil
}

func (s *GigService) GetOpenGigs(ctx context.Context, titleQuery string, pg *entity.PaginationInput) ([]entity.GigOutputModel, error) {
	gigs, err := s.gigRepo.GetOpenGigs(ctx, titleQuery, pg)
	if err != nil {
		return nil, err
	}

	return mapGigs(gigs), nil
}

func (s *GigService) GetUserGigs(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.GigOutputModel, error) {
	gigs, err := s.gigRepo.GetGigsByOwnerId(ctx, ownerId, pg)
	if err != nil {
		return nil, err
	}

	return mapGigs(gigs), nil
}

// DeleteGig removes a gig for its owner. A gig that is assigned or that has
// any bid against it stays; the repo enforces both conditions inside the
// delete statement itself.
func (s *GigService) DeleteGig(ctx context.Context, gigId, callerId string) error {
	gig, err := s.gigRepo.GetGigById(ctx, gigId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrGigNotFound
		}

		return err
	}

	if gig.OwnerId.String() != callerId {
		return ErrNotGigOwner
	}

	if err := s.gigRepo.DeleteGig(ctx, gigId); err != nil {
		if errors.Is(err, repo_errors.ErrGigHasBids) {
			return ErrGigCanNotBeDeleted
		}

		return err
	}

	return nil
}
