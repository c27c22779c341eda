package service

import (
	"context"
	"errors"
	"fmt"
	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/repo_errors"
)

type BidService struct {
	bidRepo  repo.Bid
	gigRepo  repo.Gig
	notifier Notifier
}

func NewBidService(repos *repo.Repositories, notifier Notifier) *BidService {
	return &BidService{
		bidRepo:  repos.Bid,
		gigRepo:  repos.Gig,
		notifier: notifier,
	}
}

func (s *BidService) PlaceBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error) {
	gig, err := s.gigRepo.GetGigById(ctx, input.GigId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	// Owner is immutable, so this check can't go stale.
	if gig.OwnerId.String() == input.FreelancerId {
		return nil, ErrOwnerCanNotBid
	}

	if gig.Status != common.GigOpen {
		return nil, ErrBiddingClosed
	}

	id, err := s.bidRepo.CreateBid(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, repo_errors.ErrDuplicateBid):
			return nil, ErrDuplicateBid
		case errors.Is(err, repo_errors.ErrGigNotOpen):
			// A hire committed between our read and the insert.
			return nil, ErrBiddingClosed
		case errors.Is(err, repo_errors.ErrNotFound):
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	bid, err := s.bidRepo.GetBidById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapBid(bid), nil
}

// HireBid performs the hire transition. Ownership and existence are safe to
// check up front (both are immutable). The gig status is only advisory here;
// the store's conditional update is what actually decides the winner when
// hires race.
func (s *BidService) HireBid(ctx context.Context, bidId, callerId string) (*entity.BidOutputModel, error) {
	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}

	gig, err := s.gigRepo.GetGigById(ctx, bid.GigId.String())
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	if gig.OwnerId.String() != callerId {
		return nil, ErrNotGigOwner
	}

	if gig.Status != common.GigOpen {
		return nil, ErrGigAlreadyAssigned
	}

	if err := s.bidRepo.HireBid(ctx, bid.GigId, bid.Id); err != nil {
		switch {
		case errors.Is(err, repo_errors.ErrGigNotOpen):
			// Lost the race to a concurrent hire.
			return nil, ErrGigAlreadyAssigned
		case errors.Is(err, repo_errors.ErrNotFound):
			return nil, ErrBidNotFound
		}

		return nil, err
	}

	// The transition is committed; the push is best-effort and its outcome
	// is deliberately ignored.
	s.notifier.Notify(bid.FreelancerId.String(),
		fmt.Sprintf("You have been hired for %q", gig.Title))

	bid.Status = common.BidHired

	return mapBid(bid), nil
}

func (s *BidService) GetUserBids(ctx context.Context, freelancerId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
	bids, err := s.bidRepo.GetBidsByFreelancerId(ctx, freelancerId, pg)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

// GetGigBids lists the bids on a gig; only the gig owner may see them.
func (s *BidService) GetGigBids(ctx context.Context, gigId, callerId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
	gig, err := s.gigRepo.GetGigById(ctx, gigId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	if gig.OwnerId.String() != callerId {
		return nil, ErrNotGigOwner
	}

	bids, err := s.bidRepo.GetBidsByGigId(ctx, gigId, pg)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}
