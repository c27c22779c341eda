package service

import "errors"

var (
	ErrGigNotFound  = errors.New("gig not found")
	ErrBidNotFound  = errors.New("bid not found")
	ErrUserNotFound = errors.New("user not found")

	ErrNotGigOwner        = errors.New("caller is not the owner of the gig")
	ErrOwnerCanNotBid     = errors.New("gig owner can't bid on their own gig")
	ErrGigAlreadyAssigned = errors.New("gig has already been assigned")
	ErrBiddingClosed      = errors.New("bidding is closed for this gig")
	ErrDuplicateBid       = errors.New("freelancer already placed a bid on this gig")
	ErrGigCanNotBeDeleted = errors.New("gig has bids or is assigned and can't be deleted")

	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
