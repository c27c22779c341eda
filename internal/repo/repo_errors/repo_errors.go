package repo_errors

import "errors"

var (
	ErrNotFound     = errors.New("record not found")
	ErrGigNotOpen   = errors.New("gig is not open")
	ErrDuplicateBid = errors.New("bid for this gig and freelancer already exists")
	ErrGigHasBids   = errors.New("gig already has bids")
	ErrEmailTaken   = errors.New("user with this email already exists")
)
