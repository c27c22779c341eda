package common

const (
	GigOpen     = "open"
	GigAssigned = "assigned"

	BidPending  = "pending"
	BidHired    = "hired"
	BidRejected = "rejected"
)
