package entity

import (
	"github.com/google/uuid"
)

// db model
type Bid struct {
	Id           uuid.UUID `json:"id" db:"id"`
	GigId        uuid.UUID `json:"gigId" db:"gig_id"`
	FreelancerId uuid.UUID `json:"freelancerId" db:"freelancer_id"`
	Price        float64   `json:"price" db:"price"`
	Message      string    `json:"message" db:"message"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    string    `json:"createdAt" db:"created_at"`
}

// service + repo input model
type CreateBidInput struct {
	GigId        string  // given
	FreelancerId string  // taken from the authenticated caller
	Price        float64 // given, > 0
	Message      string  // given
	// Id UUID sets automatically
	// Status starts as "pending"
	// CreatedAt sets automatically
}

// controller model
type BidOutputModel struct {
	Id           string  `json:"id"`
	GigId        string  `json:"gigId"`
	FreelancerId string  `json:"freelancerId"`
	Price        float64 `json:"price"`
	Message      string  `json:"message"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
}
