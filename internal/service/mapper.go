package service

import (
	"gig-marketplace-api/internal/entity"
)

func mapGig(g *entity.Gig) *entity.GigOutputModel {
	return &entity.GigOutputModel{
		Id:          g.Id.String(),
		Title:       g.Title,
		Description: g.Description,
		Budget:      g.Budget,
		OwnerId:     g.OwnerId.String(),
		Status:      g.Status,
		CreatedAt:   g.CreatedAt,
	}
}

func mapGigs(gigs []entity.Gig) []entity.GigOutputModel {
	s := make([]entity.GigOutputModel, 0)
	for _, gig := range gigs {
		s = append(s, *mapGig(&gig))
	}

	return s
}

func mapBid(b *entity.Bid) *entity.BidOutputModel {
	return &entity.BidOutputModel{
		Id:           b.Id.String(),
		GigId:        b.GigId.String(),
		FreelancerId: b.FreelancerId.String(),
		Price:        b.Price,
		Message:      b.Message,
		Status:       b.Status,
		CreatedAt:    b.CreatedAt,
	}
}

func mapBids(bids []entity.Bid) []entity.BidOutputModel {
	s := make([]entity.BidOutputModel, 0)
	for _, bid := range bids {
		s = append(s, *mapBid(&bid))
	}

	return s
}

func mapUser(u *entity.User) *entity.UserOutputModel {
	return &entity.UserOutputModel{
		Id:        u.Id.String(),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
