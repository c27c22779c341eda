package service

import (
	"context"
	"errors"
	"testing"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/repo"

	"github.com/google/uuid"
)

func newTestGigService(store *memStore) *GigService {
	return NewGigService(&repo.Repositories{Gig: &fakeGigRepo{store: store}})
}

func TestDeleteGig(t *testing.T) {
	owner := uuid.New()
	store := newMemStore()
	gigId := store.addGig(owner, "Deletable", common.GigOpen)

	svc := newTestGigService(store)

	if err := svc.DeleteGig(context.Background(), gigId.String(), uuid.New().String()); !errors.Is(err, ErrNotGigOwner) {
		t.Fatalf("expected ErrNotGigOwner for stranger, got %v", err)
	}

	if err := svc.DeleteGig(context.Background(), gigId.String(), owner.String()); err != nil {
		t.Fatalf("owner delete of an open zero-bid gig failed: %v", err)
	}

	if err := svc.DeleteGig(context.Background(), gigId.String(), owner.String()); !errors.Is(err, ErrGigNotFound) {
		t.Fatalf("expected ErrGigNotFound after delete, got %v", err)
	}
}

func TestDeleteGigWithBids(t *testing.T) {
	owner := uuid.New()
	store := newMemStore()
	gigId := store.addGig(owner, "Has a bid", common.GigOpen)
	store.addBid(gigId, uuid.New(), common.BidPending)

	svc := newTestGigService(store)

	if err := svc.DeleteGig(context.Background(), gigId.String(), owner.String()); !errors.Is(err, ErrGigCanNotBeDeleted) {
		t.Fatalf("expected ErrGigCanNotBeDeleted for a gig with bids, got %v", err)
	}
}

func TestDeleteAssignedGig(t *testing.T) {
	owner := uuid.New()
	store := newMemStore()
	gigId := store.addGig(owner, "Assigned", common.GigAssigned)

	svc := newTestGigService(store)

	if err := svc.DeleteGig(context.Background(), gigId.String(), owner.String()); !errors.Is(err, ErrGigCanNotBeDeleted) {
		t.Fatalf("expected ErrGigCanNotBeDeleted for an assigned gig, got %v", err)
	}
}
