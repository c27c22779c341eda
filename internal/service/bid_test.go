package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

// in-memory store shared by the fake repos; HireBid and CreateBid run under
// one mutex so they behave like the single-transaction postgres versions
type memStore struct {
	mu   sync.Mutex
	gigs map[uuid.UUID]*entity.Gig
	bids map[uuid.UUID]*entity.Bid
}

func newMemStore() *memStore {
	return &memStore{
		gigs: make(map[uuid.UUID]*entity.Gig),
		bids: make(map[uuid.UUID]*entity.Bid),
	}
}

func (s *memStore) addGig(ownerId uuid.UUID, title, status string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.gigs[id] = &entity.Gig{
		Id: id, Title: title, Description: "some work", Budget: 100,
		OwnerId: ownerId, Status: status,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	return id
}

func (s *memStore) addBid(gigId, freelancerId uuid.UUID, status string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.bids[id] = &entity.Bid{
		Id: id, GigId: gigId, FreelancerId: freelancerId,
		Price: 50, Message: "pick me", Status: status,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	return id
}

type fakeGigRepo struct {
	store *memStore
}

func (r *fakeGigRepo) CreateGig(ctx context.Context, input *entity.CreateGigInput) (uuid.UUID, error) {
	owner, err := uuid.Parse(input.OwnerId)
	if err != nil {
		return uuid.Nil, err
	}
	return r.store.addGig(owner, input.Title, common.GigOpen), nil
}

func (r *fakeGigRepo) GetGigById(ctx context.Context, id string) (*entity.Gig, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	gig, ok := r.store.gigs[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	copy := *gig
	return &copy, nil
}

func (r *fakeGigRepo) GetOpenGigs(ctx context.Context, titleQuery string, pg *entity.PaginationInput) ([]entity.Gig, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	gigs := make([]entity.Gig, 0)
	for _, gig := range r.store.gigs {
		if gig.Status == common.GigOpen {
			gigs = append(gigs, *gig)
		}
	}
	return gigs, nil
}

func (r *fakeGigRepo) GetGigsByOwnerId(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.Gig, error) {
	owner, err := uuid.Parse(ownerId)
	if err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	gigs := make([]entity.Gig, 0)
	for _, gig := range r.store.gigs {
		if gig.OwnerId == owner {
			gigs = append(gigs, *gig)
		}
	}
	return gigs, nil
}

func (r *fakeGigRepo) DeleteGig(ctx context.Context, id string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	gig, ok := r.store.gigs[uuidForm]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if gig.Status != common.GigOpen {
		return repo_errors.ErrGigHasBids
	}
	for _, bid := range r.store.bids {
		if bid.GigId == uuidForm {
			return repo_errors.ErrGigHasBids
		}
	}
	delete(r.store.gigs, uuidForm)
	return nil
}

type fakeBidRepo struct {
	store *memStore

	// beforeCreate, when set, runs just before CreateBid takes the store
	// lock; tests use it to interleave a hire with a bid submission
	beforeCreate func()
}

func (r *fakeBidRepo) CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error) {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}

	gigId, err := uuid.Parse(input.GigId)
	if err != nil {
		return uuid.Nil, repo_errors.ErrNotFound
	}
	freelancerId, err := uuid.Parse(input.FreelancerId)
	if err != nil {
		return uuid.Nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	gig, ok := r.store.gigs[gigId]
	if !ok {
		return uuid.Nil, repo_errors.ErrNotFound
	}
	if gig.Status != common.GigOpen {
		return uuid.Nil, repo_errors.ErrGigNotOpen
	}
	for _, bid := range r.store.bids {
		if bid.GigId == gigId && bid.FreelancerId == freelancerId {
			return uuid.Nil, repo_errors.ErrDuplicateBid
		}
	}

	id := uuid.New()
	r.store.bids[id] = &entity.Bid{
		Id: id, GigId: gigId, FreelancerId: freelancerId,
		Price: input.Price, Message: input.Message, Status: common.BidPending,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	return id, nil
}

func (r *fakeBidRepo) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	bid, ok := r.store.bids[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	copy := *bid
	return &copy, nil
}

func (r *fakeBidRepo) GetBidsByGigId(ctx context.Context, gigId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(gigId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	bids := make([]entity.Bid, 0)
	for _, bid := range r.store.bids {
		if bid.GigId == uuidForm {
			bids = append(bids, *bid)
		}
	}
	return bids, nil
}

func (r *fakeBidRepo) GetBidsByFreelancerId(ctx context.Context, freelancerId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(freelancerId)
	if err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	bids := make([]entity.Bid, 0)
	for _, bid := range r.store.bids {
		if bid.FreelancerId == uuidForm {
			bids = append(bids, *bid)
		}
	}
	return bids, nil
}

func (r *fakeBidRepo) HireBid(ctx context.Context, gigId uuid.UUID, bidId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	gig, ok := r.store.gigs[gigId]
	if !ok {
		return repo_errors.ErrNotFound
	}
	// the CAS gate: only one caller ever sees the gig open
	if gig.Status != common.GigOpen {
		return repo_errors.ErrGigNotOpen
	}
	target, ok := r.store.bids[bidId]
	if !ok || target.GigId != gigId {
		return repo_errors.ErrNotFound
	}

	gig.Status = common.GigAssigned
	for _, bid := range r.store.bids {
		if bid.GigId == gigId && bid.Id != bidId {
			bid.Status = common.BidRejected
		}
	}
	target.Status = common.BidHired
	return nil
}

type notification struct {
	UserID  string
	Message string
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notification
}

func (n *fakeNotifier) Notify(userID string, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{UserID: userID, Message: message})
}

func (n *fakeNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.calls...)
}

func newTestBidService(store *memStore, notifier Notifier) (*BidService, *fakeBidRepo) {
	fb := &fakeBidRepo{store: store}
	repos := &repo.Repositories{
		Gig: &fakeGigRepo{store: store},
		Bid: fb,
	}
	return NewBidService(repos, notifier), fb
}

func TestHireBid(t *testing.T) {
	owner := uuid.New()
	freelancer1 := uuid.New()
	freelancer2 := uuid.New()

	store := newMemStore()
	gigId := store.addGig(owner, "Build a landing page", common.GigOpen)
	bid1 := store.addBid(gigId, freelancer1, common.BidPending)
	bid2 := store.addBid(gigId, freelancer2, common.BidPending)

	notifier := &fakeNotifier{}
	svc, _ := newTestBidService(store, notifier)

	out, err := svc.HireBid(context.Background(), bid1.String(), owner.String())
	if err != nil {
		t.Fatalf("expected hire to succeed, got %v", err)
	}
	if out.Status != common.BidHired {
		t.Errorf("expected returned bid status %q, got %q", common.BidHired, out.Status)
	}

	if got := store.gigs[gigId].Status; got != common.GigAssigned {
		t.Errorf("expected gig status %q, got %q", common.GigAssigned, got)
	}
	if got := store.bids[bid1].Status; got != common.BidHired {
		t.Errorf("expected hired bid status %q, got %q", common.BidHired, got)
	}
	if got := store.bids[bid2].Status; got != common.BidRejected {
		t.Errorf("expected losing bid status %q, got %q", common.BidRejected, got)
	}

	calls := notifier.all()
	if len(calls) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(calls))
	}
	if calls[0].UserID != freelancer1.String() {
		t.Errorf("notification went to %s, expected %s", calls[0].UserID, freelancer1)
	}
	if !strings.Contains(calls[0].Message, "Build a landing page") {
		t.Errorf("notification message %q should contain the gig title", calls[0].Message)
	}

	// a second hire on the same gig must observe the conflict
	if _, err := svc.HireBid(context.Background(), bid2.String(), owner.String()); !errors.Is(err, ErrGigAlreadyAssigned) {
		t.Errorf("expected ErrGigAlreadyAssigned on second hire, got %v", err)
	}
	if got := store.bids[bid1].Status; got != common.BidHired {
		t.Errorf("hired bid must stay hired after the failed retry, got %q", got)
	}
	if got := store.bids[bid2].Status; got != common.BidRejected {
		t.Errorf("rejected bid must stay rejected after the failed retry, got %q", got)
	}
}

func TestHireBidNotOwner(t *testing.T) {
	owner := uuid.New()
	freelancer := uuid.New()

	store := newMemStore()
	gigId := store.addGig(owner, "Logo design", common.GigOpen)
	bidId := store.addBid(gigId, freelancer, common.BidPending)

	notifier := &fakeNotifier{}
	svc, _ := newTestBidService(store, notifier)

	_, err := svc.HireBid(context.Background(), bidId.String(), freelancer.String())
	if !errors.Is(err, ErrNotGigOwner) {
		t.Fatalf("expected ErrNotGigOwner, got %v", err)
	}

	// nothing may be mutated on a forbidden hire
	if got := store.gigs[gigId].Status; got != common.GigOpen {
		t.Errorf("gig status changed on forbidden hire: %q", got)
	}
	if got := store.bids[bidId].Status; got != common.BidPending {
		t.Errorf("bid status changed on forbidden hire: %q", got)
	}
	if len(notifier.all()) != 0 {
		t.Error("notification sent on forbidden hire")
	}
}

func TestHireBidNotFound(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestBidService(store, &fakeNotifier{})

	_, err := svc.HireBid(context.Background(), uuid.New().String(), uuid.New().String())
	if !errors.Is(err, ErrBidNotFound) {
		t.Fatalf("expected ErrBidNotFound, got %v", err)
	}
}

func TestHireBidConcurrentCallers(t *testing.T) {
	const bidders = 16

	owner := uuid.New()
	store := newMemStore()
	gigId := store.addGig(owner, "Data pipeline", common.GigOpen)

	bidIds := make([]uuid.UUID, bidders)
	for i := range bidIds {
		bidIds[i] = store.addBid(gigId, uuid.New(), common.BidPending)
	}

	notifier := &fakeNotifier{}
	svc, _ := newTestBidService(store, notifier)

	var wg sync.WaitGroup
	var successes, conflicts int64
	var mu sync.Mutex

	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(bidId uuid.UUID) {
			defer wg.Done()
			_, err := svc.HireBid(context.Background(), bidId.String(), owner.String())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrGigAlreadyAssigned):
				conflicts++
			default:
				t.Errorf("unexpected error from concurrent hire: %v", err)
			}
		}(bidIds[i])
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("expected exactly one hire to win, got %d", successes)
	}
	if conflicts != bidders-1 {
		t.Errorf("expected %d conflicts, got %d", bidders-1, conflicts)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.gigs[gigId].Status != common.GigAssigned {
		t.Error("gig must end up assigned")
	}
	hired, rejected, pending := 0, 0, 0
	for _, bid := range store.bids {
		switch bid.Status {
		case common.BidHired:
			hired++
		case common.BidRejected:
			rejected++
		case common.BidPending:
			pending++
		}
	}
	if hired != 1 {
		t.Errorf("expected exactly one hired bid, got %d", hired)
	}
	if rejected != bidders-1 {
		t.Errorf("expected %d rejected bids, got %d", bidders-1, rejected)
	}
	if pending != 0 {
		t.Errorf("no bid may stay pending on an assigned gig, got %d", pending)
	}
	if len(notifier.all()) != 1 {
		t.Errorf("expected exactly one notification, got %d", len(notifier.all()))
	}
}

func TestPlaceBid(t *testing.T) {
	owner := uuid.New()
	freelancer := uuid.New()

	store := newMemStore()
	gigId := store.addGig(owner, "Copywriting", common.GigOpen)

	svc, _ := newTestBidService(store, &fakeNotifier{})

	out, err := svc.PlaceBid(context.Background(), &entity.CreateBidInput{
		GigId: gigId.String(), FreelancerId: freelancer.String(), Price: 40, Message: "hi",
	})
	if err != nil {
		t.Fatalf("expected bid to be placed, got %v", err)
	}
	if out.Status != common.BidPending {
		t.Errorf("new bid must start pending, got %q", out.Status)
	}

	// same (gig, freelancer) pair again is a duplicate
	_, err = svc.PlaceBid(context.Background(), &entity.CreateBidInput{
		GigId: gigId.String(), FreelancerId: freelancer.String(), Price: 35, Message: "again",
	})
	if !errors.Is(err, ErrDuplicateBid) {
		t.Fatalf("expected ErrDuplicateBid, got %v", err)
	}

	count := 0
	store.mu.Lock()
	for _, bid := range store.bids {
		if bid.GigId == gigId && bid.FreelancerId == freelancer {
			count++
		}
	}
	store.mu.Unlock()
	if count != 1 {
		t.Errorf("store must hold exactly one bid for the pair, got %d", count)
	}
}

func TestPlaceBidGigNotFound(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestBidService(store, &fakeNotifier{})

	_, err := svc.PlaceBid(context.Background(), &entity.CreateBidInput{
		GigId: uuid.New().String(), FreelancerId: uuid.New().String(), Price: 10,
	})
	if !errors.Is(err, ErrGigNotFound) {
		t.Fatalf("expected ErrGigNotFound, got %v", err)
	}
}

func TestPlaceBidOnOwnGig(t *testing.T) {
	owner := uuid.New()
	store := newMemStore()
	svc, _ := newTestBidService(store, &fakeNotifier{})

	// forbidden regardless of the gig status
	for _, status := range []string{common.GigOpen, common.GigAssigned} {
		gigId := store.addGig(owner, "Own gig "+status, status)
		_, err := svc.PlaceBid(context.Background(), &entity.CreateBidInput{
			GigId: gigId.String(), FreelancerId: owner.String(), Price: 10,
		})
		if !errors.Is(err, ErrOwnerCanNotBid) {
			t.Errorf("status %s: expected ErrOwnerCanNotBid, got %v", status, err)
		}
	}
}

func TestPlaceBidOnAssignedGig(t *testing.T) {
	owner := uuid.New()
	store := newMemStore()
	gigId := store.addGig(owner, "Closed gig", common.GigAssigned)

	svc, _ := newTestBidService(store, &fakeNotifier{})

	_, err := svc.PlaceBid(context.Background(), &entity.CreateBidInput{
		GigId: gigId.String(), FreelancerId: uuid.New().String(), Price: 10,
	})
	if !errors.Is(err, ErrBiddingClosed) {
		t.Fatalf("expected ErrBiddingClosed, got %v", err)
	}
}

// a hire that commits between the intake's status read and its insert must
// still close the gig to the bid
func TestPlaceBidRacesWithHire(t *testing.T) {
	owner := uuid.New()
	freelancer1 := uuid.New()
	freelancer2 := uuid.New()

	store := newMemStore()
	gigId := store.addGig(owner, "Contested gig", common.GigOpen)
	bid1 := store.addBid(gigId, freelancer1, common.BidPending)

	notifier := &fakeNotifier{}
	svc, fakeBids := newTestBidService(store, notifier)

	fakeBids.beforeCreate = func() {
		fakeBids.beforeCreate = nil
		if _, err := svc.HireBid(context.Background(), bid1.String(), owner.String()); err != nil {
			t.Fatalf("interleaved hire failed: %v", err)
		}
	}

	_, err := svc.PlaceBid(context.Background(), &entity.CreateBidInput{
		GigId: gigId.String(), FreelancerId: freelancer2.String(), Price: 20,
	})
	if !errors.Is(err, ErrBiddingClosed) {
		t.Fatalf("expected ErrBiddingClosed when hire commits first, got %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	for _, bid := range store.bids {
		if bid.Status == common.BidPending {
			t.Error("no bid may end up pending against an assigned gig")
		}
	}
}

func TestGetGigBidsOwnerOnly(t *testing.T) {
	owner := uuid.New()
	freelancer := uuid.New()

	store := newMemStore()
	gigId := store.addGig(owner, "Private bids", common.GigOpen)
	store.addBid(gigId, freelancer, common.BidPending)

	svc, _ := newTestBidService(store, &fakeNotifier{})

	pg := entity.NewPaginationInput(20, 0)
	if _, err := svc.GetGigBids(context.Background(), gigId.String(), freelancer.String(), pg); !errors.Is(err, ErrNotGigOwner) {
		t.Fatalf("expected ErrNotGigOwner for non-owner, got %v", err)
	}

	bids, err := svc.GetGigBids(context.Background(), gigId.String(), owner.String(), pg)
	if err != nil {
		t.Fatalf("owner must see the bids, got %v", err)
	}
	if len(bids) != 1 {
		t.Errorf("expected 1 bid, got %d", len(bids))
	}
}
