package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"
	"gig-marketplace-api/pkg/postgres"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

// CreateBid inserts a pending bid while the gig row is locked, so an insert
// can never interleave with the hire transition: either the bid lands before
// the hire commits and is swept to rejected, or the gig is already assigned
// and the insert is refused. The (gig_id, freelancer_id) unique constraint
// rejects duplicates on insert rather than by a racy pre-check.
func (r *BidRepo) CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error) {
	gigUuid, err := uuid.Parse(input.GigId)
	if err != nil {
		return uuid.Nil, repo_errors.ErrNotFound
	}

	freelancerUuid, err := uuid.Parse(input.FreelancerId)
	if err != nil {
		return uuid.Nil, err
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}

	lockGigSql, args, _ := r.SqlBuilder.
		Select("status").
		From("gig").
		Where("id = ?", gigUuid).
		Suffix("FOR UPDATE").
		ToSql()

	var gigStatus string
	err = tx.QueryRow(lockGigSql, args...).Scan(&gigStatus)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, repo_errors.ErrNotFound
		}

		return uuid.Nil, err
	}

	if gigStatus != common.GigOpen {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, repo_errors.ErrGigNotOpen
	}

	createBidSql, args, _ := r.SqlBuilder.
		Insert("bid").
		Columns("gig_id", "freelancer_id", "price", "message", "status").
		Values(gigUuid, freelancerUuid, input.Price, input.Message, common.BidPending).
		Suffix("RETURNING id").
		ToSql()

	var bidId uuid.UUID
	err = tx.QueryRow(createBidSql, args...).Scan(&bidId)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode {
			return uuid.Nil, repo_errors.ErrDuplicateBid
		}

		return uuid.Nil, err
	}

	if err = tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	return bidId, nil
}

func (r *BidRepo) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getBidSql, args, _ := r.SqlBuilder.
		Select("id, gig_id, freelancer_id, price, message, status, created_at").
		From("bid").
		Where("id = ?", uuidForm).
		ToSql()

	var bid entity.Bid
	var createdAt time.Time
	row := r.Database.QueryRowContext(ctx, getBidSql, args...)
	err = row.Scan(&bid.Id, &bid.GigId, &bid.FreelancerId, &bid.Price,
		&bid.Message, &bid.Status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}
	bid.CreatedAt = createdAt.Format(time.RFC3339)

	return &bid, nil
}

func (r *BidRepo) GetBidsByGigId(ctx context.Context, gigId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	gigUuid, err := uuid.Parse(gigId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getGigBidsSql, args, _ := r.SqlBuilder.
		Select("id, gig_id, freelancer_id, price, message, status, created_at").
		From("bid").
		Where("gig_id = ?", gigUuid).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryBids(ctx, getGigBidsSql, args)
}

func (r *BidRepo) GetBidsByFreelancerId(ctx context.Context, freelancerId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	freelancerUuid, err := uuid.Parse(freelancerId)
	if err != nil {
		return nil, err
	}

	getUserBidsSql, args, _ := r.SqlBuilder.
		Select("id, gig_id, freelancer_id, price, message, status, created_at").
		From("bid").
		Where("freelancer_id = ?", freelancerUuid).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryBids(ctx, getUserBidsSql, args)
}

// HireBid is the atomic hire transition. The conditional gig update is the
// exclusivity gate: it only matches while status is still open, so with any
// number of concurrent callers exactly one sees affected-rows = 1 and the
// rest roll back with ErrGigNotOpen. The rejection sweep and the hired mark
// ride in the same transaction, so no reader ever observes a half-applied
// transition.
func (r *BidRepo) HireBid(ctx context.Context, gigId uuid.UUID, bidId uuid.UUID) error {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	assignGigSql, args, _ := r.SqlBuilder.
		Update("gig").
		Set("status", common.GigAssigned).
		Where("id = ?", gigId).
		Where("status = ?", common.GigOpen).
		ToSql()

	res, err := tx.Exec(assignGigSql, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	assigned, err := res.RowsAffected()
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}
	if assigned == 0 {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return repo_errors.ErrGigNotOpen
	}

	// Idempotent sweep: bids already rejected just stay rejected.
	rejectOthersSql, args, _ := r.SqlBuilder.
		Update("bid").
		Set("status", common.BidRejected).
		Where("gig_id = ?", gigId).
		Where("id <> ?", bidId).
		ToSql()

	if _, err := tx.Exec(rejectOthersSql, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	hireBidSql, args, _ := r.SqlBuilder.
		Update("bid").
		Set("status", common.BidHired).
		Where("id = ?", bidId).
		Where("gig_id = ?", gigId).
		ToSql()

	res, err = tx.Exec(hireBidSql, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	hired, err := res.RowsAffected()
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}
	if hired == 0 {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return repo_errors.ErrNotFound
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *BidRepo) queryBids(ctx context.Context, sqlReq string, args []interface{}) ([]entity.Bid, error) {
	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		var bid entity.Bid
		var createdAt time.Time
		if err := rows.Scan(&bid.Id, &bid.GigId, &bid.FreelancerId, &bid.Price,
			&bid.Message, &bid.Status, &createdAt); err != nil {
			return bids, err
		}
		bid.CreatedAt = createdAt.Format(time.RFC3339)
		bids = append(bids, bid)
	}
	if err = rows.Err(); err != nil {
		return bids, err
	}

	return bids, nil
}
