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
)

type GigRepo struct {
	*postgres.Postgres
}

func NewGigRepo(pgdb *postgres.Postgres) *GigRepo {
	return &GigRepo{pgdb}
}

func (r *GigRepo) CreateGig(ctx context.Context, input *entity.CreateGigInput) (uuid.UUID, error) {
	ownerUuid, err := uuid.Parse(input.OwnerId)
	if err != nil {
		return uuid.Nil, err
	}

	createGigSql, args, _ := r.SqlBuilder.
		Insert("gig").
		Columns("title", "description", "budget", "owner_id", "status").
		Values(input.Title, input.Description, input.Budget, ownerUuid, common.GigOpen).
		Suffix("RETURNING id").
		ToSql()

	var gigId uuid.UUID
	err = r.Database.QueryRowContext(ctx, createGigSql, args...).Scan(&gigId)
	if err != nil {
		return uuid.Nil, err
	}

	return gigId, nil
}

func (r *GigRepo) GetGigById(ctx context.Context, id string) (*entity.Gig, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getGigSql, args, _ := r.SqlBuilder.
		Select("id, title, description, budget, owner_id, status, created_at").
		From("gig").
		Where("id = ?", uuidForm).
		ToSql()

	var gig entity.Gig
	var createdAt time.Time
	row := r.Database.QueryRowContext(ctx, getGigSql, args...)
	err = row.Scan(&gig.Id, &gig.Title, &gig.Description, &gig.Budget,
		&gig.OwnerId, &gig.Status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}
	gig.CreatedAt = createdAt.Format(time.RFC3339)

	return &gig, nil
}

func (r *GigRepo) GetOpenGigs(ctx context.Context, titleQuery string, pg *entity.PaginationInput) ([]entity.Gig, error) {
	builder := r.SqlBuilder.
		Select("id, title, description, budget, owner_id, status, created_at").
		From("gig").
		Where("status = ?", common.GigOpen)

	if titleQuery != "" {
		builder = builder.Where("title ILIKE ?", "%"+titleQuery+"%")
	}

	getOpenGigsSql, args, _ := builder.
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryGigs(ctx, getOpenGigsSql, args)
}

func (r *GigRepo) GetGigsByOwnerId(ctx context.Context, ownerId string, pg *entity.PaginationInput) ([]entity.Gig, error) {
	ownerUuid, err := uuid.Parse(ownerId)
	if err != nil {
		return nil, err
	}

	getOwnerGigsSql, args, _ := r.SqlBuilder.
		Select("id, title, description, budget, owner_id, status, created_at").
		From("gig").
		Where("owner_id = ?", ownerUuid).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryGigs(ctx, getOwnerGigsSql, args)
}

// DeleteGig removes a gig only while it is still open and has no bids
// against it. Both conditions sit in the statement itself, so a gig that
// picked up a bid between the caller's read and this delete stays put.
func (r *GigRepo) DeleteGig(ctx context.Context, id string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	deleteGigSql, args, _ := r.SqlBuilder.
		Delete("gig").
		Where("id = ?", uuidForm).
		Where("status = ?", common.GigOpen).
		Where("NOT EXISTS (SELECT 1 FROM bid WHERE bid.gig_id = gig.id)").
		ToSql()

	res, err := r.Database.ExecContext(ctx, deleteGigSql, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrGigHasBids
	}

	return nil
}

func (r *GigRepo) queryGigs(ctx context.Context, sqlReq string, args []interface{}) ([]entity.Gig, error) {
	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gigs := make([]entity.Gig, 0)
	for rows.Next() {
		var gig entity.Gig
		var createdAt time.Time
		if err := rows.Scan(&gig.Id, &gig.Title, &gig.Description, &gig.Budget,
			&gig.OwnerId, &gig.Status, &createdAt); err != nil {
			return gigs, err
		}
		gig.CreatedAt = createdAt.Format(time.RFC3339)
		gigs = append(gigs, gig)
	}
	if err = rows.Err(); err != nil {
		return gigs, err
	}

	return gigs, nil
}
