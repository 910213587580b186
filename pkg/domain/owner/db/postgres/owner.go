package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/vettracker/pkg/conn/db/postgres/pool"
	"github.com/opst/vettracker/pkg/domain"
	pgerrors "github.com/opst/vettracker/pkg/domain/errors/dberrors/postgres"
	"github.com/opst/vettracker/pkg/domain/internal/db/postgres/query"
	"github.com/opst/vettracker/pkg/domain/internal/db/postgres/rows"
	kdbowner "github.com/opst/vettracker/pkg/domain/owner/db"
	xe "github.com/opst/vettracker/pkg/errors"
)

type pgOwner struct {
	pool kpool.Pool
}

var _ kdbowner.OwnerInterface = &pgOwner{}

func New(pool kpool.Pool) *pgOwner {
	return &pgOwner{pool: pool}
}

var ownerOrders = map[domain.OwnerSort]string{
	domain.OwnerByNameAsc:  `o."full_name" asc, o."id" asc`,
	domain.OwnerByNameDesc: `o."full_name" desc, o."id" desc`,
	domain.OwnerByDateAsc:  `o."created_at" asc, o."id" asc`,
	domain.OwnerByDateDesc: `o."created_at" desc, o."id" desc`,
	domain.OwnerByPetsAsc:  `"pet_count" asc, o."full_name" asc`,
	domain.OwnerByPetsDesc: `"pet_count" desc, o."full_name" asc`,
}

func (m *pgOwner) List(ctx context.Context, q domain.OwnerQuery) (domain.Paged[domain.OwnerSummary], error) {
	conds := query.New()
	conds.AnyOf(q.Search, `o."user_name"`, `o."full_name"`, `o."email"`, `o."phone_num"`, `o."gender"`)

	var total int
	if err := m.pool.QueryRow(
		ctx, `select count(*) from "owner" as o `+conds.Where(), conds.Args()...,
	).Scan(&total); err != nil {
		return domain.Paged[domain.OwnerSummary]{}, xe.Wrap(err)
	}
	page := domain.Paginate(total, q.Page, domain.PageSize)

	order, ok := ownerOrders[q.Sort]
	if !ok {
		order = ownerOrders[domain.DefaultOwnerSort]
	}
	limit, offset := conds.Arg(page.Size), conds.Arg(page.Offset())
	rs, err := m.pool.Query(
		ctx,
		fmt.Sprintf(
			`select %s, (select count(*) from "pet" as p where p."owner_id" = o."id") as "pet_count"
			from "owner" as o %s
			order by %s
			limit %s offset %s`,
			rows.OwnerColumns("o"), conds.Where(), order, limit, offset,
		),
		conds.Args()...,
	)
	if err != nil {
		return domain.Paged[domain.OwnerSummary]{}, xe.Wrap(err)
	}
	items, err := rows.Collect(rs, func(r pgx.Row) (domain.OwnerSummary, error) {
		s := domain.OwnerSummary{}
		o, err := rows.ScanOwner(r, &s.PetCount)
		s.Owner = o
		return s, err
	})
	if err != nil {
		return domain.Paged[domain.OwnerSummary]{}, xe.Wrap(err)
	}
	return domain.Paged[domain.OwnerSummary]{Items: items, Page: page}, nil
}

func (m *pgOwner) Get(ctx context.Context, id int) (domain.OwnerDetail, error) {
	owner, err := m.findOne(ctx, `o."id" = $1`, strconv.Itoa(id), id)
	if err != nil {
		return domain.OwnerDetail{}, err
	}

	rs, err := m.pool.Query(
		ctx,
		`select `+rows.PetSummaryColumns()+` from `+rows.PetSummaryFrom+`
		where p."owner_id" = $1
		order by p."pet_name", p."id"`,
		id,
	)
	if err != nil {
		return domain.OwnerDetail{}, xe.Wrap(err)
	}
	pets, err := rows.Collect(rs, rows.ScanPetSummary)
	if err != nil {
		return domain.OwnerDetail{}, xe.Wrap(err)
	}
	return domain.OwnerDetail{Owner: owner, Pets: pets}, nil
}

func (m *pgOwner) FindByLogin(ctx context.Context, login string) (domain.Owner, error) {
	return m.findOne(
		ctx, `(lower(o."user_name") = lower($1) or lower(o."email") = lower($1))`, login, login,
	)
}

func (m *pgOwner) FindByEmail(ctx context.Context, email string) (domain.Owner, error) {
	return m.findOne(ctx, `lower(o."email") = lower($1)`, email, email)
}

func (m *pgOwner) findOne(ctx context.Context, predicate string, identity string, args ...any) (domain.Owner, error) {
	owner, err := rows.ScanOwner(m.pool.QueryRow(
		ctx,
		`select `+rows.OwnerColumns("o")+` from "owner" as o where `+predicate+` order by o."id" limit 1`,
		args...,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Owner{}, xe.Wrap(pgerrors.Missing{Table: "owner", Identity: identity})
	}
	if err != nil {
		return domain.Owner{}, xe.Wrap(err)
	}
	return owner, nil
}

func (m *pgOwner) Create(ctx context.Context, o domain.Owner) (domain.Owner, error) {
	img := o.Img
	if img == "" {
		img = domain.DefaultImage
	}
	created, err := rows.ScanOwner(m.pool.QueryRow(
		ctx,
		`insert into "owner" as o
			("img", "user_name", "email", "phone_num", "password", "full_name", "dob", "gender",
			 "created_by", "updated_by")
		values ($1, $2, $3, $4, $5, $6, $7, $8, `+rows.Actor("$9")+`, `+rows.Actor("$9")+`)
		returning `+rows.OwnerColumns("o"),
		img, o.UserName, o.Email, o.PhoneNum, o.PasswordHash, o.FullName, o.Dob, o.Gender,
		o.CreatedBy,
	))
	if err != nil {
		return domain.Owner{}, xe.Wrap(pgerrors.Classify(err))
	}
	return created, nil
}

func (m *pgOwner) Update(ctx context.Context, o domain.Owner) (domain.Owner, error) {
	updated, err := rows.ScanOwner(m.pool.QueryRow(
		ctx,
		`update "owner" as o set
			"img" = $2, "user_name" = $3, "email" = $4, "phone_num" = $5,
			"password" = case when $6::varchar = '' then o."password" else $6::varchar end,
			"full_name" = $7, "dob" = $8, "gender" = $9,
			"updated_at" = now(), "updated_by" = `+rows.Actor("$10")+`
		where o."id" = $1
		returning `+rows.OwnerColumns("o"),
		o.Id, o.Img, o.UserName, o.Email, o.PhoneNum, o.PasswordHash, o.FullName, o.Dob, o.Gender,
		o.UpdatedBy,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Owner{}, xe.Wrap(pgerrors.Missing{Table: "owner", Identity: strconv.Itoa(o.Id)})
	}
	if err != nil {
		return domain.Owner{}, xe.Wrap(pgerrors.Classify(err))
	}
	return updated, nil
}

func (m *pgOwner) UpdatePassword(ctx context.Context, id int, passwordHash string, updatedBy string) error {
	tag, err := m.pool.Exec(
		ctx,
		`update "owner" set "password" = $2, "updated_at" = now(), "updated_by" = `+rows.Actor("$3")+` where "id" = $1`,
		id, passwordHash, updatedBy,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return xe.Wrap(pgerrors.Missing{Table: "owner", Identity: strconv.Itoa(id)})
	}
	return nil
}

func (m *pgOwner) Delete(ctx context.Context, id int) (domain.Owner, error) {
	deleted, err := rows.ScanOwner(m.pool.QueryRow(
		ctx,
		`delete from "owner" as o where o."id" = $1 returning `+rows.OwnerColumns("o"),
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Owner{}, xe.Wrap(pgerrors.Missing{Table: "owner", Identity: strconv.Itoa(id)})
	}
	if err != nil {
		// pets refer the owner with "on delete restrict".
		return domain.Owner{}, xe.Wrap(pgerrors.Classify(err))
	}
	return deleted, nil
}
