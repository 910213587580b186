package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/vettracker/pkg/conn/db/postgres/pool"
	"github.com/opst/vettracker/pkg/domain"
	pgerrors "github.com/opst/vettracker/pkg/domain/errors/dberrors/postgres"
	"github.com/opst/vettracker/pkg/domain/internal/db/postgres/query"
	"github.com/opst/vettracker/pkg/domain/internal/db/postgres/rows"
	kdbvet "github.com/opst/vettracker/pkg/domain/veterinarian/db"
	xe "github.com/opst/vettracker/pkg/errors"
)

type pgVeterinarian struct {
	pool kpool.Pool
}

var _ kdbvet.VeterinarianInterface = &pgVeterinarian{}

func New(pool kpool.Pool) *pgVeterinarian {
	return &pgVeterinarian{pool: pool}
}

func missing(identity string) error {
	return pgerrors.Missing{Table: "veterinarian", Identity: identity}
}

func (m *pgVeterinarian) List(ctx context.Context, q domain.VeterinarianQuery) ([]domain.Veterinarian, error) {
	conds := query.New()
	conds.AnyOf(
		q.Search,
		`v."user_name"`, `v."full_name"`, `v."email"`, `v."phone_num"`,
		`v."qualification"`, `v."clinic_address"`, `v."name_of_consulting_room"`,
	)
	if q.VerifiedOnly {
		conds.And(`v."authentication" = ` + conds.Arg(int16(domain.Verified)))
	}

	rs, err := m.pool.Query(
		ctx,
		`select `+rows.VeterinarianColumns("v")+` from "veterinarian" as v `+conds.Where()+`
		order by v."full_name", v."id"`,
		conds.Args()...,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	vets, err := rows.Collect(rs, func(r pgx.Row) (domain.Veterinarian, error) { return rows.ScanVeterinarian(r) })
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return vets, nil
}

func (m *pgVeterinarian) Get(ctx context.Context, id int) (domain.VeterinarianDetail, error) {
	vet, err := m.findOne(ctx, `v."id" = $1`, strconv.Itoa(id), id)
	if err != nil {
		return domain.VeterinarianDetail{}, err
	}

	rs, err := m.pool.Query(
		ctx,
		`select `+rows.PetSummaryColumns()+` from `+rows.PetSummaryFrom+`
		where p."vet_id" = $1
		order by p."pet_name", p."id"`,
		id,
	)
	if err != nil {
		return domain.VeterinarianDetail{}, xe.Wrap(err)
	}
	pets, err := rows.Collect(rs, rows.ScanPetSummary)
	if err != nil {
		return domain.VeterinarianDetail{}, xe.Wrap(err)
	}
	return domain.VeterinarianDetail{Veterinarian: vet, Pets: pets}, nil
}

func (m *pgVeterinarian) FindByLogin(ctx context.Context, login string) (domain.Veterinarian, error) {
	return m.findOne(
		ctx, `(lower(v."user_name") = lower($1) or lower(v."email") = lower($1))`, login, login,
	)
}

func (m *pgVeterinarian) FindByEmail(ctx context.Context, email string) (domain.Veterinarian, error) {
	return m.findOne(ctx, `lower(v."email") = lower($1)`, email, email)
}

func (m *pgVeterinarian) findOne(ctx context.Context, predicate string, identity string, args ...any) (domain.Veterinarian, error) {
	vet, err := rows.ScanVeterinarian(m.pool.QueryRow(
		ctx,
		`select `+rows.VeterinarianColumns("v")+` from "veterinarian" as v where `+predicate+` order by v."id" limit 1`,
		args...,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Veterinarian{}, xe.Wrap(missing(identity))
	}
	if err != nil {
		return domain.Veterinarian{}, xe.Wrap(err)
	}
	return vet, nil
}

func (m *pgVeterinarian) Create(ctx context.Context, v domain.Veterinarian) (domain.Veterinarian, error) {
	img := v.Img
	if img == "" {
		img = domain.DefaultImage
	}
	created, err := rows.ScanVeterinarian(m.pool.QueryRow(
		ctx,
		`insert into "veterinarian" as v
			("img", "user_name", "email", "phone_num", "password", "full_name", "dob", "gender",
			 "name_of_consulting_room", "clinic_address", "qualification", "experience",
			 "authentication", "available", "created_by", "updated_by")
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, `+rows.Actor("$15")+`, `+rows.Actor("$15")+`)
		returning `+rows.VeterinarianColumns("v"),
		img, v.UserName, v.Email, v.PhoneNum, v.PasswordHash, v.FullName, v.Dob, v.Gender,
		v.NameOfConsultingRoom, v.ClinicAddress, v.Qualification, v.Experience,
		int16(v.Verification), v.Available, v.CreatedBy,
	))
	if err != nil {
		return domain.Veterinarian{}, xe.Wrap(pgerrors.Classify(err))
	}
	return created, nil
}

func (m *pgVeterinarian) Update(ctx context.Context, v domain.Veterinarian) (domain.Veterinarian, error) {
	updated, err := rows.ScanVeterinarian(m.pool.QueryRow(
		ctx,
		`update "veterinarian" as v set
			"img" = $2, "user_name" = $3, "email" = $4, "phone_num" = $5,
			"password" = case when $6::varchar = '' then v."password" else $6::varchar end,
			"full_name" = $7, "dob" = $8, "gender" = $9,
			"name_of_consulting_room" = $10, "clinic_address" = $11,
			"qualification" = $12, "experience" = $13,
			"updated_at" = now(), "updated_by" = `+rows.Actor("$14")+`
		where v."id" = $1
		returning `+rows.VeterinarianColumns("v"),
		v.Id, v.Img, v.UserName, v.Email, v.PhoneNum, v.PasswordHash, v.FullName, v.Dob, v.Gender,
		v.NameOfConsultingRoom, v.ClinicAddress, v.Qualification, v.Experience,
		v.UpdatedBy,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Veterinarian{}, xe.Wrap(missing(strconv.Itoa(v.Id)))
	}
	if err != nil {
		return domain.Veterinarian{}, xe.Wrap(pgerrors.Classify(err))
	}
	return updated, nil
}

func (m *pgVeterinarian) exec(ctx context.Context, id int, sql string, args ...any) error {
	tag, err := m.pool.Exec(ctx, sql, append([]any{id}, args...)...)
	if err != nil {
		return xe.WrapAsOuter(err, 1)
	}
	if tag.RowsAffected() == 0 {
		return xe.WrapAsOuter(missing(strconv.Itoa(id)), 1)
	}
	return nil
}

func (m *pgVeterinarian) UpdatePassword(ctx context.Context, id int, passwordHash string, updatedBy string) error {
	return m.exec(
		ctx, id,
		`update "veterinarian" set "password" = $2, "updated_at" = now(), "updated_by" = `+rows.Actor("$3")+` where "id" = $1`,
		passwordHash, updatedBy,
	)
}

func (m *pgVeterinarian) SetVerification(ctx context.Context, id int, verification domain.Verification, updatedBy string) error {
	return m.exec(
		ctx, id,
		`update "veterinarian" set "authentication" = $2, "updated_at" = now(), "updated_by" = `+rows.Actor("$3")+` where "id" = $1`,
		int16(verification), updatedBy,
	)
}

func (m *pgVeterinarian) SetAvailability(ctx context.Context, id int, available bool) error {
	return m.exec(ctx, id, `update "veterinarian" set "available" = $2 where "id" = $1`, available)
}

func (m *pgVeterinarian) Delete(ctx context.Context, id int) (domain.Veterinarian, error) {
	deleted, err := rows.ScanVeterinarian(m.pool.QueryRow(
		ctx,
		`delete from "veterinarian" as v where v."id" = $1 returning `+rows.VeterinarianColumns("v"),
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Veterinarian{}, xe.Wrap(missing(strconv.Itoa(id)))
	}
	if err != nil {
		return domain.Veterinarian{}, xe.Wrap(pgerrors.Classify(err))
	}
	return deleted, nil
}
