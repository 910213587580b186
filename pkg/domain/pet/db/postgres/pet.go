package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/vettracker/pkg/conn/db/postgres/pool"
	"github.com/opst/vettracker/pkg/domain"
	domerr "github.com/opst/vettracker/pkg/domain/errors"
	pgerrors "github.com/opst/vettracker/pkg/domain/errors/dberrors/postgres"
	"github.com/opst/vettracker/pkg/domain/internal/db/postgres/query"
	"github.com/opst/vettracker/pkg/domain/internal/db/postgres/rows"
	kdbpet "github.com/opst/vettracker/pkg/domain/pet/db"
	xe "github.com/opst/vettracker/pkg/errors"
)

type pgPet struct {
	pool kpool.Pool
}

var _ kdbpet.PetInterface = &pgPet{}

func New(pool kpool.Pool) *pgPet {
	return &pgPet{pool: pool}
}

func missing(id int) error {
	return pgerrors.Missing{Table: "pet", Identity: strconv.Itoa(id)}
}

// referenceError converts a foreign key violation into ErrMissing of the referent.
func referenceError(err error) error {
	err = pgerrors.Classify(err)
	var v pgerrors.Violation
	if errors.As(err, &v) && errors.Is(err, domerr.ErrInUse) {
		return pgerrors.Missing{Table: "owner or veterinarian", Identity: v.Constraint}
	}
	return err
}

func (m *pgPet) List(ctx context.Context, q domain.PetQuery) ([]domain.PetSummary, error) {
	conds := query.New()
	conds.AnyOf(q.Search, `p."pet_name"`, `p."pet_type"`, `p."identification"`, `o."full_name"`)
	if q.OwnerId != 0 {
		conds.And(`p."owner_id" = ` + conds.Arg(q.OwnerId))
	}
	if q.VetId != 0 {
		conds.And(`p."vet_id" = ` + conds.Arg(q.VetId))
	}

	rs, err := m.pool.Query(
		ctx,
		`select `+rows.PetSummaryColumns()+` from `+rows.PetSummaryFrom+` `+conds.Where()+`
		order by p."pet_name", p."id"`,
		conds.Args()...,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	pets, err := rows.Collect(rs, rows.ScanPetSummary)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return pets, nil
}

func (m *pgPet) Get(ctx context.Context, id int) (domain.PetDetail, error) {
	summary, err := rows.ScanPetSummary(m.pool.QueryRow(
		ctx,
		`select `+rows.PetSummaryColumns()+` from `+rows.PetSummaryFrom+` where p."id" = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PetDetail{}, xe.Wrap(missing(id))
	}
	if err != nil {
		return domain.PetDetail{}, xe.Wrap(err)
	}
	detail := domain.PetDetail{PetSummary: summary}

	rs, err := m.pool.Query(
		ctx,
		`select `+rows.VaccineColumns("t")+`, `+rows.TreatmentNames+` from `+rows.TreatmentFrom("vaccine")+`
		where t."pet_id" = $1 order by t."date" desc nulls last, t."id" desc`,
		id,
	)
	if err != nil {
		return domain.PetDetail{}, xe.Wrap(err)
	}
	if detail.Vaccines, err = rows.Collect(rs, rows.ScanVaccineRecord); err != nil {
		return domain.PetDetail{}, xe.Wrap(err)
	}

	rs, err = m.pool.Query(
		ctx,
		`select `+rows.MedicineColumns("t")+`, `+rows.TreatmentNames+` from `+rows.TreatmentFrom("medicine")+`
		where t."pet_id" = $1 order by t."created_at" desc, t."id" desc`,
		id,
	)
	if err != nil {
		return domain.PetDetail{}, xe.Wrap(err)
	}
	if detail.Medicines, err = rows.Collect(rs, rows.ScanMedicineRecord); err != nil {
		return domain.PetDetail{}, xe.Wrap(err)
	}

	rs, err = m.pool.Query(
		ctx,
		`select `+rows.AppointmentRecordColumns()+` from `+rows.AppointmentRecordFrom+`
		where a."pet_id" = $1 order by a."time" desc, a."id" desc`,
		id,
	)
	if err != nil {
		return domain.PetDetail{}, xe.Wrap(err)
	}
	if detail.Appointments, err = rows.Collect(rs, rows.ScanAppointmentRecord); err != nil {
		return domain.PetDetail{}, xe.Wrap(err)
	}

	return detail, nil
}

func (m *pgPet) Create(ctx context.Context, p domain.Pet) (domain.Pet, error) {
	img := p.Img
	if img == "" {
		img = domain.DefaultImage
	}
	created, err := rows.ScanPet(m.pool.QueryRow(
		ctx,
		`insert into "pet" as p
			("img", "pet_type", "pet_name", "age", "sex", "weight", "height", "identification",
			 "owner_id", "vet_id", "created_by", "updated_by")
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, `+rows.Actor("$11")+`, `+rows.Actor("$11")+`)
		returning `+rows.PetColumns("p"),
		img, p.PetType, p.PetName, p.Age, p.Sex, p.Weight, p.Height, p.Identification,
		p.OwnerId, query.NullableId(p.VetId), p.CreatedBy,
	))
	if err != nil {
		return domain.Pet{}, xe.Wrap(referenceError(err))
	}
	return created, nil
}

func (m *pgPet) Update(ctx context.Context, p domain.Pet) (domain.Pet, error) {
	updated, err := rows.ScanPet(m.pool.QueryRow(
		ctx,
		`update "pet" as p set
			"img" = $2, "pet_type" = $3, "pet_name" = $4, "age" = $5, "sex" = $6,
			"weight" = $7, "height" = $8, "identification" = $9,
			"owner_id" = $10, "vet_id" = $11,
			"updated_at" = now(), "updated_by" = `+rows.Actor("$12")+`
		where p."id" = $1
		returning `+rows.PetColumns("p"),
		p.Id, p.Img, p.PetType, p.PetName, p.Age, p.Sex, p.Weight, p.Height, p.Identification,
		p.OwnerId, query.NullableId(p.VetId), p.UpdatedBy,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Pet{}, xe.Wrap(missing(p.Id))
	}
	if err != nil {
		return domain.Pet{}, xe.Wrap(referenceError(err))
	}
	return updated, nil
}

func (m *pgPet) Delete(ctx context.Context, id int) (domain.Pet, error) {
	deleted, err := rows.ScanPet(m.pool.QueryRow(
		ctx, `delete from "pet" as p where p."id" = $1 returning `+rows.PetColumns("p"), id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Pet{}, xe.Wrap(missing(id))
	}
	if err != nil {
		return domain.Pet{}, xe.Wrap(err)
	}
	return deleted, nil
}
