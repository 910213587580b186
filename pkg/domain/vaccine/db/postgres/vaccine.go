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
	kdbvaccine "github.com/opst/vettracker/pkg/domain/vaccine/db"
	xe "github.com/opst/vettracker/pkg/errors"
)

type pgVaccine struct {
	pool kpool.Pool
}

var _ kdbvaccine.VaccineInterface = &pgVaccine{}

func New(pool kpool.Pool) *pgVaccine {
	return &pgVaccine{pool: pool}
}

func missing(id int) error {
	return pgerrors.Missing{Table: "vaccine", Identity: strconv.Itoa(id)}
}

func classify(err error) error {
	err = pgerrors.Classify(err)
	var v pgerrors.Violation
	if errors.As(err, &v) && errors.Is(err, domerr.ErrInUse) {
		return pgerrors.Missing{Table: "pet or veterinarian", Identity: v.Constraint}
	}
	return err
}

func (m *pgVaccine) List(ctx context.Context, q domain.TreatmentQuery) ([]domain.VaccineRecord, error) {
	conds := rows.TreatmentConditions(q, "vac_name")
	rs, err := m.pool.Query(
		ctx,
		`select `+rows.VaccineColumns("t")+`, `+rows.TreatmentNames+`
		from `+rows.TreatmentFrom("vaccine")+` `+conds.Where()+`
		order by t."date" desc nulls last, t."id" desc`,
		conds.Args()...,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	records, err := rows.Collect(rs, rows.ScanVaccineRecord)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return records, nil
}

func (m *pgVaccine) Get(ctx context.Context, id int) (domain.VaccineRecord, error) {
	record, err := rows.ScanVaccineRecord(m.pool.QueryRow(
		ctx,
		`select `+rows.VaccineColumns("t")+`, `+rows.TreatmentNames+`
		from `+rows.TreatmentFrom("vaccine")+` where t."id" = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.VaccineRecord{}, xe.Wrap(missing(id))
	}
	if err != nil {
		return domain.VaccineRecord{}, xe.Wrap(err)
	}
	return record, nil
}

func (m *pgVaccine) Create(ctx context.Context, v domain.Vaccine) (domain.Vaccine, error) {
	created, err := rows.ScanVaccine(m.pool.QueryRow(
		ctx,
		`insert into "vaccine" as t
			("vac_name", "date", "dose", "total", "pet_id", "vet_id", "created_by", "updated_by")
		values ($1, $2, $3, $4, $5, $6, `+rows.Actor("$7")+`, `+rows.Actor("$7")+`)
		returning `+rows.VaccineColumns("t"),
		v.VacName, v.Date, v.Dose, v.Total, v.PetId, query.NullableId(v.VetId), v.CreatedBy,
	))
	if err != nil {
		return domain.Vaccine{}, xe.Wrap(classify(err))
	}
	return created, nil
}

func (m *pgVaccine) Update(ctx context.Context, v domain.Vaccine) (domain.Vaccine, error) {
	updated, err := rows.ScanVaccine(m.pool.QueryRow(
		ctx,
		`update "vaccine" as t set
			"vac_name" = $2, "date" = $3, "dose" = $4, "total" = $5, "pet_id" = $6, "vet_id" = $7,
			"updated_at" = now(), "updated_by" = `+rows.Actor("$8")+`
		where t."id" = $1
		returning `+rows.VaccineColumns("t"),
		v.Id, v.VacName, v.Date, v.Dose, v.Total, v.PetId, query.NullableId(v.VetId), v.UpdatedBy,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Vaccine{}, xe.Wrap(missing(v.Id))
	}
	if err != nil {
		return domain.Vaccine{}, xe.Wrap(classify(err))
	}
	return updated, nil
}

func (m *pgVaccine) Delete(ctx context.Context, id int) error {
	tag, err := m.pool.Exec(ctx, `delete from "vaccine" where "id" = $1`, id)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return xe.Wrap(missing(id))
	}
	return nil
}
