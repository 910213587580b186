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
	kdbmedicine "github.com/opst/vettracker/pkg/domain/medicine/db"
	xe "github.com/opst/vettracker/pkg/errors"
)

type pgMedicine struct {
	pool kpool.Pool
}

var _ kdbmedicine.MedicineInterface = &pgMedicine{}

func New(pool kpool.Pool) *pgMedicine {
	return &pgMedicine{pool: pool}
}

func missing(id int) error {
	return pgerrors.Missing{Table: "medicine", Identity: strconv.Itoa(id)}
}

func classify(err error) error {
	err = pgerrors.Classify(err)
	var v pgerrors.Violation
	if errors.As(err, &v) && errors.Is(err, domerr.ErrInUse) {
		return pgerrors.Missing{Table: "pet or veterinarian", Identity: v.Constraint}
	}
	return err
}

func (m *pgMedicine) List(ctx context.Context, q domain.TreatmentQuery) ([]domain.MedicineRecord, error) {
	conds := rows.TreatmentConditions(q, "med_name")
	rs, err := m.pool.Query(
		ctx,
		`select `+rows.MedicineColumns("t")+`, `+rows.TreatmentNames+`
		from `+rows.TreatmentFrom("medicine")+` `+conds.Where()+`
		order by t."created_at" desc, t."id" desc`,
		conds.Args()...,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	records, err := rows.Collect(rs, rows.ScanMedicineRecord)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return records, nil
}

func (m *pgMedicine) Get(ctx context.Context, id int) (domain.MedicineRecord, error) {
	record, err := rows.ScanMedicineRecord(m.pool.QueryRow(
		ctx,
		`select `+rows.MedicineColumns("t")+`, `+rows.TreatmentNames+`
		from `+rows.TreatmentFrom("medicine")+` where t."id" = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MedicineRecord{}, xe.Wrap(missing(id))
	}
	if err != nil {
		return domain.MedicineRecord{}, xe.Wrap(err)
	}
	return record, nil
}

func (m *pgMedicine) Create(ctx context.Context, med domain.Medicine) (domain.Medicine, error) {
	created, err := rows.ScanMedicine(m.pool.QueryRow(
		ctx,
		`insert into "medicine" as t
			("med_name", "amount", "notice", "dose", "total", "pet_id", "vet_id", "created_by", "updated_by")
		values ($1, $2, $3, $4, $5, $6, $7, `+rows.Actor("$8")+`, `+rows.Actor("$8")+`)
		returning `+rows.MedicineColumns("t"),
		med.MedName, med.Amount, med.Notice, med.Dose, med.Total, med.PetId, query.NullableId(med.VetId), med.CreatedBy,
	))
	if err != nil {
		return domain.Medicine{}, xe.Wrap(classify(err))
	}
	return created, nil
}

func (m *pgMedicine) Update(ctx context.Context, med domain.Medicine) (domain.Medicine, error) {
	updated, err := rows.ScanMedicine(m.pool.QueryRow(
		ctx,
		`update "medicine" as t set
			"med_name" = $2, "amount" = $3, "notice" = $4, "dose" = $5, "total" = $6,
			"pet_id" = $7, "vet_id" = $8,
			"updated_at" = now(), "updated_by" = `+rows.Actor("$9")+`
		where t."id" = $1
		returning `+rows.MedicineColumns("t"),
		med.Id, med.MedName, med.Amount, med.Notice, med.Dose, med.Total, med.PetId, query.NullableId(med.VetId), med.UpdatedBy,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Medicine{}, xe.Wrap(missing(med.Id))
	}
	if err != nil {
		return domain.Medicine{}, xe.Wrap(classify(err))
	}
	return updated, nil
}

func (m *pgMedicine) Delete(ctx context.Context, id int) error {
	tag, err := m.pool.Exec(ctx, `delete from "medicine" where "id" = $1`, id)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return xe.Wrap(missing(id))
	}
	return nil
}
