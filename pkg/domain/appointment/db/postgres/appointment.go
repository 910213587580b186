package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/vettracker/pkg/conn/db/postgres/pool"
	"github.com/opst/vettracker/pkg/domain"
	kdbappointment "github.com/opst/vettracker/pkg/domain/appointment/db"
	domerr "github.com/opst/vettracker/pkg/domain/errors"
	pgerrors "github.com/opst/vettracker/pkg/domain/errors/dberrors/postgres"
	"github.com/opst/vettracker/pkg/domain/internal/db/postgres/query"
	"github.com/opst/vettracker/pkg/domain/internal/db/postgres/rows"
	xe "github.com/opst/vettracker/pkg/errors"
)

type pgAppointment struct {
	pool kpool.Pool
}

var _ kdbappointment.AppointmentInterface = &pgAppointment{}

func New(pool kpool.Pool) *pgAppointment {
	return &pgAppointment{pool: pool}
}

func missing(id int) error {
	return pgerrors.Missing{Table: "appointment", Identity: strconv.Itoa(id)}
}

func classify(err error) error {
	err = pgerrors.Classify(err)
	var v pgerrors.Violation
	if errors.As(err, &v) && errors.Is(err, domerr.ErrInUse) {
		return pgerrors.Missing{Table: "pet or veterinarian", Identity: v.Constraint}
	}
	return err
}

func (m *pgAppointment) List(ctx context.Context, f domain.AppointmentFilter) ([]domain.AppointmentRecord, error) {
	conds := query.New()
	conds.AnyOf(
		f.Search,
		`p."pet_name"`, `p."pet_type"`, `o."full_name"`, `v."full_name"`,
		`to_char(a."time", 'YYYY-MM-DD HH24:MI')`,
	)
	if f.From != nil {
		conds.And(`a."time" >= ` + conds.Arg(*f.From))
	}
	if f.To != nil {
		conds.And(`a."time" < ` + conds.Arg(*f.To))
	}
	if f.Status != nil {
		conds.And(`a."status" = ` + conds.Arg(int16(*f.Status)))
	}
	if f.VetId != 0 {
		conds.And(`a."vet_id" = ` + conds.Arg(f.VetId))
	}
	if f.OwnerId != 0 {
		conds.And(`p."owner_id" = ` + conds.Arg(f.OwnerId))
	}
	if f.PetId != 0 {
		conds.And(`a."pet_id" = ` + conds.Arg(f.PetId))
	}

	order := `a."time" desc, a."id" desc`
	if f.Ascending {
		order = `a."time" asc, a."id" asc`
	}

	rs, err := m.pool.Query(
		ctx,
		`select `+rows.AppointmentRecordColumns()+` from `+rows.AppointmentRecordFrom+` `+conds.Where()+`
		order by `+order,
		conds.Args()...,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	records, err := rows.Collect(rs, rows.ScanAppointmentRecord)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return records, nil
}

func (m *pgAppointment) Get(ctx context.Context, id int) (domain.AppointmentRecord, error) {
	return m.get(ctx, m.pool, id)
}

func (m *pgAppointment) get(ctx context.Context, q kpool.Queryer, id int) (domain.AppointmentRecord, error) {
	record, err := rows.ScanAppointmentRecord(q.QueryRow(
		ctx,
		`select `+rows.AppointmentRecordColumns()+` from `+rows.AppointmentRecordFrom+` where a."id" = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AppointmentRecord{}, xe.Wrap(missing(id))
	}
	if err != nil {
		return domain.AppointmentRecord{}, xe.Wrap(err)
	}
	return record, nil
}

func (m *pgAppointment) Create(ctx context.Context, a domain.Appointment) (domain.Appointment, error) {
	created, err := rows.ScanAppointment(m.pool.QueryRow(
		ctx,
		`insert into "appointment" as a ("time", "status", "pet_id", "vet_id", "created_by", "updated_by")
		values ($1, $2, $3, $4, `+rows.Actor("$5")+`, `+rows.Actor("$5")+`)
		returning `+rows.AppointmentColumns("a"),
		a.Time, int16(a.Status), a.PetId, query.NullableId(a.VetId), a.CreatedBy,
	))
	if err != nil {
		return domain.Appointment{}, xe.Wrap(classify(err))
	}
	return created, nil
}

func (m *pgAppointment) Update(ctx context.Context, a domain.Appointment) (domain.Appointment, error) {
	updated, err := rows.ScanAppointment(m.pool.QueryRow(
		ctx,
		`update "appointment" as a set
			"time" = $2, "status" = $3, "pet_id" = $4, "vet_id" = $5,
			"updated_at" = now(), "updated_by" = `+rows.Actor("$6")+`
		where a."id" = $1
		returning `+rows.AppointmentColumns("a"),
		a.Id, a.Time, int16(a.Status), a.PetId, query.NullableId(a.VetId), a.UpdatedBy,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Appointment{}, xe.Wrap(missing(a.Id))
	}
	if err != nil {
		return domain.Appointment{}, xe.Wrap(classify(err))
	}
	return updated, nil
}

func (m *pgAppointment) SetStatus(ctx context.Context, id int, vetId int, status domain.AppointmentStatus, updatedBy string) (domain.AppointmentRecord, error) {
	var record domain.AppointmentRecord
	err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		tag, err := tx.Exec(
			ctx,
			`update "appointment" set
				"status" = $2, "updated_at" = now(), "updated_by" = `+rows.Actor("$4")+`
			where "id" = $1 and ($3 = 0 or "vet_id" = $3)`,
			id, int16(status), vetId, updatedBy,
		)
		if err != nil {
			return xe.Wrap(err)
		}
		if tag.RowsAffected() == 0 {
			return xe.Wrap(missing(id))
		}
		record, err = m.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return domain.AppointmentRecord{}, err
	}
	return record, nil
}

func (m *pgAppointment) Delete(ctx context.Context, id int) error {
	tag, err := m.pool.Exec(ctx, `delete from "appointment" where "id" = $1`, id)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return xe.Wrap(missing(id))
	}
	return nil
}
