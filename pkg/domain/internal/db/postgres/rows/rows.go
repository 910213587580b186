// Package rows knows columns of vettracker tables and how to scan them into domain types.
//
// Column lists take a table alias, so that they can be used in joins.
package rows

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/opst/vettracker/pkg/domain"
	"github.com/opst/vettracker/pkg/domain/internal/db/postgres/query"
)

func columns(alias string, names ...string) string {
	cols := make([]string, len(names))
	for i, n := range names {
		cols[i] = fmt.Sprintf(`%s."%s"`, alias, n)
	}
	return strings.Join(cols, ", ")
}

var auditColumns = []string{"created_at", "created_by", "updated_at", "updated_by"}

func auditDest(a *domain.Audit) []any {
	return []any{&a.CreatedAt, &a.CreatedBy, &a.UpdatedAt, &a.UpdatedBy}
}

var profileColumns = []string{
	"img", "user_name", "email", "phone_num", "password", "full_name", "dob", "gender",
}

// dateInto scans a date column into *dst. NULL is nil, and infinite dates are errors.
type dateInto struct {
	dst **time.Time
}

func (d dateInto) DecodeText(ci *pgtype.ConnInfo, src []byte) error {
	v := pgtype.Date{}
	if err := v.DecodeText(ci, src); err != nil {
		return err
	}
	return v.AssignTo(d.dst)
}

func (d dateInto) DecodeBinary(ci *pgtype.ConnInfo, src []byte) error {
	v := pgtype.Date{}
	if err := v.DecodeBinary(ci, src); err != nil {
		return err
	}
	return v.AssignTo(d.dst)
}

func profileDest(p *domain.Profile) []any {
	return []any{&p.Img, &p.UserName, &p.Email, &p.PhoneNum, &p.PasswordHash, &p.FullName, dateInto{&p.Dob}, &p.Gender}
}

func join(parts ...[]string) []string {
	all := []string{}
	for _, p := range parts {
		all = append(all, p...)
	}
	return all
}

func dest(parts ...[]any) []any {
	all := []any{}
	for _, p := range parts {
		all = append(all, p...)
	}
	return all
}

func OwnerColumns(alias string) string {
	return columns(alias, join([]string{"id"}, profileColumns, auditColumns)...)
}

// ScanOwner scans columns of OwnerColumns, followed by extra.
func ScanOwner(row pgx.Row, extra ...any) (domain.Owner, error) {
	o := domain.Owner{}
	err := row.Scan(dest([]any{&o.Id}, profileDest(&o.Profile), auditDest(&o.Audit), extra)...)
	return o, err
}

func VeterinarianColumns(alias string) string {
	return columns(alias, join(
		[]string{"id"}, profileColumns,
		[]string{"name_of_consulting_room", "clinic_address", "qualification", "experience", "authentication", "available"},
		auditColumns,
	)...)
}

// ScanVeterinarian scans columns of VeterinarianColumns, followed by extra.
func ScanVeterinarian(row pgx.Row, extra ...any) (domain.Veterinarian, error) {
	v := domain.Veterinarian{}
	var verification int16
	err := row.Scan(dest(
		[]any{&v.Id}, profileDest(&v.Profile),
		[]any{
			&v.NameOfConsultingRoom, &v.ClinicAddress, &v.Qualification, &v.Experience,
			&verification, &v.Available,
		},
		auditDest(&v.Audit), extra,
	)...)
	v.Verification = domain.Verification(verification)
	return v, err
}

func PetColumns(alias string) string {
	return columns(alias, join([]string{
		"id", "img", "pet_type", "pet_name", "age", "sex", "weight", "height", "identification",
		"owner_id", "vet_id",
	}, auditColumns)...)
}

func ScanPet(row pgx.Row, extra ...any) (domain.Pet, error) {
	p := domain.Pet{}
	err := row.Scan(dest([]any{
		&p.Id, &p.Img, &p.PetType, &p.PetName, &p.Age, &p.Sex, &p.Weight, &p.Height, &p.Identification,
		&p.OwnerId, &p.VetId,
	}, auditDest(&p.Audit), extra)...)
	return p, err
}

// PetSummaryFrom is the FROM clause for PetSummaryColumns.
//
// The pet is aliased "p", its owner "o" and its veterinarian "v".
const PetSummaryFrom = `"pet" as p
	inner join "owner" as o on o."id" = p."owner_id"
	left join "veterinarian" as v on v."id" = p."vet_id"`

func PetSummaryColumns() string {
	return PetColumns("p") + `, o."full_name", coalesce(v."full_name", '')`
}

func ScanPetSummary(row pgx.Row) (domain.PetSummary, error) {
	s := domain.PetSummary{}
	p, err := ScanPet(row, &s.OwnerName, &s.VetName)
	s.Pet = p
	return s, err
}

func VaccineColumns(alias string) string {
	return columns(alias, join([]string{
		"id", "vac_name", "date", "dose", "total", "pet_id", "vet_id",
	}, auditColumns)...)
}

func ScanVaccine(row pgx.Row, extra ...any) (domain.Vaccine, error) {
	v := domain.Vaccine{}
	err := row.Scan(dest([]any{
		&v.Id, &v.VacName, dateInto{&v.Date}, &v.Dose, &v.Total, &v.PetId, &v.VetId,
	}, auditDest(&v.Audit), extra)...)
	return v, err
}

func MedicineColumns(alias string) string {
	return columns(alias, join([]string{
		"id", "med_name", "amount", "notice", "dose", "total", "pet_id", "vet_id",
	}, auditColumns)...)
}

func ScanMedicine(row pgx.Row, extra ...any) (domain.Medicine, error) {
	m := domain.Medicine{}
	err := row.Scan(dest([]any{
		&m.Id, &m.MedName, &m.Amount, &m.Notice, &m.Dose, &m.Total, &m.PetId, &m.VetId,
	}, auditDest(&m.Audit), extra)...)
	return m, err
}

// TreatmentFrom is the FROM clause of vaccine or medicine records.
//
// The record is aliased "t", its pet "p", the pet owner "o" and the veterinarian "v".
func TreatmentFrom(table string) string {
	return fmt.Sprintf(`"%s" as t
	inner join "pet" as p on p."id" = t."pet_id"
	inner join "owner" as o on o."id" = p."owner_id"
	left join "veterinarian" as v on v."id" = t."vet_id"`, table)
}

// TreatmentNames are the extra columns of vaccine or medicine records: pet name and veterinarian name.
const TreatmentNames = `p."pet_name", coalesce(v."full_name", '')`

func ScanVaccineRecord(row pgx.Row) (domain.VaccineRecord, error) {
	r := domain.VaccineRecord{}
	v, err := ScanVaccine(row, &r.PetName, &r.VetName)
	r.Vaccine = v
	return r, err
}

func ScanMedicineRecord(row pgx.Row) (domain.MedicineRecord, error) {
	r := domain.MedicineRecord{}
	m, err := ScanMedicine(row, &r.PetName, &r.VetName)
	r.Medicine = m
	return r, err
}

func AppointmentColumns(alias string) string {
	return columns(alias, join([]string{"id", "time", "status", "pet_id", "vet_id"}, auditColumns)...)
}

func ScanAppointment(row pgx.Row, extra ...any) (domain.Appointment, error) {
	a := domain.Appointment{}
	var status int16
	err := row.Scan(dest([]any{&a.Id, &a.Time, &status, &a.PetId, &a.VetId}, auditDest(&a.Audit), extra)...)
	a.Status = domain.AppointmentStatus(status)
	return a, err
}

// AppointmentRecordFrom is the FROM clause for AppointmentRecordColumns.
//
// The appointment is aliased "a", its pet "p", the pet owner "o" and the veterinarian "v".
const AppointmentRecordFrom = `"appointment" as a
	inner join "pet" as p on p."id" = a."pet_id"
	inner join "owner" as o on o."id" = p."owner_id"
	left join "veterinarian" as v on v."id" = a."vet_id"`

func AppointmentRecordColumns() string {
	return AppointmentColumns("a") +
		`, p."pet_name", p."pet_type", o."id", o."full_name", coalesce(v."full_name", '')`
}

func ScanAppointmentRecord(row pgx.Row) (domain.AppointmentRecord, error) {
	r := domain.AppointmentRecord{}
	a, err := ScanAppointment(row, &r.PetName, &r.PetType, &r.OwnerId, &r.OwnerName, &r.VetName)
	r.Appointment = a
	return r, err
}

// Collect scans all rows with scan.
func Collect[T any](rs pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rs.Close()
	items := []T{}
	for rs.Next() {
		item, err := scan(rs)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Actor is the SQL expression of the audit actor given by placeholder.
//
// Empty actors are recorded as "system".
func Actor(placeholder string) string {
	return fmt.Sprintf(`coalesce(nullif(%s::varchar, ''), 'system')`, placeholder)
}

// TreatmentConditions narrows vaccine or medicine records in TreatmentFrom.
//
// nameColumn is the column of vaccine or medicine name in "t".
func TreatmentConditions(q domain.TreatmentQuery, nameColumn string) *query.Conditions {
	conds := query.New()
	conds.AnyOf(q.Search, `t."`+nameColumn+`"`, `t."dose"`, `p."pet_name"`, `v."full_name"`)
	if q.PetId != 0 {
		conds.And(`t."pet_id" = ` + conds.Arg(q.PetId))
	}
	if q.VetId != 0 {
		conds.And(`t."vet_id" = ` + conds.Arg(q.VetId))
	}
	if q.OwnerId != 0 {
		conds.And(`p."owner_id" = ` + conds.Arg(q.OwnerId))
	}
	return conds
}
