package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	domerr "github.com/opst/vettracker/pkg/domain/errors"
)

// Missing: requested row is not found.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}

func (m Missing) Unwrap() error {
	return domerr.ErrMissing
}

// Violation: a constraint rejects the change.
//
// It unwraps to ErrConflict for unique violations and ErrInUse for foreign key violations.
type Violation struct {
	Table      string
	Constraint string
	kind       error
	cause      error
}

var _ error = Violation{}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s violates %s: %s", v.kind, v.Table, v.Constraint, v.cause)
}

func (v Violation) Unwrap() []error {
	return []error{v.kind, v.cause}
}

// Classify converts constraint violations reported by postgres into Violation.
//
// Other errors are returned as they are.
func Classify(err error) error {
	var pgerr *pgconn.PgError
	if !errors.As(err, &pgerr) {
		return err
	}

	switch pgerr.Code {
	case pgerrcode.UniqueViolation:
		return Violation{Table: pgerr.TableName, Constraint: pgerr.ConstraintName, kind: domerr.ErrConflict, cause: err}
	case pgerrcode.ForeignKeyViolation:
		return Violation{Table: pgerr.TableName, Constraint: pgerr.ConstraintName, kind: domerr.ErrInUse, cause: err}
	default:
		return err
	}
}
