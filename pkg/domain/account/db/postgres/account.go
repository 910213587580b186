package postgres

import (
	"context"

	kpool "github.com/opst/vettracker/pkg/conn/db/postgres/pool"
	"github.com/opst/vettracker/pkg/domain"
	kdbaccount "github.com/opst/vettracker/pkg/domain/account/db"
	xe "github.com/opst/vettracker/pkg/errors"
)

type pgAccount struct {
	pool kpool.Pool
}

var _ kdbaccount.AccountInterface = &pgAccount{}

func New(pool kpool.Pool) *pgAccount {
	return &pgAccount{pool: pool}
}

func (m *pgAccount) Taken(ctx context.Context, userName string, email string, except *domain.Recipient) (bool, bool, error) {
	exceptRole, exceptId := "", 0
	if except != nil {
		exceptRole, exceptId = string(except.Role), except.UserId
	}

	var userNameTaken, emailTaken bool
	if err := m.pool.QueryRow(
		ctx,
		`with "account" as (
			select 'owner' as "role", "id", "user_name", "email" from "owner"
			union all
			select 'veterinarian' as "role", "id", "user_name", "email" from "veterinarian"
		), "others" as (
			select * from "account" where not ("role" = $3 and "id" = $4)
		)
		select
			$1::varchar <> '' and exists (select 1 from "others" where lower("user_name") = lower($1::varchar)),
			$2::varchar <> '' and exists (select 1 from "others" where lower("email") = lower($2::varchar))`,
		userName, email, exceptRole, exceptId,
	).Scan(&userNameTaken, &emailTaken); err != nil {
		return false, false, xe.Wrap(err)
	}
	return userNameTaken, emailTaken, nil
}
