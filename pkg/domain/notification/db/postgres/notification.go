package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	kpool "github.com/opst/vettracker/pkg/conn/db/postgres/pool"
	"github.com/opst/vettracker/pkg/domain"
	"github.com/opst/vettracker/pkg/domain/internal/db/postgres/query"
	"github.com/opst/vettracker/pkg/domain/internal/db/postgres/rows"
	kdbnotif "github.com/opst/vettracker/pkg/domain/notification/db"
	xe "github.com/opst/vettracker/pkg/errors"
)

type pgNotification struct {
	pool kpool.Pool
}

var _ kdbnotif.NotificationInterface = &pgNotification{}

func New(pool kpool.Pool) *pgNotification {
	return &pgNotification{pool: pool}
}

const notificationColumns = `"id", "recipient_role", "recipient_id", "kind", "message", "read", "created_at"`

func scan(row pgx.Row) (domain.Notification, error) {
	n := domain.Notification{}
	var role, kind string
	err := row.Scan(&n.Id, &role, &n.Recipient.UserId, &kind, &n.Message, &n.Read, &n.CreatedAt)
	n.Recipient.Role = domain.Role(role)
	n.Kind = domain.NotificationKind(kind)
	return n, err
}

func (m *pgNotification) Add(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	added, err := scan(m.pool.QueryRow(
		ctx,
		`insert into "notification" ("recipient_role", "recipient_id", "kind", "message", "read")
		values ($1, $2, $3, $4, $5)
		returning `+notificationColumns,
		string(n.Recipient.Role), n.Recipient.UserId, string(n.Kind), n.Message, n.Read,
	))
	if err != nil {
		return domain.Notification{}, xe.Wrap(err)
	}
	return added, nil
}

func (m *pgNotification) List(ctx context.Context, recipient domain.Recipient, unreadOnly bool, limit int) ([]domain.Notification, error) {
	conds := query.New()
	conds.And(`"recipient_role" = ` + conds.Arg(string(recipient.Role)))
	conds.And(`"recipient_id" = ` + conds.Arg(recipient.UserId))
	if unreadOnly {
		conds.And(`not "read"`)
	}
	sql := `select ` + notificationColumns + ` from "notification" ` + conds.Where() +
		` order by "created_at" desc, "id" desc`
	if 0 < limit {
		sql += ` limit ` + conds.Arg(limit)
	}

	rs, err := m.pool.Query(ctx, sql, conds.Args()...)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	ns, err := rows.Collect(rs, scan)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return ns, nil
}

func (m *pgNotification) MarkRead(ctx context.Context, recipient domain.Recipient, ids []int) (int, error) {
	conds := query.New()
	conds.And(`"recipient_role" = ` + conds.Arg(string(recipient.Role)))
	conds.And(`"recipient_id" = ` + conds.Arg(recipient.UserId))
	conds.And(`not "read"`)
	if len(ids) != 0 {
		conds.And(`"id" = any(` + conds.Arg(ids) + `::integer[])`)
	}
	tag, err := m.pool.Exec(ctx, `update "notification" set "read" = true `+conds.Where(), conds.Args()...)
	if err != nil {
		return 0, xe.Wrap(err)
	}
	return int(tag.RowsAffected()), nil
}
