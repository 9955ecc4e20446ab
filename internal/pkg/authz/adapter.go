package authz

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/persist"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/lo"
)

const (
	ruleColumns = 6
	ruleTable   = "authz_rules"
)

// DB is the part of pgxpool.Pool the adapter uses.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgxAdapter keeps casbin rules in the authz_rules table, one rule per row in
// columns ptype, v0..v5.
type PgxAdapter struct {
	db  DB
	ctx context.Context
}

var _ persist.Adapter = (*PgxAdapter)(nil)

// NewPgxAdapter binds ctx to the adapter because casbin calls it without one.
func NewPgxAdapter(ctx context.Context, db DB) *PgxAdapter {
	return &PgxAdapter{db: db, ctx: ctx}
}

func (a *PgxAdapter) LoadPolicy(m model.Model) error {
	rows, err := a.db.Query(a.ctx, "SELECT ptype, v0, v1, v2, v3, v4, v5 FROM "+ruleTable+" ORDER BY id")
	if err != nil {
		return fmt.Errorf("authz: load rules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ptype string
		var vs [ruleColumns]string
		if err := rows.Scan(&ptype, &vs[0], &vs[1], &vs[2], &vs[3], &vs[4], &vs[5]); err != nil {
			return fmt.Errorf("authz: scan rule: %w", err)
		}
		if err := persist.LoadPolicyArray(ruleLine(ptype, vs[:]), m); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (a *PgxAdapter) SavePolicy(m model.Model) error {
	tx, err := a.db.Begin(a.ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(a.ctx) }()

	if _, err := tx.Exec(a.ctx, "DELETE FROM "+ruleTable); err != nil {
		return err
	}

	for _, sec := range []string{"p", "g"} {
		for ptype, ast := range m[sec] {
			for _, rule := range ast.Policy {
				if _, err := tx.Exec(a.ctx, insertRuleSQL, ruleArgs(ptype, rule)...); err != nil {
					return err
				}
			}
		}
	}

	return tx.Commit(a.ctx)
}

const insertRuleSQL = "INSERT INTO " + ruleTable + " (ptype, v0, v1, v2, v3, v4, v5) " +
	"VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT DO NOTHING"

func (a *PgxAdapter) AddPolicy(_ string, ptype string, rule []string) error {
	_, err := a.db.Exec(a.ctx, insertRuleSQL, ruleArgs(ptype, rule)...)
	return err
}

func (a *PgxAdapter) RemovePolicy(_ string, ptype string, rule []string) error {
	_, err := a.db.Exec(a.ctx, "DELETE FROM "+ruleTable+" WHERE ptype = $1 AND v0 = $2 AND v1 = $3 AND v2 = $4 AND v3 = $5 AND v4 = $6 AND v5 = $7",
		ruleArgs(ptype, rule)...)
	return err
}

func (a *PgxAdapter) RemoveFilteredPolicy(_ string, ptype string, fieldIndex int, fieldValues ...string) error {
	sql, args := filteredDelete(ptype, fieldIndex, fieldValues)
	_, err := a.db.Exec(a.ctx, sql, args...)
	return err
}

func filteredDelete(ptype string, fieldIndex int, fieldValues []string) (string, []any) {
	var b strings.Builder
	b.WriteString("DELETE FROM " + ruleTable + " WHERE ptype = $1")
	args := []any{ptype}
	for i, v := range fieldValues {
		col := fieldIndex + i
		if v == "" || col >= ruleColumns {
			continue
		}
		args = append(args, v)
		b.WriteString(" AND v" + strconv.Itoa(col) + " = $" + strconv.Itoa(len(args)))
	}
	return b.String(), args
}

func ruleArgs(ptype string, rule []string) []any {
	padded := lo.Times(ruleColumns, func(i int) string {
		if i < len(rule) {
			return rule[i]
		}
		return ""
	})
	return append([]any{ptype}, lo.ToAnySlice(padded)...)
}

// ruleLine drops trailing empty columns so casbin sees the rule's real arity.
func ruleLine(ptype string, vs []string) []string {
	return append([]string{ptype}, lo.DropRightWhile(vs, lo.IsEmpty[string])...)
}
