package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type txKey struct{}

// Tx is a transaction, or a savepoint inside one when begun from a context
// that already carries a transaction. Commit and Rollback are safe to call
// on a nil or finished Tx.
type Tx struct {
	gw        *Gateway
	tx        *sql.Tx
	savepoint string
	done      bool
}

func txFrom(ctx context.Context) *Tx {
	t, _ := ctx.Value(txKey{}).(*Tx)
	return t
}

// Begin starts a transaction. Once begun it runs to Commit or Rollback:
// cancelling ctx does not abort it midway.
func (g *Gateway) Begin(ctx context.Context) (*Tx, error) {
	if parent := txFrom(ctx); parent != nil && parent.gw == g && !parent.done {
		name := fmt.Sprintf("sp_%d", g.savepoints.Add(1))
		if _, err := parent.tx.ExecContext(context.WithoutCancel(ctx), "SAVEPOINT "+name); err != nil {
			return nil, translate("begin", err)
		}
		return &Tx{gw: g, tx: parent.tx, savepoint: name}, nil
	}

	tx, err := g.db.BeginTx(context.WithoutCancel(ctx), nil)
	if err != nil {
		g.log.Error().Err(err).Msg("begin failed")
		return nil, translate("begin", err)
	}
	return &Tx{gw: g, tx: tx}, nil
}

// Context binds the transaction to ctx so repository calls run inside it
func (t *Tx) Context(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, t)
}

// Nested reports whether the Tx is a savepoint of an outer transaction
func (t *Tx) Nested() bool {
	return t != nil && t.savepoint != ""
}

// Commit commits the transaction or releases the savepoint
func (t *Tx) Commit() error {
	if t == nil || t.done {
		return nil
	}
	var err error
	if t.savepoint != "" {
		_, err = t.tx.Exec("RELEASE SAVEPOINT " + t.savepoint)
	} else {
		err = t.tx.Commit()
	}
	if err != nil {
		return translate("commit", err)
	}
	t.done = true
	return nil
}

// Rollback aborts the transaction or rolls back to the savepoint
func (t *Tx) Rollback() error {
	if t == nil || t.done {
		return nil
	}
	t.done = true
	if t.savepoint != "" {
		if _, err := t.tx.Exec("ROLLBACK TO SAVEPOINT " + t.savepoint); err != nil {
			return translate("rollback", err)
		}
		_, err := t.tx.Exec("RELEASE SAVEPOINT " + t.savepoint)
		return translate("rollback", err)
	}
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return translate("rollback", err)
	}
	return nil
}

// InTx runs fn in a transaction bound to the context passed to it.
// Any error from fn rolls the transaction back before it is returned.
func (g *Gateway) InTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx, err := g.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx.Context(ctx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			g.log.Error().Err(rbErr).Msg("rollback failed")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return err
	}
	return nil
}
