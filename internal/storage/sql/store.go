package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"example.com/userdir/internal/domain"
	"example.com/userdir/internal/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

type dialect struct {
	schema      string
	tableExists string
	// lockRow is appended to the select that reads a row before changing it.
	// SQLite runs on one connection, which already serialises writers.
	lockRow string
}

var dialects = map[string]dialect{
	DriverSQLite: {
		schema: `
		create table if not exists users (
			id integer primary key autoincrement,
			name text not null
		)`,
		tableExists: `select count(*) > 0 from sqlite_master where type = 'table' and name = 'users'`,
	},
	DriverPostgres: {
		schema: `
		create table if not exists users (
			id bigserial primary key,
			name text not null
		)`,
		tableExists: `select to_regclass('users') is not null`,
		lockRow:     " for update",
	},
}

// Store is a UserRepository backed by a SQL database. Ids come from the
// database sequence, which never hands out a deleted id again.
type Store struct {
	db      *sqlx.DB
	dialect dialect
}

// Open connects with the given driver, creates the users table when missing
// and seeds it on first creation. For SQLite the dsn is a file path.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	if dsn == "" {
		return nil, errors.New("empty dsn")
	}
	if driver == DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		dsn += "?_pragma=busy_timeout(5000)"
	}
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}
	s := &Store{db: db, dialect: d}
	if err := s.migrate(ctx, d); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context, d dialect) error {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, d.tableExists); err != nil {
		return fmt.Errorf("check users table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, d.schema); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	if exists {
		return nil
	}
	// Seeds go through the sequence so ids 1..3 are consumed in order.
	for _, u := range domain.SeedUsers() {
		if _, err := s.Create(ctx, u.Name); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}
	log.Printf("sql store: seeded %d users", len(domain.SeedUsers()))
	return nil
}

func (s *Store) List(ctx context.Context) ([]domain.User, error) {
	res := make([]domain.User, 0, 16)
	if err := s.db.SelectContext(ctx, &res, `select id, name from users order by id`); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) Create(ctx context.Context, name string) (domain.User, error) {
	u := domain.User{Name: name}
	q := s.db.Rebind(`insert into users (name) values (?) returning id`)
	if err := s.db.QueryRowxContext(ctx, q, name).Scan(&u.ID); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// Update locks the row while reading the previous name, so a concurrent
// delete either runs first and turns this into ErrNotFound or waits for it.
func (s *Store) Update(ctx context.Context, id int64, name string) (domain.User, domain.User, error) {
	var before, after domain.User
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		q := tx.Rebind(`select id, name from users where id = ?` + s.dialect.lockRow)
		if err := notFound(tx.GetContext(ctx, &before, q, id)); err != nil {
			return err
		}
		q = tx.Rebind(`update users set name = ? where id = ? returning id, name`)
		return notFound(tx.GetContext(ctx, &after, q, name, id))
	})
	if err != nil {
		return domain.User{}, domain.User{}, err
	}
	return before, after, nil
}

// Delete is a single statement: of two concurrent deletes only one gets the row back.
func (s *Store) Delete(ctx context.Context, id int64) (domain.User, error) {
	var removed domain.User
	q := s.db.Rebind(`delete from users where id = ? returning id, name`)
	if err := notFound(s.db.GetContext(ctx, &removed, q, id)); err != nil {
		return domain.User{}, err
	}
	return removed, nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}
