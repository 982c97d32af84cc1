package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrLeadNotFound = errors.New("lead not found")
)

const isoDate = "2006-01-02"

// Store is the persistence contract used by the bot and the digest scheduler.
// Calendar-date comparisons take the caller's "today" so the deployment
// timezone stays a single decision made at the boundary.
type Store interface {
	GetUser(ctx context.Context, telegramID int64) (*User, error)
	CreateUser(ctx context.Context, telegramID int64, name string) (*User, error)
	SetOutOfOffice(ctx context.Context, telegramID int64, until *time.Time) error
	ActiveUsers(ctx context.Context, today time.Time) ([]User, error)
	AllUsers(ctx context.Context) ([]User, error)

	AddLead(ctx context.Context, userID int64, name, company, nextSteps string, followUp *time.Time) (*Lead, error)
	Leads(ctx context.Context, userID int64, status LeadStatus) ([]Lead, error)
	LeadByID(ctx context.Context, id int64) (*Lead, error)
	UpdateLead(ctx context.Context, id int64, patch LeadPatch) error
	CompleteLead(ctx context.Context, id int64, status LeadStatus) error
	LeadsDueToday(ctx context.Context, userID int64, today time.Time) ([]Lead, error)
	OverdueLeads(ctx context.Context, userID int64, today time.Time) ([]Lead, error)
	LeadsDueThisWeek(ctx context.Context, userID int64, start, end time.Time) ([]Lead, error)
}

type Config struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// PostgresStore implements Store on Postgres via bun.
type PostgresStore struct {
	db  *bun.DB
	now func() time.Time
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(cfg Config) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("database dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())

	return &PostgresStore{db: db, now: time.Now}, nil
}

func MustNewPostgresStore(cfg Config) *PostgresStore {
	st, err := NewPostgresStore(cfg)
	if err != nil {
		panic(err)
	}
	return st
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) GetUser(ctx context.Context, telegramID int64) (*User, error) {
	user := new(User)
	err := s.db.NewSelect().Model(user).Where("telegram_id = ?", telegramID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, telegramID int64, name string) (*User, error) {
	user := &User{
		TelegramID: telegramID,
		Name:       strings.TrimSpace(name),
	}
	if _, err := s.db.NewInsert().Model(user).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) SetOutOfOffice(ctx context.Context, telegramID int64, until *time.Time) error {
	q := s.db.NewUpdate().
		Model((*User)(nil)).
		Where("telegram_id = ?", telegramID)
	if until != nil {
		q = q.Set("ooo_until = ?", until.Format(isoDate))
	} else {
		q = q.Set("ooo_until = NULL")
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("set out of office: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ActiveUsers returns users that should receive reminders: no OOO set, or an
// OOO date that has already passed.
func (s *PostgresStore) ActiveUsers(ctx context.Context, today time.Time) ([]User, error) {
	var users []User
	err := s.db.NewSelect().
		Model(&users).
		Where("ooo_until IS NULL OR ooo_until < ?", today.Format(isoDate)).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("active users: %w", err)
	}
	return users, nil
}

func (s *PostgresStore) AllUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.db.NewSelect().Model(&users).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("all users: %w", err)
	}
	return users, nil
}

func (s *PostgresStore) AddLead(ctx context.Context, userID int64, name, company, nextSteps string, followUp *time.Time) (*Lead, error) {
	lead := &Lead{
		UserID:       userID,
		Name:         name,
		Company:      company,
		NextSteps:    nextSteps,
		FollowUpDate: followUp,
		Status:       LeadActive,
	}
	if _, err := s.db.NewInsert().Model(lead).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("add lead: %w", err)
	}
	return lead, nil
}

func (s *PostgresStore) Leads(ctx context.Context, userID int64, status LeadStatus) ([]Lead, error) {
	var leads []Lead
	err := s.db.NewSelect().
		Model(&leads).
		Where("user_id = ?", userID).
		Where("status = ?", status).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leads: %w", err)
	}
	return leads, nil
}

func (s *PostgresStore) LeadByID(ctx context.Context, id int64) (*Lead, error) {
	lead := new(Lead)
	err := s.db.NewSelect().Model(lead).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("lead by id: %w", err)
	}
	return lead, nil
}

func (s *PostgresStore) UpdateLead(ctx context.Context, id int64, patch LeadPatch) error {
	if patch.Empty() {
		return nil
	}

	q := s.db.NewUpdate().
		Model((*Lead)(nil)).
		Where("id = ?", id).
		Set("updated_at = ?", s.now().UTC())
	if patch.NextSteps != nil {
		q = q.Set("next_steps = ?", *patch.NextSteps)
	}
	if patch.FollowUpDate != nil {
		q = q.Set("follow_up_date = ?", patch.FollowUpDate.Format(isoDate))
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrLeadNotFound
	}
	return nil
}

func (s *PostgresStore) CompleteLead(ctx context.Context, id int64, status LeadStatus) error {
	if !status.Terminal() {
		return fmt.Errorf("complete lead: status %q is not terminal", status)
	}

	res, err := s.db.NewUpdate().
		Model((*Lead)(nil)).
		Where("id = ?", id).
		Where("status = ?", LeadActive).
		Set("status = ?", status).
		Set("updated_at = ?", s.now().UTC()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("complete lead: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrLeadNotFound
	}
	return nil
}

func (s *PostgresStore) LeadsDueToday(ctx context.Context, userID int64, today time.Time) ([]Lead, error) {
	var leads []Lead
	err := s.db.NewSelect().
		Model(&leads).
		Where("user_id = ?", userID).
		Where("status = ?", LeadActive).
		Where("follow_up_date = ?", today.Format(isoDate)).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leads due today: %w", err)
	}
	return leads, nil
}

func (s *PostgresStore) OverdueLeads(ctx context.Context, userID int64, today time.Time) ([]Lead, error) {
	var leads []Lead
	err := s.db.NewSelect().
		Model(&leads).
		Where("user_id = ?", userID).
		Where("status = ?", LeadActive).
		Where("follow_up_date < ?", today.Format(isoDate)).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("overdue leads: %w", err)
	}
	return leads, nil
}

func (s *PostgresStore) LeadsDueThisWeek(ctx context.Context, userID int64, start, end time.Time) ([]Lead, error) {
	var leads []Lead
	err := s.db.NewSelect().
		Model(&leads).
		Where("user_id = ?", userID).
		Where("status = ?", LeadActive).
		Where("follow_up_date >= ?", start.Format(isoDate)).
		Where("follow_up_date <= ?", end.Format(isoDate)).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leads due this week: %w", err)
	}
	return leads, nil
}
