// Package postgres provides PostgreSQL database adapters.
//
// It implements the profile repository port used as the fallback text
// source for resume analysis and as the identity check behind the API.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
)

// PgxPool is a minimal subset of pgxpool used by the repos for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ProfileRepo loads stored job-seeker profiles using a minimal pgx pool.
type ProfileRepo struct{ Pool PgxPool }

// NewProfileRepo constructs a ProfileRepo with the given pool.
func NewProfileRepo(p PgxPool) *ProfileRepo { return &ProfileRepo{Pool: p} }

// GetByUser loads the profile for a user, or domain.ErrNotFound when the
// user has no profile row.
func (r *ProfileRepo) GetByUser(ctx domain.Context, userID string) (domain.Profile, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.GetByUser")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "profiles"),
	)
	q := `SELECT user_id, full_name, headline, bio, skills, parsed_resume_text, resume_path
	        FROM profiles WHERE user_id=$1`
	row := r.Pool.QueryRow(ctx, q, userID)
	var p domain.Profile
	if err := row.Scan(&p.UserID, &p.FullName, &p.Headline, &p.Bio, &p.Skills, &p.ParsedResumeText, &p.ResumePath); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, fmt.Errorf("op=profile.get: %w", domain.ErrNotFound)
		}
		return domain.Profile{}, fmt.Errorf("op=profile.get: %w", err)
	}
	return p, nil
}

// UserExists reports whether a user row exists; used by the auth middleware
// to reject tokens for deleted accounts.
func (r *ProfileRepo) UserExists(ctx domain.Context, userID string) (bool, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.UserExists")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	)
	q := `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`
	var exists bool
	if err := r.Pool.QueryRow(ctx, q, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("op=profile.userexists: %w", err)
	}
	return exists, nil
}
