package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomaskrat/videotube/internal/domain"
)

// userColumns must match the Scan order in scanUser.
const userColumns = `id, username, email, fullname, avatar_url, cover_url, password_hash, refresh_token, created_at, updated_at`

const uniqueViolationCode = "23505"

// UserRepo implements domain.UserRepository backed by PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Fullname,
		&user.AvatarURL, &user.CoverURL, &user.PasswordHash, &user.RefreshToken,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func (r *UserRepo) Create(ctx context.Context, params domain.CreateUserParams) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, fullname, avatar_url, cover_url, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		params.Username, params.Email, params.Fullname, params.AvatarURL, params.CoverURL, params.PasswordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *UserRepo) GetByLogin(ctx context.Context, usernameOrEmail string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1`, usernameOrEmail))
}

func (r *UserRepo) UpdateAccount(ctx context.Context, userID uuid.UUID, fullname, email string) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET fullname = $1, email = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+userColumns, fullname, email, userID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateUser
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET avatar_url = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns, avatarURL, userID))
}

func (r *UserRepo) UpdateCover(ctx context.Context, userID uuid.UUID, coverURL string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET cover_url = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns, coverURL, userID))
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = NOW()
		WHERE id = $2`, hash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) SetRefreshToken(ctx context.Context, userID uuid.UUID, token string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET refresh_token = $1, updated_at = NOW()
		WHERE id = $2`, token, userID)
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SwapRefreshToken is the compare-and-swap at the heart of rotation: the
// write only lands if the stored token still equals old. The row-level lock
// taken by UPDATE serializes racing rotations, so exactly one of two
// concurrent swaps with the same old token observes a match.
func (r *UserRepo) SwapRefreshToken(ctx context.Context, userID uuid.UUID, old, replacement string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET refresh_token = $1, updated_at = NOW()
		WHERE id = $2 AND refresh_token = $3`, replacement, userID, old)
	if err != nil {
		return fmt.Errorf("failed to swap refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTokenInvalid
	}
	return nil
}

func (r *UserRepo) ClearRefreshToken(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET refresh_token = '', updated_at = NOW()
		WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (r *UserRepo) WatchHistory(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT video_id FROM watch_history
		WHERE user_id = $1
		ORDER BY position`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watch history: %w", err)
	}
	defer rows.Close()

	var videoIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan watch history row: %w", err)
		}
		videoIDs = append(videoIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read watch history: %w", err)
	}

	return videoIDs, nil
}

func (r *UserRepo) AppendWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO watch_history (user_id, video_id)
		VALUES ($1, $2)`, userID, videoID)
	if err != nil {
		return fmt.Errorf("failed to append watch history: %w", err)
	}
	return nil
}

func (r *UserRepo) OwnerSummaries(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]domain.OwnerSummary, error) {
	summaries := make(map[uuid.UUID]domain.OwnerSummary, len(userIDs))
	if len(userIDs) == 0 {
		return summaries, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, fullname, username, avatar_url FROM users
		WHERE id = ANY($1)`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query owner summaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id      uuid.UUID
			summary domain.OwnerSummary
		)
		if err := rows.Scan(&id, &summary.Fullname, &summary.Username, &summary.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan owner summary: %w", err)
		}
		summaries[id] = summary
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read owner summaries: %w", err)
	}

	return summaries, nil
}
