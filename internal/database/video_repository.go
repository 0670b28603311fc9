package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomaskrat/videotube/internal/domain"
)

// videoColumns must match the Scan order in scanVideo.
const videoColumns = `id, owner_id, video_url, thumbnail_url, title, description, duration, views, is_published, created_at, updated_at`

// VideoRepo implements domain.VideoRepository backed by PostgreSQL.
type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

func scanVideo(row pgx.Row) (*domain.Video, error) {
	var v domain.Video
	err := row.Scan(
		&v.ID, &v.OwnerID, &v.VideoURL, &v.ThumbnailURL, &v.Title,
		&v.Description, &v.Duration, &v.Views, &v.IsPublished,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan video: %w", err)
	}
	return &v, nil
}

func (r *VideoRepo) Create(ctx context.Context, params domain.CreateVideoParams) (*domain.Video, error) {
	return scanVideo(r.pool.QueryRow(ctx, `
		INSERT INTO videos (owner_id, video_url, thumbnail_url, title, description, duration)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+videoColumns,
		params.OwnerID, params.VideoURL, params.ThumbnailURL, params.Title, params.Description, params.Duration))
}

func (r *VideoRepo) GetByID(ctx context.Context, videoID uuid.UUID) (*domain.Video, error) {
	return scanVideo(r.pool.QueryRow(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE id = $1`, videoID))
}

func (r *VideoRepo) GetByIDs(ctx context.Context, videoIDs []uuid.UUID) (map[uuid.UUID]*domain.Video, error) {
	videos := make(map[uuid.UUID]*domain.Video, len(videoIDs))
	if len(videoIDs) == 0 {
		return videos, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE id = ANY($1)`, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos[video.ID] = video
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read videos: %w", err)
	}

	return videos, nil
}

func (r *VideoRepo) IncrementViews(ctx context.Context, videoID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE videos SET views = views + 1, updated_at = NOW()
		WHERE id = $1`, videoID)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVideoNotFound
	}
	return nil
}
