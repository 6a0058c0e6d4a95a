package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campground-backend/internal/domains/campground/model"
	"campground-backend/internal/shared/utils"
	"campground-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// postgresRepository - raw SQL với pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) CampgroundRepository {
	return &postgresRepository{pool: pool}
}

const campgroundColumns = `
	id, name, price, description, image_url, image_handle,
	author_id, author_username, author_description,
	created_at, updated_at`

func (r *postgresRepository) Insert(ctx context.Context, c *model.Campground) (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate id: %w", err)
	}

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = c.CreatedAt

	query := `
		INSERT INTO campgrounds (` + campgroundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.pool.Exec(ctx, query,
		id, c.Name, c.Price, c.Description, c.ImageURL, c.ImageHandle,
		c.Author.ID, c.Author.Username, c.Author.Description,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert campground: %w", err)
	}

	c.ID = id
	return id, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Campground, error) {
	query := `SELECT ` + campgroundColumns + ` FROM campgrounds WHERE id = $1`

	c, err := scanCampground(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCampgroundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campground: %w", err)
	}
	return c, nil
}

// UpdateByID: image_url và image_handle luôn được set cùng nhau (cả hai NULL → giữ nguyên)
func (r *postgresRepository) UpdateByID(ctx context.Context, id uuid.UUID, patch *model.CampgroundPatch) (*model.Campground, error) {
	var imageURL, imageHandle *string
	if patch.Image != nil {
		imageURL = &patch.Image.URL
		imageHandle = &patch.Image.Handle
	}

	query := `
		UPDATE campgrounds SET
			name = $2,
			price = $3,
			description = $4,
			image_url = COALESCE($5, image_url),
			image_handle = COALESCE($6, image_handle),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + campgroundColumns

	c, err := scanCampground(r.pool.QueryRow(ctx, query,
		id, patch.Name, patch.Price, patch.Description, imageURL, imageHandle,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCampgroundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update campground: %w", err)
	}
	return c, nil
}

// DeleteByID xóa comments + campground trong cùng transaction
func (r *postgresRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	removed, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (int64, error) {
		comments, err := tx.Exec(ctx, `DELETE FROM comments WHERE campground_id = $1`, id)
		if err != nil {
			return 0, fmt.Errorf("failed to delete comments: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM campgrounds WHERE id = $1`, id)
		if err != nil {
			return 0, fmt.Errorf("failed to delete campground: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return 0, model.ErrCampgroundNotFound
		}
		return comments.RowsAffected(), nil
	})
	if err != nil {
		return err
	}

	log.Debug().Str("campground_id", id.String()).Int64("comments", removed).Msg("campground deleted")
	return nil
}

func (r *postgresRepository) Query(ctx context.Context, opts model.QueryOptions) ([]model.Campground, int, error) {
	orderBy, err := orderByClause(opts.Sort)
	if err != nil {
		return nil, 0, err
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}

	whereClause := ""
	args := []interface{}{}
	if opts.NameContains != "" {
		whereClause = `WHERE name ILIKE '%' || $1 || '%' ESCAPE '\'`
		args = append(args, utils.EscapeLikePattern(opts.NameContains))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM campgrounds ` + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count campgrounds: %w", err)
	}

	// total = 0 hoặc skip vượt quá → khỏi query tiếp
	if total == 0 || opts.Skip >= total {
		return []model.Campground{}, total, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM campgrounds
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, campgroundColumns, whereClause, orderBy, len(args)+1, len(args)+2)

	// LIMIT NULL = không giới hạn
	var limit interface{}
	if opts.Limit > 0 {
		limit = opts.Limit
	}
	args = append(args, limit, opts.Skip)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list campgrounds: %w", err)
	}
	defer rows.Close()

	campgrounds := []model.Campground{}
	for rows.Next() {
		c, err := scanCampground(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan campground: %w", err)
		}
		campgrounds = append(campgrounds, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return campgrounds, total, nil
}

func orderByClause(sort model.SortOrder) (string, error) {
	switch sort {
	case model.SortNewest:
		return "created_at DESC, id DESC", nil
	default:
		return "", fmt.Errorf("unsupported sort order %d", sort)
	}
}

func scanCampground(row pgx.Row) (*model.Campground, error) {
	var c model.Campground
	err := row.Scan(
		&c.ID, &c.Name, &c.Price, &c.Description, &c.ImageURL, &c.ImageHandle,
		&c.Author.ID, &c.Author.Username, &c.Author.Description,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
