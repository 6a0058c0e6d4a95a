package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"campground-backend/internal/domains/comment/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CommentRepository - chỉ đọc, comment được tạo ở service khác
type CommentRepository interface {
	// ListByCampground trả comments theo created_at tăng dần (cũ trước)
	ListByCampground(ctx context.Context, campgroundID uuid.UUID) ([]model.Comment, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) CommentRepository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) ListByCampground(ctx context.Context, campgroundID uuid.UUID) ([]model.Comment, error) {
	query := `
		SELECT id, campground_id, text, author_id, author_username, created_at
		FROM comments
		WHERE campground_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, campgroundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.CampgroundID, &c.Text, &c.AuthorID, &c.AuthorUsername, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return comments, nil
}

// MemoryRepository - dùng khi DB_DRIVER=memory và trong test
type MemoryRepository struct {
	mu       sync.RWMutex
	comments map[uuid.UUID][]model.Comment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{comments: make(map[uuid.UUID][]model.Comment)}
}

// Add seed comment
func (r *MemoryRepository) Add(c model.Comment) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.comments[c.CampgroundID] = append(r.comments[c.CampgroundID], c)
}

func (r *MemoryRepository) ListByCampground(ctx context.Context, campgroundID uuid.UUID) ([]model.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	comments := append([]model.Comment{}, r.comments[campgroundID]...)
	r.mu.RUnlock()

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}
