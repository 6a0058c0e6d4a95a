package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"campground-backend/internal/domains/campground/model"
	"campground-backend/internal/shared/utils"

	"github.com/google/uuid"
)

// memoryRepository - map + RWMutex, dùng cho DB_DRIVER=memory và test
type memoryRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]model.Campground
	now   func() time.Time
}

func NewMemoryRepository() CampgroundRepository {
	return &memoryRepository{
		items: make(map[uuid.UUID]model.Campground),
		now:   time.Now,
	}
}

func (r *memoryRepository) Insert(ctx context.Context, c *model.Campground) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate id: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.now()
	}
	c.UpdatedAt = c.CreatedAt
	c.ID = id
	r.items[id] = *c

	return id, nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Campground, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return nil, model.ErrCampgroundNotFound
	}
	return &c, nil
}

func (r *memoryRepository) UpdateByID(ctx context.Context, id uuid.UUID, patch *model.CampgroundPatch) (*model.Campground, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return nil, model.ErrCampgroundNotFound
	}

	c.Name = patch.Name
	c.Price = patch.Price
	c.Description = patch.Description
	if patch.Image != nil {
		c.SetImage(*patch.Image)
	}
	c.UpdatedAt = r.now()
	r.items[id] = c

	return &c, nil
}

func (r *memoryRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return model.ErrCampgroundNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memoryRepository) Query(ctx context.Context, opts model.QueryOptions) ([]model.Campground, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	matched := make([]model.Campground, 0, len(r.items))
	if opts.NameContains == "" {
		for _, c := range r.items {
			matched = append(matched, c)
		}
	} else {
		re := utils.LiteralMatcher(opts.NameContains)
		for _, c := range r.items {
			if re.MatchString(c.Name) {
				matched = append(matched, c)
			}
		}
	}
	r.mu.RUnlock()

	if err := sortCampgrounds(matched, opts.Sort); err != nil {
		return nil, 0, err
	}

	if opts.Skip < 0 {
		opts.Skip = 0
	}
	total := len(matched)
	if opts.Skip >= total {
		return []model.Campground{}, total, nil
	}

	end := total
	if opts.Limit > 0 && opts.Limit < total-opts.Skip {
		end = opts.Skip + opts.Limit
	}

	return matched[opts.Skip:end], total, nil
}

// sortCampgrounds: created_at DESC, id DESC (UUID so sánh theo bytes giống Postgres)
func sortCampgrounds(items []model.Campground, order model.SortOrder) error {
	switch order {
	case model.SortNewest:
		sort.Slice(items, func(i, j int) bool {
			if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
				return items[i].CreatedAt.After(items[j].CreatedAt)
			}
			return items[i].ID.String() > items[j].ID.String()
		})
		return nil
	default:
		return fmt.Errorf("unsupported sort order %d", order)
	}
}
