package service

import (
	"context"
	"errors"
	"math"

	"campground-backend/internal/config"
	"campground-backend/internal/domains/campground/model"
	"campground-backend/internal/domains/campground/repository"
	commentModel "campground-backend/internal/domains/comment/model"
	commentRepository "campground-backend/internal/domains/comment/repository"
	"campground-backend/pkg/cache"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// QueryService - search + pagination, detail kèm comments
type QueryService struct {
	repo     repository.CampgroundRepository
	comments commentRepository.CommentRepository
	cache    cache.Cache // nil → luôn đọc repository
	cfg      config.CampgroundConfig
}

func NewQueryService(
	repo repository.CampgroundRepository,
	comments commentRepository.CommentRepository,
	cache cache.Cache,
	cfg config.CampgroundConfig,
) *QueryService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 8
	}
	return &QueryService{
		repo:     repo,
		comments: comments,
		cache:    cache,
		cfg:      cfg,
	}
}

// Search: term rỗng → không filter; page <= 0 → 1.
// Page vượt quá totalPages trả về list rỗng, pagination vẫn đúng.
func (s *QueryService) Search(ctx context.Context, term string, page int) (*model.SearchResult, error) {
	if page <= 0 {
		page = 1
	}

	cacheKey := listCacheKey(term, page)
	if s.cache != nil {
		var cached model.SearchResult
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("[Campground] cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	pageSize := s.cfg.PageSize
	opts := model.QueryOptions{
		NameContains: term,
		Sort:         model.SortNewest,
		Skip:         pageOffset(page, pageSize),
		Limit:        pageSize,
	}

	repoCtx, cancel := withTimeout(ctx, s.cfg.RepoTimeout)
	campgrounds, total, err := s.repo.Query(repoCtx, opts)
	cancel()
	if err != nil {
		return nil, model.NewLifecycleError(model.ErrRepository, model.StepQueryCampgrounds, err)
	}

	result := &model.SearchResult{
		Campgrounds: make([]model.CampgroundResponse, 0, len(campgrounds)),
		Pagination: model.PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages(total, pageSize),
		},
		Search: term,
	}
	for _, c := range campgrounds {
		result.Campgrounds = append(result.Campgrounds, model.ToCampgroundResponse(c))
	}
	if term != "" && total == 0 {
		result.NoMatch = model.NoMatchMessage
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, s.cfg.CacheTTL); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("[Campground] cache write failed")
		}
	}

	return result, nil
}

// Detail trả về campground + comments (cũ trước)
func (s *QueryService) Detail(ctx context.Context, id uuid.UUID) (*model.CampgroundDetailResponse, error) {
	cacheKey := detailCacheKey(id)
	if s.cache != nil {
		var cached model.CampgroundDetailResponse
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("[Campground] cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	repoCtx, cancel := withTimeout(ctx, s.cfg.RepoTimeout)
	defer cancel()

	campground, err := s.repo.FindByID(repoCtx, id)
	if err != nil {
		if errors.Is(err, model.ErrCampgroundNotFound) {
			return nil, model.NewLifecycleError(model.ErrNotFound, model.StepFindCampground, err)
		}
		return nil, model.NewLifecycleError(model.ErrRepository, model.StepFindCampground, err)
	}

	comments, err := s.comments.ListByCampground(repoCtx, id)
	if err != nil {
		return nil, model.NewLifecycleError(model.ErrRepository, model.StepListComments, err)
	}

	detail := &model.CampgroundDetailResponse{
		CampgroundResponse: model.ToCampgroundResponse(*campground),
		Comments:           make([]commentModel.CommentResponse, 0, len(comments)),
	}
	for _, c := range comments {
		detail.Comments = append(detail.Comments, commentModel.ToCommentResponse(c))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, detail, s.cfg.CacheTTL); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("[Campground] cache write failed")
		}
	}

	return detail, nil
}

// pageOffset = pageSize * (page-1). Page quá lớn (tràn int) → math.MaxInt, repo trả list rỗng.
func pageOffset(page, pageSize int) int {
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return pageSize * (page - 1)
}

// totalPages = ceil(total / pageSize)
func totalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
