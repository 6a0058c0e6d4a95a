package repository

import (
	"testing"

	"campground-backend/internal/domains/campground/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderByClause(t *testing.T) {
	clause, err := orderByClause(model.SortNewest)
	require.NoError(t, err)
	assert.Equal(t, "created_at DESC, id DESC", clause)

	_, err = orderByClause(model.SortOrder(99))
	assert.ErrorContains(t, err, "unsupported sort order")
}
