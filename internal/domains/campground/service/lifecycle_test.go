package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"campground-backend/internal/domains/campground/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createOne(t *testing.T, f *lifecycleFixture) uuid.UUID {
	t.Helper()
	id, err := f.svc.Create(context.Background(), author, validCreate(), upload(t, 1))
	require.NoError(t, err)
	return id
}

func requireKind(t *testing.T, err error, kind error, step string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)

	var lerr *model.LifecycleError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, step, lerr.Step)
}

// ========================================
// CREATE
// ========================================

func TestCreate_StoresUploadedImageAndAuthorSnapshot(t *testing.T) {
	f := newLifecycleFixture()
	fixed := time.Date(2024, 7, 4, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }

	id, err := f.svc.Create(context.Background(), author, validCreate(), upload(t, 1))
	require.NoError(t, err)

	saved, err := f.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.ImageRef{URL: "https://img.test/R1", Handle: "H1"}, saved.Image())
	assert.Equal(t, author.Snapshot(), saved.Author)
	assert.Equal(t, fixed, saved.CreatedAt)
	assert.Equal(t, []string{"store.upload(" + strconv.Itoa(len(upload(t, 1).Data)) + " bytes)", "repo.insert"}, f.log.all())
	assert.Equal(t, []string{"H1"}, f.jobs.handles)
}

func TestCreate_IdentifiersDoNotCollide(t *testing.T) {
	f := newLifecycleFixture()
	seen := map[uuid.UUID]bool{}

	for i := 0; i < 20; i++ {
		id := createOne(t, f)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestCreate_ValidationHappensBeforeAnyIO(t *testing.T) {
	tests := []struct {
		name   string
		req    model.CreateCampgroundRequest
		upload func(t *testing.T) *model.ImageUpload
	}{
		{
			name:   "missing image",
			req:    validCreate(),
			upload: func(*testing.T) *model.ImageUpload { return nil },
		},
		{
			name:   "not an image",
			req:    validCreate(),
			upload: func(*testing.T) *model.ImageUpload { return &model.ImageUpload{Data: []byte("hello")} },
		},
		{
			name: "empty name",
			req: func() model.CreateCampgroundRequest {
				r := validCreate()
				r.Name = ""
				return r
			}(),
			upload: func(t *testing.T) *model.ImageUpload { return upload(t, 1) },
		},
		{
			name: "price too large for storage",
			req: func() model.CreateCampgroundRequest {
				r := validCreate()
				r.Price = decimal.New(1, 8)
				return r
			}(),
			upload: func(t *testing.T) *model.ImageUpload { return upload(t, 1) },
		},
		{
			name: "price with sub-cent digits",
			req: func() model.CreateCampgroundRequest {
				r := validCreate()
				r.Price = decimal.RequireFromString("4.125")
				return r
			}(),
			upload: func(t *testing.T) *model.ImageUpload { return upload(t, 1) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLifecycleFixture()

			_, err := f.svc.Create(context.Background(), author, tt.req, tt.upload(t))

			requireKind(t, err, model.ErrValidation, model.StepValidate)
			assert.Empty(t, f.log.all())
		})
	}
}

func TestCreate_UploadFailureLeavesNothing(t *testing.T) {
	f := newLifecycleFixture()
	f.store.uploadErr = errors.New("503 from image host")

	_, err := f.svc.Create(context.Background(), author, validCreate(), upload(t, 1))

	requireKind(t, err, model.ErrRemoteStore, model.StepUploadImage)
	assert.Equal(t, 0, f.log.count("repo."))

	_, total, err := f.repo.Query(context.Background(), model.QueryOptions{Limit: 8})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, f.jobs.handles)
}

func TestCreate_InsertFailureOrphansUpload(t *testing.T) {
	f := newLifecycleFixture()
	f.repo.insertErr = errors.New("connection reset")

	_, err := f.svc.Create(context.Background(), author, validCreate(), upload(t, 1))

	requireKind(t, err, model.ErrRepository, model.StepInsertCampground)
	// ảnh đã upload không được dọn
	assert.Contains(t, f.store.uploaded, "H1")
	assert.Equal(t, 0, f.log.count("store.delete"))
}

func TestCreate_RequiresPrincipal(t *testing.T) {
	f := newLifecycleFixture()

	_, err := f.svc.Create(context.Background(), model.Principal{}, validCreate(), upload(t, 1))

	requireKind(t, err, model.ErrUnauthorized, model.StepAuthorize)
	assert.Empty(t, f.log.all())
}

func TestCreate_EnqueueFailureIsNotReported(t *testing.T) {
	f := newLifecycleFixture()
	f.jobs.err = errors.New("redis down")

	_, err := f.svc.Create(context.Background(), author, validCreate(), upload(t, 1))
	assert.NoError(t, err)
}

// ========================================
// UPDATE
// ========================================

func TestUpdate_NonOwnerTouchesNothing(t *testing.T) {
	f := newLifecycleFixture()
	id := createOne(t, f)
	before, err := f.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	f.log.calls = nil

	_, err = f.svc.Update(context.Background(), stranger, id, validUpdate("Hijacked"), upload(t, 2))

	requireKind(t, err, model.ErrUnauthorized, model.StepAuthorize)
	assert.Equal(t, 0, f.log.count("store."))
	assert.Equal(t, 0, f.log.count("repo."))

	after, err := f.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdate_AdminMayEdit(t *testing.T) {
	f := newLifecycleFixture()
	id := createOne(t, f)

	updated, err := f.svc.Update(context.Background(), admin, id, validUpdate("Moderated"), nil)

	require.NoError(t, err)
	assert.Equal(t, "Moderated", updated.Name)
	assert.Equal(t, author.Snapshot(), updated.Author)
}

func TestUpdate_WithoutImageKeepsImage(t *testing.T) {
	f := newLifecycleFixture()
	id := createOne(t, f)
	f.log.calls = nil

	updated, err := f.svc.Update(context.Background(), author, id, validUpdate("Renamed"), nil)

	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, model.ImageRef{URL: "https://img.test/R1", Handle: "H1"}, updated.Image())
	assert.Equal(t, []string{"repo.update"}, f.log.all())
	assert.Equal(t, []string{"H1"}, f.jobs.handles)
}

func TestUpdate_NotFound(t *testing.T) {
	f := newLifecycleFixture()

	_, err := f.svc.Update(context.Background(), author, uuid.New(), validUpdate("x"), nil)

	requireKind(t, err, model.ErrNotFound, model.StepFindCampground)
}

func TestUpdate_InvalidPayload(t *testing.T) {
	f := newLifecycleFixture()
	id := createOne(t, f)
	f.log.calls = nil

	_, err := f.svc.Update(context.Background(), author, id, validUpdate(""), upload(t, 2))

	requireKind(t, err, model.ErrValidation, model.StepValidate)
	assert.Equal(t, 0, f.log.count("store."))
}

func TestUpdate_DeleteOldImageFails(t *testing.T) {
	f := newLifecycleFixture()
	id := createOne(t, f)
	f.log.calls = nil
	f.store.deleteErr = errors.New("timeout")

	_, err := f.svc.Update(context.Background(), author, id, validUpdate("Renamed"), upload(t, 2))

	requireKind(t, err, model.ErrRemoteStore, model.StepDeleteOldImage)
	assert.Equal(t, 0, f.log.count("store.upload"))
	assert.Equal(t, 0, f.log.count("repo.update"))

	unchanged, err := f.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Granite Hill", unchanged.Name)
	assert.Equal(t, "H1", unchanged.ImageHandle)
}

func TestUpdate_UploadNewImageFailsAfterDelete(t *testing.T) {
	f := newLifecycleFixture()
	id := createOne(t, f)
	f.log.calls = nil
	f.store.uploadErr = errors.New("quota exceeded")

	_, err := f.svc.Update(context.Background(), author, id, validUpdate("Renamed"), upload(t, 2))

	requireKind(t, err, model.ErrRemoteStore, model.StepUploadNewImage)
	assert.Equal(t, 0, f.log.count("repo.update"))

	// record vẫn trỏ vào H1 dù H1 đã bị xóa trên store
	stale, err := f.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "H1", stale.ImageHandle)
	assert.NotContains(t, f.store.uploaded, "H1")
}

func TestUpdate_RepositoryFailure(t *testing.T) {
	f := newLifecycleFixture()
	id := createOne(t, f)
	f.repo.updateErr = errors.New("deadlock detected")

	_, err := f.svc.Update(context.Background(), author, id, validUpdate("Renamed"), upload(t, 2))

	requireKind(t, err, model.ErrRepository, model.StepUpdateCampground)
}

// ========================================
// DELETE
// ========================================

func TestDelete_RemoteFailureKeepsRecord(t *testing.T) {
	f := newLifecycleFixture()
	id := createOne(t, f)
	f.store.deleteErr = errors.New("connection refused")

	err := f.svc.Delete(context.Background(), author, id)

	requireKind(t, err, model.ErrRemoteStore, model.StepDeleteImage)
	assert.Equal(t, 0, f.log.count("repo.delete"))

	_, err = f.repo.FindByID(context.Background(), id)
	assert.NoError(t, err)
}

func TestDelete_NonOwner(t *testing.T) {
	f := newLifecycleFixture()
	id := createOne(t, f)
	f.log.calls = nil

	err := f.svc.Delete(context.Background(), stranger, id)

	requireKind(t, err, model.ErrUnauthorized, model.StepAuthorize)
	assert.Empty(t, f.log.all())
}

func TestDelete_NotFound(t *testing.T) {
	f := newLifecycleFixture()

	err := f.svc.Delete(context.Background(), author, uuid.New())

	requireKind(t, err, model.ErrNotFound, model.StepFindCampground)
	assert.Equal(t, 0, f.log.count("store."))
}

func TestDelete_RepositoryFailure(t *testing.T) {
	f := newLifecycleFixture()
	id := createOne(t, f)
	f.repo.deleteErr = errors.New("pool closed")

	err := f.svc.Delete(context.Background(), admin, id)

	requireKind(t, err, model.ErrRepository, model.StepDeleteCampground)
}

// ========================================
// END TO END
// ========================================

func TestLifecycle_CreateUpdateDelete(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()
	newBinary := upload(t, 200)

	id, err := f.svc.Create(ctx, author, validCreate(), upload(t, 1))
	require.NoError(t, err)

	created, err := f.repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://img.test/R1", created.ImageURL)
	assert.Equal(t, "H1", created.ImageHandle)

	f.log.calls = nil
	updated, err := f.svc.Update(ctx, author, id, validUpdate("Granite Hill II"), newBinary)
	require.NoError(t, err)

	deleteOld := f.log.indexOf("store.delete(H1)")
	uploadNew := f.log.indexOf("store.upload(" + strconv.Itoa(len(newBinary.Data)) + " bytes)")
	require.NotEqual(t, -1, deleteOld)
	require.NotEqual(t, -1, uploadNew)
	assert.Less(t, deleteOld, uploadNew)
	assert.Equal(t, "https://img.test/R2", updated.ImageURL)
	assert.Equal(t, "H2", updated.ImageHandle)

	f.log.calls = nil
	require.NoError(t, f.svc.Delete(ctx, author, id))

	assert.Equal(t, []string{"store.delete(H2)", "repo.delete"}, f.log.all())
	_, err = f.repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, model.ErrCampgroundNotFound)
}

func TestGetForEdit(t *testing.T) {
	f := newLifecycleFixture()
	id := createOne(t, f)

	c, err := f.svc.GetForEdit(context.Background(), author, id)
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)

	_, err = f.svc.GetForEdit(context.Background(), stranger, id)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestMutations_InvalidateCache(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()
	id := createOne(t, f)

	require.NoError(t, f.cache.Set(ctx, listCacheKey("", 1), "stale", time.Minute))
	require.NoError(t, f.cache.Set(ctx, detailCacheKey(id), "stale", time.Minute))
	require.NoError(t, f.cache.Set(ctx, "unrelated", "keep", time.Minute))

	_, err := f.svc.Update(ctx, author, id, validUpdate("Fresh"), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"unrelated"}, f.cache.keys())
}

func TestMutations_CacheFailureIsNotFatal(t *testing.T) {
	f := newLifecycleFixture()
	f.cache.err = errors.New("redis unavailable")

	id, err := f.svc.Create(context.Background(), author, validCreate(), upload(t, 1))
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(context.Background(), author, id))
}
