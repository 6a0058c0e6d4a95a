package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"campground-backend/internal/config"
	"campground-backend/internal/domains/campground/model"
	"campground-backend/internal/domains/campground/repository"
	"campground-backend/internal/infrastructure/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// callLog ghi lại thứ tự gọi store + repository
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.calls...)
}

func (l *callLog) count(prefix string) int {
	n := 0
	for _, c := range l.all() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (l *callLog) indexOf(call string) int {
	for i, c := range l.all() {
		if c == call {
			return i
		}
	}
	return -1
}

// fakeStore - ImageStore trả về R<n>/H<n>
type fakeStore struct {
	log       *callLog
	seq       int
	uploadErr error
	deleteErr error
	uploaded  map[string][]byte
}

func newFakeStore(log *callLog) *fakeStore {
	return &fakeStore{log: log, uploaded: map[string][]byte{}}
}

func (s *fakeStore) Upload(_ context.Context, data []byte, contentType string) (*storage.UploadedImage, error) {
	s.log.add("store.upload(%d bytes)", len(data))
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	s.seq++
	handle := fmt.Sprintf("H%d", s.seq)
	s.uploaded[handle] = data
	return &storage.UploadedImage{URL: fmt.Sprintf("https://img.test/R%d", s.seq), Handle: handle}, nil
}

func (s *fakeStore) Delete(_ context.Context, handle string) error {
	s.log.add("store.delete(%s)", handle)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.uploaded, handle)
	return nil
}

// recordingRepo bọc memory repository và ghi call vào cùng log
type recordingRepo struct {
	repository.CampgroundRepository
	log       *callLog
	insertErr error
	updateErr error
	deleteErr error
}

func (r *recordingRepo) Insert(ctx context.Context, c *model.Campground) (uuid.UUID, error) {
	r.log.add("repo.insert")
	if r.insertErr != nil {
		return uuid.Nil, r.insertErr
	}
	return r.CampgroundRepository.Insert(ctx, c)
}

func (r *recordingRepo) UpdateByID(ctx context.Context, id uuid.UUID, patch *model.CampgroundPatch) (*model.Campground, error) {
	r.log.add("repo.update")
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	return r.CampgroundRepository.UpdateByID(ctx, id, patch)
}

func (r *recordingRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	r.log.add("repo.delete")
	if r.deleteErr != nil {
		return r.deleteErr
	}
	return r.CampgroundRepository.DeleteByID(ctx, id)
}

// fakeCache - pkg/cache.Cache trong memory
type fakeCache struct {
	mu    sync.Mutex
	items map[string][]byte
	err   error
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	raw, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = raw
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return c.err
}

func (c *fakeCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.items, k)
		}
	}
	return c.err
}

func (c *fakeCache) Ping(context.Context) error { return c.err }

func (c *fakeCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.items))
	for k := range c.items {
		out = append(out, k)
	}
	return out
}

type fakeJobs struct {
	handles []string
	err     error
}

func (j *fakeJobs) EnqueueProcessImage(_ context.Context, handle string) error {
	j.handles = append(j.handles, handle)
	return j.err
}

// ========================================
// FIXTURES
// ========================================

func testConfig() config.CampgroundConfig {
	return config.CampgroundConfig{
		PageSize:      8,
		MaxImageBytes: 1024 * 1024,
		RemoteTimeout: time.Second,
		RepoTimeout:   time.Second,
		CacheTTL:      time.Minute,
	}
}

func pngBytes(t *testing.T, shade uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: shade, G: 10, B: 10, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func upload(t *testing.T, shade uint8) *model.ImageUpload {
	return &model.ImageUpload{Filename: "camp.png", Data: pngBytes(t, shade)}
}

type lifecycleFixture struct {
	log   *callLog
	store *fakeStore
	repo  *recordingRepo
	cache *fakeCache
	jobs  *fakeJobs
	svc   *LifecycleService
}

func newLifecycleFixture() *lifecycleFixture {
	log := &callLog{}
	f := &lifecycleFixture{
		log:   log,
		store: newFakeStore(log),
		repo:  &recordingRepo{CampgroundRepository: repository.NewMemoryRepository(), log: log},
		cache: newFakeCache(),
		jobs:  &fakeJobs{},
	}
	f.svc = NewLifecycleService(f.repo, f.store, storage.NewImageProcessor(1024*1024), f.cache, f.jobs, testConfig())
	return f
}

var (
	author   = model.Principal{ID: uuid.New(), Username: "colt", Description: "camper since 2010"}
	stranger = model.Principal{ID: uuid.New(), Username: "mallory"}
	admin    = model.Principal{ID: uuid.New(), Username: "root", IsAdmin: true}
)

func validCreate() model.CreateCampgroundRequest {
	return model.CreateCampgroundRequest{
		Name:        "Granite Hill",
		Price:       decimal.RequireFromString("9.99"),
		Description: "Huge granite hill, no bathrooms.",
	}
}

func validUpdate(name string) model.UpdateCampgroundRequest {
	return model.UpdateCampgroundRequest{
		Name:        name,
		Price:       decimal.NewFromInt(15),
		Description: "Updated",
	}
}
