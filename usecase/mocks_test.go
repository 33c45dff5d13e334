package usecase_test

import (
	"context"
	"io"
	"sync"

	"hootsuite-publisher/domain/model"

	"github.com/stretchr/testify/mock"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Call(ctx context.Context, method, endpoint string, params, body interface{}) ([]byte, error) {
	args := m.Called(ctx, method, endpoint, params, body)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Error(1)
}

func (m *MockTransport) Upload(ctx context.Context, uploadURL, mimeType string, size int64, r io.Reader) error {
	args := m.Called(ctx, uploadURL, mimeType, size, r)
	return args.Error(0)
}

type MockScheduledPostRepo struct {
	mock.Mock
}

func (m *MockScheduledPostRepo) GetByID(ctx context.Context, id int64) (*model.ScheduledPost, error) {
	args := m.Called(ctx, id)
	post, _ := args.Get(0).(*model.ScheduledPost)
	return post, args.Error(1)
}

func (m *MockScheduledPostRepo) ListByContent(ctx context.Context, contentID int64) ([]*model.ScheduledPost, error) {
	args := m.Called(ctx, contentID)
	posts, _ := args.Get(0).([]*model.ScheduledPost)
	return posts, args.Error(1)
}

func (m *MockScheduledPostRepo) UpdateRemotePostID(ctx context.Context, id int64, remotePostID *string) error {
	args := m.Called(ctx, id, remotePostID)
	return args.Error(0)
}

type MockContentRepo struct {
	mock.Mock
}

func (m *MockContentRepo) GetByID(ctx context.Context, id int64) (*model.Content, error) {
	args := m.Called(ctx, id)
	content, _ := args.Get(0).(*model.Content)
	return content, args.Error(1)
}

type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Create(ctx context.Context, audits []*model.PublishAudit) error {
	args := m.Called(ctx, audits)
	return args.Error(0)
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Resolve(ctx context.Context, ref string) (*model.MediaAsset, error) {
	args := m.Called(ctx, ref)
	asset, _ := args.Get(0).(*model.MediaAsset)
	return asset, args.Error(1)
}

type recordingSink struct {
	mu      sync.Mutex
	notices []model.Notice
}

func (s *recordingSink) Notify(n model.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
}

func (s *recordingSink) levels() []model.NoticeLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.NoticeLevel, 0, len(s.notices))
	for _, n := range s.notices {
		out = append(out, n.Level)
	}
	return out
}
