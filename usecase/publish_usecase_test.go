package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/domain/repository"
	"hootsuite-publisher/usecase"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPublishUsecase_HandleContent(t *testing.T) {
	f := newPublisherFixture()
	contents := new(MockContentRepo)
	audit := new(MockAuditRepo)
	log, _ := logtest.NewNullLogger()
	uc := usecase.NewPublishUsecase(contents, f.posts, audit, f.publisher, log)

	past := helloPost()
	past.ID = 8
	past.ScheduledTime = fixedNow.Add(-time.Hour)
	noProfile := helloPost()
	noProfile.ID = 9
	noProfile.ProfileID = ""

	contents.On("GetByID", mock.Anything, int64(3)).Return(publishedContent(), nil)
	f.posts.On("ListByContent", mock.Anything, int64(3)).Return([]*model.ScheduledPost{helloPost(), past, noProfile}, nil)
	f.transport.On("Call", mock.Anything, http.MethodPost, postEndpoint, nil, mock.Anything).
		Return([]byte(`{"data":[{"id":"post1","state":"SCHEDULED"}]}`), nil)
	f.posts.On("UpdateRemotePostID", mock.Anything, int64(7), strPtr("post1")).Return(nil)
	audit.On("Create", mock.Anything, mock.MatchedBy(func(a []*model.PublishAudit) bool {
		return len(a) == 2 && a[0].Outcome == "SCHEDULED" && a[1].Outcome == "SKIPPED" && a[0].ContentID == 3
	})).Return(nil)

	resp, err := uc.HandleContent(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, model.OutcomeScheduled, resp.Results[0].Outcome)
	assert.Equal(t, model.OutcomeSkipped, resp.Results[1].Outcome)
	audit.AssertExpectations(t)
	f.transport.AssertNumberOfCalls(t, "Call", 1)
}

func TestPublishUsecase_HandleContent_NotFound(t *testing.T) {
	f := newPublisherFixture()
	contents := new(MockContentRepo)
	log, _ := logtest.NewNullLogger()
	uc := usecase.NewPublishUsecase(contents, f.posts, nil, f.publisher, log)

	contents.On("GetByID", mock.Anything, int64(404)).Return(nil, repository.ErrContentNotFound)

	_, err := uc.HandleContent(context.Background(), 404)
	assert.ErrorIs(t, err, repository.ErrContentNotFound)
}

func TestPublishUsecase_DeletePost(t *testing.T) {
	f := newPublisherFixture()
	log, _ := logtest.NewNullLogger()
	uc := usecase.NewPublishUsecase(new(MockContentRepo), f.posts, nil, f.publisher, log)

	post := helloPost()
	post.RemotePostID = strPtr("r1")
	f.posts.On("GetByID", mock.Anything, int64(7)).Return(post, nil)
	f.transport.On("Call", mock.Anything, http.MethodDelete, postEndpoint+"/r1", nil, nil).Return([]byte(`{}`), nil)
	f.posts.On("UpdateRemotePostID", mock.Anything, int64(7), (*string)(nil)).Return(nil)

	require.NoError(t, uc.DeletePost(context.Background(), 7))
	f.posts.AssertExpectations(t)
	assert.Nil(t, post.RemotePostID)
}

func TestPublishUsecase_DeletePost_Delivered(t *testing.T) {
	f := newPublisherFixture()
	log, _ := logtest.NewNullLogger()
	uc := usecase.NewPublishUsecase(new(MockContentRepo), f.posts, nil, f.publisher, log)

	post := helloPost()
	post.RemotePostID = strPtr("r1")
	post.ScheduledTime = fixedNow.Add(-time.Hour)
	f.posts.On("GetByID", mock.Anything, int64(7)).Return(post, nil)

	err := uc.DeletePost(context.Background(), 7)
	assert.ErrorIs(t, err, usecase.ErrPostDelivered)
	f.transport.AssertNotCalled(t, "Call", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublishUsecase_HandleEvent_Deleted(t *testing.T) {
	f := newPublisherFixture()
	log, _ := logtest.NewNullLogger()
	uc := usecase.NewPublishUsecase(new(MockContentRepo), f.posts, nil, f.publisher, log)

	withRemote := helloPost()
	withRemote.RemotePostID = strPtr("r1")
	f.posts.On("ListByContent", mock.Anything, int64(3)).Return([]*model.ScheduledPost{withRemote, helloPost()}, nil)
	f.transport.On("Call", mock.Anything, http.MethodDelete, postEndpoint+"/r1", nil, nil).Return([]byte(`{}`), nil)
	f.posts.On("UpdateRemotePostID", mock.Anything, int64(7), (*string)(nil)).Return(nil)

	require.NoError(t, uc.HandleEvent(context.Background(), model.ContentEvent{ContentID: 3, Action: usecase.ContentActionDeleted}))
	f.transport.AssertNumberOfCalls(t, "Call", 1)
}
