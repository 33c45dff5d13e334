package persistence

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"hootsuite-publisher/domain/model"
	"hootsuite-publisher/domain/repository"
)

var postRowColumns = []string{"id", "content_id", "profile_id", "profile_name", "profile_type", "post_text", "scheduled_time", "image_ref", "pinterest_board", "pinterest_url", "remote_post_id", "created_at", "updated_at"}

func TestScheduledPostRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewScheduledPostRepository(db)
	scheduled := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM scheduled_posts WHERE id=$1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(postRowColumns).
			AddRow(7, 3, "p1", "Acme Pins", "PINTEREST", "Hello", scheduled, nil, "board-1", "", "post1", created, created))

	post, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)

	board, remote := "board-1", "post1"
	expected := &model.ScheduledPost{
		ID:             7,
		ContentID:      3,
		ProfileID:      "p1",
		ProfileName:    "Acme Pins",
		ProfileType:    "PINTEREST",
		PostText:       "Hello",
		ScheduledTime:  scheduled,
		PinterestBoard: &board,
		RemotePostID:   &remote,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	require.Equal(t, expected, post)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM scheduled_posts WHERE id=$1`)).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err = NewScheduledPostRepository(db).GetByID(context.Background(), 99)
	require.ErrorIs(t, err, repository.ErrPostNotFound)
}

func TestScheduledPostRepository_ListByContent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM scheduled_posts WHERE content_id=$1 ORDER BY scheduled_time, id`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(postRowColumns).
			AddRow(1, 3, "p1", nil, nil, "a", now, nil, nil, nil, nil, now, now).
			AddRow(2, 3, "p2", "B", "TWITTER", "b", now, "img.png", nil, nil, nil, now, now))

	posts, err := NewScheduledPostRepository(db).ListByContent(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Nil(t, posts[0].ImageRef)
	require.Equal(t, "img.png", *posts[1].ImageRef)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostRepository_UpdateRemotePostID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewScheduledPostRepository(db)
	remote := "post1"

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE scheduled_posts SET remote_post_id=$1, updated_at=$2 WHERE id=$3`)).
		WithArgs("post1", sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE scheduled_posts SET remote_post_id=$1`)).
		WithArgs(nil, sqlmock.AnyArg(), int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateRemotePostID(context.Background(), 7, &remote))
	require.ErrorIs(t, repo.UpdateRemotePostID(context.Background(), 8, nil), repository.ErrPostNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostRepositoryMSSQL_UpdateRemotePostID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE dbo.[scheduled_posts] SET remote_post_id=@p1, updated_at=@p2 WHERE id=@p3`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	remote := "post1"
	require.NoError(t, NewScheduledPostRepositoryMSSQL(db).UpdateRemotePostID(context.Background(), 7, &remote))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	publishOn := time.Date(2029, 12, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM contents WHERE id=$1`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "summary", "body", "published", "publish_on", "url", "image_ref", "created_at", "updated_at"}).
			AddRow(3, "Spring", nil, "<p>Body</p>", false, publishOn, "https://example.test/spring", nil, now, now))

	c, err := NewContentRepository(db).GetByID(context.Background(), 3)
	require.NoError(t, err)
	require.False(t, c.IsPublished())
	require.Equal(t, publishOn, *c.PublishOnTime())
	require.Equal(t, "https://example.test/spring", c.CanonicalURL())
	require.Nil(t, c.ImageRef)
}

func TestContentRepositoryMSSQL_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM dbo.[contents] WHERE id=@p1`)).
		WithArgs(int64(5)).
		WillReturnError(sql.ErrNoRows)

	_, err = NewContentRepositoryMSSQL(db).GetByID(context.Background(), 5)
	require.ErrorIs(t, err, repository.ErrContentNotFound)
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range postgresSchema {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, EnsureSchema(db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchemaMSSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range mssqlSchema {
		mock.ExpectExec(regexp.QuoteMeta("IF NOT EXISTS")).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, EnsureSchemaMSSQL(db))
	require.NoError(t, mock.ExpectationsWereMet())
}
