package filestore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hootsuite-publisher/domain/repository"
)

type fakeObjects struct {
	objects     map[string][]byte
	contentType map[string]string
	headErr     error
	ranges      []string
}

func (f *fakeObjects) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	out := &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(body)))}
	if ct, ok := f.contentType[aws.ToString(in.Key)]; ok {
		out.ContentType = aws.String(ct)
	}
	return out, nil
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	if in.Range != nil {
		f.ranges = append(f.ranges, *in.Range)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func TestS3Store_Resolve(t *testing.T) {
	api := &fakeObjects{
		objects:     map[string][]byte{"media/images/a.jpg": []byte("jpeg-bytes")},
		contentType: map[string]string{"media/images/a.jpg": "image/jpeg"},
	}
	store := newS3Store(api, "bucket", "/media/")

	asset, err := store.Resolve(context.Background(), "public://images/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", asset.MimeType)
	assert.Equal(t, int64(10), asset.ByteSize)
	assert.Equal(t, "s3://bucket/media/images/a.jpg", asset.LocalURI)
	assert.Empty(t, api.ranges)

	rc, err := asset.Open()
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestS3Store_Resolve_SniffsMissingContentType(t *testing.T) {
	api := &fakeObjects{objects: map[string][]byte{"b.png": pngHeader}}
	store := newS3Store(api, "bucket", "")

	asset, err := store.Resolve(context.Background(), "b.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", asset.MimeType)
	assert.Equal(t, []string{"bytes=0-3071"}, api.ranges)
}

func TestS3Store_Resolve_NotFound(t *testing.T) {
	store := newS3Store(&fakeObjects{objects: map[string][]byte{}}, "bucket", "")

	_, err := store.Resolve(context.Background(), "missing.png")
	assert.ErrorIs(t, err, repository.ErrMediaNotFound)
}

func TestS3Store_Resolve_HeadError(t *testing.T) {
	store := newS3Store(&fakeObjects{headErr: errors.New("access denied")}, "bucket", "")

	_, err := store.Resolve(context.Background(), "a.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrMediaNotFound)
}
