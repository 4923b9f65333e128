package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestSanitizeKey(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "banners/a.png", want: "banners/a.png"},
		{in: "/banners//b.png", want: "banners/b.png"},
		{in: "./x\\y.png", want: "x/y.png"},
		{in: "../etc/passwd", wantErr: true},
		{in: "a/../../b", wantErr: true},
		{in: "  ", wantErr: true},
	}
	for _, tc := range cases {
		got, err := sanitizeKey(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestFileStorePut(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "http://localhost:8080/static/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "banners/x.png", pngHeader, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/static/banners/x.png", url)

	written, err := os.ReadFile(filepath.Join(dir, "banners", "x.png"))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, written)
}

func TestFileStoreCancelledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Write(ctx, "a", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

type stubS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (s *stubS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	s.input = params
	s.body, _ = io.ReadAll(params.Body)
	if s.err != nil {
		return nil, s.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3StorePut(t *testing.T) {
	client := &stubS3{}
	store := NewS3StoreWithClient(client, S3Options{Bucket: "banners", Region: "eu-west-1"})

	url, err := store.Put(context.Background(), "/a/b.png", pngHeader, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://banners.s3.eu-west-1.amazonaws.com/a/b.png", url)
	assert.Equal(t, "banners", *client.input.Bucket)
	assert.Equal(t, "a/b.png", *client.input.Key)
	assert.Equal(t, "image/png", *client.input.ContentType)
	assert.Equal(t, pngHeader, client.body)
}

func TestS3StoreEndpointURL(t *testing.T) {
	store := NewS3StoreWithClient(&stubS3{}, S3Options{Bucket: "b", Endpoint: "http://minio:9000/"})
	url, err := store.Put(context.Background(), "k.png", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/b/k.png", url)
}

func TestS3StorePutError(t *testing.T) {
	boom := errors.New("access denied")
	store := NewS3StoreWithClient(&stubS3{err: boom}, S3Options{Bucket: "b", PublicBaseURL: "https://cdn"})
	_, err := store.Put(context.Background(), "k", nil, "")
	assert.ErrorIs(t, err, boom)
}

func TestDecodeDataURI(t *testing.T) {
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)
	data, ct, err := DecodeDataURI(ref)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, "image/png", ct)

	_, _, err = DecodeDataURI("https://cdn/x.png")
	assert.ErrorIs(t, err, ErrNotDataURI)

	_, _, err = DecodeDataURI("data:image/png;base64,@@@")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotDataURI)
}

type recordingStore struct {
	key         string
	contentType string
	data        []byte
}

func (r *recordingStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	r.key, r.data, r.contentType = key, data, contentType
	return "https://assets/" + key, nil
}

func TestOffloaderStoresDataURI(t *testing.T) {
	store := &recordingStore{}
	o := NewOffloader(store)
	o.now = func() time.Time { return time.Date(2025, 7, 4, 10, 0, 0, 0, time.UTC) }

	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)
	url, err := o.Offload(context.Background(), ref)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(store.key, "banners/2025/07/04/"), store.key)
	assert.True(t, strings.HasSuffix(store.key, ".png"), store.key)
	assert.Equal(t, "https://assets/"+store.key, url)
	assert.Equal(t, pngHeader, store.data)
}

func TestOffloaderPassesThroughURLs(t *testing.T) {
	store := &recordingStore{}
	url, err := NewOffloader(store).Offload(context.Background(), "https://cdn/x.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/x.png", url)
	assert.Empty(t, store.key)

	var nilOffloader *Offloader
	url, err = nilOffloader.Offload(context.Background(), "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", url)
}
