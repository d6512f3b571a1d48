// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-id/internal/platform/media"
)

type fakeObjectAPI struct {
	puts    map[string][]byte
	types   map[string]string
	deletes []string
	putErr  error
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{puts: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts[aws.ToString(in.Key)] = body
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func writeTempPNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "avatar.PNG")
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	require.NoError(t, os.WriteFile(path, png, 0o600))
	return path
}

/*
TestS3Uploader_Upload verifies key layout, content sniffing and public URL.
*/
func TestS3Uploader_Upload(t *testing.T) {
	api := newFakeObjectAPI()
	uploader := media.NewS3Uploader(api, media.Config{
		Bucket:        "profiles-bucket",
		PublicBaseURL: "https://cdn.yomira.app/",
		KeyPrefix:     "avatars",
	})

	asset, err := uploader.Upload(context.Background(), writeTempPNG(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(asset.PublicID, "avatars/"))
	assert.True(t, strings.HasSuffix(asset.PublicID, ".png"))
	assert.Equal(t, "https://cdn.yomira.app/"+asset.PublicID, asset.URL)
	assert.Equal(t, "image/png", api.types[asset.PublicID])
	assert.NotEmpty(t, api.puts[asset.PublicID])
}

/*
TestS3Uploader_Failures covers missing files and storage errors.
*/
func TestS3Uploader_Failures(t *testing.T) {
	api := newFakeObjectAPI()
	uploader := media.NewS3Uploader(api, media.Config{Bucket: "b"})

	_, err := uploader.Upload(context.Background(), "")
	assert.ErrorIs(t, err, media.ErrEmptyPath)

	_, err = uploader.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	api.putErr = errors.New("bucket unavailable")
	_, err = uploader.Upload(context.Background(), writeTempPNG(t))
	assert.ErrorContains(t, err, "bucket unavailable")
}

/*
TestS3Uploader_Delete verifies deletes are forwarded and empty IDs ignored.
*/
func TestS3Uploader_Delete(t *testing.T) {
	api := newFakeObjectAPI()
	uploader := media.NewS3Uploader(api, media.Config{Bucket: "b"})

	require.NoError(t, uploader.Delete(context.Background(), ""))
	require.NoError(t, uploader.Delete(context.Background(), "profiles/x.png"))

	assert.Equal(t, []string{"profiles/x.png"}, api.deletes)
}
