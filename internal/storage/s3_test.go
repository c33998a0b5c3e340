package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	input    *s3.PutObjectInput
	body     string
	location string
	err      error
}

func (f *fakeUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.input = input
	if input.Body != nil {
		b, _ := io.ReadAll(input.Body)
		f.body = string(b)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &manager.UploadOutput{Location: f.location}, nil
}

func TestS3Service_UploadBuildsKeyUnderPrefix(t *testing.T) {
	up := &fakeUploader{location: "https://bucket.s3.amazonaws.com/uploads/abc/notes.pdf"}
	svc := &S3Service{uploader: up}

	loc, err := svc.Upload(context.Background(), "abc/notes.pdf", strings.NewReader("pdf"), UploadOptions{
		Bucket:      "campus",
		KeyPrefix:   "/uploads/",
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, up.location, loc)
	assert.Equal(t, "campus", aws.ToString(up.input.Bucket))
	assert.Equal(t, "uploads/abc/notes.pdf", aws.ToString(up.input.Key))
	assert.Equal(t, "application/pdf", aws.ToString(up.input.ContentType))
	assert.Equal(t, "pdf", up.body)
}

func TestS3Service_UploadFallsBackToS3URI(t *testing.T) {
	svc := &S3Service{uploader: &fakeUploader{}}
	loc, err := svc.Upload(context.Background(), "a.txt", strings.NewReader("x"), UploadOptions{Bucket: "b"})
	require.NoError(t, err)
	assert.Equal(t, "s3://b/a.txt", loc)
}

func TestS3Service_UploadErrors(t *testing.T) {
	svc := &S3Service{uploader: &fakeUploader{err: errors.New("denied")}}

	_, err := svc.Upload(context.Background(), "a.txt", strings.NewReader("x"), UploadOptions{})
	require.Error(t, err)

	_, err = svc.Upload(context.Background(), "", strings.NewReader("x"), UploadOptions{Bucket: "b"})
	require.Error(t, err)

	_, err = svc.Upload(context.Background(), "a.txt", strings.NewReader("x"), UploadOptions{Bucket: "b"})
	require.ErrorContains(t, err, "denied")
}
