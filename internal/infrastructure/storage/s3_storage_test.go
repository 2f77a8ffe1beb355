package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Negocio-api/pkg/config"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestUpload_URLPublica(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.S3Config
		want string
	}{
		{"base pública", config.S3Config{Bucket: "imgs", PublicBaseURL: "https://cdn.example.com/"}, "https://cdn.example.com/a/b.png"},
		{"endpoint compatible", config.S3Config{Bucket: "imgs", Endpoint: "https://r2.example.com"}, "https://r2.example.com/imgs/a/b.png"},
		{"aws", config.S3Config{Bucket: "imgs", Region: "us-east-1"}, "https://imgs.s3.us-east-1.amazonaws.com/a/b.png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakePutter{}
			s := newS3Storage(fake, tc.cfg)
			url, err := s.Upload(context.Background(), "a/b.png", "image/png", strings.NewReader("png"), 3)
			require.NoError(t, err)
			assert.Equal(t, tc.want, url)
			assert.Equal(t, "imgs", aws.ToString(fake.input.Bucket))
			assert.Equal(t, "a/b.png", aws.ToString(fake.input.Key))
			assert.Equal(t, "image/png", aws.ToString(fake.input.ContentType))
			assert.Equal(t, "png", fake.body)
		})
	}
}

func TestUpload_Error(t *testing.T) {
	s := newS3Storage(&fakePutter{err: errors.New("access denied")}, config.S3Config{Bucket: "imgs"})
	_, err := s.Upload(context.Background(), "k", "image/png", strings.NewReader("x"), 1)
	assert.ErrorContains(t, err, "access denied")
}

func TestNewS3Storage_SinBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.S3Config{})
	assert.Error(t, err)
}
