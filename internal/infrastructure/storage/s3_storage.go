// Package storage implementa el almacenamiento de objetos (imágenes de productos) sobre S3
// o un servicio compatible como Cloudflare R2.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jhoicas/Negocio-api/internal/application/usecase"
	"github.com/jhoicas/Negocio-api/pkg/config"
)

var _ usecase.ObjectStorage = (*S3Storage)(nil)

// objectPutter es la parte del cliente S3 que se usa; permite sustituirlo en tests.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage sube archivos a un bucket y devuelve su URL pública.
type S3Storage struct {
	client  objectPutter
	bucket  string
	baseURL string
}

// NewS3Storage construye el cliente con credenciales estáticas. Con Endpoint definido
// (R2, MinIO) se usa ese endpoint con direccionamiento por path.
func NewS3Storage(ctx context.Context, cfg config.S3Config) (*S3Storage, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("s3: bucket no configurado")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("s3: configurar cliente: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Storage(client, cfg), nil
}

func newS3Storage(client objectPutter, cfg config.S3Config) *S3Storage {
	return &S3Storage{client: client, bucket: cfg.Bucket, baseURL: publicBaseURL(cfg)}
}

// publicBaseURL prioridad: S3_PUBLIC_BASE_URL, luego endpoint/bucket, luego el host virtual de AWS.
func publicBaseURL(cfg config.S3Config) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// Upload sube body con la clave indicada.
func (s *S3Storage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("s3: subir %s: %w", key, err)
	}
	return s.baseURL + "/" + strings.TrimLeft(key, "/"), nil
}
