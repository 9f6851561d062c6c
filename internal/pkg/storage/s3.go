package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectAPI é o subconjunto do cliente S3 usado pelo store.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store grava as fotos em um bucket S3. A referência devolvida é a chave do objeto.
type S3Store struct {
	BucketName string
	Client     ObjectAPI
}

// NewS3Store carrega a configuração padrão da AWS (env, profile ou role) para a região informada.
func NewS3Store(ctx context.Context, bucketName, region string) (*S3Store, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("nome do bucket não informado")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar configuração da AWS: %w", err)
	}

	return &S3Store{
		BucketName: bucketName,
		Client:     s3.NewFromConfig(cfg),
	}, nil
}

func (s *S3Store) Save(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	key := NewKey(filename)

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.BucketName),
		Key:    aws.String(key),
		Body:   content,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.Client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("falha ao enviar arquivo para o S3: %w", err)
	}
	return key, nil
}

func (s *S3Store) Delete(ctx context.Context, ref string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.BucketName),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("falha ao remover arquivo do S3: %w", err)
	}
	return nil
}
