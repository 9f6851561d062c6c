package storage_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gopeople/internal/pkg/storage"
)

func TestNewKey(t *testing.T) {
	key := storage.NewKey("Foto.PNG")
	assert.True(t, strings.HasPrefix(key, "person/natural/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, storage.NewKey("Foto.PNG"))
}

func TestLocalStore_SaveAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := storage.NewLocalStore(root)
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), "avatar.jpg", "image/jpeg", strings.NewReader("conteudo"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(ref)))
	require.NoError(t, err)
	assert.Equal(t, "conteudo", string(data))

	require.NoError(t, store.Delete(context.Background(), ref))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(ref)))
	assert.True(t, os.IsNotExist(err))

	// Remover de novo não é erro.
	assert.NoError(t, store.Delete(context.Background(), ref))
}

func TestLocalStore_RejectsEscapingRef(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Delete(context.Background(), "../../etc/passwd"))
}

// MockObjectAPI é uma implementação mock de storage.ObjectAPI
type MockObjectAPI struct {
	mock.Mock
}

func (m *MockObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockObjectAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func TestS3Store_Save(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "fotos" &&
			strings.HasPrefix(aws.ToString(in.Key), "person/natural/") &&
			aws.ToString(in.ContentType) == "image/png"
	})).Run(func(args mock.Arguments) {
		body, _ := io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
		assert.Equal(t, "png", string(body))
	}).Return(&s3.PutObjectOutput{}, nil)

	store := &storage.S3Store{BucketName: "fotos", Client: api}
	ref, err := store.Save(context.Background(), "a.png", "image/png", strings.NewReader("png"))

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".png"))
	api.AssertExpectations(t)
}

func TestS3Store_Delete(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Bucket) == "fotos" && aws.ToString(in.Key) == "person/natural/x.png"
	})).Return(&s3.DeleteObjectOutput{}, nil)

	store := &storage.S3Store{BucketName: "fotos", Client: api}
	assert.NoError(t, store.Delete(context.Background(), "person/natural/x.png"))
	api.AssertExpectations(t)
}
