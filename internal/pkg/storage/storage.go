// Package storage guarda as fotos enviadas no cadastro de pessoas.
package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// PictureStore persiste o arquivo e devolve a referência gravada no registro.
type PictureStore interface {
	Save(ctx context.Context, filename, contentType string, content io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// NaturalPersonPrefix é o diretório (ou prefixo de chave) das fotos de pessoas físicas.
const NaturalPersonPrefix = "person/natural"

// NewKey gera uma chave única preservando a extensão do arquivo original.
func NewKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(NaturalPersonPrefix, uuid.NewString()+ext)
}
