package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore grava as fotos em um diretório do servidor (desenvolvimento).
type LocalStore struct {
	root string
}

// NewLocalStore garante que o diretório raiz existe.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("falha ao criar diretório de fotos: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Save(_ context.Context, filename, _ string, content io.Reader) (string, error) {
	key := NewKey(filename)
	full := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("falha ao criar diretório de fotos: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("falha ao criar arquivo: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("falha ao gravar arquivo: %w", err)
	}
	return key, nil
}

// Handler serve as fotos gravadas pelo caminho da referência (ex.: /person/natural/<id>.png).
// Diretórios não são listados.
func (s *LocalStore) Handler() http.Handler {
	files := http.FileServer(http.Dir(s.root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	})
}

func (s *LocalStore) Delete(_ context.Context, ref string) error {
	full, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("falha ao remover arquivo: %w", err)
	}
	return nil
}

// resolve impede que uma referência escape do diretório raiz.
func (s *LocalStore) resolve(ref string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(ref))
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("referência de arquivo inválida: %q", ref)
	}
	return full, nil
}
