package image_edit

import (
	"context"
	"sync"
)

type EditorStub struct {
	mu      sync.Mutex
	result  []byte
	err     error
	prompts []string
}

func NewEditorStub(result []byte) *EditorStub {
	return &EditorStub{result: result}
}

func (s *EditorStub) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *EditorStub) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

func (s *EditorStub) Edit(ctx context.Context, image []byte, mimeType string, prompt string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return nil, "", s.err
	}
	return s.result, mimeType, nil
}
