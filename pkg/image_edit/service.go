package image_edit

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/eventpro/eventpro/internal/event_bus"
	"github.com/eventpro/eventpro/internal/utils"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Edit(ctx context.Context, request EditRequest) (EditedImage, error)
	// History returns the kept edits, newest first.
	History(ctx context.Context) []EditedImage
	Count(ctx context.Context) int
}

type ServiceImpl struct {
	editor   Editor
	eventBus *event_bus.EventBus
	clock    utils.Clock
	ids      utils.IdGenerator

	mu      sync.RWMutex
	history []EditedImage
	count   int
}

func NewService(editor Editor, eventBus *event_bus.EventBus, clock utils.Clock, ids utils.IdGenerator) *ServiceImpl {
	return &ServiceImpl{
		editor:   editor,
		eventBus: eventBus,
		clock:    clock,
		ids:      ids,
		history:  []EditedImage{},
	}
}

func (s *ServiceImpl) Edit(ctx context.Context, request EditRequest) (EditedImage, error) {
	if len(request.Image) == 0 || strings.TrimSpace(request.Prompt) == "" {
		return EditedImage{}, ErrInvalidRequest
	}

	data, mimeType, err := s.editor.Edit(ctx, request.Image, request.MimeType, request.Prompt)
	if err != nil {
		log.Errorf("image edit failed: %v", err)
		s.publish(ctx, event_bus.ImageEditFailed, event_bus.ImageEdited{
			Prompt:    request.Prompt,
			Timestamp: s.clock.Now(),
			Err:       err.Error(),
		})
		return EditedImage{}, fmt.Errorf("%w: %v", ErrExternalOperationFailed, err)
	}
	if len(data) == 0 {
		log.Error("image editor returned an empty image")
		return EditedImage{}, fmt.Errorf("%w: empty image", ErrExternalOperationFailed)
	}

	edited := EditedImage{
		Id:        s.ids.NewId(),
		Prompt:    request.Prompt,
		MimeType:  mimeType,
		Data:      data,
		Timestamp: s.clock.Now(),
	}
	s.mu.Lock()
	s.history = append([]EditedImage{edited}, s.history...)
	if len(s.history) > HistoryLimit {
		s.history = s.history[:HistoryLimit]
	}
	s.count++
	s.mu.Unlock()

	log.Infof("image %s edited", edited.Id)
	s.publish(ctx, event_bus.ImageEditCompleted, event_bus.ImageEdited{
		Id:        edited.Id,
		Prompt:    edited.Prompt,
		Timestamp: edited.Timestamp,
	})
	return edited, nil
}

func (s *ServiceImpl) History(ctx context.Context) []EditedImage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]EditedImage(nil), s.history...)
}

// Count is the number of successful edits since start, including those dropped from
// the history.
func (s *ServiceImpl) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data event_bus.ImageEdited) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Errorf("failed to publish %s: %v", eventType, err)
	}
}
