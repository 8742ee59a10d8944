package image_edit

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/eventpro/eventpro/internal/rest"
	log "github.com/sirupsen/logrus"
)

type EditRequestDTO struct {
	// Image is base64 encoded, optionally as a data URL.
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
	Prompt   string `json:"prompt"`
}

type EditedImageDTO struct {
	Id        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	MimeType  string    `json:"mimeType"`
	Image     string    `json:"image"`
	Timestamp time.Time `json:"timestamp"`
}

type Handler struct {
	service Service
}

func NewImageEditHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Edit godoc
// @Summary Edit an event photo
// @Description Sends the image and the prompt to the image editing backend
// @Tags Image
// @Accept json
// @Produce json
// @Param request body EditRequestDTO true "Image and prompt"
// @Success 201 {object} EditedImageDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 502 {object} rest.ErrorResponse
// @Router /api/images/edit [post]
func (handler *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	log.Debug("Editing image")
	var dto EditRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	mimeType, encoded := splitDataURL(dto.Image)
	if dto.MimeType != "" {
		mimeType = dto.MimeType
	}
	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid image", "'image' must be base64 encoded")
		return
	}

	edited, err := handler.service.Edit(r.Context(), EditRequest{Image: image, MimeType: mimeType, Prompt: dto.Prompt})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRequest):
			rest.WriteError(w, http.StatusBadRequest, "Image and prompt are required", "")
		case errors.Is(err, ErrExternalOperationFailed):
			rest.WriteError(w, http.StatusBadGateway, "Image edit failed", err.Error())
		default:
			rest.WriteError(w, http.StatusInternalServerError, err.Error(), "")
		}
		return
	}
	rest.WriteJSON(w, http.StatusCreated, toDTO(edited))
}

func (handler *Handler) History(w http.ResponseWriter, r *http.Request) {
	history := handler.service.History(r.Context())
	dtos := make([]EditedImageDTO, 0, len(history))
	for _, edited := range history {
		dtos = append(dtos, toDTO(edited))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func toDTO(edited EditedImage) EditedImageDTO {
	return EditedImageDTO{
		Id:        edited.Id,
		Prompt:    edited.Prompt,
		MimeType:  edited.MimeType,
		Image:     base64.StdEncoding.EncodeToString(edited.Data),
		Timestamp: edited.Timestamp,
	}
}

// splitDataURL accepts "data:image/png;base64,AAAA" as well as plain base64.
func splitDataURL(image string) (mimeType string, encoded string) {
	remainder, ok := strings.CutPrefix(image, "data:")
	if !ok {
		return "", image
	}
	header, encoded, ok := strings.Cut(remainder, ",")
	if !ok {
		return "", image
	}
	mimeType, _, _ = strings.Cut(header, ";")
	return mimeType, encoded
}
