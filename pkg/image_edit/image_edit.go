package image_edit

import (
	"errors"
	"time"
)

// ErrExternalOperationFailed wraps every failure of the image editing collaborator.
// Nothing else in the application is affected by such a failure.
var ErrExternalOperationFailed = errors.New("external operation failed")

// ErrInvalidRequest is returned when the image or the prompt is missing.
var ErrInvalidRequest = errors.New("invalid image edit request")

// HistoryLimit is the number of edited images kept in memory.
const HistoryLimit = 20

type EditRequest struct {
	Image    []byte
	MimeType string
	Prompt   string
}

type EditedImage struct {
	Id        string
	Prompt    string
	MimeType  string
	Data      []byte
	Timestamp time.Time
}
