package image_edit

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eventpro/eventpro/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) (*Handler, *EditorStub) {
	editor := NewEditorStub([]byte("edited"))
	service := NewService(editor, nil, &utils.MockClock{FixedNow: now}, utils.NewSequenceGenerator("img-"))
	return NewImageEditHandler(service), editor
}

func postEdit(handler *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/images/edit", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.Edit(w, req)
	return w
}

func TestHandler_Edit(t *testing.T) {
	handler, _ := setupHandlerTest(t)
	image := base64.StdEncoding.EncodeToString([]byte("raw"))

	w := postEdit(handler, `{"image":"data:image/png;base64,`+image+`","prompt":"brighter"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var edited EditedImageDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&edited))
	assert.Equal(t, "img-1", edited.Id)
	assert.Equal(t, "image/png", edited.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("edited")), edited.Image)

	t.Run("history lists the edit", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.History(w, httptest.NewRequest(http.MethodGet, "/api/images", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var history []EditedImageDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&history))
		require.Len(t, history, 1)
		assert.Equal(t, "brighter", history[0].Prompt)
	})
}

func TestHandler_Edit_BadRequests(t *testing.T) {
	handler, _ := setupHandlerTest(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"invalid base64", `{"image":"***","prompt":"brighter"}`},
		{"missing prompt", `{"image":"` + base64.StdEncoding.EncodeToString([]byte("raw")) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postEdit(handler, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandler_Edit_CollaboratorFailure(t *testing.T) {
	handler, editor := setupHandlerTest(t)
	editor.SetError(errors.New("backend down"))

	w := postEdit(handler, `{"image":"`+base64.StdEncoding.EncodeToString([]byte("raw"))+`","prompt":"brighter"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSplitDataURL(t *testing.T) {
	tests := []struct {
		input        string
		wantMimeType string
		wantEncoded  string
	}{
		{"data:image/png;base64,AAAA", "image/png", "AAAA"},
		{"AAAA", "", "AAAA"},
		{"data:broken", "", "data:broken"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mimeType, encoded := splitDataURL(tt.input)
			assert.Equal(t, tt.wantMimeType, mimeType)
			assert.Equal(t, tt.wantEncoded, encoded)
		})
	}
}
