package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/vows/internal/app"
	"github.com/jsamuelsen/vows/internal/domain"
	"github.com/jsamuelsen/vows/internal/mocks"
)

func setupReadwiseRouter(t *testing.T, setupMock func(*mocks.MockHighlightSource)) *gin.Engine {
	t.Helper()

	source := mocks.NewMockHighlightSource(t)
	if setupMock != nil {
		setupMock(source)
	}

	service := app.NewHighlightService(app.HighlightServiceConfig{
		Source: source,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	router := gin.New()
	router.POST("/readwise", NewReadwiseHandler(service).FetchHighlights)

	return router
}

func ptr[T any](v T) *T { return &v }

func sampleHighlight() domain.Highlight {
	return domain.Highlight{
		ID:               1,
		Text:             "The happiness of your life depends upon the quality of your thoughts.",
		Location:         ptr(12),
		LocationType:     ptr("page"),
		SourceDocumentID: ptr(int64(10)),
		Tags:             []domain.Tag{{ID: 5, Name: "favorite"}},
		Document: &domain.SourceDocument{
			ID:     10,
			Title:  ptr("Meditations"),
			Author: ptr("Marcus Aurelius"),
		},
	}
}

func TestReadwiseHandler_FetchHighlights(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*mocks.MockHighlightSource)
		expectedStatus int
		expectedError  string
		expectedCount  int
	}{
		{
			name: "success",
			body: `{"apiKey":"tok"}`,
			setupMock: func(m *mocks.MockHighlightSource) {
				m.EXPECT().FetchAllHighlights(mock.Anything, "tok").
					Return([]domain.Highlight{sampleHighlight(), {ID: 2, Text: "second", Tags: []domain.Tag{}}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name: "empty account",
			body: `{"apiKey":"tok"}`,
			setupMock: func(m *mocks.MockHighlightSource) {
				m.EXPECT().FetchAllHighlights(mock.Anything, "tok").Return([]domain.Highlight{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing key",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  MsgReadwiseKeyRequired,
		},
		{
			name:           "blank key",
			body:           `{"apiKey":"   "}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  MsgReadwiseKeyRequired,
		},
		{
			name:           "malformed body",
			body:           `not json`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  MsgReadwiseKeyRequired,
		},
		{
			name: "invalid key",
			body: `{"apiKey":"bad"}`,
			setupMock: func(m *mocks.MockHighlightSource) {
				m.EXPECT().FetchAllHighlights(mock.Anything, "bad").
					Return(nil, domain.NewInvalidCredentialError("readwise", http.StatusUnauthorized))
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  MsgReadwiseKeyInvalid,
		},
		{
			name: "provider failure",
			body: `{"apiKey":"tok"}`,
			setupMock: func(m *mocks.MockHighlightSource) {
				m.EXPECT().FetchAllHighlights(mock.Anything, "tok").
					Return(nil, domain.NewRemoteStatusError("readwise", http.StatusInternalServerError, "boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  MsgReadwiseFailed,
		},
		{
			name: "canceled",
			body: `{"apiKey":"tok"}`,
			setupMock: func(m *mocks.MockHighlightSource) {
				m.EXPECT().FetchAllHighlights(mock.Anything, "tok").Return(nil, context.Canceled)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  MsgReadwiseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupReadwiseRouter(t, tt.setupMock)

			w := postJSON(router, "/readwise", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeMessage(t, w))
				return
			}

			var resp ReadwiseResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Highlights)
			assert.Len(t, resp.Highlights, tt.expectedCount)
		})
	}
}

func TestReadwiseHandler_EmptyBody(t *testing.T) {
	router := setupReadwiseRouter(t, nil)

	w := postJSON(router, "/readwise", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Readwise API key is required"}`, w.Body.String())
}

func TestReadwiseHandler_ResponseShape(t *testing.T) {
	router := setupReadwiseRouter(t, func(m *mocks.MockHighlightSource) {
		m.EXPECT().FetchAllHighlights(mock.Anything, "tok").Return([]domain.Highlight{sampleHighlight()}, nil)
	})

	w := postJSON(router, "/readwise", `{"apiKey":"tok"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"highlights":[{
		"id": 1,
		"text": "The happiness of your life depends upon the quality of your thoughts.",
		"location": 12,
		"location_type": "page",
		"book_id": 10,
		"tags": [{"id": 5, "name": "favorite"}],
		"book": {"id": 10, "title": "Meditations", "author": "Marcus Aurelius"}
	}]}`, w.Body.String())
}

func TestToHighlightResponse_NoDocument(t *testing.T) {
	resp := toHighlightResponse(&domain.Highlight{ID: 3, Text: "loose"})

	assert.Nil(t, resp.Book)
	assert.NotNil(t, resp.Tags)
	assert.Empty(t, resp.Tags)
}
