package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ws "chatline/internal/infrastructure/websocket"
)

func TestWebSocketHandler_RequiresUserID(t *testing.T) {
	h := NewWebSocketHandler(ws.NewManager())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()

	err := h.HandleWebSocket(e.NewContext(req, rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

// A plain GET without the upgrade headers fails the handshake. The upgrader
// writes the HTTP error itself, so the handler must return nil instead of a
// second error response.
func TestWebSocketHandler_FailedUpgradeWritesSingleResponse(t *testing.T) {
	h := NewWebSocketHandler(ws.NewManager())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/ws?user_id=alice", nil)
	rec := httptest.NewRecorder()

	err := h.HandleWebSocket(e.NewContext(req, rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
