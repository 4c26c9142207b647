package models_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naolametric/naolametric/internal/api/models"
)

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	models.WriteError(w, http.StatusServiceUnavailable, models.ErrMsgCacheNotReady)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Cache not ready"}`, w.Body.String())
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("tzdata not available")
	}

	data, err := json.Marshal(models.Timestamp(time.Date(2024, 3, 1, 9, 30, 0, 0, paris)))
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01T08:30:00Z"`, string(data))
}

func TestTimestampPtr(t *testing.T) {
	assert.Nil(t, models.TimestampPtr(nil))
	assert.Nil(t, models.TimestampPtr(&time.Time{}))

	now := time.Now()
	ts := models.TimestampPtr(&now)
	require.NotNil(t, ts)
	assert.True(t, now.Equal(ts.Time()))
}

func TestStopItem_JSON(t *testing.T) {
	data, err := json.Marshal([]models.StopItem{{Code: "COMM", Label: "Commerce"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"codeLieu":"COMM","libelle":"Commerce"}]`, string(data))
}
