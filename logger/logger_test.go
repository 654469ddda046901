package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("production", WithWriter(&buf))

	log.Info("Student added", "name", "Alice")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Student added", record["msg"])
	assert.Equal(t, "Alice", record["name"])
}

func TestNew_DevelopmentWritesText(t *testing.T) {
	var buf bytes.Buffer
	log := New("development", WithWriter(&buf))

	log.Info("Student added", "name", "Alice")

	assert.Contains(t, buf.String(), "Student added")
	assert.Contains(t, buf.String(), "name=Alice")
	assert.NotContains(t, buf.String(), "\x1b[", "no color outside a terminal")
}

func TestNew_LevelVar(t *testing.T) {
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	log := New("production", WithWriter(&buf), WithLevel(level))

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	level.Set(slog.LevelInfo)
	log.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "school.log")
	var buf bytes.Buffer
	log := New("production", WithWriter(&buf), WithLogFile(path), WithRotation(1, 1, 1))

	log.Info("to both")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, buf.String(), "to both")
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	router := gin.New()
	router.Use(GinMiddleware(New("production", WithWriter(&buf))))
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "/missing", record["path"])
	assert.EqualValues(t, http.StatusNotFound, record["status"])
}
