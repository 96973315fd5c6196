package resp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ram-SrinivasChandran/cos-spring-project/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &services.ValidationError{Violations: []services.Violation{{Field: "name", Rule: "required"}}}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("create: %w", services.ErrValidation), http.StatusBadRequest},
		{"unauthorized", fmt.Errorf("user 3: %w", services.ErrUnauthorized), http.StatusUnauthorized},
		{"not found", fmt.Errorf("order 9: %w", services.ErrNotFound), http.StatusNotFound},
		{"gorm not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"invalid state", fmt.Errorf("order 1: %w", services.ErrInvalidState), http.StatusConflict},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			Error(c, tt.err)
			assert.Equal(t, tt.want, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["ok"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestErrorValidationFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, &services.ValidationError{Violations: []services.Violation{
		{Field: "items[0].quantity", Rule: "min", Message: "quantity must be at least 1"},
	}})

	var body struct {
		Fields []services.Violation `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "items[0].quantity", body.Fields[0].Field)
}
