package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title string `json:"title" validate:"required,max=5"`
}

type selfValidating struct{}

func (selfValidating) Validate() error { return errors.New("custom") }

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		want    string
	}{
		{name: "valid", body: `{"title":"abc"}`, want: "abc"},
		{name: "malformed", body: `{"title":`, wantErr: true},
		{name: "wrong_type", body: `{"title":5}`, wantErr: true},
		{name: "empty_body", body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var req sampleRequest
			err := DecodeJSON(w, r, &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Title)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(sampleRequest{Title: "abc"}))
	})

	t.Run("field_uses_json_name", func(t *testing.T) {
		err := ValidateRequest(sampleRequest{})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "title", verrs[0].Field())
		assert.Equal(t, "required", verrs[0].Tag())
	})

	t.Run("max_length", func(t *testing.T) {
		err := ValidateRequest(sampleRequest{Title: "toolong"})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "max", verrs[0].Tag())
	})

	t.Run("custom_validate_method", func(t *testing.T) {
		assert.EqualError(t, ValidateRequest(selfValidating{}), "custom")
	})
}
