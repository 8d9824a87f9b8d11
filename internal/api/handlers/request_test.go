package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteRequest struct {
	Title  string `json:"title" validate:"required,max=10"`
	Amount int    `json:"amount" validate:"gt=0"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "valid", body: `{"title":"rent","amount":3}`},
		{name: "empty", body: ``, wantErr: ErrEmptyBody},
		{name: "broken json", body: `{"title":`, wantErr: ErrInvalidBody},
		{name: "unknown field", body: `{"title":"rent","amount":3,"x":1}`, wantErr: ErrInvalidBody},
		{name: "missing title", body: `{"amount":3}`, wantErr: ErrValidation},
		{name: "zero amount", body: `{"title":"rent","amount":0}`, wantErr: ErrValidation},
		{name: "title too long", body: `{"title":"electricity bill","amount":3}`, wantErr: ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst noteRequest
			err := DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)), &dst)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, noteRequest{Title: "rent", Amount: 3}, dst)
		})
	}
}

func TestPathParams(t *testing.T) {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{
		"bookingId": "42",
		"badId":     "-1",
		"date":      "2025-03-10",
		"shiftId":   "not-a-uuid",
	})

	id, err := PathInt64(req, "bookingId")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = PathInt64(req, "badId")
	assert.ErrorIs(t, err, ErrInvalidParam)

	date, err := PathDate(req, "date")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", date.Format("2006-01-02"))

	_, err = PathUUID(req, "shiftId")
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestQueryParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?from=2025-03-01&status=completed&includeCanceled=1&to=03/10", nil)

	from, err := OptionalQueryDate(req, "from")
	require.NoError(t, err)
	require.NotNil(t, from)
	assert.Equal(t, "2025-03-01", from.Format("2006-01-02"))

	_, err = OptionalQueryDate(req, "to")
	assert.ErrorIs(t, err, ErrInvalidParam)

	missing, err := OptionalQueryDate(req, "until")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = QueryDate(req, "date")
	assert.ErrorIs(t, err, ErrInvalidParam)

	require.NotNil(t, OptionalQueryString(req, "status"))
	assert.Equal(t, "completed", *OptionalQueryString(req, "status"))
	assert.Nil(t, OptionalQueryString(req, "category"))

	assert.True(t, QueryBool(req, "includeCanceled"))
	assert.False(t, QueryBool(req, "archived"))
}
