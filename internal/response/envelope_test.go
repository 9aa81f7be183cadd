package response

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, body string) *Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	return &env
}

func TestEnvelope_Classify(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Outcome
	}{
		{"payload without flag or messages", `{"messages": [], "data": {"id": "x"}}`, OutcomeSuccess},
		{"explicit failure", `{"isSuccess": false, "errorMessages": ["Content too short"]}`, OutcomeFailure},
		{"empty object", `{}`, OutcomeInconsistent},
		{"explicit success without data", `{"isSuccess": true}`, OutcomeSuccess},
		{"flag wins over messages", `{"isSuccess": true, "errorMessages": ["ignored"]}`, OutcomeSuccess},
		{"flag wins over payload", `{"isSuccess": false, "data": {"id": "x"}}`, OutcomeFailure},
		{"messages win over payload", `{"messages": [{"message": "bad"}], "data": {"id": "x"}}`, OutcomeFailure},
		{"null payload", `{"data": null}`, OutcomeInconsistent},
		{"empty array payload counts as present", `{"data": []}`, OutcomeSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := decodeEnvelope(t, tt.body)
			assert.Equal(t, tt.want, env.Classify())
		})
	}
}

func TestEnvelope_ErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"plain error string", `{"isSuccess": false, "errorMessages": ["Content too short"]}`, "Content too short"},
		{"field messages first", `{"messages": [{"propertyName": "Content", "message": "Too short"}], "errorMessages": ["other"]}`, "Too short"},
		{"capitalised message key", `{"messages": [{"Message": "Upper"}]}`, "Upper"},
		{"joined", `{"errorMessages": ["a", "", "b"]}`, "a, b"},
		{"fallback", `{}`, GenericErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := decodeEnvelope(t, tt.body)
			assert.Equal(t, tt.want, env.ErrorMessage())
		})
	}
}

func TestEnvelope_Err(t *testing.T) {
	env := decodeEnvelope(t, `{}`)
	err := env.Err()
	require.Error(t, err)
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrCodeInconsistent, appErr.Code)
	assert.Equal(t, GenericErrorMessage, appErr.Message)

	env = decodeEnvelope(t, `{"isSuccess": false, "statusCode": 400, "errorMessages": ["Content too short"]}`)
	err = env.Err()
	require.Error(t, err)
	assert.Equal(t, ErrCodeServer, CodeOf(err))
	assert.Equal(t, "Content too short", MessageOf(err))

	env = decodeEnvelope(t, `{"data": {"id": "x"}}`)
	assert.NoError(t, env.Err())
}

func TestEnvelope_DecodeData(t *testing.T) {
	env := decodeEnvelope(t, `{"isSuccess": true, "data": {"id": "abc"}}`)
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, env.DecodeData(&out))
	assert.Equal(t, "abc", out.ID)

	empty := decodeEnvelope(t, `{"isSuccess": true}`)
	out.ID = "unchanged"
	require.NoError(t, empty.DecodeData(&out))
	assert.Equal(t, "unchanged", out.ID)
}

func TestIsLocal(t *testing.T) {
	assert.True(t, IsLocal(NewValidationError("too short")))
	assert.False(t, IsLocal(NewNetworkError(errors.New("boom"))))
	assert.False(t, IsLocal(&AppError{Code: ErrCodeUnauthorized, StatusCode: 401}))
}
