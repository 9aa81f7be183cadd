package cli

import (
	"errors"

	"routehub-client/internal/response"
)

// reported wraps an error the user has already been shown
type reported struct {
	err error
}

func (r reported) Error() string { return r.err.Error() }
func (r reported) Unwrap() error { return r.err }

// silence marks an error the engine has already sent to the sink
func silence(err error) error {
	if err == nil {
		return nil
	}
	return reported{err}
}

// IsReported reports whether err was already shown to the user
func IsReported(err error) bool {
	var r reported
	return errors.As(err, &r)
}

func messageOf(err error) string {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return response.MessageOf(err)
	}
	return err.Error()
}
