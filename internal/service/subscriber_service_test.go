package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "courtwatch/internal/errors"
)

func TestSubscribeRejectsInvalidEmail(t *testing.T) {
	svc := NewSubscriberService(nil)

	for _, email := range []string{"", "not-an-email", "missing@domain@twice", "spaces in@example.com"} {
		_, err := svc.Subscribe(email)
		require.Error(t, err, "email %q", email)

		var httpErr *apperrors.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Code)
	}
}
