package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleNotFound(t *testing.T) {
	value := 42

	got, err := HandleNotFound(&value, nil)
	assert.NoError(t, err)
	assert.Equal(t, &value, got)

	got, err = HandleNotFound(&value, fmt.Errorf("get application: %w", sql.ErrNoRows))
	assert.NoError(t, err)
	assert.Nil(t, got)

	boom := errors.New("connection reset")
	got, err = HandleNotFound(&value, boom)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}
