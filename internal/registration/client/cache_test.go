package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailKeyKeepsTheBackendSpelling(t *testing.T) {
	assert.Equal(t, emailKeyPrefix+"ada@example.com", emailKey("ada@example.com"))
	assert.NotEqual(t, emailKey("ada@example.com"), emailKey("Ada@Example.com"))
}
