package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePurchaseDate(t *testing.T) {
	parsed, err := ParsePurchaseDate("01/15/24")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParsePurchaseDate("15/01/2024")
	require.Error(t, err)

	_, err = ParsePurchaseDate("")
	require.Error(t, err)
}
