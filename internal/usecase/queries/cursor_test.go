//go:build unit

package queries_test

import (
	"encoding/base64"
	"testing"
	"time"

	"shop-inventory/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfterCursor(t *testing.T) {
	t.Run("round trip preserves microsecond timestamp and id", func(t *testing.T) {
		at := time.Date(2025, 6, 1, 12, 0, 0, 123456000, time.UTC)
		id := uuid.New()

		cursor := queries.EncodeAfterCursor(at, id)
		gotTime, gotID, err := queries.DecodeAfterCursor(cursor)

		require.NoError(t, err)
		assert.True(t, at.Equal(gotTime))
		assert.Equal(t, id, gotID)
	})

	t.Run("sub-microsecond precision is truncated", func(t *testing.T) {
		at := time.Date(2025, 6, 1, 12, 0, 0, 123456789, time.UTC)

		cursor := queries.EncodeAfterCursor(at, uuid.New())
		gotTime, _, err := queries.DecodeAfterCursor(cursor)

		require.NoError(t, err)
		assert.Equal(t, at.UnixMicro(), gotTime.UnixMicro())
		assert.NotEqual(t, at.UnixNano(), gotTime.UnixNano())
	})

	t.Run("rejects malformed cursors", func(t *testing.T) {
		cases := []struct {
			name   string
			cursor string
		}{
			{"empty", ""},
			{"not base64", "%%%"},
			{"wrong version", base64.URLEncoding.EncodeToString([]byte("v2:123-" + uuid.NewString()))},
			{"missing separator", base64.URLEncoding.EncodeToString([]byte("v1:123456"))},
			{"bad timestamp", base64.URLEncoding.EncodeToString([]byte("v1:abc-" + uuid.NewString()))},
			{"bad uuid", base64.URLEncoding.EncodeToString([]byte("v1:123-not-a-uuid"))},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, _, err := queries.DecodeAfterCursor(tc.cursor)
				assert.Error(t, err)
			})
		}
	})
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 20, queries.ValidateLimit(0))
	assert.Equal(t, 20, queries.ValidateLimit(-5))
	assert.Equal(t, 50, queries.ValidateLimit(50))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(queries.MaxListLimit+1))
}
