package overlay

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_For(t *testing.T) {
	updated := time.Date(2026, 2, 11, 8, 0, 0, 0, time.UTC)
	s := Snapshot{
		Entries:     map[string]Entry{"김철수": {Used: decimal.RequireFromString("1.5"), Details: "2/3 연차"}},
		LastUpdated: updated,
	}

	o := s.For("김철수")
	require.NotNil(t, o)
	assert.Equal(t, "1.5", o.Used.String())
	assert.Equal(t, "2/3 연차", o.Details)
	assert.Equal(t, updated, o.UpdatedAt)

	assert.Nil(t, s.For("이영희"))
	assert.Nil(t, Snapshot{}.For("김철수"))
}
