package db

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonathan/swipe-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, isNoRows(pgx.ErrNoRows))
	assert.True(t, isNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	assert.False(t, isNoRows(errors.New("other")))
}

func TestMigrations_OrderedAndUnique(t *testing.T) {
	require.NotEmpty(t, migrations)
	seen := make(map[string]bool)
	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version, "migration versions must be contiguous")
		assert.NotEmpty(t, m.Name)
		assert.False(t, seen[m.Name], "duplicate migration name %s", m.Name)
		seen[m.Name] = true
		assert.NotEmpty(t, strings.TrimSpace(m.SQL))
	}
}

func TestMigrations_LiveApplicationIndex(t *testing.T) {
	var found bool
	for _, m := range migrations {
		if strings.Contains(m.SQL, "idx_applications_live") {
			found = true
			assert.Contains(t, m.SQL, "UNIQUE INDEX")
			assert.Contains(t, m.SQL, "NOT IN ('rejected', 'withdrawn')")
		}
	}
	assert.True(t, found)
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	v := nullIfEmpty("mobile")
	require.NotNil(t, v)
	assert.Equal(t, "mobile", *v)
}

func TestMarshalRecLists_NilBecomesEmptyArray(t *testing.T) {
	r := &types.AIRecommendation{MatchedSkills: []string{"Go"}}
	matched, missing, strengths, suggestions, err := marshalRecLists(r)
	require.NoError(t, err)
	assert.JSONEq(t, `["Go"]`, string(matched))
	assert.JSONEq(t, `[]`, string(missing))
	assert.JSONEq(t, `[]`, string(strengths))
	assert.JSONEq(t, `[]`, string(suggestions))
}

func TestHistoryOrEmpty(t *testing.T) {
	assert.NotNil(t, historyOrEmpty(nil))
	assert.Len(t, historyOrEmpty([]types.StatusChange{{To: types.StatusPending}}), 1)
}

func TestUTCDay(t *testing.T) {
	ny := time.FixedZone("EST", -5*60*60)

	late := time.Date(2024, 3, 10, 21, 30, 0, 0, ny)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), utcDay(late))
	assert.Equal(t, utcDay(late), utcDay(utcDay(late)))
}

func TestMigrations_SwipeCounters(t *testing.T) {
	last := migrations[len(migrations)-1]
	assert.Equal(t, "swipe_counters", last.Name)
	assert.Contains(t, last.SQL, "PRIMARY KEY (user_id, day)")
}
