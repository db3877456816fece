package database

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bryan-buckman/newsdesk/internal/config"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{wrap("op", ErrDuplicateKey, errors.New("cause")), "duplicate"},
		{wrap("op", ErrReferential, nil), "referential"},
		{wrap("op", ErrMalformedInput, nil), "malformed"},
		{wrap("op", ErrStorageUnavailable, nil), "unavailable"},
		{wrap("op", ErrStorage, nil), "storage"},
		{errors.New("plain"), "storage"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err))
	}
}

func TestWrapKeepsKindAndCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := wrap("insert report", ErrStorage, cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "insert report: storage error: disk on fire", err.Error())
}

func TestClassifyPostgres(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique", &pq.Error{Code: "23505"}, ErrDuplicateKey},
		{"foreign key", &pq.Error{Code: "23503"}, ErrReferential},
		{"not null", &pq.Error{Code: "23502"}, ErrMalformedInput},
		{"other sqlstate", &pq.Error{Code: "53100"}, ErrStorage},
		{"not a pq error", errors.New("connection reset"), ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyPostgres("insert article", tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestQualify(t *testing.T) {
	assert.Equal(t, "r.report_id, r.report_date, r.content", qualify("r", reportColumns))
}

func TestOpen(t *testing.T) {
	store, err := Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "news.db")})
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, "SQLite", store.DatabaseType())

	_, err = Open(config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, `unknown database driver "oracle"`)
}
