package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
)

func TestOpenQueryLog(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv", func(t *testing.T) {
		log, err := openQueryLog(domain.LogSettings{Sink: domain.LogSinkCSV, Path: filepath.Join(dir, "chat.csv")})
		require.NoError(t, err)
		require.NotNil(t, log)
		defer log.Close()
		_, ok := log.(driven.QueryLogReader)
		assert.True(t, ok)
	})

	t.Run("sqlite", func(t *testing.T) {
		log, err := openQueryLog(domain.LogSettings{Sink: domain.LogSinkSQLite, Path: filepath.Join(dir, "q.db")})
		require.NoError(t, err)
		require.NotNil(t, log)
		defer log.Close()
		_, ok := log.(driven.QueryLogReader)
		assert.True(t, ok)
	})

	t.Run("none", func(t *testing.T) {
		log, err := openQueryLog(domain.LogSettings{Sink: domain.LogSinkNone})
		require.NoError(t, err)
		assert.Nil(t, log)
	})

	t.Run("unknown", func(t *testing.T) {
		log, err := openQueryLog(domain.LogSettings{Sink: "kafka"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Nil(t, log)
	})
}
