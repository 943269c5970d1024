package server

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/usermanagement/internal/common"
	"github.com/dmitrijs2005/usermanagement/internal/logging"
	"github.com/dmitrijs2005/usermanagement/internal/server/config"
	"github.com/dmitrijs2005/usermanagement/internal/server/httpapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.SecretKey = "k"
	c.HTTPAddr = "127.0.0.1:0"
	return c
}

func withOpenDB(t *testing.T, fn func(string) (*sql.DB, error)) {
	t.Helper()
	orig, origOut := openDB, logOutput
	openDB, logOutput = fn, io.Discard
	t.Cleanup(func() { openDB, logOutput = orig, origOut })
}

func TestNewApp_RefusesEmptySecret(t *testing.T) {
	withOpenDB(t, func(string) (*sql.DB, error) {
		t.Fatal("database must not be opened without a secret")
		return nil, nil
	})

	c := testConfig()
	c.SecretKey = ""

	_, err := NewApp(c)
	assert.ErrorIs(t, err, common.ErrMissingSigningKey)
}

func TestNewApp_BadLogLevel(t *testing.T) {
	withOpenDB(t, func(string) (*sql.DB, error) { return nil, errors.New("unused") })

	c := testConfig()
	c.LogLevel = "loud"

	_, err := NewApp(c)
	assert.ErrorContains(t, err, "logger init error")
}

func TestNewApp_OpenError(t *testing.T) {
	withOpenDB(t, func(string) (*sql.DB, error) { return nil, errors.New("bad dsn") })

	_, err := NewApp(testConfig())
	assert.ErrorContains(t, err, "bad dsn")
}

func TestNewApp_PingError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	withOpenDB(t, func(string) (*sql.DB, error) { return db, nil })

	_, err = NewApp(testConfig())
	assert.ErrorContains(t, err, "db ping error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	c := testConfig()
	app := &App{config: c, logger: logging.Nop(), db: db, server: httpapi.NewServer(c.HTTPAddr, http.NotFoundHandler(), time.Second, nil)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
