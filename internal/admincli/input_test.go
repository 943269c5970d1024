package admincli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func withTerminal(t *testing.T, tty bool, read func(int) ([]byte, error)) {
	t.Helper()
	oldTTY, oldRead := isTerminal, readPassword
	isTerminal = func(int) bool { return tty }
	if read != nil {
		readPassword = read
	}
	t.Cleanup(func() { isTerminal, readPassword = oldTTY, oldRead })
}

func TestGetPassword_Piped(t *testing.T) {
	withTerminal(t, false, nil)

	var out bytes.Buffer
	got, err := GetPassword(rdr("s3cret\r\n"), "Enter password: ", &out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
	assert.Equal(t, "Enter password: ", out.String())

	got, err = GetPassword(rdr("lastline"), "p: ", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetPassword(rdr(""), "p: ", &out)
	assert.Error(t, err)
}

func TestGetPassword_Terminal(t *testing.T) {
	withTerminal(t, true, func(int) ([]byte, error) { return []byte("typed"), nil })

	var out bytes.Buffer
	got, err := GetPassword(rdr("ignored\n"), "Enter password: ", &out)
	require.NoError(t, err)
	assert.Equal(t, "typed", got)
	assert.Equal(t, "Enter password: \n", out.String())
}

func TestGetPassword_TerminalError(t *testing.T) {
	withTerminal(t, true, func(int) ([]byte, error) { return nil, errors.New("boom") })

	var out bytes.Buffer
	_, err := GetPassword(rdr(""), "p: ", &out)
	assert.EqualError(t, err, "boom")
}

func TestGetNewPassword(t *testing.T) {
	withTerminal(t, false, nil)

	var out bytes.Buffer
	got, err := GetNewPassword(rdr("pw\npw\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "pw", got)

	_, err = GetNewPassword(rdr("pw\nother\n"), &out)
	assert.EqualError(t, err, "passwords do not match")

	_, err = GetNewPassword(rdr("\n\n"), &out)
	assert.EqualError(t, err, "password must not be empty")
}
