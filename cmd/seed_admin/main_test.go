package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// run parsea args con los flags del comando y lo ejecuta.
func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	f.SetOutput(io.Discard)
	cmd.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return cmd.Execute(context.Background(), f)
}

func TestWriteSeed_EscapaComillas(t *testing.T) {
	var b strings.Builder
	require.NoError(t, writeSeed(&b, "o'brien", "$2a$10$hash"))
	sql := b.String()
	assert.Contains(t, sql, "VALUES ('o''brien', '$2a$10$hash', 'ADMIN')")
	assert.Contains(t, sql, "ON CONFLICT (username) DO UPDATE")
}

func TestSeedCmd_EscribeArchivo(t *testing.T) {
	out := filepath.Join(t.TempDir(), "seed.sql")
	var stdout bytes.Buffer
	cmd := &seedCmd{stdout: &stdout}

	status := run(t, cmd, "-u", "admin", "-p", "rahasia", "-o", out, "-cost", "4")
	require.Equal(t, subcommands.ExitSuccess, status)

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(body), "VALUES ('admin', '$2a$04$")
	assert.Contains(t, stdout.String(), out)
}

func TestSeedCmd_ValidaEntrada(t *testing.T) {
	assert.Equal(t, subcommands.ExitUsageError, run(t, &seedCmd{}, "-u", " ", "-p", "rahasia"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &seedCmd{}, "-u", "admin", "-p", "123"))
}

func TestHashCmd_HashVerificable(t *testing.T) {
	var stdout bytes.Buffer
	status := run(t, &hashCmd{stdout: &stdout}, "-p", "rahasia", "-cost", "4")
	require.Equal(t, subcommands.ExitSuccess, status)

	hash := strings.TrimSpace(stdout.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("rahasia")))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &hashCmd{}, "-p", "x"))
}
