package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestBanksList(t *testing.T) {
	out, err := run(t, "", "banks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "security-plus")
	assert.Contains(t, out, "pbq-firewall")
}

func TestBanksValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"acronyms":[{"id":"x","acronym":"X","expansion":"Ex"}]}`), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte(`{"widgets":[]}`), 0o644))

	out, err := run(t, "", "banks", "validate", good, bad)
	assert.Error(t, err)
	assert.Contains(t, out, "ok   "+good)
	assert.Contains(t, out, "FAIL "+bad)
}

func TestPrefsName(t *testing.T) {
	t.Setenv("PREFS_PATH", filepath.Join(t.TempDir(), "prefs.yaml"))
	out, err := run(t, "", "prefs", "name", "Grace")
	require.NoError(t, err)
	assert.Equal(t, "Grace\n", out)

	out, err = run(t, "", "prefs", "name")
	require.NoError(t, err)
	assert.Equal(t, "Grace\n", out)
}

func TestAdminHash(t *testing.T) {
	out, err := run(t, "hunter2\n", "admin", "hash")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("hunter2")))
}

func TestDrillPBQOffline(t *testing.T) {
	t.Setenv("PREFS_PATH", filepath.Join(t.TempDir(), "prefs.yaml"))
	out, err := run(t, "quit\n", "drill", "pbq", "pbq-vpn-config", "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, "VPN")

	_, err = run(t, "", "drill", "pbq", "pbq-missing", "--offline")
	assert.Error(t, err)
}
