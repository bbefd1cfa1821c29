package cmd

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/habedi/showcase/catalog"
	"github.com/habedi/showcase/db"
	"github.com/habedi/showcase/pkg/clierr"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// TestCreateRootCmd checks the command tree and that the default help command is replaced.
func TestCreateRootCmd(t *testing.T) {
	rootCmd := createRootCmd()
	assert.Equal(t, "showcase", rootCmd.Use)

	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
		assert.NotEqual(t, "help", c.Use)
	}
	assert.Subset(t, names, []string{"session", "catalogue", "config", "version"})
}

// TestInitializeAndCloseDatabase opens the database at a temporary path and closes it again.
func TestInitializeAndCloseDatabase(t *testing.T) {
	db.Path = filepath.Join(t.TempDir(), "catalogue.db")
	require.NoError(t, initializeDatabase())
	require.NotNil(t, db.GetDB())
	require.NoError(t, initializeDatabase(), "second call reuses the open connection")
	closeDatabase()
	assert.Nil(t, db.GetDB())
	closeDatabase()
}

// TestExecuteFailure runs a subprocess whose root command always fails and checks the exit code.
func TestExecuteFailure(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_FAILURE") == "1" {
		rootCmd := createRootCmd()
		rootCmd.PersistentPreRunE = nil
		rootCmd.SetArgs([]string{})
		rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
			return clierr.New(clierr.NotFound, "dummy failure", errors.New("missing"))
		}
		if err := rootCmd.Execute(); err != nil {
			os.Exit(clierr.ExitCode(err))
		}
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestExecuteFailure")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_FAILURE=1")
	err := cmd.Run()
	var exitError *exec.ExitError
	require.ErrorAs(t, err, &exitError)
	assert.Equal(t, 3, exitError.ExitCode())
}

// testEnv isolates configuration and the database for one command run.
type testEnv struct {
	dir    string
	source string
	dbPath string
}

func newTestEnv(t *testing.T, c catalog.Catalog) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("SHOWCASE_CONFIG", "")
	require.NoError(t, os.Unsetenv("SHOWCASE_CONFIG"))

	data, err := catalog.Marshal(c)
	require.NoError(t, err)
	source := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(source, data, 0o644))

	t.Cleanup(closeDatabase)
	return &testEnv{dir: dir, source: source, dbPath: filepath.Join(dir, "cache", "catalogue.db")}
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	rootCmd := createRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--source", e.source, "--db", e.dbPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoadSettings_FlagOverrides(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.run(t, "", "--strategy", "remote", "catalogue", "list")
	require.NoError(t, err)
	assert.Equal(t, env.source, settings.Source.Location)
	assert.Equal(t, env.dbPath, settings.Database.Path)
	assert.Equal(t, "remote", settings.Store.Strategy)
	assert.Equal(t, env.dbPath, db.Path)
}

func TestLoadSettings_InvalidStrategy(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.run(t, "", "--strategy", "sometimes", "catalogue", "list")
	var ce *clierr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, clierr.Validation, ce.Type)
}

func TestSessionCmd_RunsScript(t *testing.T) {
	env := newTestEnv(t, catalog.Catalog{
		{ID: "1", Title: "B"},
		{ID: "2", Title: "A"},
	})
	out, err := env.run(t, "option2\nappend\noption1\nappend\ncreate\nC\n\ny\nquit\n", "session")
	require.NoError(t, err)
	assert.Contains(t, out, "Wybrana treść została już dodana.")

	// the created entry was written through to the cache
	repo := db.NewEntryRepository(db.GetDB())
	n, err := repo.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
