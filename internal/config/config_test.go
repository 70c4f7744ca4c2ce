package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func initIn(t *testing.T, dir string) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, Init())
}

func TestDefaults(t *testing.T) {
	initIn(t, t.TempDir())
	require.Equal(t, "", GetLanguage())
	require.False(t, GetRelaxed())
	require.GreaterOrEqual(t, GetJobs(), 1)
	require.Empty(t, GetExclude())
	require.Equal(t, "text", GetOutput())
	require.Equal(t, "warn", GetLogConfig().Level)
	require.Equal(t, "36", GetColorPath())
}

func TestConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "lang: asm\nrelaxed: true\njobs: 3\nexclude:\n  - vendor\n  - \"*.gen.c\"\nlog_file: ~/sloclass.log\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sloclass.yaml"), []byte(yaml), 0o644))
	t.Setenv("SLOCLASS_OUTPUT", "csv")

	initIn(t, dir)
	require.Equal(t, "asm", GetLanguage())
	require.True(t, GetRelaxed())
	require.Equal(t, 3, GetJobs())
	require.Equal(t, []string{"vendor", "*.gen.c"}, GetExclude())
	require.Equal(t, "csv", GetOutput())
	require.Equal(t, filepath.Join(dir, "sloclass.log"), GetLogConfig().File)
	require.Equal(t, 3, C.Jobs)
}

func TestSetters(t *testing.T) {
	initIn(t, t.TempDir())
	SetOutput("json")
	SetLanguage("c")
	SetRelaxed(true)
	require.Equal(t, "json", GetOutput())
	require.Equal(t, "c", GetLanguage())
	require.True(t, GetRelaxed())
	require.Equal(t, "json", C.Output)
}
