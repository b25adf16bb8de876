package utils

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "x")
	t.Setenv("TEST_DURATION", "15m")
	t.Setenv("TEST_LIST", " a, ,b ")
	t.Setenv("TEST_BLANK", "  ")

	if got := GetEnv("TEST_MISSING", "def"); got != "def" {
		t.Fatalf("GetEnv = %q", got)
	}
	if got := GetEnv("TEST_BLANK", "def"); got != "def" {
		t.Fatalf("GetEnv blank = %q", got)
	}
	if got := GetEnvInt("TEST_INT", 1); got != 42 {
		t.Fatalf("GetEnvInt = %d", got)
	}
	if got := GetEnvInt("TEST_BAD_INT", 1); got != 1 {
		t.Fatalf("GetEnvInt bad = %d", got)
	}
	if got := GetEnvDuration("TEST_DURATION", time.Hour); got != 15*time.Minute {
		t.Fatalf("GetEnvDuration = %v", got)
	}
	if got := GetEnvDuration("TEST_MISSING", time.Hour); got != time.Hour {
		t.Fatalf("GetEnvDuration default = %v", got)
	}
	if got := GetEnvList("TEST_LIST", nil); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("GetEnvList = %v", got)
	}
}

func TestLogErrorIgnoresNil(t *testing.T) {
	LogError(nil, "nothing")
	LogError(errors.New("boom"), "something")
}

// inDir runs the rest of the test with dir as the working directory.
func inDir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadEnvMissingFile(t *testing.T) {
	inDir(t, t.TempDir())
	if err := LoadEnv(); err != nil {
		t.Fatalf("LoadEnv without .env = %v, want nil", err)
	}
}

func TestLoadEnvReadsFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CARELINK_ENV_TEST=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	inDir(t, dir)
	t.Setenv("CARELINK_ENV_TEST", "")
	os.Unsetenv("CARELINK_ENV_TEST")

	if err := LoadEnv(); err != nil {
		t.Fatal(err)
	}
	if got := GetEnv("CARELINK_ENV_TEST", ""); got != "from-file" {
		t.Fatalf("CARELINK_ENV_TEST = %q, want from-file", got)
	}
}

func TestLoadEnvUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".env"), 0o700); err != nil {
		t.Fatal(err)
	}
	inDir(t, dir)
	if err := LoadEnv(); err == nil {
		t.Fatal("LoadEnv with a directory named .env = nil, want error")
	}
}
