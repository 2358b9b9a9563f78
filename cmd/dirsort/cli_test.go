package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dirsort/internal/journal"
	"dirsort/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	stateDir   string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("DIRSORT_STATE_DIR", "")

	stateDir := filepath.Join(base, "state")
	configPath := filepath.Join(base, "dirsort.toml")
	content := fmt.Sprintf(
		"[paths]\nstate_dir = %q\nlog_dir = %q\n\n[sorter]\nworkers = 2\n\n[logging]\nlevel = \"error\"\n",
		stateDir, filepath.Join(stateDir, "logs"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{baseDir: base, stateDir: stateDir, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}

func seedRoot(t *testing.T, base string) string {
	t.Helper()
	root := filepath.Join(base, "inbox")
	testsupport.WriteText(t, filepath.Join(root, "report.docx"), "doc")
	testsupport.WriteText(t, filepath.Join(root, "photo.JPG"), "jpg")
	testsupport.WriteZip(t, filepath.Join(root, "archive.zip"), testsupport.Entries(map[string]string{"notes.txt": "notes"}))
	testsupport.MkdirAll(t, filepath.Join(root, "tmp"))
	return root
}

func TestSortCommandPrintsSummary(t *testing.T) {
	env := setupCLITestEnv(t)
	root := seedRoot(t, env.baseDir)

	out, _, err := runCLI(t, []string{root}, env.configPath)
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if out != "known_extentions:\n\t\tdocx\n\t\tjpg\n\t\tzip\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if !testsupport.Exists(filepath.Join(root, "archives", "archive", "notes.txt")) {
		t.Fatalf("files = %v", testsupport.Files(t, root))
	}
}

func TestSortCommandTableAndTiming(t *testing.T) {
	env := setupCLITestEnv(t)
	root := seedRoot(t, env.baseDir)

	out, _, err := runCLI(t, []string{"--table", "-t", "--no-journal", root}, env.configPath)
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	requireContains(t, out, "known_extentions")
	requireContains(t, out, "docx, jpg, zip")
	requireContains(t, out, "3 moved")
	requireContains(t, out, "1 extracted")
	if testsupport.Exists(filepath.Join(env.stateDir, "journal.db")) {
		t.Fatal("--no-journal should not create a journal")
	}
}

func TestSortCommandRequiresRoot(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, nil, env.configPath)
	if err == nil {
		t.Fatal("expected error without root argument")
	}
	requireContains(t, err.Error(), "You must enter the path to a folder")
}

func TestSortCommandMissingRoot(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{filepath.Join(env.baseDir, "nope")}, env.configPath)
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if out != "No changes were made!\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestHistoryCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded yet")

	root := seedRoot(t, env.baseDir)
	if _, _, err := runCLI(t, []string{root}, env.configPath); err != nil {
		t.Fatalf("sort: %v", err)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "completed")
	requireContains(t, out, root)

	store, err := journal.OpenPath(filepath.Join(env.stateDir, "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	runs, err := store.ListRuns(context.Background(), 1)
	store.Close()
	if err != nil || len(runs) != 1 {
		t.Fatalf("runs = %v (%v)", runs, err)
	}

	out, _, err = runCLI(t, []string{"history", "--run", runs[0].ID[:8]}, env.configPath)
	if err != nil {
		t.Fatalf("history --run: %v", err)
	}
	requireContains(t, out, "report.docx")
	requireContains(t, out, filepath.Join("documents", "report.docx"))
	requireContains(t, out, "archive.zip")
}

func TestConfigCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}

	out, _, err = runCLI(t, []string{"config", "path"}, env.configPath)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	requireContains(t, out, env.configPath)

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[sorter]")
	requireContains(t, out, env.stateDir)

	out, _, err = runCLI(t, []string{"config", "show"}, target)
	if err != nil {
		t.Fatalf("config show sample: %v", err)
	}
	requireContains(t, out, "WEBP")
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	root := seedRoot(t, env.baseDir)

	out, _, err := runCLI(t, []string{"check", root}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Sort root")
	requireContains(t, out, "State directory")
	requireContains(t, out, "Journal")

	out, _, err = runCLI(t, []string{"check", filepath.Join(env.baseDir, "nope")}, env.configPath)
	if err == nil {
		t.Fatal("expected failure for a missing root")
	}
	requireContains(t, out, "FAIL")
	requireContains(t, out, "does not exist")
}
