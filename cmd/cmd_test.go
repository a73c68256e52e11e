package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/config"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/system"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/testutil"
)

func setupTestEnv(t *testing.T) *testutil.TestEnv {
	t.Helper()
	t.Setenv(config.EnvConfigPath, "")
	return testutil.NewTestEnv(t)
}

// resetFlags restores every flag of c and its subcommands to its default.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func executeCommand(args ...string) (string, string, error) {
	return executeCommandWithInput(nil, args...)
}

func executeCommandWithInput(stdin io.Reader, args ...string) (string, string, error) {
	resetFlags(rootCmd)
	stdinIsTerminal = func() bool { return false }

	cmd := rootCmd
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(stdin)
	logging.SetOutput(&stdout, &stderr)

	err := cmd.Execute()

	// Reset for next test
	cmd.SetArgs(nil)
	cmd.SetOut(nil)
	cmd.SetErr(nil)
	cmd.SetIn(nil)
	logging.SetOutput(nil, nil)

	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	if !strings.Contains(stdout, "forage-dev") {
		t.Error("Help output should contain 'forage-dev'")
	}
	for _, sub := range []string{"config", "ignore", "new", "scratch", "open", "auth"} {
		if !strings.Contains(stdout, sub) {
			t.Errorf("Help output should list %q", sub)
		}
	}
	if strings.Contains(stdout, "completion") {
		t.Error("completion command should be disabled")
	}
}

func TestSubcommandHelp(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"config", "--help"}, "list"},
		{[]string{"config", "add", "--help"}, "--pick"},
		{[]string{"ignore", "--help"}, "--path"},
		{[]string{"gitignore", "--help"}, "--path"},
		{[]string{"new", "--help"}, "--branch"},
		{[]string{"open", "--help"}, "--args"},
		{[]string{"auth", "--help"}, "--delete"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			stdout, _, err := executeCommand(tt.args...)
			if err != nil {
				t.Fatalf("help failed: %v", err)
			}
			if !strings.Contains(stdout, tt.want) {
				t.Errorf("help output should contain %q:\n%s", tt.want, stdout)
			}
		})
	}
}

func TestConfigCommand_Print(t *testing.T) {
	env := setupTestEnv(t)

	stdout, _, err := executeCommand("config")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}

	cfg, err := config.Parse([]byte(stdout), config.FormatYAML)
	if err != nil {
		t.Fatalf("config output is not YAML: %v\n%s", err, stdout)
	}
	if !cfg.Equal(env.Config) {
		t.Errorf("printed config = %+v, want %+v", cfg, env.Config)
	}
}

func TestConfigListCommand(t *testing.T) {
	setupTestEnv(t)

	for _, name := range []string{"list", "ls"} {
		t.Run(name, func(t *testing.T) {
			stdout, _, err := executeCommand("config", name)
			if err != nil {
				t.Fatalf("config %s failed: %v", name, err)
			}
			if stdout != "vscode\ngitlab\nnotepad\npartial\n" {
				t.Errorf("stdout = %q", stdout)
			}
		})
	}
}

func countApps(cfg *config.Config, name string) int {
	n := 0
	for _, a := range cfg.Apps {
		if a.Name == name {
			n++
		}
	}
	return n
}

func TestConfigAddCommand_WritesFile(t *testing.T) {
	env := setupTestEnv(t)

	for i := 0; i < 2; i++ {
		_, stderr, err := executeCommand("config", "add", "vscode", "--config", env.ConfigPath)
		if err != nil {
			t.Fatalf("config add (run %d) failed: %v", i+1, err)
		}
		if !strings.Contains(stderr, "Applying VSCode") {
			t.Errorf("stderr = %q, want the entry name", stderr)
		}

		cfg := env.ReadConfig()
		code := cfg.App("code")
		if code == nil {
			t.Fatalf("config file has no code app after run %d", i+1)
		}
		if code.Command != "code" {
			t.Errorf("code.Command = %q", code.Command)
		}
		if n := countApps(cfg, "code"); n != 1 {
			t.Errorf("code app appears %d times after run %d", n, i+1)
		}
	}

	if env.App.Config().App("code") == nil {
		t.Error("running app should see the updated config")
	}
	if _, err := os.Stat(env.ConfigPath + ".lock"); !os.IsNotExist(err) {
		t.Errorf("lock file should be removed, stat err = %v", err)
	}
}

func TestConfigAddCommand_EnvPath(t *testing.T) {
	env := setupTestEnv(t)
	t.Setenv(config.EnvConfigPath, env.ConfigPath)

	if _, _, err := executeCommand("config", "add", "gitlab"); err != nil {
		t.Fatalf("config add failed: %v", err)
	}
	if env.ReadConfig().Service("gitlab.com") == nil {
		t.Error("config file should contain the gitlab.com service")
	}
}

func TestConfigAddCommand_PrintsWithoutPath(t *testing.T) {
	env := setupTestEnv(t)

	stdout, _, err := executeCommand("config", "add", "vscode")
	if err != nil {
		t.Fatalf("config add failed: %v", err)
	}

	printed, err := config.Parse([]byte(stdout), config.FormatYAML)
	if err != nil {
		t.Fatalf("output is not a config: %v\n%s", err, stdout)
	}
	if printed.App("code") == nil {
		t.Error("printed config should contain the code app")
	}
	if env.ReadConfig().App("code") != nil {
		t.Error("config file should be left alone")
	}
}

func TestConfigAddCommand_IncompatibleEntry(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := executeCommand("config", "add", "notepad", "--config", env.ConfigPath)
	if err != nil {
		t.Fatalf("config add failed: %v", err)
	}
	got := env.ReadConfig().App("notepad") != nil
	if want := runtimeIsWindows(); got != want {
		t.Errorf("notepad added = %v, want %v", got, want)
	}
}

func TestConfigAddCommand_SkipsInvalidFragments(t *testing.T) {
	env := setupTestEnv(t)

	if _, _, err := executeCommand("config", "add", "partial", "--config", env.ConfigPath); err != nil {
		t.Fatalf("config add failed: %v", err)
	}

	// ReadConfig loads and validates the file as the next run would.
	cfg := env.ReadConfig()
	if cfg.Service("git.example.com") != nil {
		t.Error("service without a pattern should not be written")
	}
	if cfg.App("broken") != nil {
		t.Error("app without a command should not be written")
	}
	if cfg.App("ed") == nil {
		t.Error("valid app should be written")
	}
}

func TestConfigAddCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"no id", []string{"config", "add"}, errors.ExitUserError},
		{"pick without terminal", []string{"config", "add", "--pick"}, errors.ExitUserError},
		{"unknown id", []string{"config", "add", "nope"}, errors.ExitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestEnv(t)

			_, _, err := executeCommand(tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if code := errors.GetExitCode(err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (%v)", code, tt.wantCode, err)
			}
		})
	}
}

func TestConfigAddCommand_PickListsTemplates(t *testing.T) {
	setupTestEnv(t)

	stdout, _, err := executeCommand("config", "add", "--pick")
	if err == nil {
		t.Fatal("expected error without a terminal")
	}
	if !strings.Contains(stdout, "1. vscode") {
		t.Errorf("stdout should list the templates:\n%s", stdout)
	}
}

func TestIgnoreCommand_List(t *testing.T) {
	setupTestEnv(t)

	stdout, _, err := executeCommand("ignore")
	if err != nil {
		t.Fatalf("ignore failed: %v", err)
	}
	if stdout != "go\nnode\npython\nrust\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestIgnoreCommand_CreatesFile(t *testing.T) {
	env := setupTestEnv(t)
	path := filepath.Join(env.TmpDir, ".gitignore")

	if _, _, err := executeCommand("ignore", "go", "rust", "--path", path); err != nil {
		t.Fatalf("ignore failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ignore file not created: %v", err)
	}
	for _, lang := range []string{"go", "rust"} {
		if !strings.Contains(string(data), testutil.IgnoreRule(lang)) {
			t.Errorf("ignore file missing rules for %s:\n%s", lang, data)
		}
	}
}

func TestIgnoreCommand_UpdatesSection(t *testing.T) {
	env := setupTestEnv(t)
	path := filepath.Join(env.TmpDir, ".gitignore")
	if err := os.WriteFile(path, []byte("/secrets\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := executeCommand("gitignore", "go", "--path", path); err != nil {
		t.Fatalf("ignore go failed: %v", err)
	}
	if _, _, err := executeCommand("gitignore", "Rust", "--path", path); err != nil {
		t.Fatalf("ignore rust failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "/secrets\n") {
		t.Errorf("content outside the section was lost:\n%s", content)
	}
	for _, lang := range []string{"go", "rust"} {
		if !strings.Contains(content, testutil.IgnoreRule(lang)) {
			t.Errorf("missing rules for %s:\n%s", lang, content)
		}
	}
	if n := strings.Count(content, "# Created by"); n != 1 {
		t.Errorf("found %d generated sections, want 1:\n%s", n, content)
	}
}

func TestIgnoreCommand_UnknownLanguage(t *testing.T) {
	env := setupTestEnv(t)
	path := filepath.Join(env.TmpDir, ".gitignore")

	_, _, err := executeCommand("ignore", "cobol", "--path", path)
	if !errors.HasCode(err, errors.ExitNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("ignore file should not be written on error")
	}
}

func TestNewCommand(t *testing.T) {
	env := setupTestEnv(t)

	stdout, _, err := executeCommand("new", "alice/dotfiles")
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	path := filepath.Join(env.DevDir, "github.com", "alice", "dotfiles")
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		t.Fatalf("repository directory not created: %v", err)
	}
	if !strings.Contains(stdout, "github.com/alice/dotfiles") {
		t.Errorf("stdout = %q", stdout)
	}

	lines := env.Executor.CommandLines()
	want := []string{
		"git init --quiet",
		"git remote get-url origin",
		"git remote set-url origin git@github.com:alice/dotfiles.git",
		"git checkout --quiet -B main",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf("commands:\n%s\nwant:\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}
	for _, c := range env.Executor.Commands {
		if c.Dir != path {
			t.Errorf("%s ran in %q, want %q", c.Name, c.Dir, path)
		}
	}
}

func TestNewCommand_InvalidName(t *testing.T) {
	env := setupTestEnv(t)

	for _, name := range []string{"dotfiles", "alice/../../etc", "a/b/c/d"} {
		_, _, err := executeCommand("new", name)
		if !errors.HasCode(err, errors.ExitUserError) {
			t.Errorf("new %q: err = %v, want user error", name, err)
		}
	}
	if len(env.Executor.Commands) != 0 {
		t.Errorf("no commands should run, got %v", env.Executor.CommandLines())
	}
}

func TestNewCommand_Ignore(t *testing.T) {
	env := setupTestEnv(t)

	if _, _, err := executeCommand("new", "alice/service", "--ignore", "go,node"); err != nil {
		t.Fatalf("new failed: %v", err)
	}

	path := filepath.Join(env.DevDir, "github.com", "alice", "service", ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf(".gitignore not written: %v", err)
	}
	for _, lang := range []string{"go", "node"} {
		if !strings.Contains(string(data), testutil.IgnoreRule(lang)) {
			t.Errorf(".gitignore has no rule for %s:\n%s", lang, data)
		}
	}

	// An existing file is left alone.
	if err := os.WriteFile(path, []byte("custom\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := executeCommand("new", "alice/service", "--ignore", "rust"); err != nil {
		t.Fatalf("second new failed: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "custom\n" {
		t.Errorf(".gitignore was overwritten: %q", data)
	}
}

func TestNewCommand_UnknownIgnoreLanguage(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := executeCommand("new", "alice/service", "--ignore", "cobol")
	if !errors.HasCode(err, errors.ExitNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
	if len(env.Executor.Commands) != 0 {
		t.Errorf("no commands should run, got %v", env.Executor.CommandLines())
	}
	if _, err := os.Stat(filepath.Join(env.DevDir, "github.com", "alice", "service")); !os.IsNotExist(err) {
		t.Errorf("repository directory should not be created, stat err = %v", err)
	}
}

func TestBranchCommand(t *testing.T) {
	env := setupTestEnv(t)
	path := env.CreateRepository("github.com/alice/dotfiles")
	env.Executor.AddStatus("git show-ref", system.Exit(1))

	if _, _, err := executeCommand("branch", "alice/dotfiles", "feature", "--from", "v1.2.0"); err != nil {
		t.Fatalf("branch failed: %v", err)
	}

	want := []string{
		"git show-ref --verify --quiet refs/heads/feature",
		"git branch feature v1.2.0",
	}
	if got := env.Executor.CommandLines(); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("commands = %v, want %v", got, want)
	}
	for _, c := range env.Executor.Commands {
		if c.Dir != path {
			t.Errorf("%s ran in %q, want %q", c.Name, c.Dir, path)
		}
	}
}

func TestBranchCommand_Existing(t *testing.T) {
	env := setupTestEnv(t)
	env.CreateRepository("github.com/alice/dotfiles")

	if _, _, err := executeCommand("branch", "alice/dotfiles", "main"); err != nil {
		t.Fatalf("branch failed: %v", err)
	}
	if got := env.Executor.CommandLines(); len(got) != 1 {
		t.Errorf("only the existence check should run, got %v", got)
	}
}

func TestBranchCommand_MissingRepository(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := executeCommand("branch", "alice/nothing", "feature")
	if !errors.HasCode(err, errors.ExitNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
	if len(env.Executor.Commands) != 0 {
		t.Errorf("no commands should run, got %v", env.Executor.CommandLines())
	}
}

func TestScratchCommand(t *testing.T) {
	env := setupTestEnv(t)

	stdout, _, err := executeCommand("scratch", "experiment")
	if err != nil {
		t.Fatalf("scratch failed: %v", err)
	}

	want := filepath.Join(env.DevDir, config.ScratchDirName, "experiment")
	if strings.TrimSpace(stdout) != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
	if info, err := os.Stat(want); err != nil || !info.IsDir() {
		t.Errorf("scratchpad not created: %v", err)
	}
}

func TestScratchCommand_DefaultLabel(t *testing.T) {
	env := setupTestEnv(t)

	stdout, _, err := executeCommand("scratch")
	if err != nil {
		t.Fatalf("scratch failed: %v", err)
	}
	dir := strings.TrimSpace(stdout)
	if filepath.Dir(dir) != filepath.Join(env.DevDir, config.ScratchDirName) {
		t.Errorf("scratchpad %q is not in the scratch directory", dir)
	}
	if !strings.Contains(filepath.Base(dir), "w") {
		t.Errorf("default label %q should be a week", filepath.Base(dir))
	}
}

func TestScratchCommand_InvalidLabel(t *testing.T) {
	setupTestEnv(t)

	if _, _, err := executeCommand("scratch", "../escape"); err == nil {
		t.Error("expected error for invalid label")
	}
}

func TestOpenCommand(t *testing.T) {
	env := setupTestEnv(t)
	env.WriteConfig(env.Config.WithApp(config.App{
		Name:    "code",
		Command: "code",
		Args:    []string{"{{ .Target.Path }}"},
	}))
	path := env.CreateRepository("github.com/alice/dotfiles")

	if _, _, err := executeCommand("open", "code", "alice/dotfiles", "--args", "--new-window '--title=my repo'"); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	cmd, ok := env.Executor.LastCommand()
	if !ok {
		t.Fatal("nothing was launched")
	}
	if cmd.Name != "code" || cmd.Dir != path {
		t.Errorf("launched %+v", cmd)
	}
	want := []string{path, "--new-window", "--title=my repo"}
	if strings.Join(cmd.Args, "|") != strings.Join(want, "|") {
		t.Errorf("args = %q, want %q", cmd.Args, want)
	}
}

func TestOpenCommand_DefaultAppAndFuzzyName(t *testing.T) {
	env := setupTestEnv(t)
	path := env.CreateRepository("github.com/alice/dotfiles")
	env.CreateRepository("github.com/bob/website")

	if _, _, err := executeCommand("open", "dotf"); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	cmd, _ := env.Executor.LastCommand()
	if cmd.Name != env.Config.DefaultApp().Command {
		t.Errorf("launched %q, want the default app", cmd.Name)
	}
	if cmd.Dir != path {
		t.Errorf("Dir = %q, want %q", cmd.Dir, path)
	}
}

func TestOpenCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"no repository", []string{"open"}, errors.ExitUserError},
		{"unknown app", []string{"open", "emacs", "alice/dotfiles"}, errors.ExitNotFound},
		{"unknown repository", []string{"open", "zzzz"}, errors.ExitNotFound},
		{"bad args", []string{"open", "alice/dotfiles", "--args", "'unterminated"}, errors.ExitUserError},
		{"pick without terminal", []string{"open", "--pick"}, errors.ExitUserError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			env.CreateRepository("github.com/alice/dotfiles")

			_, _, err := executeCommand(tt.args...)
			if code := errors.GetExitCode(err); err == nil || code != tt.wantCode {
				t.Errorf("err = %v (code %d), want code %d", err, code, tt.wantCode)
			}
			if len(env.Executor.Commands) != 0 {
				t.Errorf("nothing should be launched, got %v", env.Executor.CommandLines())
			}
		})
	}
}

func TestAuthCommand(t *testing.T) {
	env := setupTestEnv(t)

	if _, _, err := executeCommandWithInput(strings.NewReader("s3cret\n"), "auth", "GitLab.com"); err != nil {
		t.Fatalf("auth failed: %v", err)
	}
	if got, err := env.KeyChain.Get("gitlab.com"); err != nil || got != "s3cret" {
		t.Errorf("stored token = %q, %v", got, err)
	}

	if _, _, err := executeCommand("auth", "gitlab.com", "--delete"); err != nil {
		t.Fatalf("auth --delete failed: %v", err)
	}
	if _, err := env.KeyChain.Get("gitlab.com"); err == nil {
		t.Error("token should be removed")
	}

	_, _, err := executeCommand("auth", "gitlab.com", "--delete")
	if !errors.HasCode(err, errors.ExitNotFound) {
		t.Errorf("deleting a missing token: err = %v, want not found", err)
	}
}

func TestAuthCommand_EmptyToken(t *testing.T) {
	setupTestEnv(t)

	_, _, err := executeCommandWithInput(strings.NewReader("\n"), "auth", "gitlab.com")
	if !errors.HasCode(err, errors.ExitUserError) {
		t.Errorf("err = %v, want user error", err)
	}
}

func TestAuthToken_SentToRegistry(t *testing.T) {
	env := setupTestEnv(t)

	if _, _, err := executeCommandWithInput(strings.NewReader("tok\n"), "auth", "127.0.0.1"); err != nil {
		t.Fatalf("auth failed: %v", err)
	}
	if _, _, err := executeCommand("config", "list"); err != nil {
		t.Fatalf("config list failed: %v", err)
	}

	reqs := env.Requests()
	if len(reqs) == 0 {
		t.Fatal("no requests reached the registry")
	}
	if got := reqs[len(reqs)-1].Header.Get("Authorization"); got != "Bearer tok" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestDoctorCommand(t *testing.T) {
	env := setupTestEnv(t)
	env.Executor.AddResponse("git --version", []byte("git version 2.43.0\n"), nil)
	env.CreateRepository("github.com/alice/dotfiles")

	stdout, _, err := executeCommand("doctor")
	if err != nil {
		t.Fatalf("doctor failed: %v", err)
	}
	for _, want := range []string{"Git: ✓ (2.43.0)", "Repositories: 1", "Registry: ✓", "Status: healthy"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output should contain %q:\n%s", want, stdout)
		}
	}
}

func TestDoctorCommand_Unhealthy(t *testing.T) {
	env := setupTestEnv(t)
	env.Executor.AddResponse("git --version", nil, io.ErrUnexpectedEOF)

	stdout, _, err := executeCommand("doctor", "--offline")
	if !errors.HasCode(err, errors.ExitSystemError) {
		t.Errorf("err = %v, want system error", err)
	}
	if strings.Contains(stdout, "Registry") {
		t.Errorf("--offline should skip the registry:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Status: unhealthy") {
		t.Errorf("stdout = %q", stdout)
	}
}
