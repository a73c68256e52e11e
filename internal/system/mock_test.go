package system

import (
	"context"
	"io/fs"
	"testing"
)

func TestMockFS_ReadWriteFile(t *testing.T) {
	mockFS := NewMockFS()

	// Write a file
	content := []byte("hello world")
	err := mockFS.WriteFile("/test/file.txt", content, 0644)
	if err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	// Read it back
	data, err := mockFS.ReadFile("/test/file.txt")
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}

	if string(data) != "hello world" {
		t.Errorf("ReadFile = %q, want %q", string(data), "hello world")
	}
}

func TestMockFS_ReadFile_NotExists(t *testing.T) {
	mockFS := NewMockFS()

	_, err := mockFS.ReadFile("/nonexistent")
	if err != fs.ErrNotExist {
		t.Errorf("ReadFile error = %v, want fs.ErrNotExist", err)
	}
}

func TestMockFS_Exists(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.AddFile("/file.txt", []byte("x"), 0644)
	mockFS.AddDir("/dir")

	if !mockFS.Exists("/file.txt") {
		t.Error("File should exist")
	}
	if !mockFS.Exists("/dir") {
		t.Error("Dir should exist")
	}
	if mockFS.Exists("/nonexistent") {
		t.Error("Nonexistent should not exist")
	}
}

func TestMockFS_IsDir(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.AddFile("/file.txt", []byte("x"), 0644)
	mockFS.AddDir("/dir")

	if mockFS.IsDir("/file.txt") {
		t.Error("File should not be a directory")
	}
	if !mockFS.IsDir("/dir") {
		t.Error("Dir should be a directory")
	}
}

func TestMockFS_MkdirAll(t *testing.T) {
	mockFS := NewMockFS()

	if err := mockFS.MkdirAll("/a/b/c", 0755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}

	if !mockFS.IsDir("/a") {
		t.Error("/a should be a directory")
	}
	if !mockFS.IsDir("/a/b") {
		t.Error("/a/b should be a directory")
	}
	if !mockFS.IsDir("/a/b/c") {
		t.Error("/a/b/c should be a directory")
	}
}

func TestMockFS_ReadDir(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.AddFile("/dev/notes.txt", []byte("hello"), 0644)
	mockFS.AddDir("/dev/github.com")

	entries, err := mockFS.ReadDir("/dev")
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ReadDir returned %d entries, want 2", len(entries))
	}

	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			t.Fatalf("Info error: %v", err)
		}
		switch e.Name() {
		case "notes.txt":
			if e.IsDir() || info.Size() != 5 {
				t.Errorf("notes.txt: IsDir = %v, Size = %d", e.IsDir(), info.Size())
			}
		case "github.com":
			if !e.IsDir() || !info.IsDir() {
				t.Error("github.com should be a directory")
			}
		default:
			t.Errorf("unexpected entry %q", e.Name())
		}
	}

	if _, err := mockFS.ReadDir("/missing"); err != fs.ErrNotExist {
		t.Errorf("ReadDir(/missing) error = %v, want fs.ErrNotExist", err)
	}
}

func TestMockFS_ErrorInjection(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.ReadFileErr = fs.ErrPermission

	_, err := mockFS.ReadFile("/anything")
	if err != fs.ErrPermission {
		t.Errorf("ReadFile error = %v, want ErrPermission", err)
	}
}

func TestMockExecutor_Execute(t *testing.T) {
	exec := NewMockExecutor()
	exec.AddResponse("echo", []byte("hello\n"), nil)

	output, err := exec.Execute(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if string(output) != "hello\n" {
		t.Errorf("Output = %q, want %q", string(output), "hello\n")
	}

	// Verify command was recorded
	cmd, ok := exec.LastCommand()
	if !ok {
		t.Fatal("No command recorded")
	}
	if cmd.Name != "echo" {
		t.Errorf("Command name = %q, want %q", cmd.Name, "echo")
	}
}

func TestMockExecutor_DefaultResponse(t *testing.T) {
	exec := NewMockExecutor()
	exec.DefaultResponse = MockResponse{Output: []byte("default"), Err: nil}

	output, err := exec.Execute(context.Background(), "unknown", "command")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if string(output) != "default" {
		t.Errorf("Output = %q, want %q", string(output), "default")
	}
}

func TestMockExecutor_Reset(t *testing.T) {
	exec := NewMockExecutor()
	exec.Execute(context.Background(), "cmd1")
	exec.Execute(context.Background(), "cmd2")

	if len(exec.Commands) != 2 {
		t.Errorf("Commands length = %d, want 2", len(exec.Commands))
	}

	exec.Reset()

	if len(exec.Commands) != 0 {
		t.Errorf("Commands length after reset = %d, want 0", len(exec.Commands))
	}
}

func TestMockFS_Lock(t *testing.T) {
	mockFS := NewMockFS()

	unlock, err := mockFS.Lock("/cfg/config.yaml")
	if err != nil {
		t.Fatalf("Lock error: %v", err)
	}

	if _, err := mockFS.Lock("/cfg/config.yaml"); err != ErrLocked {
		t.Errorf("second Lock error = %v, want ErrLocked", err)
	}

	if err := unlock(); err != nil {
		t.Fatalf("unlock error: %v", err)
	}

	unlock, err = mockFS.Lock("/cfg/config.yaml")
	if err != nil {
		t.Fatalf("Lock after unlock error: %v", err)
	}
	_ = unlock()

	if len(mockFS.Locks) != 2 {
		t.Errorf("Locks = %v, want 2 entries", mockFS.Locks)
	}
}

func TestMockExecutor_Run(t *testing.T) {
	exec := NewMockExecutor()
	exec.AddStatus("git checkout", Exit(1))
	exec.AddStatus("git init", Signaled())

	status, err := exec.Run(context.Background(), Process{Name: "git", Args: []string{"checkout", "-B", "main"}, Dir: "/repo"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if status.Success() || status.Code != 1 || !status.Exited {
		t.Errorf("status = %+v, want exit 1", status)
	}

	status, _ = exec.Run(context.Background(), Process{Name: "git", Args: []string{"init"}})
	if status.Exited {
		t.Errorf("status = %+v, want signaled", status)
	}

	status, _ = exec.Run(context.Background(), Process{Name: "git", Args: []string{"status"}})
	if !status.Success() {
		t.Errorf("default status = %+v, want success", status)
	}

	cmd, _ := exec.LastCommand()
	if cmd.Name != "git" || cmd.Args[0] != "status" {
		t.Errorf("LastCommand = %+v", cmd)
	}
	if exec.Commands[0].Dir != "/repo" {
		t.Errorf("Dir = %q, want /repo", exec.Commands[0].Dir)
	}

	lines := exec.CommandLines()
	if lines[0] != "git checkout -B main" {
		t.Errorf("CommandLines()[0] = %q", lines[0])
	}
}

func TestMockExecutor_RunLaunchError(t *testing.T) {
	exec := NewMockExecutor()
	exec.AddResponse("missing-tool", nil, fs.ErrNotExist)

	if _, err := exec.Run(context.Background(), Process{Name: "missing-tool"}); err != fs.ErrNotExist {
		t.Errorf("Run error = %v, want fs.ErrNotExist", err)
	}
}
