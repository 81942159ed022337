package bus

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestPidManagerBasics(t *testing.T) {
	pm := &pidManager{path: filepath.Join(t.TempDir(), PidName)}

	t.Run("create and remove PID file", func(t *testing.T) {
		if err := pm.create(); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		pidData, err := os.ReadFile(pm.path)
		if err != nil {
			t.Fatalf("failed to read PID file: %v", err)
		}
		if want := strconv.Itoa(os.Getpid()); string(pidData) != want {
			t.Errorf("PID file contains %q, expected %q", pidData, want)
		}

		if err := pm.remove(); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if _, err := os.Stat(pm.path); !os.IsNotExist(err) {
			t.Error("PID file should not exist after removal")
		}
	})

	t.Run("checkExisting with no PID file", func(t *testing.T) {
		if err := pm.checkExisting(); err != nil {
			t.Errorf("checkExisting should not error when no PID file exists: %v", err)
		}
	})

	t.Run("checkExisting with current process", func(t *testing.T) {
		if err := pm.create(); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		defer pm.remove()

		if err := pm.checkExisting(); err == nil {
			t.Error("checkExisting should fail when process is running")
		}
	})

	t.Run("checkExisting with invalid PID file", func(t *testing.T) {
		if err := os.WriteFile(pm.path, []byte("invalid"), 0o600); err != nil {
			t.Fatalf("failed to write invalid PID file: %v", err)
		}

		if err := pm.checkExisting(); err != nil {
			t.Errorf("checkExisting should succeed with invalid PID: %v", err)
		}
		if _, err := os.Stat(pm.path); !os.IsNotExist(err) {
			t.Error("invalid PID file should be removed")
		}
	})
}

func TestIsProcessAlive(t *testing.T) {
	pm := &pidManager{}

	if !pm.isProcessAlive(os.Getpid()) {
		t.Error("current process should be alive")
	}
	if pm.isProcessAlive(1 << 22) {
		t.Error("pid beyond pid_max should not be alive")
	}
}

// serveCommands answers each connection with a canned reply per command byte
func serveCommands(t *testing.T, ln net.Listener) {
	t.Helper()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				line, err := bufio.NewReader(c).ReadString('\n')
				if err != nil || len(line) != 2 {
					return
				}
				switch line[0] {
				case CmdToggle:
					fmt.Fprint(c, "OK toggled\n")
				case CmdStatus:
					fmt.Fprint(c, "STATUS status=idle\n")
				case CmdVersion:
					fmt.Fprintf(c, "STATUS proto=%s\n", ProtoVer)
				default:
					fmt.Fprintf(c, "ERR unknown=%q\n", line[0])
				}
			}(conn)
		}
	}()
}

func TestSocketManager(t *testing.T) {
	sm := &socketManager{path: filepath.Join(t.TempDir(), SockName)}

	t.Run("dial without listener", func(t *testing.T) {
		_, err := sm.dial()
		if !errors.Is(err, ErrDaemonNotRunning) {
			t.Errorf("dial error = %v, want ErrDaemonNotRunning", err)
		}
	})

	t.Run("send commands", func(t *testing.T) {
		ln, err := sm.listen()
		if err != nil {
			t.Fatalf("listen failed: %v", err)
		}
		defer ln.Close()
		serveCommands(t, ln)

		tests := []struct {
			cmd  byte
			want string
		}{
			{CmdToggle, "OK toggled"},
			{CmdStatus, "STATUS status=idle"},
			{CmdVersion, "STATUS proto=" + ProtoVer},
			{'x', "ERR unknown='x'"},
		}
		for _, tt := range tests {
			got, err := sm.send(tt.cmd)
			if err != nil {
				t.Errorf("send(%c) error: %v", tt.cmd, err)
				continue
			}
			if got != tt.want {
				t.Errorf("send(%c) = %q, want %q", tt.cmd, got, tt.want)
			}
		}
	})

	t.Run("listen replaces stale socket", func(t *testing.T) {
		if err := os.WriteFile(sm.path, nil, 0o600); err != nil {
			t.Fatal(err)
		}
		ln, err := sm.listen()
		if err != nil {
			t.Fatalf("listen over stale file failed: %v", err)
		}
		ln.Close()
	})
}

func TestPathFunctions(t *testing.T) {
	cache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cache)

	sock, err := SockPath()
	if err != nil {
		t.Fatalf("SockPath failed: %v", err)
	}
	if want := filepath.Join(cache, AppDir, SockName); sock != want {
		t.Errorf("SockPath() = %q, want %q", sock, want)
	}

	pid, err := PidPath()
	if err != nil {
		t.Fatalf("PidPath failed: %v", err)
	}
	if want := filepath.Join(cache, AppDir, PidName); pid != want {
		t.Errorf("PidPath() = %q, want %q", pid, want)
	}
}

func TestPublicAPI(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if err := CheckExistingDaemon(); err != nil {
		t.Errorf("CheckExistingDaemon with no pid file: %v", err)
	}
	if err := CreatePidFile(); err != nil {
		t.Fatalf("CreatePidFile failed: %v", err)
	}
	if err := CheckExistingDaemon(); err == nil {
		t.Error("CheckExistingDaemon should report the running process")
	}
	if err := RemovePidFile(); err != nil {
		t.Errorf("RemovePidFile failed: %v", err)
	}

	if _, err := SendCommand(CmdStatus); !errors.Is(err, ErrDaemonNotRunning) {
		t.Errorf("SendCommand without daemon = %v, want ErrDaemonNotRunning", err)
	}

	ln, err := Listen()
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer ln.Close()
	serveCommands(t, ln)

	got, err := SendCommand(CmdToggle)
	if err != nil || got != "OK toggled" {
		t.Errorf("SendCommand(toggle) = %q, %v", got, err)
	}
}
