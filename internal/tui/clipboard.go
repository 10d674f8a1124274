package tui

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// copyToClipboard hands s to the platform clipboard tool.
func copyToClipboard(s string) error {
	err := errors.New("no clipboard tool found")
	for _, c := range clipboardCommands(runtime.GOOS) {
		if err = runClipboardCmd(c[0], c[1:], s); err == nil {
			return nil
		}
	}
	return err
}

// clipboardCommands lists candidate tools in preference order.
func clipboardCommands(goos string) [][]string {
	switch goos {
	case "darwin":
		return [][]string{{"pbcopy"}}
	case "windows":
		return [][]string{
			{"cmd", "/c", "clip"},
			{"powershell", "-NoProfile", "-Command", "Set-Clipboard"},
		}
	default:
		// Wayland first, then X11.
		return [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
	}
}

func runClipboardCmd(name string, args []string, stdin string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(strings.ReplaceAll(stdin, "\r\n", "\n"))
	if err := cmd.Run(); err != nil {
		return errors.New(name + ": " + err.Error())
	}
	return nil
}
