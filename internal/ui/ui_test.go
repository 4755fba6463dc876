package ui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := Stdout, Stderr
	Stdout, Stderr = &out, &errOut
	t.Cleanup(func() { Stdout, Stderr = oldOut, oldErr })
	return &out, &errOut
}

func TestBold_ContainsText(t *testing.T) {
	Init(false, "info")
	result := Bold("hello")
	if !strings.Contains(result, "hello") {
		t.Errorf("Bold output should contain 'hello', got %q", result)
	}
}

func TestColorDisabled_PlainText(t *testing.T) {
	Init(true, "info") // no color
	defer Init(false, "info")

	if Bold("hello") != "hello" {
		t.Errorf("expected plain text when color disabled, got %q", Bold("hello"))
	}
	if Dim("dim") != "dim" {
		t.Errorf("expected plain text, got %q", Dim("dim"))
	}
}

func TestLoggerLevel(t *testing.T) {
	Init(false, "debug")
	if Logger == nil {
		t.Fatal("Logger should be initialized after Init()")
	}
	if got := Logger.GetLevel().String(); got != "debug" {
		t.Errorf("level = %q, want debug", got)
	}

	Init(false, "loud")
	if got := Logger.GetLevel().String(); got != "info" {
		t.Errorf("unknown level should fall back to info, got %q", got)
	}
}

func TestMessagesGoToStderr(t *testing.T) {
	out, errOut := captureOutput(t)
	Init(true, "info")
	defer Init(false, "info")

	Success("saved")
	Warning("careful")
	Error("broken")
	EmptyState("nothing here")

	if out.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", out.String())
	}
	for _, want := range []string{"✓ saved", "⚠ careful", "✗ broken", "nothing here"} {
		if !strings.Contains(errOut.String(), want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut.String())
		}
	}
}

func TestTable_Aligned(t *testing.T) {
	out, _ := captureOutput(t)
	Init(true, "info")
	defer Init(false, "info")

	Table([]string{"CATEGORY", "COUNT"}, [][]string{{"work", "2"}, {"errand", "10"}})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out.String())
	}
	col := strings.Index(lines[0], "COUNT")
	if strings.Index(lines[1], "2") != col || strings.Index(lines[2], "10") != col {
		t.Errorf("columns not aligned:\n%s", out.String())
	}
}

func TestConfirmModel_Keys(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want bool
	}{
		{"y", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("y")}}, true},
		{"n", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("n")}}, false},
		{"enter defaults to yes", []tea.KeyMsg{{Type: tea.KeyEnter}}, true},
		{"right then enter", []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyEnter}}, false},
		{"esc", []tea.KeyMsg{{Type: tea.KeyEsc}}, false},
	}
	Init(true, "info")
	defer Init(false, "info")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				m   tea.Model = confirmModel{prompt: "Drop?"}
				cmd tea.Cmd
			)
			for _, k := range tt.keys {
				m, cmd = m.Update(k)
			}
			if cmd == nil {
				t.Fatal("expected the prompt to quit after a decision")
			}
			cm := m.(confirmModel)
			if cm.accepted != tt.want {
				t.Errorf("accepted = %v, want %v", cm.accepted, tt.want)
			}
		})
	}
}
