package autostart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "notepad.exe", []string{"notepad.exe"}},
		{"args", "wt.exe -p PowerShell", []string{"wt.exe", "-p", "PowerShell"}},
		{"unquoted path", `C:\Windows\notepad.exe C:\notes\todo.txt`, []string{`C:\Windows\notepad.exe`, `C:\notes\todo.txt`}},
		{"double quoted path", `notepad.exe "C:\notes\todo.txt"`, []string{"notepad.exe", `C:\notes\todo.txt`}},
		{"single quoted path", `explorer.exe 'C:\Program Files'`, []string{"explorer.exe", `C:\Program Files`}},
		{"quoted spaces", `"C:\Program Files\Git\git-bash.exe" --cd=C:\src`, []string{`C:\Program Files\Git\git-bash.exe`, `--cd=C:\src`}},
		{"trailing separator", `explorer.exe C:\Users\`, []string{"explorer.exe", `C:\Users\`}},
		{"blank", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_UnterminatedQuote(t *testing.T) {
	_, err := Parse(`notepad.exe "unterminated`)
	assert.Error(t, err)
}

func TestStart_SkipsBadCommands(t *testing.T) {
	n := Start([]string{
		"",
		`"unterminated`,
		"grout-definitely-not-a-real-binary --flag",
	})
	assert.Zero(t, n)
}
