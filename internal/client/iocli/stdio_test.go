package iocli

import (
	"bufio"
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStdio(input string, out *bytes.Buffer, fd int) *Stdio {
	return &Stdio{in: bufio.NewReader(strings.NewReader(input)), out: out, fd: fd}
}

// Проверяем что NewStdio возвращает валидный объект
func TestNewStdio(t *testing.T) {
	stdio := NewStdio()
	assert.NotNil(t, stdio)
}

func TestPrintlnAndPrintf(t *testing.T) {
	var out bytes.Buffer
	stdio := newTestStdio("", &out, -1)

	stdio.Println("hello", "world")
	stdio.Printf("test %d %s\n", 1, "abc")
	_, err := stdio.Write([]byte("raw"))
	require.NoError(t, err)

	assert.Equal(t, "hello world\ntest 1 abc\nraw", out.String())
}

func TestReadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "line", input: "user input\n", want: "user input"},
		{name: "surrounding spaces", input: "  padded  \n", want: "padded"},
		{name: "no trailing newline", input: "last line", want: "last line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			stdio := newTestStdio(tt.input, &out, -1)

			got, err := stdio.ReadInput("Prompt: ")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Prompt: ", out.String())
		})
	}
}

func TestReadInput_EmptyStream(t *testing.T) {
	var out bytes.Buffer
	stdio := newTestStdio("", &out, -1)

	_, err := stdio.ReadInput("Prompt: ")
	assert.Error(t, err)
}

// Конвейер не является терминалом
func TestConfirm_NotInteractive(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() {
		_ = r.Close()
		_ = w.Close()
	}()

	var out bytes.Buffer
	stdio := newTestStdio("y\n", &out, int(r.Fd()))

	ok, err := stdio.Confirm("Repair?")
	assert.ErrorIs(t, err, ErrNotInteractive)
	assert.False(t, ok)
	assert.Empty(t, out.String())
}

func TestParseAnswer(t *testing.T) {
	for answer, want := range map[string]bool{
		"y":    true,
		"Y":    true,
		"yes":  true,
		" YES": true,
		"":     false,
		"n":    false,
		"no":   false,
		"sure": false,
	} {
		assert.Equal(t, want, parseAnswer(answer), "answer %q", answer)
	}
}
