package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/panyam/typeguess/guess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoSource = `class Demo {
    void take(long v) {}
    void run() {
        take(count);
        java.util.List<String> names = pending;
    }
}
`

// run executes the command line against a fresh output buffer.
func run(t *testing.T, args ...string) string {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--log-level", "off"))
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func writeDemo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Demo.java")
	require.NoError(t, os.WriteFile(path, []byte(demoSource), 0o644))
	return path
}

func offsetOf(marker string) string {
	return strconv.Itoa(strings.Index(demoSource, marker) + 1)
}

func TestExpectCommand(t *testing.T) {
	path := writeDemo(t)
	out := run(t, "expect", "--file", path, "--offset", offsetOf("count"))
	assert.Contains(t, out, "node: SimpleName")
	assert.Contains(t, out, "expected type: long")
}

func TestReconstructCommand(t *testing.T) {
	path := writeDemo(t)
	out := run(t, "reconstruct", "--file", path, "--offset", offsetOf("pending"))
	assert.Contains(t, out, "declared type: java.util.List<String>")
}

func TestNarrowCommand(t *testing.T) {
	out := run(t, "narrow", "long", "--file", "")
	assert.Contains(t, out, "narrowing long:")
	assert.Contains(t, out, " 1. long")
	assert.Contains(t, out, " 4. int")
}

func TestKindLabels(t *testing.T) {
	assert.Equal(t, "Classes, Type-Variables", KindLabels(guess.KindClasses|guess.KindTypeVariables))
	assert.Equal(t, "", KindLabels(0))
}
