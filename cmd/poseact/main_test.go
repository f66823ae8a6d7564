package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/poseact/codec"
	"github.com/hupe1980/poseact/scorer"
)

// writeRecording writes a [frames][2][3] recording where joint 1 moves
// along axis away from the root joint.
func writeRecording(t *testing.T, dir, name string, frames, axis int) string {
	t.Helper()
	rec := make([][][3]float32, frames)
	for i := range rec {
		var j1 [3]float32
		j1[axis] = float32(i * 1000)
		rec[i] = [][3]float32{{10, 10, 10}, j1}
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "poseact.yaml")
	body := fmt.Sprintf(`
model:
  sequence_length: 4
  way: 2
  joints: 2
store:
  kind: local
  dir: %s
log:
  level: error
`, filepath.Join(dir, "support"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReplay(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	wave := writeRecording(t, dir, "wave.json", 4, 0)
	clap := writeRecording(t, dir, "clap.json", 8, 1)

	out, err := run(t, "replay", "-c", cfg, "-e", "wave="+wave, "-e", "clap="+clap, wave)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1\twave\t"), lines[0])
	assert.Contains(t, lines[0], "clap=")
	assert.Equal(t, "frames=4 results=1 dropped=0 errors=0", lines[1])
}

func TestReplay_NoExamples(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	wave := writeRecording(t, dir, "wave.json", 4, 0)

	_, err := run(t, "replay", "-c", cfg, wave)
	require.ErrorContains(t, err, "no examples registered")
}

func TestSupportLifecycle(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	wave := writeRecording(t, dir, "wave.json", 4, 0)

	out, err := run(t, "support", "save", "demo", "-c", cfg, "-e", "wave="+wave)
	require.NoError(t, err)
	assert.Contains(t, out, `saved "demo" with 1 labels`)

	out, err = run(t, "support", "ls", "-c", cfg)
	require.NoError(t, err)
	assert.Equal(t, "demo\n", out)

	out, err = run(t, "support", "load", "demo", "-c", cfg)
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^0\s+wave$`, out)
	assert.Regexp(t, `(?m)^1\s+-$`, out)

	out, err = run(t, "replay", "-c", cfg, "--support", "demo", wave)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1\twave\t"), out)

	_, err = run(t, "support", "rm", "demo", "-c", cfg)
	require.NoError(t, err)
	out, err = run(t, "support", "ls", "-c", cfg)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestParseExamples(t *testing.T) {
	got, err := parseExamples([]string{"wave=a.json", "clap=dir/b=c.json"})
	require.NoError(t, err)
	assert.Equal(t, []example{{"wave", "a.json"}, {"clap", "dir/b=c.json"}}, got)

	for _, bad := range []string{"wave", "=a.json", "wave="} {
		_, err := parseExamples([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestCodecFor(t *testing.T) {
	assert.Equal(t, codec.MsgPack{}, codecFor("x.msgpack"))
	assert.Equal(t, codec.JSON{}, codecFor("x.json"))
	assert.Equal(t, codec.JSON{}, codecFor("x"))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "poseact ")

	caps := scorer.DetectCapabilities()
	assert.Contains(t, out, "CPU: "+caps.String()+" (kernel "+caps.Kernel().String()+")")
}
