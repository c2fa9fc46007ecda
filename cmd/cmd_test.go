package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newSite(t *testing.T) string {
	t.Helper()
	source := t.TempDir()
	writeFile(t, filepath.Join(source, "README.md"), "# readme\n")
	writeFile(t, filepath.Join(source, "src", "main.go"), "func main() { // {{ }\n\tbody()\n// }}\n")
	writeFile(t, filepath.Join(source, "src", "main.tmp.go"), "scratch\n")
	writeFile(t, filepath.Join(source, "_data", "archives.yml"), `
docs:
  - README.md
  - exclude: ['\.tmp\.']
  - src
  - missing.txt
`)
	return source
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(RootCmd)
	t.Cleanup(func() { resetFlags(RootCmd) })

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	err := Execute(nil)
	return out.String(), err
}

func TestBuildCommand(t *testing.T) {
	source := newSite(t)

	out, err := run(t, "build", "--source", source)
	require.NoError(t, err)

	archivePath := filepath.Join(source, "_site", "archives", "docs.zip")
	assert.Contains(t, out, archivePath+"\t2 entries")

	r, err := zip.OpenReader(archivePath)
	require.NoError(t, err)
	defer r.Close()
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"README.md", "main.go"}, names)
}

func TestBuildCommandStrict(t *testing.T) {
	source := newSite(t)

	_, err := run(t, "build", "--source", source, "--strict")
	assert.ErrorContains(t, err, "missing.txt")
}

func TestBuildCommandDestination(t *testing.T) {
	source := newSite(t)
	dest := filepath.Join(t.TempDir(), "public")

	_, err := run(t, "build", "--source", source, "--destination", dest)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, "archives", "docs.zip"))
}

func TestBuildCommandConfigFile(t *testing.T) {
	source := newSite(t)
	dest := filepath.Join(t.TempDir(), "out")
	configFile := filepath.Join(t.TempDir(), "site.yml")
	writeFile(t, configFile, "source: "+source+"\ndestination: "+dest+"\n")

	_, err := run(t, "build", "--config", configFile)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, "archives", "docs.zip"))
}

func TestBuildCommandWithoutArchives(t *testing.T) {
	source := t.TempDir()

	out, err := run(t, "build", "--source", source)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoDirExists(t, filepath.Join(source, "_site", "archives"))
}

func TestListCommand(t *testing.T) {
	source := newSite(t)

	out, err := run(t, "list", "--source", source)
	require.NoError(t, err)
	assert.Contains(t, out, "docs.zip (2 entries)")
	assert.Contains(t, out, "README.md")
	assert.Contains(t, out, "main.go")
	assert.NotContains(t, out, "main.tmp.go")
	assert.Contains(t, out, "skipped missing input: missing.txt")
	assert.NoFileExists(t, filepath.Join(source, "_site", "archives", "docs.zip"))
}

func TestListCommandFlat(t *testing.T) {
	source := newSite(t)

	out, err := run(t, "list", "docs", "--flat", "--source", source)
	require.NoError(t, err)
	assert.Contains(t, out, "\nREADME.md\n")
	assert.NotContains(t, out, "├── ")
}

func TestListCommandUnknownArchive(t *testing.T) {
	source := newSite(t)

	_, err := run(t, "list", "nope", "--source", source)
	assert.ErrorContains(t, err, `unknown archive "nope"`)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sitearchive version dev")
}

func TestOutputIgnores(t *testing.T) {
	source := filepath.Join(string(filepath.Separator), "site")

	assert.Equal(t, []string{"_site", "_site/**"}, outputIgnores(source, filepath.Join(source, "_site")))
	assert.Equal(t, []string{"build/out", "build/out/**"}, outputIgnores(source, filepath.Join(source, "build", "out")))
	assert.Nil(t, outputIgnores(source, filepath.Join(string(filepath.Separator), "elsewhere")))
	assert.Nil(t, outputIgnores(source, source))
}
