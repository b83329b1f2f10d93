package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bstindex/internal/dataset"
	"github.com/Sumatoshi-tech/bstindex/pkg/bst"
	"github.com/Sumatoshi-tech/bstindex/pkg/index"
)

const testDataset = `
records:
  - key: 5
    value: five
  - key: 3
    value: three
  - key: 8
    value: {name: eight}
  - key: 3
    value: drei
`

const testTimeDataset = `{"records": [
  {"key": "2024-01-03T00:00:00Z", "value": "wed"},
  {"key": "2024-01-01T00:00:00Z", "value": "mon"},
  {"key": "2024-01-02T00:00:00Z", "value": "tue"}
]}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// runCommand executes the command tree with a config file and a dataset and
// returns what it wrote to stdout.
func runCommand(t *testing.T, configYAML, data string, args ...string) (string, error) {
	t.Helper()

	cfgPath := writeFile(t, "bstindex.yaml", configYAML)
	dataPath := writeFile(t, "data.yaml", data)

	return execute(t, append([]string{"--config", cfgPath, "--data", dataPath}, args...)...)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), err
}

func TestSearch(t *testing.T) {
	t.Parallel()

	out, err := runCommand(t, "", testDataset, "search", "3")
	require.NoError(t, err)
	assert.Equal(t, "three\ndrei\n", out)

	out, err = runCommand(t, "", testDataset, "search", "42")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSearch_BadKey(t *testing.T) {
	t.Parallel()

	_, err := runCommand(t, "", testDataset, "search", "three")
	require.ErrorIs(t, err, dataset.ErrKeyMismatch)
}

func TestSearch_RequiresDataset(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "search", "3")
	require.ErrorIs(t, err, ErrNoDataset)
}

func TestQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"open_range", []string{"--gt", "3", "--lt", "8"}, "five\n"},
		{"not_equal", []string{"--gte", "3", "--ne", "3"}, "five\n{\"name\":\"eight\"}\n"},
		{"redundant_bounds", []string{"--gt", "3", "--gte", "5", "--lte", "8", "--lt", "100"}, "five\n{\"name\":\"eight\"}\n"},
		{"no_bounds", nil, "three\ndrei\nfive\n{\"name\":\"eight\"}\n"},
		{"empty", []string{"--gt", "8"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := runCommand(t, "", testDataset, append([]string{"query"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestQuery_BadBound(t *testing.T) {
	t.Parallel()

	_, err := runCommand(t, "", testDataset, "query", "--lt", "soon")
	require.ErrorIs(t, err, dataset.ErrKeyMismatch)
	assert.Contains(t, err.Error(), "--lt")
}

func TestQuery_TimeKeys(t *testing.T) {
	t.Parallel()

	out, err := runCommand(t, "index:\n  key_type: time\n", testTimeDataset,
		"query", "--gte", "2024-01-02T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "tue\nwed\n", out)
}

func TestUniqueIndexRejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := runCommand(t, "index:\n  unique: true\n", testDataset, "dump")
	require.ErrorIs(t, err, index.ErrUniqueViolation)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	out, err := runCommand(t, "", testDataset, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "index is valid: 3 keys, height 2")
}

func TestReportValidation_Corrupt(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	sess := &session{index: index.New(index.Config[any, any]{})}
	corruption := &bst.ValidationError{Kind: bst.ErrOrderViolation, Key: int64(3)}

	err := reportValidation(cmd, corruption, sess)
	require.ErrorIs(t, err, ErrIndexCorrupt)
	require.ErrorIs(t, err, bst.ErrOrderViolation)

	assert.Contains(t, out.String(), "index is corrupt")
	assert.Contains(t, out.String(), "at key 3")
}

func TestDump(t *testing.T) {
	t.Parallel()

	out, err := runCommand(t, "", testDataset, "dump")
	require.NoError(t, err)

	lower := strings.ToLower(out)
	assert.Contains(t, lower, "three, drei")
	assert.Contains(t, lower, `{"name":"eight"}`)
	assert.Contains(t, lower, "3 keys, 4 values")
	assert.Less(t, strings.Index(out, "drei"), strings.Index(out, "five"))
}

func TestStats(t *testing.T) {
	t.Parallel()

	out, err := runCommand(t, "", testDataset, "stats")
	require.NoError(t, err)

	assert.Contains(t, out, "height")
	assert.Contains(t, out, "integer")
	assert.NotContains(t, out, "# TYPE")
}

func TestStats_Prometheus(t *testing.T) {
	t.Parallel()

	out, err := runCommand(t, "", testDataset, "stats", "--prometheus")
	require.NoError(t, err)

	assert.Contains(t, out, "# TYPE bstindex_keys gauge")
	assert.Contains(t, out, "bstindex_operations")
	assert.Contains(t, out, `op="insert"`)
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "bstindex "))
	assert.Contains(t, out, "commit:")
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plain", formatValue("plain"))
	assert.Equal(t, "42", formatValue(42))
	assert.Equal(t, "null", formatValue(nil))
	assert.Equal(t, `[1,"a"]`, formatValue([]any{1, "a"}))
}
