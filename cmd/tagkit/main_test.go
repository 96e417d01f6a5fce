package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/randalmurphal/tagkit/model"
	"github.com/randalmurphal/tagkit/provider"
	"github.com/randalmurphal/tagkit/tagging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// run executes the CLI against gw and returns stdout and stderr.
func run(t *testing.T, gw provider.Gateway, stdin string, args ...string) (string, string, error) {
	t.Helper()
	a := &app{newGateway: func(provider.Config) (provider.Gateway, error) { return gw, nil }}
	root := newRootCmd(a)

	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestExtractCmd(t *testing.T) {
	mock := provider.NewMockGateway().On(model.TierDefault, "Cash, Gold, cash")

	out, _, err := run(t, mock, "Gold prices rose sharply.", "extract", "--title", "Markets")
	require.NoError(t, err)

	assert.Equal(t, "Cash\nGold\n", out)
	assert.Contains(t, mock.LastCall().Prompt, "Title: Markets\nText: Gold prices rose sharply.\nTags:")
}

func TestExtractCmd_FileAndTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("A long report\nabout appliances."), 0o644))
	mock := provider.NewMockGateway().
		On(model.TierFast, "Lunar Cartography").
		On(model.TierDefault, "Appliances")

	out, _, err := run(t, mock, "", "extract", "--file", path, "--tier", "fast", "--trace")
	require.NoError(t, err)

	var res tagging.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"Appliances"}, res.Tags)
	assert.Equal(t, model.TierDefault, res.FinalTier)
	require.Len(t, res.Attempts, 2)
	assert.Equal(t, model.OutcomeEscalated, res.Attempts[0].Outcome)
	assert.NotEmpty(t, res.RunID)
}

func TestExtractCmd_Errors(t *testing.T) {
	mock := provider.NewMockGateway()

	_, _, err := run(t, mock, "x", "extract", "--tier", "ultra")
	assert.ErrorContains(t, err, "invalid tier")

	_, _, err = run(t, mock, "x", "extract", "--file", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "read document")

	_, _, err = run(t, mock, "x", "extract", "--log-format", "xml")
	assert.ErrorContains(t, err, "log-format")

	_, _, err = run(t, mock, "x", "extract", "--config", filepath.Join(t.TempDir(), "tagkit.ini"))
	assert.Error(t, err)
	assert.Equal(t, 0, mock.CallCount())
}

func TestExtractCmd_EmptyInput(t *testing.T) {
	mock := provider.NewMockGateway()

	out, _, err := run(t, mock, "  \n ", "extract")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 0, mock.CallCount())
}

func TestHypernymsCmd(t *testing.T) {
	mock := provider.NewMockGateway().WithCompleteFunc(func(ctx context.Context, prompt string, opts provider.Options, tier model.Tier) (*provider.Completion, error) {
		text := " Appliance"
		if strings.HasSuffix(prompt, "Term: Oven\nCategory:") {
			text = "Oven"
		}
		return &provider.Completion{Choices: []provider.Choice{{Text: text}}}, nil
	})

	out, _, err := run(t, mock, "", "hypernyms", "Refrigerator", "Oven")
	require.NoError(t, err)
	assert.Equal(t, "Refrigerator\tAppliance\nOven\t\n", out)

	_, _, err = run(t, mock, "", "hypernyms")
	assert.Error(t, err)
}

func decodeLines(t *testing.T, out string) map[string]batchOutput {
	t.Helper()
	got := make(map[string]batchOutput)
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var o batchOutput
		require.NoError(t, json.Unmarshal(sc.Bytes(), &o))
		got[o.ID] = o
	}
	return got
}

func TestBatchCmd(t *testing.T) {
	mock := provider.NewMockGateway().WithCompleteFunc(func(ctx context.Context, prompt string, opts provider.Options, tier model.Tier) (*provider.Completion, error) {
		switch {
		case strings.Contains(prompt, "Category:"):
			return &provider.Completion{Choices: []provider.Choice{{Text: "Finance"}}}, nil
		case strings.Contains(prompt, "Text: gold"):
			return &provider.Completion{Choices: []provider.Choice{{Text: "Gold, Covid 19, Covid 20"}}}, nil
		default:
			return &provider.Completion{Choices: []provider.Choice{{Text: "Cash"}}}, nil
		}
	})
	input := strings.Join([]string{
		`{"id":"a","title":"Metals","body":"gold rallied"}`,
		`{"id":"b","body":"cash is king"}`,
		`not json`,
		``,
		`{"body":"   "}`,
	}, "\n")

	out, _, err := run(t, mock, input, "batch", "--hypernyms", "-n", "2")
	require.NoError(t, err)

	got := decodeLines(t, out)
	require.Len(t, got, 4)
	assert.Equal(t, []string{"Gold", "Covid 19"}, got["a"].Tags)
	assert.Equal(t, []string{"Finance", "Finance"}, got["a"].Hypernyms)
	assert.Equal(t, []string{"Cash"}, got["b"].Tags)
	assert.Equal(t, "invalid json", got["line:3"].Error)
	assert.Equal(t, []string{}, got["line:5"].Tags)
	assert.Nil(t, got["line:5"].Hypernyms)
}

func TestBatchCmd_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tagging:\n  start_tier: 2\n"), 0o644))
	mock := provider.NewMockGateway().On(model.TierStrong, "Cash")

	out, _, err := run(t, mock, `{"id":"x","body":"money"}`, "batch", "--watch", "--config", path)
	require.NoError(t, err)

	got := decodeLines(t, out)
	assert.Equal(t, []string{"Cash"}, got["x"].Tags)
	assert.Equal(t, model.TierStrong, got["x"].FinalTier)
}

func TestBatchCmd_Flags(t *testing.T) {
	mock := provider.NewMockGateway()

	_, _, err := run(t, mock, "", "batch", "--watch")
	assert.ErrorContains(t, err, "--watch requires --config")

	_, _, err = run(t, mock, "", "batch", "--concurrency", "0")
	assert.ErrorContains(t, err, "--concurrency")
}

func TestSchemaCmd(t *testing.T) {
	out, _, err := run(t, provider.NewMockGateway(), "", "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Contains(t, out, `"tier_models"`)
}

func TestLogging(t *testing.T) {
	mock := provider.NewMockGateway().
		On(model.TierDefault, "Glacier Jazz").
		On(model.TierStrong, "Cash")

	_, stderr, err := run(t, mock, "text", "extract", "--log-format", "json", "--log-level", "info")
	require.NoError(t, err)

	assert.Contains(t, stderr, `"msg":"degenerate completion, escalating"`)
	assert.Contains(t, stderr, `"msg":"usage"`)
	assert.Contains(t, stderr, `"requests":2`)
}

// closingGateway records whether the CLI released it.
type closingGateway struct {
	*provider.MockGateway
	closed int
}

func (g *closingGateway) Close() error {
	g.closed++
	return nil
}

func TestCommandsReleaseGateway(t *testing.T) {
	for _, args := range [][]string{
		{"extract"},
		{"hypernyms", "Refrigerator"},
		{"batch"},
	} {
		gw := &closingGateway{MockGateway: provider.NewMockGateway().On(model.TierDefault, "Cash")}

		_, _, err := run(t, gw, `{"id":"a","body":"money"}`, args...)
		require.NoError(t, err, args[0])
		assert.Equal(t, 1, gw.closed, args[0])
	}
}
