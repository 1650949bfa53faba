package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"entity-graph/backend/pkg/errors"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.csv")
	content := "Entity1,Entity1_Type,Entity1_Parent,Entity2,Entity2_Type,Entity2_Parent,Weight\n" +
		"a,X,P1,b,Y,P2,3\n" +
		"c,Z,P2,d,W,P2,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGraphctl_JSON(t *testing.T) {
	path := writeDataset(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"graph"}, `{"nodes":["P1","P2"],"edges":[{"source":"P1","target":"P2"},{"source":"P2","target":"P2"}]}`},
		{[]string{"children", "P1"}, `["a/X","b/Y"]`},
		{[]string{"children", "P2"}, `["a/X","b/Y","c/Z","d/W"]`},
		{[]string{"connected", "P2"}, `["P1"]`},
		{[]string{"connected", "missing"}, `[]`},
		{[]string{"dataset"}, `[
			{"Entity1":"a","Entity1_Type":"X","Entity1_Parent":"P1","Entity2":"b","Entity2_Type":"Y","Entity2_Parent":"P2","Weight":3},
			{"Entity1":"c","Entity1_Type":"Z","Entity1_Parent":"P2","Entity2":"d","Entity2_Type":"W","Entity2_Parent":"P2","Weight":null}
		]`},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			out, err := run(t, append(tt.args, "--file", path)...)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, out)
		})
	}
}

func TestGraphctl_YAML(t *testing.T) {
	path := writeDataset(t)

	out, err := run(t, "graph", "-f", path, "-o", "yaml")
	require.NoError(t, err)

	var view struct {
		Nodes []string `yaml:"nodes"`
		Edges []struct {
			Source string `yaml:"source"`
			Target string `yaml:"target"`
		} `yaml:"edges"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	assert.Equal(t, []string{"P1", "P2"}, view.Nodes)
	assert.Len(t, view.Edges, 2)

	out, err = run(t, "dataset", "-f", path, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "- Entity1: a\n  Entity1_Type: X\n")
	assert.Contains(t, out, "Weight: null")
}

func TestGraphctl_Errors(t *testing.T) {
	path := writeDataset(t)

	_, err := run(t, "graph")
	assert.Error(t, err, "--file is required")

	_, err = run(t, "graph", "-f", path, "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = run(t, "children", "-f", path)
	assert.Error(t, err)

	_, err = run(t, "graph", "-f", filepath.Join(t.TempDir(), "missing.csv"))
	loadErr, ok := errors.AsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, errors.LoadReasonMissing, loadErr.Reason)
}
