package deckfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/xcube/pkg/types"
)

func sampleCube() *types.Cube {
	cube := types.NewCube("Vintage Cube", time.Date(2021, time.March, 15, 0, 0, 0, 0, time.UTC), "Wizards of the Coast")
	cube.Add(types.Entry{Name: "Swords to Plowshares", Number: "274", SetCode: "ICE", Bucket: "White"})
	cube.Add(types.Entry{Name: "Ancestral Recall", Number: "47", SetCode: "LEB", Bucket: "Blue"})
	cube.Add(types.Entry{Name: "Balance", Number: "2", SetCode: "LEB", Bucket: "White"})
	cube.Add(types.Entry{Name: "Brainstorm", Number: "61", SetCode: "ICE", Bucket: "Blue"})
	cube.Add(types.Entry{Name: "Brainstorm", Number: "61", SetCode: "ICE", Bucket: "Blue"})
	cube.Add(types.Entry{Name: "Ajani Vengeant", Number: "221s★", SetCode: "PWAR", Bucket: "Multicolor"})
	return cube
}

func TestXMage_Format(t *testing.T) {
	got := XMage{}.Format(sampleCube())

	want := "NAME:Vintage Cube (15.03.2021)\n" +
		"AUTHOR:Wizards of the Coast\n" +
		"\n# White\n" +
		"1 [LEB:2] Balance\n" +
		"1 [ICE:274] Swords to Plowshares\n" +
		"\n# Blue\n" +
		"1 [LEB:47] Ancestral Recall\n" +
		"2 [ICE:61] Brainstorm\n" +
		"\n# Multicolor\n" +
		"1 [PWAR:221s*] Ajani Vengeant\n"
	assert.Equal(t, want, got)
}

func TestXMage_FormatEmptyCube(t *testing.T) {
	cube := types.NewCube("Empty", time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC), "Nobody")
	assert.Equal(t, "NAME:Empty (02.01.2020)\nAUTHOR:Nobody\n", XMage{}.Format(cube))
}

func TestTransformNumber(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"47", "47"},
		{"21†", "21+"},
		{"221s★", "221s*"},
		{"mb62sb", "mb62sb"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TransformNumber(tt.in))
		})
	}
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.dck")

	require.NoError(t, Export(XMage{}, sampleCube(), path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "NAME:Vintage Cube (15.03.2021)\n"))
	assert.Contains(t, string(data), "[PWAR:221s*]")
}

func TestExport_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "cube.dck")
	err := Export(XMage{}, sampleCube(), path, nil)
	assert.Error(t, err)
}
