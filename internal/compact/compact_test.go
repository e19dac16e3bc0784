package compact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/cup/internal/prune"
	"github.com/standardbeagle/cup/internal/taxonomy"
	"github.com/standardbeagle/cup/internal/tree"
)

func sampleEnvelope() *tree.Envelope {
	return &tree.Envelope{
		Version:  tree.Version,
		Platform: "windows",
		Screen:   tree.Screen{W: 1920, H: 1080, Scale: 1},
		Scope:    "foreground",
		App:      &tree.AppInfo{Name: "Notepad", PID: 4242},
		Tree: []*tree.Node{{
			ID: "e0", Role: taxonomy.RoleWindow, Name: "Untitled - Notepad",
			Bounds: tree.Rect{X: 0, Y: 0, W: 1920, H: 1080},
			Children: []*tree.Node{
				{
					ID: "e1", Role: taxonomy.RoleDocument,
					Bounds: tree.Rect{X: 0, Y: 30, W: 1920, H: 1050},
					Children: []*tree.Node{{
						ID: "e2", Role: taxonomy.RoleTextBox, Name: "Text editor",
						Bounds:  tree.Rect{X: 0, Y: 30, W: 1920, H: 1050},
						States:  []taxonomy.State{taxonomy.StateEditable, taxonomy.StateFocused},
						Actions: []taxonomy.Action{taxonomy.ActionFocus, taxonomy.ActionType},
						Value:   "hello world",
					}},
				},
				{
					ID: "e3", Role: taxonomy.RoleButton, Name: "Close",
					Bounds:  tree.Rect{X: 1880, Y: 0, W: 40, H: 30},
					Actions: []taxonomy.Action{taxonomy.ActionClick},
				},
			},
		}},
	}
}

func TestSerializeGolden(t *testing.T) {
	got := Serialize(sampleEnvelope(), prune.Counts{Before: 9, After: 4}, Options{})

	want := strings.Join([]string{
		"# CUP 0.1.0 | windows | 1920x1080",
		"# app: Notepad",
		"# 4 nodes (9 before pruning)",
		"",
		`[e0] win "Untitled - Notepad" 0,0 1920x1080`,
		"  [e1] doc 0,30 1920x1050",
		`    [e2] tbx "Text editor" 0,30 1920x1050 {edt,foc} [typ] val="hello world"`,
		`  [e3] btn "Close" 1880,0 40x30 [clk]`,
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestSerializeIsDeterministic(t *testing.T) {
	env := sampleEnvelope()
	counts := prune.Counts{Before: 9, After: 4}
	first := Serialize(env, counts, Options{})
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Serialize(env, counts, Options{}))
	}
}

func TestSerializeOmitsEmptySections(t *testing.T) {
	env := &tree.Envelope{
		Version: tree.Version, Platform: "linux",
		Screen: tree.Screen{W: 800, H: 600},
		Tree: []*tree.Node{{
			ID: "e0", Role: taxonomy.RoleWindow,
			Bounds: tree.Rect{W: 800, H: 600},
		}},
	}
	got := Serialize(env, prune.Counts{Before: 1, After: 1}, Options{})

	assert.Contains(t, got, "[e0] win 0,0 800x600\n")
	assert.NotContains(t, got, "# app:")
	assert.NotContains(t, got, "{")
	assert.NotContains(t, got, "val=")
}

func TestSerializeEscapesNames(t *testing.T) {
	env := &tree.Envelope{
		Version: tree.Version, Platform: "web",
		Screen: tree.Screen{W: 800, H: 600},
		Tree: []*tree.Node{{
			ID: "e0", Role: taxonomy.RoleButton, Name: "Say \"hi\"\nnow",
			Bounds:  tree.Rect{W: 10, H: 10},
			Actions: []taxonomy.Action{taxonomy.ActionClick},
		}},
	}
	got := Serialize(env, prune.Counts{Before: 1, After: 1}, Options{})
	assert.Contains(t, got, `"Say \"hi\" now"`)
}

func TestSerializeTruncatesLongNames(t *testing.T) {
	long := strings.Repeat("a", 200)
	env := &tree.Envelope{
		Version: tree.Version, Platform: "web",
		Screen: tree.Screen{W: 800, H: 600},
		Tree: []*tree.Node{{
			ID: "e0", Role: taxonomy.RoleText, Name: long,
			Bounds: tree.Rect{W: 10, H: 10},
		}},
	}
	got := Serialize(env, prune.Counts{Before: 1, After: 1}, Options{})
	assert.Contains(t, got, `"`+strings.Repeat("a", 80)+`..."`)
}

func TestSerializeAttrOrderIsFixed(t *testing.T) {
	env := &tree.Envelope{
		Version: tree.Version, Platform: "web",
		Screen: tree.Screen{W: 800, H: 600},
		Tree: []*tree.Node{{
			ID: "e0", Role: taxonomy.RoleSlider, Name: "Volume",
			Bounds:  tree.Rect{W: 100, H: 20},
			Actions: []taxonomy.Action{taxonomy.ActionSetValue},
			Value:   float64(30),
			Extra: map[string]string{
				"valueMax":    "100",
				"orientation": "horizontal",
				"valueMin":    "0",
			},
		}},
	}
	got := Serialize(env, prune.Counts{Before: 1, After: 1}, Options{})
	assert.Contains(t, got, `val="30" (h range=0..100)`)
}

func TestSerializeOutputCap(t *testing.T) {
	var kids []*tree.Node
	for i := 0; i < 500; i++ {
		kids = append(kids, &tree.Node{
			ID: "e1", Role: taxonomy.RoleText, Name: strings.Repeat("x", 60),
			Bounds: tree.Rect{W: 10, H: 10},
		})
	}
	env := &tree.Envelope{
		Version: tree.Version, Platform: "web",
		Screen: tree.Screen{W: 800, H: 600},
		Tree: []*tree.Node{{
			ID: "e0", Role: taxonomy.RoleWindow,
			Bounds: tree.Rect{W: 800, H: 600}, Children: kids,
		}},
	}

	got := Serialize(env, prune.Counts{Before: 501, After: 501}, Options{MaxChars: 2000})
	assert.Less(t, len(got), 2300)
	assert.Contains(t, got, "# OUTPUT TRUNCATED")
	// Truncation never leaves a partial line before the footer.
	lines := strings.Split(got, "\n")
	require.Greater(t, len(lines), 4)

	uncapped := Serialize(env, prune.Counts{Before: 501, After: 501}, Options{MaxChars: -1})
	assert.NotContains(t, uncapped, "# OUTPUT TRUNCATED")
}

func TestSerializeWindowListHeader(t *testing.T) {
	got := Serialize(sampleEnvelope(), prune.Counts{Before: 9, After: 4}, Options{
		Windows: []Window{
			{Title: "Untitled - Notepad", Foreground: true},
			{Title: "Browser"},
		},
	})
	assert.Contains(t, got, "# --- 2 open windows ---")
	assert.Contains(t, got, "#   Untitled - Notepad [fg]")
	assert.Contains(t, got, "#   Browser\n")
}

func TestSerializeOverview(t *testing.T) {
	got := SerializeOverview([]Window{
		{Title: "Terminal", PID: 100, Foreground: true, Bounds: &tree.Rect{X: 0, Y: 0, W: 800, H: 600}},
		{Title: "", PID: 200},
		{Title: "Docs", URL: "https://example.com/a/very/long/path"},
	}, "macos", tree.Screen{W: 1440, H: 900})

	want := strings.Join([]string{
		"# CUP 0.1.0 | macos | 1440x900",
		"# overview | 3 windows",
		"",
		"* [fg] Terminal (pid:100) @0,0 800x600",
		"  (untitled) (pid:200)",
		"  Docs url:https://example.com/a/very/long/path",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}
