package skill

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketomega/skill-agent/internal/logger"
	"github.com/pocketomega/skill-agent/internal/prompt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func scenarioRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(
		Skill{Name: "sales_analytics", Description: "D1", Content: "C1"},
		Skill{Name: "inventory_management", Description: "D2", Content: "C2"},
	)
	require.NoError(t, err)
	return reg
}

func writeSkillsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skills.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// captureDebugLogs raises the global logger to debug and returns its output.
func captureDebugLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	origOut, origLevel := logger.L.Logger.Out, logger.L.Logger.GetLevel()
	logger.SetLogOutput(&buf)
	logger.L.Logger.SetLevel(logrus.DebugLevel)
	t.Cleanup(func() {
		logger.SetLogOutput(origOut)
		logger.L.Logger.SetLevel(origLevel)
	})
	return &buf
}

// ── Registry ─────────────────────────────────────────────────────────────────

func TestFind_RoundTripsEveryDefaultSkill(t *testing.T) {
	reg := Default()
	require.Equal(t, 2, reg.Len())
	for _, s := range reg.All() {
		got, ok := reg.Find(s.Name)
		require.True(t, ok, s.Name)
		assert.Equal(t, s.Content, got.Content)
		assert.Equal(t, "Loaded skill: "+s.Name+"\n\n"+s.Content, LoadSkill(reg, s.Name))
	}
}

func TestFind_CaseSensitive(t *testing.T) {
	reg := scenarioRegistry(t)
	_, ok := reg.Find("Sales_Analytics")
	assert.False(t, ok)
	_, ok = reg.Find("sales_analytics ")
	assert.False(t, ok)
}

func TestDefault_NamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, name := range Default().Names() {
		assert.False(t, seen[name], "duplicate skill name %q", name)
		seen[name] = true
	}
}

func TestDefault_Content(t *testing.T) {
	reg := Default()
	assert.Equal(t, []string{"sales_analytics", "inventory_management"}, reg.Names())

	sales, _ := reg.Find("sales_analytics")
	assert.True(t, strings.HasPrefix(sales.Content, "# Sales Analytics Schema\n\n## Tables"))
	assert.True(t, strings.HasSuffix(sales.Content, "LIMIT 10;"), "content should carry no trailing newline")
	assert.Contains(t, sales.Content, "\n    c.customer_id,\n", "SQL indentation preserved")

	inv, _ := reg.Find("inventory_management")
	assert.Equal(t,
		"Database schema and business logic for inventory tracking including products, warehouses, and stock levels.",
		inv.Description)
	assert.True(t, strings.HasSuffix(inv.Content, "ORDER BY units_to_reorder DESC;"))
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(
		Skill{Name: "a", Description: "1"},
		Skill{Name: "b", Description: "2"},
		Skill{Name: "a", Description: "3"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"a"`)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewRegistry_RejectsBlankName(t *testing.T) {
	_, err := NewRegistry(Skill{Name: "  ", Description: "x"})
	assert.ErrorContains(t, err, "name is required")
}

func TestNewRegistry_CopiesInput(t *testing.T) {
	in := []Skill{{Name: "a", Description: "d", Content: "c"}}
	reg, err := NewRegistry(in...)
	require.NoError(t, err)

	in[0].Content = "mutated"
	got, _ := reg.Find("a")
	assert.Equal(t, "c", got.Content)

	all := reg.All()
	all[0].Content = "mutated too"
	got, _ = reg.Find("a")
	assert.Equal(t, "c", got.Content)
}

func TestNilRegistry(t *testing.T) {
	var reg *Registry
	_, ok := reg.Find("x")
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.Names())
	assert.Equal(t, "Skill 'x' not found. Available skills: ", LoadSkill(reg, "x"))
}

// ── Loader ───────────────────────────────────────────────────────────────────

func TestLoadFile(t *testing.T) {
	path := writeSkillsFile(t, `
skills:
  - name: billing
    description: Billing tables
    content: |-
      # Billing
      invoices(id, total)
  - name: hr
    description: HR tables
    content: employees(id)
`)
	reg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "hr"}, reg.Names())

	billing, _ := reg.Find("billing")
	assert.Equal(t, "# Billing\ninvoices(id, total)", billing.Content)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read")
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("skills:\n  - name: a\n    desciption: typo\n"))
	assert.Error(t, err)
}

func TestParse_MissingDescription(t *testing.T) {
	_, err := Parse([]byte("skills:\n  - name: a\n    content: c\n"))
	assert.ErrorContains(t, err, "description is required")
}

func TestParse_Duplicate(t *testing.T) {
	_, err := Parse([]byte(`
skills:
  - {name: a, description: one}
  - {name: a, description: two}
`))
	assert.ErrorContains(t, err, "duplicate")
}

func TestParse_Empty(t *testing.T) {
	reg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	reg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Names(), reg.Names())
}

// ── Augment ──────────────────────────────────────────────────────────────────

const scenarioBlock = "## Available Skills\n\n" +
	"- **sales_analytics**: D1\n" +
	"- **inventory_management**: D2\n\n" +
	"Use the load_skill tool when you need detailed information about handling a specific type of request."

func TestListing(t *testing.T) {
	assert.Equal(t,
		"- **sales_analytics**: D1\n- **inventory_management**: D2",
		Listing(scenarioRegistry(t)))
}

func TestAugment_AbsentPromptIsExactlyTheBlock(t *testing.T) {
	out := Augment(context.Background(), prompt.Absent(), scenarioRegistry(t))

	require.True(t, out.IsPresent())
	segs := out.Segments()
	require.Len(t, segs, 1)
	assert.Equal(t, scenarioBlock, segs[0].Text)
	assert.Equal(t, scenarioBlock, out.Text())
}

func TestAugment_PresentPromptKeepsPrefix(t *testing.T) {
	base := prompt.Present(prompt.TextSegment("You are a SQL assistant."), prompt.TextSegment("Be brief."))
	out := Augment(context.Background(), base, scenarioRegistry(t))

	segs := out.Segments()
	require.Len(t, segs, 3)
	assert.Equal(t, base.Segments(), segs[:2], "existing segments unchanged and in order")
	assert.Equal(t, scenarioBlock, segs[2].Text)
	assert.True(t, strings.HasPrefix(out.Text(), base.Text()))

	assert.Len(t, base.Segments(), 2, "input prompt must not be mutated")
}

func TestAugment_TwiceAppendsTwice(t *testing.T) {
	reg := scenarioRegistry(t)
	base := prompt.FromText("base")

	once := Augment(context.Background(), base, reg)
	twice := Augment(context.Background(), once, reg)

	segs := twice.Segments()
	require.Len(t, segs, 3)
	assert.Equal(t, "base", segs[0].Text)
	assert.Equal(t, scenarioBlock, segs[1].Text)
	assert.Equal(t, scenarioBlock, segs[2].Text)
	assert.Equal(t, 2, strings.Count(twice.Text(), "## Available Skills"))
}

func TestAugment_SameInputSameOutput(t *testing.T) {
	reg := scenarioRegistry(t)
	base := prompt.FromText("base")
	a := Augment(context.Background(), base, reg)
	b := Augment(context.Background(), base, reg)
	assert.Equal(t, a.Segments(), b.Segments())
}

func TestAugment_LogsPromptAtDebug(t *testing.T) {
	buf := captureDebugLogs(t)

	Augment(context.Background(), prompt.FromText("base"), scenarioRegistry(t))

	out := buf.String()
	assert.Contains(t, out, "level=debug")
	assert.Contains(t, out, "System prompt:")
	assert.Contains(t, out, "sales_analytics")
}

// ── load_skill ───────────────────────────────────────────────────────────────

func TestLoadSkill_Scenario(t *testing.T) {
	reg := scenarioRegistry(t)
	assert.Equal(t, "Loaded skill: sales_analytics\n\nC1", LoadSkill(reg, "sales_analytics"))
	assert.Equal(t,
		"Skill 'unknown' not found. Available skills: sales_analytics, inventory_management",
		LoadSkill(reg, "unknown"))
}

func TestLoadSkill_MissListsEveryNameOnceInOrder(t *testing.T) {
	reg := Default()
	for _, name := range []string{"", "unknown", "SALES_ANALYTICS", "sales"} {
		got := LoadSkill(reg, name)
		require.Contains(t, got, "not found")

		_, list, found := strings.Cut(got, "Available skills: ")
		require.True(t, found)
		assert.Equal(t, reg.Names(), strings.Split(list, ", "))
	}
}

func TestLoadTool_Execute(t *testing.T) {
	lt := NewLoadTool(scenarioRegistry(t))
	assert.Equal(t, "load_skill", lt.Name())

	res, err := lt.Execute(context.Background(), json.RawMessage(`{"skill_name":"inventory_management"}`))
	require.NoError(t, err)
	assert.Empty(t, res.Error)
	assert.Equal(t, "Loaded skill: inventory_management\n\nC2", res.Output)

	res, err = lt.Execute(context.Background(), json.RawMessage(`{"skill_name":"nope"}`))
	require.NoError(t, err)
	assert.Contains(t, res.Output, "not found")
}

func TestLoadTool_BadArguments(t *testing.T) {
	lt := NewLoadTool(scenarioRegistry(t))
	res, err := lt.Execute(context.Background(), json.RawMessage(`{"skill_name":`))
	require.NoError(t, err, "malformed arguments are reported to the model, not raised")
	assert.Contains(t, res.Error, "invalid arguments")
	assert.Empty(t, res.Output)
}

func TestLoadTool_Schema(t *testing.T) {
	var schema map[string]any
	require.NoError(t, json.Unmarshal(NewLoadTool(Default()).InputSchema(), &schema))
	assert.Equal(t, []any{"skill_name"}, schema["required"])
	props := schema["properties"].(map[string]any)
	assert.Contains(t, props, "skill_name")
}
