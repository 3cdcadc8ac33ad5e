package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/term"

	"github.com/stuxhq/stux/pkg/loader"
	"github.com/stuxhq/stux/pkg/region"
)

// isolate keeps the developer's own config and environment out of the test
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{"STUX_DEFAULT_REGION", "STUX_REGISTRY", "STUX_FEEDS_DIR", "STUX_WATCH", "STUX_LOG_LEVEL", "STUX_PROFILE_REGION"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(io.Discard)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScopeCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "scope", "Vietnam")
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	got := strings.Fields(out)
	want := []string{"vietnam", "tphcm", "iu-vnu", "ussh", "danang", "hanoi"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("scope = %v, want %v", got, want)
	}

	out, err = run(t, "scope", "atlantis")
	if err != nil || strings.TrimSpace(out) != "atlantis" {
		t.Errorf("unknown scope = %q, err %v", out, err)
	}
}

func TestRegionsAndCheckCommands(t *testing.T) {
	isolate(t)

	out, err := run(t, "regions")
	if err != nil {
		t.Fatalf("regions: %v", err)
	}
	for _, want := range []string{"melbourne", "iu-vnu", "default: australia"} {
		if !strings.Contains(out, want) {
			t.Errorf("regions output missing %q", want)
		}
	}

	out, err = run(t, "check")
	if err != nil || !strings.HasPrefix(out, "ok: 12 regions") {
		t.Errorf("check = %q, err %v", out, err)
	}
}

func TestCheckReportsCycle(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "regions.yaml")
	data := `regions:
  - id: a
    label: A
  - id: b
    label: B
children:
  a: [b]
  b: [a]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--registry", path, "check")
	if err == nil {
		t.Fatal("expected check to fail on a cycle")
	}
	if !strings.Contains(out, string(region.ProblemCycle)) {
		t.Errorf("output does not mention the cycle: %q", out)
	}
}

func TestFeedCommandJSON(t *testing.T) {
	isolate(t)

	out, err := run(t, "--region", "tphcm", "feed", "community", "--json")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	var rows []feedRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(rows) == 0 {
		t.Fatal("expected community posts for tphcm")
	}
	scope := map[string]bool{"tphcm": true, "iu-vnu": true, "ussh": true}
	for _, r := range rows {
		hit := false
		for _, id := range r.Regions {
			hit = hit || scope[id]
		}
		if !hit {
			t.Errorf("row %s tagged %v is outside tphcm", r.ID, r.Regions)
		}
	}

	if _, err := run(t, "feed", "events"); err == nil {
		t.Error("expected error for unknown pillar")
	}
}

func TestFeedCommandTableFromDirectory(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	line := `{"id":"i1","title":"Where do you study after 9pm?","responses":4,"region":"usyd"}` + "\n"
	if err := os.WriteFile(filepath.Join(dir, "insight.jsonl"), []byte(line), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--feeds", dir, "--region", "sydney", "feed", "insight")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if !strings.Contains(out, "Insight in Sydney") || !strings.Contains(out, "after 9pm") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = run(t, "--feeds", dir, "feed", "community")
	if err != nil || !strings.Contains(out, "Nothing posted here yet.") {
		t.Errorf("empty feed output = %q, err %v", out, err)
	}
}

func TestExportCommand(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "hierarchy.svg")
	if _, err := run(t, "export", path, "--highlight", "melbourne"); err != nil {
		t.Fatalf("export: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("export did not write %s: %v", path, err)
	}

	if _, err := run(t, "export", filepath.Join(t.TempDir(), "hierarchy.gif")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestBrowseWithoutTerminalPrintsFeed(t *testing.T) {
	isolate(t)
	if term.IsTerminal(int(os.Stdout.Fd())) {
		t.Skip("stdout is a terminal")
	}

	out, err := run(t, "--pillar", "exchange")
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if !strings.HasPrefix(out, "Exchange in Australia") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestLoadConfig(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "stux.yaml")
	data := `default_region: melbourne
watch: true
log:
  level: debug
profile:
  username: linh
  name: Linh
  balance: 12
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STUX_PROFILE_REGION", "Ho Chi Minh City")

	cfg, err := loadConfig(newViper(), path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.DefaultRegion != "melbourne" || !cfg.Watch || cfg.Log.Level != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Profile.Username != "linh" || cfg.Profile.Balance != 12 {
		t.Errorf("profile = %+v", cfg.Profile)
	}
	if cfg.Profile.Region != "Ho Chi Minh City" {
		t.Errorf("env override not applied: %q", cfg.Profile.Region)
	}

	if _, err := loadConfig(newViper(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}

	cfg, err = loadConfig(newViper(), "")
	if err != nil {
		t.Fatalf("search-path config: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("default log level = %q", cfg.Log.Level)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	isolate(t)
	if _, err := run(t, "--log-level", "chatty", "regions"); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestCitiesAndSchoolsCommands(t *testing.T) {
	isolate(t)

	out, err := run(t, "schools")
	if err != nil {
		t.Fatalf("schools: %v", err)
	}
	if !strings.HasPrefix(out, "Popular schools") {
		t.Errorf("unexpected header:\n%s", out)
	}
	for _, id := range []string{"deakin", "iu-vnu", "monash", "usyd", "ussh"} {
		if !strings.Contains(out, id) {
			t.Errorf("shortcuts missing %s", id)
		}
	}

	out, err = run(t, "cities", "vietnam")
	if err != nil {
		t.Fatalf("cities: %v", err)
	}
	if !strings.HasPrefix(out, "Cities in Vietnam") || !strings.Contains(out, "danang") || strings.Contains(out, "iu-vnu") {
		t.Errorf("unexpected cities output:\n%s", out)
	}

	out, err = run(t, "schools", "melbourne")
	if err != nil || !strings.Contains(out, "Monash University") || !strings.Contains(out, "Waitlist") {
		t.Errorf("schools melbourne = %q, err %v", out, err)
	}

	out, err = run(t, "cities", "deakin")
	if err != nil || !strings.Contains(out, "None listed yet.") {
		t.Errorf("cities of a school = %q, err %v", out, err)
	}
}

func TestHomeStepOptions(t *testing.T) {
	file, err := loader.DefaultRegistryFile()
	if err != nil {
		t.Fatal(err)
	}
	res := region.NewResolver(file.Build(""))

	ids := func(opts []region.Option) []string {
		var out []string
		for _, o := range opts {
			out = append(out, o.ID)
		}
		return out
	}

	tests := []struct {
		id    string
		depth int
		want  []string
	}{
		{"australia", 0, []string{"melbourne", "sydney"}},
		{"tphcm", 1, []string{"iu-vnu", "ussh"}},
		{"danang", 1, nil},
		{"deakin", 2, nil},
	}
	for _, tt := range tests {
		if got := ids(homeStepOptions(res, tt.id, tt.depth)); strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("homeStepOptions(%s, %d) = %v, want %v", tt.id, tt.depth, got, tt.want)
		}
	}

	opts := huhOptions(res.CityOptions("vietnam"))
	if len(opts) != 3 || opts[0].Value != "tphcm" || opts[1].Key != "Đà Nẵng (waitlist)" {
		t.Errorf("huh options = %+v", opts)
	}
}

func TestFeedCommandFromFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "offers.jsonl")
	data := `{"id":"e1","title":"Thesis proofreading","category":"resources","region":"ussh"}` + "\n" +
		`{"id":"e2","title":"Footy tickets","category":"resources","region":"melbourne"}` + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--region", "vietnam", "feed", "exchange", "--file", path, "--json")
	if err != nil {
		t.Fatalf("feed --file: %v", err)
	}
	var rows []feedRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(rows) != 1 || rows[0].ID != "e1" || rows[0].Detail != "Resource" {
		t.Errorf("rows = %+v", rows)
	}

	if _, err := run(t, "feed", "exchange", "--file", path+".missing"); err == nil {
		t.Error("expected error for missing feed file")
	}
}

func TestRegionFlagIsUntaggedFallback(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	line := `{"id":"c1","title":"Anyone up for a study group?"}` + "\n"
	if err := os.WriteFile(filepath.Join(dir, "community.jsonl"), []byte(line), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"vietnam", "australia"} {
		out, err := run(t, "--feeds", dir, "--region", id, "feed", "community", "--json")
		if err != nil {
			t.Fatalf("feed: %v", err)
		}
		var rows []feedRow
		if err := json.Unmarshal([]byte(out), &rows); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		if len(rows) != 1 || strings.Join(rows[0].Regions, ",") != id {
			t.Errorf("--region %s: rows = %+v", id, rows)
		}
	}

	usage := newRootCmd(io.Discard).PersistentFlags().Lookup("region").Usage
	if !strings.Contains(usage, "fallback for untagged content") {
		t.Errorf("--region usage = %q", usage)
	}
}
