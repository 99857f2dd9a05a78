package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-skywindow/internal/config"
	"github.com/litescript/ls-skywindow/internal/telescope"
	"github.com/litescript/ls-skywindow/internal/validate"
	"github.com/litescript/ls-skywindow/internal/visibility"
)

func TestParseDatetime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2025-03-01T17:29:09Z", time.Date(2025, 3, 1, 17, 29, 9, 0, time.UTC), true},
		{"2025-03-01T17:29:09.5+02:00", time.Date(2025, 3, 1, 15, 29, 9, 5e8, time.UTC), true},
		{"2025-03-01T17:29", time.Date(2025, 3, 1, 17, 29, 0, 0, time.UTC), true},
		{"2025-03-01 17:29:09", time.Date(2025, 3, 1, 17, 29, 9, 0, time.UTC), true},
		{"2025-03-01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"yesterday", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseDatetime(tt.in)
			if ok != tt.ok || !got.Equal(tt.want) {
				t.Errorf("parseDatetime(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func newQueryCmd() (*cobra.Command, *queryFlags) {
	cmd := &cobra.Command{Use: "test"}
	qf := newQueryFlags()
	qf.register(cmd)
	return cmd, qf
}

func TestQueryFlags_OnlyChangedFlagsArePresent(t *testing.T) {
	cmd, qf := newQueryCmd()
	if err := cmd.Flags().Parse([]string{"--ra", "0", "--start", "2025-03-01", "--max-airmass", "1.5"}); err != nil {
		t.Fatal(err)
	}

	q, errs, err := qf.build(cmd.Flags())
	if err != nil || len(errs) > 0 {
		t.Fatalf("build() = %v, %v", errs, err)
	}
	if q.RA == nil || *q.RA != 0 {
		t.Errorf("ra = %v, want explicit 0", q.RA)
	}
	if q.Dec != nil || q.Parallax != nil || q.MaxLunarPhase != nil {
		t.Error("unset flags must stay absent")
	}
	if q.MaxAirmass == nil || *q.MaxAirmass != 1.5 {
		t.Errorf("max_airmass = %v, want 1.5", q.MaxAirmass)
	}
	if !q.End.IsZero() {
		t.Errorf("end = %v, want zero", q.End)
	}
}

func TestQueryFlags_FileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.yaml")
	data := []byte(`start: 2025-03-01T00:00:00Z
end: 2025-03-02T00:00:00Z
telescopes: [lco.coj.1m0a]
ra: 279.09975
dec: -23.90475
max_airmass: 1.8
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cmd, qf := newQueryCmd()
	if err := cmd.Flags().Parse([]string{"-f", path, "--max-airmass", "2.5"}); err != nil {
		t.Fatal(err)
	}
	q, errs, err := qf.build(cmd.Flags())
	if err != nil || len(errs) > 0 {
		t.Fatalf("build() = %v, %v", errs, err)
	}
	if q.RA == nil || *q.RA != 279.09975 || q.Dec == nil {
		t.Errorf("target fields not read from file: %+v", q.Fields)
	}
	if len(q.Telescopes) != 1 || q.Telescopes[0] != "lco.coj.1m0a" {
		t.Errorf("telescopes = %v", q.Telescopes)
	}
	if *q.MaxAirmass != 2.5 {
		t.Errorf("max_airmass = %v, flag should override the file", *q.MaxAirmass)
	}
	if !q.Start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", q.Start)
	}
}

func TestRequest_MalformedDatetimeNotReportedAsMissing(t *testing.T) {
	reg, err := telescope.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	a := &app{cfg: &cfg, registry: reg}

	cmd, qf := newQueryCmd()
	if err := cmd.Flags().Parse([]string{"--start", "soon", "--ra", "400"}); err != nil {
		t.Fatal(err)
	}
	_, errs, err := a.request(cmd, qf)
	if err != nil {
		t.Fatal(err)
	}

	if got := errs["start"]; len(got) != 1 || got[0] != msgDatetimeFormat {
		t.Errorf("start errors = %v, want only the format message", got)
	}
	if got := errs["end"]; len(got) != 1 || got[0] != visibility.MsgRequired {
		t.Errorf("end errors = %v", got)
	}
	if !errs.Has("ra") {
		t.Error("range errors should be reported alongside")
	}
}

func TestDarkCommand_InvalidInput(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"dark", "--log-level", "error", "--start", "nonsense", "--telescopes", "lco.coj.1m0a,lco.xyz.9m9z"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	var ee *exitError
	if !errors.As(err, &ee) || ee.code != 2 {
		t.Fatalf("Execute() = %v, want exit code 2", err)
	}

	var body map[string][]string
	if err := json.Unmarshal(out.Bytes(), &body); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	for _, field := range []string{"start", "end", "telescopes"} {
		if len(body[field]) == 0 {
			t.Errorf("missing %s error in %v", field, body)
		}
	}
	if body["telescopes"][0] != `Invalid pk "lco.xyz.9m9z" - object does not exist.` {
		t.Errorf("telescopes error = %q", body["telescopes"][0])
	}
}

func TestIntervalsCommand_JSON(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"intervals", "--log-level", "error",
		"--start", "2025-03-01T00:00:00Z", "--end", "2025-03-02T00:00:00Z",
		"--ra", "279.09975", "--dec", "-23.90475",
		"--telescopes", "lco.coj.1m0a,lco.tfn.0m4a",
	})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	var body map[string][][2]string
	if err := json.Unmarshal(out.Bytes(), &body); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(body) != 2 {
		t.Fatalf("got telescopes %v, want both requested", body)
	}
	if len(body["lco.coj.1m0a"]) == 0 {
		t.Error("M22 should be observable from coj")
	}
}

func TestMergeParseErrors(t *testing.T) {
	perrs := validate.Errors{}
	perrs.Add("start", msgDatetimeFormat)
	verrs := validate.Errors{}
	verrs.Add("start", visibility.MsgRequired)
	verrs.Add("ra", "Ensure this value is less than or equal to 360.")

	got := mergeParseErrors(perrs, verrs)
	if msgs := got["start"]; len(msgs) != 1 || msgs[0] != msgDatetimeFormat {
		t.Errorf("start = %v, want only the parse message", msgs)
	}
	if !got.Has("ra") {
		t.Error("unrelated validation errors should be kept")
	}
	if len(verrs["start"]) != 1 {
		t.Error("inputs should not be modified")
	}
}

func TestCommandLogger(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "debug"

	tests := []struct {
		name string
		cmd  *cobra.Command
		want zerolog.Level
	}{
		{"plain command", &cobra.Command{Use: "intervals"}, zerolog.DebugLevel},
		{"full-screen command", &cobra.Command{Use: "view", Annotations: map[string]string{annotationTUI: "true"}}, zerolog.Disabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commandLogger(tt.cmd, &cfg).GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
	if viewCmd.Annotations[annotationTUI] == "" {
		t.Error("view should be marked as a full-screen command")
	}
}

func TestTelescopesCommand_ShowsSiteNames(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"telescopes", "--log-level", "error"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	for _, want := range []string{"SITE", "Siding Spring Observatory", "lco.coj.1m0a"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("listing missing %q:\n%s", want, out.String())
		}
	}
}
