package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "textstyle.toml")
	cfg := `
[style]
fonts = ["Arial"]
color = "000000"

[fonts]
scan = false
fallback = ["Georgia", "Verdana"]

[logging]
level = "error"
`
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunVersion(t *testing.T) {
	code, out, _ := runCLI(t, "-version")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "textstyle dev") {
		t.Errorf("output = %q, want version line", out)
	}
}

func TestRunSummary(t *testing.T) {
	cfg := writeConfig(t)
	code, out, errOut := runCLI(t, "-c", cfg, "-no-env",
		"-font", "Georgia", "-size", "12", "-color", "#FF0000", "-effect", "metal", "-render-effect", "manga")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}

	for _, want := range []string{"Georgia, Arial", "Size", "12 pt", "#ff0000", "Metal", "Manga", "Editing the selected item"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunGlobal(t *testing.T) {
	cfg := writeConfig(t)
	code, out, errOut := runCLI(t, "-c", cfg, "-no-env", "-global", "-size", "auto")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	if !strings.Contains(out, "Editing all items (1)") {
		t.Errorf("output missing global scope label:\n%s", out)
	}
	if !strings.Contains(out, "auto") {
		t.Errorf("output missing auto size:\n%s", out)
	}
}

func TestRunListFonts(t *testing.T) {
	cfg := writeConfig(t)
	code, out, errOut := runCLI(t, "-c", cfg, "-no-env", "-list-fonts")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	if got, want := strings.Fields(out), []string{"Georgia", "Verdana", "Arial"}; strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("fonts = %v, want %v", got, want)
	}
}

func TestRunListLanguages(t *testing.T) {
	cfg := writeConfig(t)
	code, out, errOut := runCLI(t, "-c", cfg, "-no-env", "-hyphenation", "german", "-list-languages")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if !strings.HasPrefix(lines[0], "  none") {
		t.Errorf("first line = %q, want the none entry", lines[0])
	}
	var selected []string
	for _, l := range lines {
		if strings.HasPrefix(l, "*") {
			selected = append(selected, strings.Fields(l)[1])
		}
	}
	if len(selected) != 1 || selected[0] != "de" {
		t.Errorf("selected = %v, want [de]", selected)
	}
}

func TestRunListRenderEffects(t *testing.T) {
	cfg := writeConfig(t)
	code, out, errOut := runCLI(t, "-c", cfg, "-no-env", "-render-effect", "metal", "-list-render-effects")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, errOut)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d render effects, want 5:\n%s", len(lines), out)
	}
	for _, l := range lines {
		selected := strings.HasPrefix(l, "*")
		if selected != (strings.Fields(strings.TrimPrefix(l, "*"))[0] == "metal") {
			t.Errorf("line %q has the wrong selection mark", l)
		}
	}
}

func TestRunHyphenation(t *testing.T) {
	cfg := writeConfig(t)
	for _, lang := range []string{"en-US", "de"} {
		t.Run(lang, func(t *testing.T) {
			code, out, errOut := runCLI(t, "-c", cfg, "-no-env", "-hyphenation", lang, "-text", "Fine hyphenation")
			if code != 0 {
				t.Fatalf("exit code = %d, stderr = %s", code, errOut)
			}
			if !strings.Contains(out, "Fine hyphen- ation") {
				t.Errorf("sample not hyphenated:\n%s", out)
			}
		})
	}

	code, out, _ := runCLI(t, "-c", cfg, "-no-env", "-hyphenation", "none", "-text", "Fine hyphenation")
	if code != 0 || !strings.Contains(out, "Fine hyphenation") {
		t.Errorf("sample should stay whole with hyphenation off:\n%s", out)
	}
}

func TestRunErrors(t *testing.T) {
	cfg := writeConfig(t)
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"bad log level", []string{"-log-level", "loud"}, 2},
		{"unknown flag", []string{"-nope"}, 2},
		{"bad color", []string{"-c", cfg, "-no-env", "-color", "red"}, 1},
		{"bad size", []string{"-c", cfg, "-no-env", "-size", "big"}, 1},
		{"bad effect", []string{"-c", cfg, "-no-env", "-effect", "sparkle"}, 1},
		{"bad hyphenation", []string{"-c", cfg, "-no-env", "-hyphenation", "klingon"}, 1},
		{"unknown preset", []string{"-c", cfg, "-no-env", "-preset", "missing"}, 1},
		{"unsupported config", []string{"-c", filepath.Join(t.TempDir(), "x.ini"), "-no-env"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, tt.args...)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr %q)", code, tt.code, errOut)
			}
			if errOut == "" {
				t.Error("stderr is empty")
			}
		})
	}
}
