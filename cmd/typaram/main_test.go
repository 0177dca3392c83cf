package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// Each testdata archive carries a decls.yaml input, the expected stdout,
// and the expected exit code.
func TestCheckScripts(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(archives) == 0 {
		t.Fatal("no testdata archives found")
	}

	for _, path := range archives {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatal(err)
			}

			var input, wantOut string
			wantExit := 0
			for _, f := range ar.Files {
				switch f.Name {
				case "decls.yaml":
					input = string(f.Data)
				case "stdout":
					wantOut = string(f.Data)
				case "exit":
					wantExit, err = strconv.Atoi(strings.TrimSpace(string(f.Data)))
					if err != nil {
						t.Fatalf("bad exit file: %v", err)
					}
				default:
					t.Fatalf("unexpected file %s in archive", f.Name)
				}
			}

			dir := t.TempDir()
			file := filepath.Join(dir, "decls.yaml")
			if err := os.WriteFile(file, []byte(input), 0o644); err != nil {
				t.Fatal(err)
			}

			var out, errOut bytes.Buffer
			exit := run([]string{"check", file}, &out, &errOut)

			if out.String() != wantOut {
				t.Errorf("stdout mismatch\ngot:\n%s\nwant:\n%s", out.String(), wantOut)
			}
			if exit != wantExit {
				t.Errorf("exit = %d, want %d (stderr: %s)", exit, wantExit, errOut.String())
			}
		})
	}
}

func TestRunUsage(t *testing.T) {
	var out, errOut bytes.Buffer

	if exit := run(nil, &out, &errOut); exit != 2 {
		t.Errorf("run() with no arguments = %d, want 2", exit)
	}
	if !strings.Contains(errOut.String(), "Usage") {
		t.Error("usage text not printed")
	}

	errOut.Reset()
	if exit := run([]string{"frobnicate"}, &out, &errOut); exit != 2 {
		t.Errorf("run() with unknown command = %d, want 2", exit)
	}

	out.Reset()
	if exit := run([]string{"version"}, &out, &errOut); exit != 0 {
		t.Errorf("run(version) = %d, want 0", exit)
	}
	if !strings.Contains(out.String(), version) {
		t.Errorf("version output = %q", out.String())
	}
}

func TestRunMissingFile(t *testing.T) {
	var out, errOut bytes.Buffer
	if exit := run([]string{"check", filepath.Join(t.TempDir(), "absent.yaml")}, &out, &errOut); exit != 2 {
		t.Errorf("run() on a missing file = %d, want 2", exit)
	}
}
