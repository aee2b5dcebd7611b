package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunBuildEmitsWasmFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "add.tw")
	if err := os.WriteFile(input, []byte("a: i32 = 1\nb: i32 = 2\nc: i32 = a + b\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if err := runBuild(input, dir, "wasm", false, false); err != nil {
		t.Fatalf("runBuild failed: %v", err)
	}

	out := filepath.Join(dir, "add.wasm")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected output at %s: %v", out, err)
	}
	if len(data) < 8 || string(data[:4]) != "\x00asm" {
		t.Fatalf("expected a wasm magic header, got %v", data)
	}
}

func TestRunBuildEmitsWatFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "add.tw")
	if err := os.WriteFile(input, []byte("a: i32 = 1\nb: i32 = 2\nc: i32 = a + b\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if err := runBuild(input, dir, "wat", false, false); err != nil {
		t.Fatalf("runBuild failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "add.wat")); err != nil {
		t.Fatalf("expected a .wat file: %v", err)
	}
}

func TestRunBuildRejectsUnknownTarget(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "add.tw")
	_ = os.WriteFile(input, []byte("x: i32 = 0\n"), 0o644)

	if err := runBuild(input, dir, "elf", false, false); err == nil {
		t.Fatalf("expected an error for an unsupported target type")
	}
}

func TestRunBuildReportsMissingFile(t *testing.T) {
	if err := runBuild("/nonexistent/missing.tw", t.TempDir(), "wasm", false, false); err == nil {
		t.Fatalf("expected an error for a missing input file")
	}
}
