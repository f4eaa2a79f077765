// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolve

import (
	"context"
	"testing"

	"github.com/AleutianAI/argscan/services/resolve/ir"
	"github.com/AleutianAI/argscan/services/resolve/value"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(context.Background())
	if err != nil {
		t.Fatalf("NewAnalyzer failed: %v", err)
	}
	return a
}

func analyze(t *testing.T, lang ir.Language, src string) *FileReport {
	t.Helper()
	report, err := newAnalyzer(t).AnalyzeFile(context.Background(), FileInput{
		Path:     "test-input",
		Language: lang,
		Content:  []byte(src),
	})
	if err != nil {
		t.Fatalf("AnalyzeFile failed: %v", err)
	}
	return report
}

func wantArg(t *testing.T, got, want value.Value) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("argument resolved to %v, want %v", got, want)
	}
}

func TestAnalyzeGoFile(t *testing.T) {
	src := `package p

import "golang.org/x/crypto/pbkdf2"

func derive(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, 4096, 32, sha256.New)
}
`
	report := analyze(t, ir.LangGo, src)
	if report.SyntaxErrors {
		t.Error("unexpected syntax errors")
	}

	var found bool
	for _, call := range report.Calls {
		if call.Callee != "pbkdf2.Key" {
			continue
		}
		found = true
		if len(call.Args) != 5 {
			t.Fatalf("got %d args, want 5", len(call.Args))
		}
		wantArg(t, call.Args[0], value.Unresolved())
		wantArg(t, call.Args[1], value.Unresolved())
		wantArg(t, call.Args[2], value.Int(4096))
		wantArg(t, call.Args[3], value.Int(32))
		wantArg(t, call.Args[4], value.Unresolved())
	}
	if !found {
		t.Fatal("pbkdf2.Key call not found")
	}
}

func TestAnalyzeJavaScriptFile(t *testing.T) {
	src := "const key = crypto.pbkdf2Sync(password, salt, 100_000, 64, 'sha512');\n"
	report := analyze(t, ir.LangJavaScript, src)
	if len(report.Calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(report.Calls))
	}
	call := report.Calls[0]
	if call.Callee != "crypto.pbkdf2Sync" {
		t.Errorf("Callee = %q, want crypto.pbkdf2Sync", call.Callee)
	}
	wantArg(t, call.Args[2], value.Int(100000))
	wantArg(t, call.Args[3], value.Int(64))
	wantArg(t, call.Args[4], value.Str("sha512"))
}

func TestAnalyzePythonFile(t *testing.T) {
	src := "key = hashlib.pbkdf2_hmac('sha256', pw, salt, 100000, dklen=64)\n"
	report := analyze(t, ir.LangPython, src)
	if len(report.Calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(report.Calls))
	}
	call := report.Calls[0]
	if call.Callee != "hashlib.pbkdf2_hmac" {
		t.Errorf("Callee = %q, want hashlib.pbkdf2_hmac", call.Callee)
	}
	if len(call.Args) != 5 {
		t.Fatalf("got %d args, want 5", len(call.Args))
	}
	wantArg(t, call.Args[0], value.Str("sha256"))
	wantArg(t, call.Args[3], value.Int(100000))
	// Keyword arguments hold their slot but never resolve.
	wantArg(t, call.Args[4], value.Unresolved())
}

func TestAnalyzeRustFile(t *testing.T) {
	src := `fn derive(salt: &[u8], pw: &[u8]) {
    ring::pbkdf2::derive(alg, 100_000u32, salt, pw, out);
    configure([1, 2, 3], -5, true);
}
`
	report := analyze(t, ir.LangRust, src)
	if len(report.Calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(report.Calls))
	}
	wantArg(t, report.Calls[0].Args[1], value.Int(100000))

	configure := report.Calls[1]
	if configure.Callee != "configure" {
		t.Errorf("Callee = %q, want configure", configure.Callee)
	}
	wantArg(t, configure.Args[0], value.IntList([]int64{1, 2, 3}))
	wantArg(t, configure.Args[1], value.Int(-5))
	wantArg(t, configure.Args[2], value.Bool(true))
}

func TestAnalyzeCrossLanguageAgreement(t *testing.T) {
	// The same static facts must resolve identically regardless of the
	// source language they were written in.
	reports := []*FileReport{
		analyze(t, ir.LangGo, "package p\n\nfunc f() { g(42, true) }\n"),
		analyze(t, ir.LangJavaScript, "g(42, true);\n"),
		analyze(t, ir.LangPython, "g(42, True)\n"),
		analyze(t, ir.LangRust, "fn f() { g(42, true); }\n"),
	}
	for i, report := range reports {
		if len(report.Calls) != 1 {
			t.Fatalf("report %d: got %d calls, want 1", i, len(report.Calls))
		}
		call := report.Calls[0]
		wantArg(t, call.Args[0], value.Int(42))
		wantArg(t, call.Args[1], value.Bool(true))
	}
}

func TestAnalyzeFileWithSyntaxErrors(t *testing.T) {
	report := analyze(t, ir.LangGo, "package p\n\nfunc f() { g(42) }\n\nfunc broken( {\n")
	if !report.SyntaxErrors {
		t.Error("SyntaxErrors = false, want true")
	}
	var found bool
	for _, call := range report.Calls {
		if call.Callee == "g" && len(call.Args) == 1 {
			found = true
			wantArg(t, call.Args[0], value.Int(42))
		}
	}
	if !found {
		t.Error("intact call site lost to an unrelated syntax error")
	}
}

func TestAnalyzeUnsupportedLanguage(t *testing.T) {
	_, err := newAnalyzer(t).AnalyzeFile(context.Background(), FileInput{
		Path:     "file.txt",
		Language: ir.LangUnknown,
		Content:  []byte("g(1)"),
	})
	if err == nil {
		t.Fatal("expected error for unsupported language")
	}
}

func TestAnalyzeFilesOrderAndIsolation(t *testing.T) {
	inputs := []FileInput{
		{Path: "a.go", Language: ir.LangGo, Content: []byte("package p\n\nfunc f() { first(1) }\n")},
		{Path: "b.py", Language: ir.LangPython, Content: []byte("second(2)\n")},
		{Path: "c.js", Language: ir.LangJavaScript, Content: []byte("third(3);\n")},
	}
	reports, err := newAnalyzer(t).AnalyzeFiles(context.Background(), inputs, 2)
	if err != nil {
		t.Fatalf("AnalyzeFiles failed: %v", err)
	}
	want := []string{"first", "second", "third"}
	for i, report := range reports {
		if report.Path != inputs[i].Path {
			t.Errorf("reports[%d].Path = %q, want %q", i, report.Path, inputs[i].Path)
		}
		if len(report.Calls) != 1 || report.Calls[0].Callee != want[i] {
			t.Errorf("reports[%d] missing call to %q", i, want[i])
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	src := "g(-(-42), [1, 2], 'sha256', not True)\n"
	first := analyze(t, ir.LangPython, src)
	for i := 0; i < 5; i++ {
		again := analyze(t, ir.LangPython, src)
		if len(again.Calls) != len(first.Calls) {
			t.Fatalf("call count changed between runs")
		}
		for j := range first.Calls {
			for k := range first.Calls[j].Args {
				if !first.Calls[j].Args[k].Equal(again.Calls[j].Args[k]) {
					t.Errorf("call %d arg %d differs between runs", j, k)
				}
			}
		}
	}
}
