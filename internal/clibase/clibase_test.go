package clibase

import (
	"bytes"
	"flag"
	"io"
	"strings"
	"testing"
)

func TestRegisterDefaults(t *testing.T) {
	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	var c Common
	Register(fs, &c)
	if err := fs.Parse([]string{"-q", "--log-format", "json"}); err != nil {
		t.Fatal(err)
	}
	if !c.Quiet || c.LogFormat != "json" || c.LogLevel != "info" || c.EnvFile != ".env" {
		t.Fatalf("unexpected %+v", c)
	}
	if err := Validate(&c); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	c.LogFormat = "xml"
	if err := Validate(&c); err == nil {
		t.Fatalf("want log-format error")
	}
}

func TestUsageCommon(t *testing.T) {
	fs := flag.NewFlagSet("foldbench-x", flag.ContinueOnError)
	var c Common
	Register(fs, &c)
	UsageCommon(fs, "foldbench-x", "does things", func(out io.Writer, _ func(string) string) {
		_, _ = out.Write([]byte("Usage:\n  foldbench-x DIR\n"))
	})
	var b bytes.Buffer
	fs.SetOutput(&b)
	fs.Usage()
	for _, want := range []string{"foldbench-x – does things", "Usage:", "--log-format string", "[.env]"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("usage missing %q:\n%s", want, b.String())
		}
	}
}

func TestPrintExamples(t *testing.T) {
	var b bytes.Buffer
	PrintExamples(&b, "foldbench-x",
		Example{Title: "One liner", Lines: []string{"foldbench-x dir"}},
		Example{Title: "Continued", Lines: []string{"foldbench-x", "--a 1", "--b 2"}},
	)
	want := "foldbench-x: quickstart\n" +
		"\nOne liner:\n" +
		"  foldbench-x dir\n" +
		"\nContinued:\n" +
		"  foldbench-x \\\n" +
		"    --a 1 \\\n" +
		"    --b 2\n" +
		"\nTip: run with --help for all flags.\n"
	if b.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", b.String(), want)
	}
}
