package main

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestRunPassthroughNoFlags(t *testing.T) {
	in := bytes.NewBufferString(" context\n-old\n+new\n")
	var out, errs bytes.Buffer

	code := run(nil, in, &out, &errs)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, errs.String())
	}
	stripped := ansiRe.ReplaceAll(out.Bytes(), nil)
	want := " context\n-old\n+new\n"
	if string(stripped) != want {
		t.Errorf("stripped output = %q, want %q", string(stripped), want)
	}
}

func TestRunColoredOutputHasEscapes(t *testing.T) {
	in := bytes.NewBufferString("-hello world\n+hello brave world\n")
	var out, errs bytes.Buffer

	code := run(nil, in, &out, &errs)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, errs.String())
	}
	if !ansiRe.Match(out.Bytes()) {
		t.Errorf("output has no ANSI escapes: %q", out.String())
	}
}

func TestRunInvalidColorsSpecExitsTwo(t *testing.T) {
	in := bytes.NewBufferString("")
	var out, errs bytes.Buffer

	code := run([]string{"--colors", "not-a-class:bold"}, in, &out, &errs)
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if errs.Len() == 0 {
		t.Errorf("expected an error message on stderr")
	}
}

func TestRunUnknownFlagExitsTwo(t *testing.T) {
	in := bytes.NewBufferString("")
	var out, errs bytes.Buffer

	code := run([]string{"--not-a-real-flag"}, in, &out, &errs)
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestRunVersionFlag(t *testing.T) {
	in := bytes.NewBufferString("")
	var out, errs bytes.Buffer

	code := run([]string{"--version"}, in, &out, &errs)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, errs.String())
	}
	if !bytes.Contains(out.Bytes(), []byte("diffr")) {
		t.Errorf("version output = %q, want it to mention diffr", out.String())
	}
}

func TestRunVersionShorthand(t *testing.T) {
	in := bytes.NewBufferString("")
	var out, errs bytes.Buffer

	code := run([]string{"-V"}, in, &out, &errs)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, errs.String())
	}
	if out.Len() == 0 {
		t.Errorf("expected version text on stdout")
	}
}

func TestRunLineNumbersFlag(t *testing.T) {
	in := bytes.NewBufferString("@@ -1,1 +1,1 @@\n-old\n+new\n")
	var out, errs bytes.Buffer

	code := run([]string{"--line-numbers"}, in, &out, &errs)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, errs.String())
	}
	if out.Len() == 0 {
		t.Fatalf("expected output")
	}
}

// errReader returns prefix and then fails with err, simulating an I/O error reading stdin
// mid-stream.
type errReader struct {
	prefix []byte
	err    error
	sent   bool
}

func (r *errReader) Read(p []byte) (int, error) {
	if !r.sent && len(r.prefix) > 0 {
		n := copy(p, r.prefix)
		r.prefix = r.prefix[n:]
		r.sent = len(r.prefix) == 0
		return n, nil
	}
	return 0, r.err
}

func TestRunStdinIOErrorExitsOne(t *testing.T) {
	in := &errReader{prefix: []byte(" context\n"), err: errors.New("disk exploded")}
	var out, errs bytes.Buffer

	code := run(nil, in, &out, &errs)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1 (stderr: %s)", code, errs.String())
	}
	if !bytes.Contains(errs.Bytes(), []byte("disk exploded")) {
		t.Errorf("stderr = %q, want it to mention the underlying error", errs.String())
	}
}
