package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "invariant violation",
			code:    "E100",
			wantMsg: "Diff called without an old or a new node",
			wantCat: CategoryInvariant,
		},
		{
			name:    "canvas failure",
			code:    "E120",
			wantMsg: "Canvas operation failed",
			wantCat: CategoryCanvas,
		},
		{
			name:    "config error",
			code:    "E200",
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryRuntime, "task %q failed", "mount")
	if err.Message != `task "mount" failed` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryRuntime {
		t.Errorf("Category = %q, want %q", err.Category, CategoryRuntime)
	}
}

func TestRetainError_Error(t *testing.T) {
	err := New("E100")
	if got, want := err.Error(), "E100: Diff called without an old or a new node"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err2 := &RetainError{Message: "plain"}
	if err2.Error() != "plain" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "plain")
	}

	cause := fmt.Errorf("boom")
	err3 := New("E120").WithOp("insert").Wrap(cause)
	if got, want := err3.Error(), "E120: Canvas operation failed (insert): boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUnwrapAndIs(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := New("E120").Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !stderrors.Is(err, New("E120")) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, New("E121")) {
		t.Error("errors.Is should not match a different code")
	}

	wrapped := fmt.Errorf("render: %w", err)
	if !HasCode(wrapped, "E120") {
		t.Error("HasCode should see through fmt wrapping")
	}
	if HasCode(wrapped, "E100") {
		t.Error("HasCode reported the wrong code")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E120") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("E103")
	if FromError(orig, "E120") != orig {
		t.Error("FromError should return RetainErrors unchanged")
	}

	plain := fmt.Errorf("x")
	got := FromError(plain, "E131")
	if got.Code != "E131" || got.Wrapped != plain {
		t.Errorf("FromError = %+v", got)
	}
}

func TestRecovered(t *testing.T) {
	if Recovered(nil) != nil {
		t.Error("Recovered(nil) should be nil")
	}

	inv := New("E100")
	if Recovered(inv) != inv {
		t.Error("Recovered should pass RetainErrors through")
	}

	if !HasCode(Recovered("boom"), "E130") {
		t.Error("Recovered(string) should be E130")
	}
	if !HasCode(Recovered(fmt.Errorf("boom")), "E130") {
		t.Error("Recovered(error) should be E130")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E120").WithOp("replace").WithSuggestion("check the adapter").Wrap(fmt.Errorf("detached"))
	out := err.Format()

	for _, want := range []string{
		"ERROR E120: Canvas operation failed",
		"op: replace",
		"cause: detached",
		"Hint: check the adapter",
		"Learn more: https://retain.vango.dev/docs/errors/E120",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}

	if got := err.FormatCompact(); got != "E120: Canvas operation failed [replace]" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, fmt.Errorf("outer: %w", New("E201")))
	if !strings.Contains(buf.String(), "E201") {
		t.Errorf("Fprint should format wrapped RetainErrors, got %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, fmt.Errorf("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("Fprint plain = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	if wrapText("", 10) != nil {
		t.Error("empty text should give nil")
	}
	lines := wrapText("one two three four five", 9)
	for _, l := range lines {
		if len(l) > 9 {
			t.Errorf("line %q longer than width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}

func TestRegistryComplete(t *testing.T) {
	for _, code := range Codes() {
		tmpl, ok := Lookup(code)
		if !ok {
			t.Fatalf("Lookup(%s) failed", code)
		}
		if tmpl.Message == "" || tmpl.Category == "" || tmpl.DocURL == "" {
			t.Errorf("%s: incomplete template %+v", code, tmpl)
		}
	}
}
