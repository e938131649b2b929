package moniker

import "testing"

func TestCreateNameOnly(t *testing.T) {
	if got := Create("foo", ""); got != "foo" {
		t.Errorf("got %q, want %q", got, "foo")
	}
}

func TestCreateWithPath(t *testing.T) {
	if got := Create("x", "a"); got != "a:x" {
		t.Errorf("got %q, want %q", got, "a:x")
	}
}

func TestRoundTripEscapedColon(t *testing.T) {
	identifier := Create("x", "a:b")
	if identifier != "a::b:x" {
		t.Fatalf("unexpected identifier: %q", identifier)
	}

	parsed := Parse(identifier)
	if parsed.Path != "a:b" || parsed.Name != "x" {
		t.Errorf("got %+v, want {Path:a:b Name:x}", parsed)
	}
}

func TestParseNameOnly(t *testing.T) {
	parsed := Parse("justAName")
	if parsed.Path != "" || parsed.Name != "justAName" {
		t.Errorf("got %+v, want {Path: Name:justAName}", parsed)
	}
}

func TestParseFindsLastSeparator(t *testing.T) {
	// "a:b" has no escaped colons, so the sole colon is the separator.
	parsed := Parse("a:b")
	if parsed.Path != "a" || parsed.Name != "b" {
		t.Errorf("got %+v, want {Path:a Name:b}", parsed)
	}
}

func TestParseTrailingEscapedColonInPath(t *testing.T) {
	identifier := Create("name", ":")
	parsed := Parse(identifier)
	if parsed.Path != ":" || parsed.Name != "name" {
		t.Errorf("got %+v, want {Path:: Name:name}", parsed)
	}
}

func TestParseMultipleSegments(t *testing.T) {
	identifier := Create("then.TResult", "tsc::Thenable")
	parsed := Parse(identifier)
	if parsed.Path != "tsc::Thenable" || parsed.Name != "then.TResult" {
		t.Errorf("got %+v", parsed)
	}
}
