package lang

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nerdpad/internal/types"
)

func TestStarterRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("title"); got != "Two Sum" {
			t.Errorf("title query = %q, want %q", got, "Two Sum")
		}
		w.Write([]byte(`{"code":{"python":"def two_sum(nums, target):\n    pass\n"}}`))
	}))
	defer srv.Close()

	p := NewStarterProvider(srv.URL, 0)
	got := p.Starter(context.Background(), "Two Sum", types.LangPython)
	if !strings.Contains(got, "two_sum") {
		t.Errorf("expected remote starter, got %q", got)
	}
}

func TestStarterFallsThroughOnRemoteFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
		{"missing language", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code":{"java":"class X {}"}}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			p := NewStarterProvider(srv.URL, 0)
			got := p.Starter(context.Background(), "Reverse String", types.LangPython)
			// Falls through to the generated skeleton, never errors.
			if !strings.Contains(got, "reverseString") {
				t.Errorf("expected generated skeleton, got %q", got)
			}
		})
	}
}

func TestStarterGeneratedSkeleton(t *testing.T) {
	p := NewStarterProvider("", 0) // remote disabled

	got := p.Starter(context.Background(), "Binary Search", types.LangJavaScript)
	if !strings.Contains(got, "function binarySearch()") {
		t.Errorf("unexpected skeleton: %q", got)
	}

	got = p.Starter(context.Background(), "3Sum", types.LangPython)
	if !strings.Contains(got, "def solve3sum()") {
		t.Errorf("leading digit should be prefixed: %q", got)
	}
}

func TestStarterGenericFallback(t *testing.T) {
	p := NewStarterProvider("", 0)

	// No usable title words: fall all the way through to the boilerplate.
	got := p.Starter(context.Background(), "!!!", types.LangC)
	if got != Template(types.LangC) {
		t.Errorf("expected generic template, got %q", got)
	}
	got = p.Starter(context.Background(), "", types.LangJava)
	if got != Template(types.LangJava) {
		t.Errorf("expected generic template for empty title, got %q", got)
	}
}

func TestFunctionName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Two Sum", "twoSum"},
		{"reverse-linked-list", "reverseLinkedList"},
		{"  spaces  everywhere ", "spacesEverywhere"},
		{"3Sum", "solve3sum"},
		{"", ""},
		{"???", ""},
	}
	for _, tt := range tests {
		if got := functionName(tt.title); got != tt.want {
			t.Errorf("functionName(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
