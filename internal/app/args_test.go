package app

import (
	"testing"
)

func TestParseInvocationCall(t *testing.T) {
	inv, err := ParseInvocation(Inputs{
		Args:    []string{"put", "post", "id:=42", "title=hello world", "tags:=[\"a\"]"},
		Headers: []string{"X-Test: 1"},
		Query:   []string{"page=2"},
		Data:    `{"title":"ignored","draft":true}`,
	})
	if err != nil {
		t.Fatalf("ParseInvocation: %v", err)
	}
	if inv.History {
		t.Fatalf("expected a call invocation")
	}
	call := inv.Call
	if call.Method != "PUT" || call.Path != "post" {
		t.Fatalf("unexpected call %s %s", call.Method, call.Path)
	}
	if call.Params["id"] != float64(42) {
		t.Fatalf("expected id to be decoded as JSON number, got %#v", call.Params["id"])
	}
	if call.Params["title"] != "hello world" {
		t.Fatalf("expected pair to override data, got %#v", call.Params["title"])
	}
	if call.Params["draft"] != true {
		t.Fatalf("expected data keys to be kept, got %#v", call.Params)
	}
	if call.Request == nil || call.Request.Headers["X-Test"] != "1" || call.Request.Query["page"] != "2" {
		t.Fatalf("unexpected request config %#v", call.Request)
	}
}

func TestParseInvocationWithoutParams(t *testing.T) {
	inv, err := ParseInvocation(Inputs{Args: []string{"GET", "/comments"}})
	if err != nil {
		t.Fatalf("ParseInvocation: %v", err)
	}
	if inv.Call.Params != nil {
		t.Fatalf("expected nil params when none given, got %#v", inv.Call.Params)
	}
	if inv.Call.Request != nil {
		t.Fatalf("expected nil request config, got %#v", inv.Call.Request)
	}
}

func TestParseInvocationValueWithColonEquals(t *testing.T) {
	inv, err := ParseInvocation(Inputs{Args: []string{"get", "search", "q=a:=b"}})
	if err != nil {
		t.Fatalf("ParseInvocation: %v", err)
	}
	if inv.Call.Params["q"] != "a:=b" {
		t.Fatalf("expected string value a:=b, got %#v", inv.Call.Params["q"])
	}
}

func TestParseInvocationHistory(t *testing.T) {
	inv, err := ParseInvocation(Inputs{Args: []string{"history"}})
	if err != nil || !inv.History || inv.Limit != defaultHistoryLimit {
		t.Fatalf("unexpected history invocation %#v err=%v", inv, err)
	}
	inv, err = ParseInvocation(Inputs{Args: []string{"history", "3"}})
	if err != nil || inv.Limit != 3 {
		t.Fatalf("expected limit 3, got %#v err=%v", inv, err)
	}
}

func TestParseInvocationErrors(t *testing.T) {
	cases := map[string]Inputs{
		"no args":        {},
		"no path":        {Args: []string{"get"}},
		"bad method":     {Args: []string{"trace", "/x"}},
		"bad pair":       {Args: []string{"get", "/x", "novalue"}},
		"bad json pair":  {Args: []string{"get", "/x", "id:={"}},
		"bad data":       {Args: []string{"post", "/x"}, Data: "[1,2"},
		"bad header":     {Args: []string{"get", "/x"}, Headers: []string{"nocolon"}},
		"bad query":      {Args: []string{"get", "/x"}, Query: []string{"=1"}},
		"bad limit":      {Args: []string{"history", "zero"}},
		"negative limit": {Args: []string{"history", "-1"}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseInvocation(in); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
