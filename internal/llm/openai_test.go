package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/voyagerhq/voyager/internal/debuglog"
)

func TestOpenAISend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		var req oaiChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Stream {
			t.Error("expected stream=false for Send")
		}
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"reply text"}}]}`)
	}))
	defer server.Close()

	backend := NewOpenAIBackend(server.URL, "test-key", "gpt-4o")
	msg, err := backend.Send(context.Background(), "hi")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if msg.Content != "reply text" {
		t.Errorf("unexpected content %q", msg.Content)
	}
}

func TestOpenAISendTextFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"text":"legacy completion"}]}`)
	}))
	defer server.Close()

	backend := NewOpenAIBackend(server.URL, "k", "gpt-4o")
	msg, err := backend.Send(context.Background(), "hi")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if msg.Content != "legacy completion" {
		t.Errorf("expected text fallback, got %q", msg.Content)
	}
}

func TestOpenAISendAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"type":"rate_limit","message":"slow down"}}`)
	}))
	defer server.Close()

	backend := NewOpenAIBackend(server.URL, "k", "gpt-4o")
	_, err := backend.Send(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status 429") {
		t.Errorf("expected status in error, got %q", err.Error())
	}
}

func TestOpenAIStreamDeltaPaths(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req oaiChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if !req.Stream {
			t.Error("expected stream=true for Stream")
		}

		// Each gateway variant: delta.content, bare text, message.content.
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"one \"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"text\":\"two \"}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"message\":{\"content\":\"three\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	backend := NewOpenAIBackend(server.URL, "k", "gpt-4o")
	stream, err := backend.Stream(context.Background(), "count")
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	defer stream.Close()

	var full strings.Builder
	var final *Message
	for {
		event, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("recv failed: %v", err)
		}
		switch event.Type {
		case EventTextDelta:
			full.WriteString(event.Text)
		case EventDone:
			final = event.Message
		case EventError:
			t.Fatalf("unexpected error event: %v", event.Err)
		}
	}

	if full.String() != "one two three" {
		t.Errorf("expected all delta paths accumulated, got %q", full.String())
	}
	if final == nil || final.Content != "one two three" {
		t.Fatalf("unexpected final message: %+v", final)
	}
}

func TestOpenAIStreamSkipsMalformedLines(t *testing.T) {
	logDir := t.TempDir()
	if err := debuglog.Enable(logDir); err != nil {
		t.Fatalf("failed to enable debug log: %v", err)
	}
	defer debuglog.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hello \"}}]}\n\n")
		fmt.Fprint(w, "data: {not json at all\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"world\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	backend := NewOpenAIBackend(server.URL, "k", "gpt-4o")
	stream, err := backend.Stream(context.Background(), "greet")
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		event, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("recv failed: %v", err)
		}
		if event.Type == EventError {
			t.Fatalf("malformed line must not fail the stream: %v", event.Err)
		}
		if event.Type == EventTextDelta {
			full.WriteString(event.Text)
		}
	}

	if full.String() != "Hello world" {
		t.Errorf("expected deltas around the bad line, got %q", full.String())
	}

	debuglog.Close()
	entries, err := os.ReadDir(logDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one debug log file, got %v (err %v)", entries, err)
	}
	logged, err := os.ReadFile(filepath.Join(logDir, entries[0].Name()))
	if err != nil {
		t.Fatalf("failed to read debug log: %v", err)
	}
	if !strings.Contains(string(logged), "openai_parse_skip") {
		t.Error("skipped line must be recorded in the debug log")
	}
}

func TestOpenAIStreamMidStreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"error\":{\"type\":\"server_error\",\"message\":\"backend exploded\"}}\n\n")
	}))
	defer server.Close()

	backend := NewOpenAIBackend(server.URL, "k", "gpt-4o")
	stream, err := backend.Stream(context.Background(), "fail")
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	defer stream.Close()

	sawDelta := false
	sawError := false
	for {
		event, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("recv failed: %v", err)
		}
		switch event.Type {
		case EventTextDelta:
			sawDelta = true
		case EventError:
			sawError = true
			if !strings.Contains(event.Err.Error(), "backend exploded") {
				t.Errorf("expected provider message in error, got %v", event.Err)
			}
		case EventDone:
			t.Fatal("done must not follow a stream error")
		}
	}

	if !sawDelta || !sawError {
		t.Fatalf("expected delta then error, got delta=%v error=%v", sawDelta, sawError)
	}
}

func TestOpenAIStreamEmptyYieldsNilFinal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	backend := NewOpenAIBackend(server.URL, "k", "gpt-4o")
	stream, err := backend.Stream(context.Background(), "silence")
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	defer stream.Close()

	for {
		event, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("recv failed: %v", err)
		}
		if event.Type == EventDone && event.Message != nil {
			t.Fatalf("expected nil final when nothing accumulated, got %+v", event.Message)
		}
	}
}
