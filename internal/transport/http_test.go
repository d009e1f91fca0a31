package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"

	"github.com/agentdesk/agentdesk/internal/agentdesk"
	"github.com/agentdesk/agentdesk/internal/tools"
)

func newTestHTTPServer(t *testing.T, cfg HTTPConfig) *httptest.Server {
	t.Helper()
	store := agentdesk.NewStoreWithOptions(agentdesk.StoreOptions{
		IDs: agentdesk.NewSequenceIDGenerator("id"),
	})
	registry, err := tools.NewRegistry(store, nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	dispatcher := NewDispatcher(registry, nil, ServerInfo{Name: "agentdesk", Version: "test"})
	server := httptest.NewServer(NewHTTPServer(dispatcher, store, cfg, nil))
	t.Cleanup(server.Close)
	return server
}

func postRPC(t *testing.T, server *httptest.Server, body string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, server.URL+"/rpc", strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHTTPRPCRoundTrip(t *testing.T) {
	server := newTestHTTPServer(t, HTTPConfig{})
	resp := postRPC(t, server, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var rpc Response
	if err := json.NewDecoder(resp.Body).Decode(&rpc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rpc.Error != nil {
		t.Fatalf("error = %+v", rpc.Error)
	}
	result, _ := json.Marshal(rpc.Result)
	if !bytes.Contains(result, []byte(protocolVersion)) {
		t.Errorf("result = %s, want protocol version", result)
	}
}

func TestHTTPRPCNotificationReturnsNoContent(t *testing.T) {
	server := newTestHTTPServer(t, HTTPConfig{})
	resp := postRPC(t, server, `{"jsonrpc":"2.0","method":"notifications/initialized"}`, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
}

func TestHTTPRPCParseError(t *testing.T) {
	server := newTestHTTPServer(t, HTTPConfig{})
	resp := postRPC(t, server, "{broken", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var rpc Response
	if err := json.NewDecoder(resp.Body).Decode(&rpc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rpc.Error == nil || rpc.Error.Code != codeParseError {
		t.Errorf("error = %+v, want parse error", rpc.Error)
	}
}

func TestHTTPRPCMethodNotAllowed(t *testing.T) {
	server := newTestHTTPServer(t, HTTPConfig{})
	resp, err := server.Client().Get(server.URL + "/rpc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestHTTPAPIKey(t *testing.T) {
	server := newTestHTTPServer(t, HTTPConfig{APIKey: "sekrit"})

	resp := postRPC(t, server, `{"jsonrpc":"2.0","id":1,"method":"ping"}`, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", resp.StatusCode)
	}

	resp = postRPC(t, server, `{"jsonrpc":"2.0","id":1,"method":"ping"}`,
		http.Header{"X-Api-Key": []string{"wrong"}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong key: status = %d, want 401", resp.StatusCode)
	}

	resp = postRPC(t, server, `{"jsonrpc":"2.0","id":1,"method":"ping"}`,
		http.Header{"X-Api-Key": []string{"sekrit"}})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("right key: status = %d, want 200", resp.StatusCode)
	}
}

func TestHTTPRateLimit(t *testing.T) {
	server := newTestHTTPServer(t, HTTPConfig{RateLimitMax: 2, RateLimitWindow: time.Minute})
	body := `{"jsonrpc":"2.0","id":1,"method":"ping"}`

	for i := 0; i < 2; i++ {
		resp := postRPC(t, server, body, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, resp.StatusCode)
		}
	}
	resp := postRPC(t, server, body, nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	limiter := &rateLimiter{window: time.Minute, max: 1, entries: map[string]rateEntry{}}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	if !limiter.allow("client", now) {
		t.Fatal("first request rejected")
	}
	if limiter.allow("client", now.Add(time.Second)) {
		t.Fatal("second request in window allowed")
	}
	if !limiter.allow("other", now) {
		t.Fatal("distinct client rejected")
	}
	if !limiter.allow("client", now.Add(2*time.Minute)) {
		t.Fatal("request after window expiry rejected")
	}
}

func TestHTTPBodyLimit(t *testing.T) {
	server := newTestHTTPServer(t, HTTPConfig{MaxBodyBytes: 64})
	huge := `{"jsonrpc":"2.0","id":1,"method":"ping","params":{"pad":"` +
		strings.Repeat("x", 256) + `"}}`
	resp := postRPC(t, server, huge, nil)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestHTTPHealthz(t *testing.T) {
	server := newTestHTTPServer(t, HTTPConfig{})
	resp, err := server.Client().Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte(`"ok"`)) {
		t.Errorf("body = %s", body)
	}
}

func TestHTTPDashboard(t *testing.T) {
	server := newTestHTTPServer(t, HTTPConfig{})
	resp, err := server.Client().Get(server.URL + "/")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"agentdesk", "tasks", "emails"} {
		if !bytes.Contains(body, []byte(want)) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestWebSocketRoundTrip(t *testing.T) {
	server := newTestHTTPServer(t, HTTPConfig{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	request := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"create_task","arguments":{"title":"via ws"}}}`
	if err := conn.Write(ctx, websocket.MessageText, []byte(request)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	var rpc Response
	if err := json.Unmarshal(data, &rpc); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, data)
	}
	if rpc.Error != nil {
		t.Fatalf("error = %+v", rpc.Error)
	}
	result, _ := json.Marshal(rpc.Result)
	if !bytes.Contains(result, []byte(`\"success\":true`)) && !bytes.Contains(result, []byte(`"success":true`)) {
		t.Errorf("result = %s, want success envelope", result)
	}

	// Notifications over the socket produce no reply frame; the next call
	// still answers.
	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)); err != nil {
		t.Fatalf("Write notification: %v", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"jsonrpc":"2.0","id":2,"method":"ping"}`)); err != nil {
		t.Fatalf("Write ping: %v", err)
	}
	_, data, err = conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read ping reply: %v", err)
	}
	if !bytes.Contains(data, []byte(`"id":2`)) {
		t.Errorf("reply = %s, want ping response with id 2", data)
	}
}
