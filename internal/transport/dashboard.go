package transport

import (
	"fmt"
	"html"
	"net/http"
	"time"
)

func (s *HTTPServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "GET required")
		return
	}

	uptime := time.Since(s.startedAt).Round(time.Second)
	counts := s.store.Counts()
	toolCount := len(s.dispatcher.registry.List())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
<h1>%s %s</h1>
<p>uptime: %s | tools: %d</p>
<table border="1" cellpadding="4">
<tr><th>entity</th><th>count</th></tr>
<tr><td>tasks</td><td>%d</td></tr>
<tr><td>notes</td><td>%d</td></tr>
<tr><td>meetings</td><td>%d</td></tr>
<tr><td>emails</td><td>%d</td></tr>
</table>
</body>
</html>
`,
		html.EscapeString(s.dispatcher.info.Name),
		html.EscapeString(s.dispatcher.info.Name),
		html.EscapeString(s.dispatcher.info.Version),
		uptime,
		toolCount,
		counts["tasks"], counts["notes"], counts["meetings"], counts["emails"])
}
