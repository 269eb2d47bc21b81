package serialmux

import (
	"fmt"
	"net/http"
	"strings"

	"tailscale.com/tsweb"
)

const sendCommandPage = `<!DOCTYPE html>
<html>
<head><title>serial console</title></head>
<body>
<h1>serial console</h1>
<form method="POST" action="send-command-api">
  <input type="text" name="command" placeholder="SP,800,800" autofocus>
  <button type="submit">send</button>
</form>
<pre id="tail"></pre>
<script>
const tail = document.getElementById("tail");
const es = new EventSource("serial-tail");
es.onmessage = (e) => { tail.textContent += e.data + "\n"; };
</script>
</body>
</html>
`

// AttachAdminRoutes attaches serial debugging endpoints under /debug/.
// These routes are for operator debugging only and follow the tsweb
// debug handler conventions (reachable over localhost/tailnet).
func (s *SerialMux[T]) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	debug.HandleFunc("send-command", "send a raw line to the robot", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, sendCommandPage)
	})

	debug.HandleSilentFunc("send-command-api", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		command := strings.TrimSpace(r.FormValue("command"))
		if command == "" {
			http.Error(w, "Missing command", http.StatusBadRequest)
			return
		}
		if err := s.SendLine(command); err != nil {
			http.Error(w, fmt.Sprintf("write failed: %v", err), http.StatusBadGateway)
			return
		}
		http.Redirect(w, r, "send-command", http.StatusSeeOther)
	})

	debug.HandleSilentFunc("serial-tail", func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		id, ch := s.Subscribe()
		defer s.Unsubscribe(id)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case line, open := <-ch:
				if !open {
					return
				}
				fmt.Fprintf(w, "data: %s\n\n", line)
				flusher.Flush()
			}
		}
	})
}
