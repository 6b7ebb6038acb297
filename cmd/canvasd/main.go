// Command canvasd is the collaboration server entrypoint: it wires a
// session.Manager to the HTTP surface spec.md §6.2 names (health, stats,
// WebSocket upgrade per document) and starts listening. This is the
// boundary package — everything it does (flag parsing, HTTP routing) is
// explicitly out of scope for the core library per spec.md §1, but still
// needs a maintained home for the core to be runnable at all.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"

	"github.com/vectorcanvas/core/collab/session"
	"github.com/vectorcanvas/core/collab/transport"
)

const serverVersion = "0.1.0"

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	actorID := flag.String("actor-id", "canvasd", "CRDT actor id this server uses for documents it creates")
	flag.Parse()

	manager := session.NewManager(*actorID)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/stats", handleStats(manager))
	mux.HandleFunc("/ws/", handleWS(manager))

	log.Printf("canvasd: listening on %s", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatalf("canvasd: %v", err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok", "version": serverVersion})
}

func handleStats(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active := manager.ActiveSessions()
		documents := make([]string, len(active))
		for i, id := range active {
			documents[i] = string(id)
		}
		writeJSON(w, map[string]any{
			"activeSessions": len(active),
			"totalClients":   manager.TotalClients(),
			"documents":      documents,
		})
	}
}

// handleWS upgrades a request at /ws/{document_id}. The path segment is
// accepted for routing symmetry with spec.md §6.2 and logged, but (as in
// original_source's server.rs) it does not itself bind the connection to a
// document — the client's first join_document message carries its own
// documentId and drives the actual join.
func handleWS(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		documentID := r.URL.Path[len("/ws/"):]
		if documentID == "" {
			http.Error(w, "missing document id", http.StatusBadRequest)
			return
		}
		log.Printf("canvasd: websocket connection request for document %s", documentID)
		transport.ServeWS(manager, w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("canvasd: failed to write response: %v", err)
	}
}
