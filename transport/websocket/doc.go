// Package websocket pushes live board updates to browser clients.
//
// Clients connect with ?player=<id> and receive a JSON Message every time
// that player's board changes, whichever transport made the move. The hub
// does not accept moves over the socket; reveals go through the REST API.
//
// Outgoing messages:
//
//	{"player_id": "alice", "game_id": "...", "event": "reveal", "outcome": "continue", "board": {...}}
//
// Events are "start", "reveal", "finished" and "ended".
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("player"))
//	})
//
//	hub.Broadcast(websocket.Message{PlayerID: "alice", Event: websocket.EventReveal, Board: &snapshot})
//
// All hub state is owned by the Run goroutine; the exported methods only
// send to it over channels.
package websocket
