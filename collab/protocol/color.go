package protocol

// presenceColors is the fixed palette assigned to clients by GenerateColor,
// carried verbatim from original_source's handler.rs generate_color.
var presenceColors = [...]string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
}

// GenerateColor deterministically assigns a presence color to a client id,
// so the same client always gets the same color across reconnects within
// a session.
func GenerateColor(clientID string) string {
	var sum int
	for _, b := range []byte(clientID) {
		sum += int(b)
	}
	return presenceColors[sum%len(presenceColors)]
}
