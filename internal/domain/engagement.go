package domain

// Engagement says where a caller's per-notice state lives for one
// interaction: on the server under a resolved user, or only on the caller's
// side when nobody is signed in.
type Engagement struct {
	userID int64
	server bool
}

// ServerBacked selects the authoritative tier for the given user.
func ServerBacked(userID int64) Engagement {
	return Engagement{userID: userID, server: true}
}

// LocalOnly selects the best-effort tier kept by the client.
func LocalOnly() Engagement {
	return Engagement{}
}

// UserID reports the owning user for a server-backed engagement.
func (e Engagement) UserID() (int64, bool) {
	return e.userID, e.server
}

func (e Engagement) IsServerBacked() bool {
	return e.server
}

func (e Engagement) String() string {
	if e.server {
		return "server"
	}
	return "local"
}
