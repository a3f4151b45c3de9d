package envelope

import "github.com/sage-x-project/nngmux/ulid"

// ConnectRequest is the first message a connecting peer seals under the
// server's public key to establish a session. It carries no payment,
// service-discovery, or blacklisting fields — those concerns are out of
// scope for this package; only the identity and session-establishment
// shape is kept.
type ConnectRequest struct {
	Client  Address
	Session ulid.ID
}

// ConnectAck is the server's reply: a freshly negotiated session cipher key
// plus a SignedHash over the request, proving the server holds the secret
// key matching the public key the client sealed the request under.
type ConnectAck struct {
	Session    ulid.ID
	SessionKey []byte
	Accept     SignedHash
}
