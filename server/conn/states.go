package conn

import (
	"fmt"

	"github.com/Mmx233/Cubic/protocol"
	"github.com/Mmx233/Cubic/server/auth"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Disconnect messages shown by the client.
const (
	msgOutdatedClient = "Outdated client! Please use " + protocol.VersionName
	msgOutdatedServer = "Outdated server! I'm still on " + protocol.VersionName
	msgServerFull     = "The server is full!"
)

// chatText renders a plain chat component.
func chatText(text string) string {
	b, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return `{"text":""}`
	}
	return string(b)
}

func (c *Connection) handleHandshake(pk protocol.Packet) error {
	hs, ok := pk.(*protocol.Handshake)
	if !ok {
		return fmt.Errorf("%w: unexpected %T in handshake state", ErrProtocolViolation, pk)
	}

	c.logger.Debug().
		Int32("protocol_version", hs.ProtocolVersion).
		Str("address", hs.ServerAddress).
		Uint16("port", hs.ServerPort).
		Stringer("next_state", hs.NextState).
		Msg("handshake")

	switch hs.NextState {
	case protocol.StateStatus:
		return c.setState(protocol.StateStatus)
	case protocol.StateLogin:
		if err := c.setState(protocol.StateLogin); err != nil {
			return err
		}
		switch {
		case hs.ProtocolVersion < protocol.Version:
			return c.kick(&protocol.LoginDisconnect{Reason: chatText(msgOutdatedClient)}, "outdated client")
		case hs.ProtocolVersion > protocol.Version:
			return c.kick(&protocol.LoginDisconnect{Reason: chatText(msgOutdatedServer)}, "outdated server")
		}
		return nil
	default:
		return fmt.Errorf("%w: handshake next state %d", ErrProtocolViolation, int32(hs.NextState))
	}
}

func (c *Connection) handleStatus(pk protocol.Packet) error {
	switch p := pk.(type) {
	case *protocol.StatusRequest:
		doc, err := c.opts.Status.StatusJSON()
		if err != nil {
			return fmt.Errorf("render status: %w", err)
		}
		return c.SendPacket(&protocol.StatusResponse{JSON: doc})
	case *protocol.PingRequest:
		return c.SendPacket(&protocol.PongResponse{Payload: p.Payload})
	default:
		return fmt.Errorf("%w: unexpected %T in status state", ErrProtocolViolation, pk)
	}
}

func (c *Connection) handleLogin(pk protocol.Packet) error {
	switch p := pk.(type) {
	case *protocol.LoginStart:
		return c.handleLoginStart(p)
	case *protocol.EncryptionResponse:
		return c.handleEncryptionResponse(p)
	default:
		return fmt.Errorf("%w: unexpected %T in login state", ErrProtocolViolation, pk)
	}
}

func (c *Connection) handleLoginStart(p *protocol.LoginStart) error {
	if c.loginStart != nil {
		return fmt.Errorf("%w: repeated login start", ErrProtocolViolation)
	}
	c.loginStart = p

	token, req, err := c.opts.Auth.Begin()
	if err != nil {
		return fmt.Errorf("begin encryption: %w", err)
	}
	c.verifyToken = token

	c.logger.Debug().Str("player", p.Name).Msg("login started, requesting encryption")
	return c.SendPacket(req)
}

func (c *Connection) handleEncryptionResponse(p *protocol.EncryptionResponse) error {
	if c.loginStart == nil || c.verifyToken == nil {
		return fmt.Errorf("%w: encryption response before login start", ErrProtocolViolation)
	}

	secret, err := c.opts.Auth.Complete(p, c.verifyToken)
	if err != nil {
		return err
	}
	session, err := auth.NewSession(secret)
	if err != nil {
		return err
	}
	// Everything queued from here on is encrypted by the writer, and everything
	// read from here on goes through the decrypter.
	if err := c.EnableEncryption(session); err != nil {
		return err
	}
	c.src = session.Reader(c.buffered)

	profile := Profile{Name: c.loginStart.Name, UUID: auth.OfflineUUID(c.loginStart.Name)}
	if c.loginStart.HasPlayerUUID {
		profile.UUID = c.loginStart.PlayerUUID
	}

	if c.opts.Slots != nil {
		if !c.opts.Slots.Acquire() {
			return c.kick(&protocol.LoginDisconnect{Reason: chatText(msgServerFull)}, "server full")
		}
		c.holdsSlot = true
	}

	if err := c.SendPacket(&protocol.LoginSuccess{UUID: profile.UUID, Username: profile.Name}); err != nil {
		return err
	}
	if err := c.setState(protocol.StatePlay); err != nil {
		return err
	}

	c.logger.Info().
		Str("player", profile.Name).
		Str("uuid", profile.UUID.String()).
		Msg("player logged in")
	if h, ok := c.opts.Handler.(LoginHandler); ok {
		h.HandleLogin(c.id, profile)
	}
	return nil
}
