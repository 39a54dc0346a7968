package protocol

// HandshakeStatus represents the result of a handshake.
type HandshakeStatus uint8

const (
	HandshakeOK              HandshakeStatus = 0x00
	HandshakeVersionMismatch HandshakeStatus = 0x01
	HandshakeInvalidFormat   HandshakeStatus = 0x02 // Malformed handshake message
	HandshakeUnknownTable    HandshakeStatus = 0x03 // No table registered under TableID
	HandshakeServerBusy      HandshakeStatus = 0x04
	HandshakeInternalError   HandshakeStatus = 0x08
)

// String returns the string representation of the handshake status.
func (hs HandshakeStatus) String() string {
	switch hs {
	case HandshakeOK:
		return "OK"
	case HandshakeVersionMismatch:
		return "VersionMismatch"
	case HandshakeInvalidFormat:
		return "InvalidFormat"
	case HandshakeUnknownTable:
		return "UnknownTable"
	case HandshakeServerBusy:
		return "ServerBusy"
	case HandshakeInternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// ProtocolVersion represents a protocol version as major.minor.
type ProtocolVersion struct {
	Major uint8
	Minor uint8
}

// CurrentVersion is the current protocol version.
var CurrentVersion = ProtocolVersion{Major: 1, Minor: 0}

// Compatible reports whether a peer speaking v can talk to this build.
// Minor versions are additive; only the major has to match.
func (v ProtocolVersion) Compatible() bool {
	return v.Major == CurrentVersion.Major
}

// ClientHello is sent by the client right after the websocket opens.
type ClientHello struct {
	Version   ProtocolVersion
	SessionID string // Existing session ID (empty if new)
	TableID   string // Which registered table the page renders
	Location  string // Full page URL at connect time, including query and fragment
}

// ServerHello is the server's response to ClientHello.
type ServerHello struct {
	Status     HandshakeStatus
	SessionID  string
	ServerTime uint64 // Unix milliseconds
}

// NewClientHello creates a ClientHello for the current version.
func NewClientHello(tableID, location string) *ClientHello {
	return &ClientHello{
		Version:  CurrentVersion,
		TableID:  tableID,
		Location: location,
	}
}

// NewServerHello creates a successful ServerHello.
func NewServerHello(sessionID string, serverTime uint64) *ServerHello {
	return &ServerHello{
		Status:     HandshakeOK,
		SessionID:  sessionID,
		ServerTime: serverTime,
	}
}

// NewServerHelloError creates a ServerHello with an error status.
func NewServerHelloError(status HandshakeStatus) *ServerHello {
	return &ServerHello{Status: status}
}

// EncodeClientHello encodes a ClientHello to bytes.
func EncodeClientHello(ch *ClientHello) []byte {
	e := NewEncoder()
	e.WriteByte(ch.Version.Major)
	e.WriteByte(ch.Version.Minor)
	e.WriteString(ch.SessionID)
	e.WriteString(ch.TableID)
	e.WriteString(ch.Location)
	return e.Bytes()
}

// DecodeClientHello decodes a ClientHello from bytes.
func DecodeClientHello(data []byte) (*ClientHello, error) {
	d := NewDecoder(data)
	ch := &ClientHello{}
	var err error

	if ch.Version.Major, err = d.ReadByte(); err != nil {
		return nil, err
	}
	if ch.Version.Minor, err = d.ReadByte(); err != nil {
		return nil, err
	}
	if ch.SessionID, err = d.ReadString(); err != nil {
		return nil, err
	}
	if ch.TableID, err = d.ReadString(); err != nil {
		return nil, err
	}
	if ch.Location, err = d.ReadString(); err != nil {
		return nil, err
	}
	if !d.EOF() {
		return nil, ErrTrailingPayload
	}
	return ch, nil
}

// EncodeServerHello encodes a ServerHello to bytes.
func EncodeServerHello(sh *ServerHello) []byte {
	e := NewEncoder()
	e.WriteByte(byte(sh.Status))
	e.WriteString(sh.SessionID)
	e.WriteUint64(sh.ServerTime)
	return e.Bytes()
}

// DecodeServerHello decodes a ServerHello from bytes.
func DecodeServerHello(data []byte) (*ServerHello, error) {
	d := NewDecoder(data)
	sh := &ServerHello{}

	status, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	sh.Status = HandshakeStatus(status)

	if sh.SessionID, err = d.ReadString(); err != nil {
		return nil, err
	}
	if sh.ServerTime, err = d.ReadUint64(); err != nil {
		return nil, err
	}
	return sh, nil
}
