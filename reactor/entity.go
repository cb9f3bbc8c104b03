// File: reactor/entity.go
// Author: momentics <momentics@gmail.com>
//
// Minimal connection/session/link/delivery/transport entity graph. These
// carry only what handler resolution and the event->reactor lookup need
// an attachments record and the upward
// accessor to the next entity. They do not implement AMQP framing, flow
// control, or settlement -- that transport state machine is an external collaborator out of this
// module's scope.

package reactor

import "github.com/corewire-labs/evreactor/api"

// Connection is the root of one entity graph. A host transport layer
// would construct one per accepted socket and dispatch CONNECTION_INIT
// through the owning reactor's collector.
type Connection struct {
	attachments *Record
}

// NewConnection allocates a connection with an empty attachments record.
func NewConnection() *Connection {
	return &Connection{attachments: newRecord()}
}

// Attachments returns the connection's attachments record.
func (c *Connection) Attachments() *Record { return c.attachments }

// Session belongs to exactly one connection.
type Session struct {
	attachments *Record
	connection  *Connection
}

// NewSession creates a session scoped to conn.
func NewSession(conn *Connection) *Session {
	return &Session{attachments: newRecord(), connection: conn}
}

// Attachments returns the session's attachments record.
func (s *Session) Attachments() *Record { return s.attachments }

// Connection returns the owning connection.
func (s *Session) Connection() *Connection { return s.connection }

// Link belongs to exactly one session.
type Link struct {
	attachments *Record
	session     *Session
}

// NewLink creates a link scoped to sess.
func NewLink(sess *Session) *Link {
	return &Link{attachments: newRecord(), session: sess}
}

// Attachments returns the link's attachments record.
func (l *Link) Attachments() *Record { return l.attachments }

// Session returns the owning session.
func (l *Link) Session() *Session { return l.session }

// Delivery belongs to exactly one link.
type Delivery struct {
	attachments *Record
	link        *Link
}

// NewDelivery creates a delivery scoped to link.
func NewDelivery(link *Link) *Delivery {
	return &Delivery{attachments: newRecord(), link: link}
}

// Attachments returns the delivery's attachments record.
func (d *Delivery) Attachments() *Record { return d.attachments }

// Link returns the owning link.
func (d *Delivery) Link() *Link { return d.link }

// Transport is the attachments-bearing node the I/O layer uses to reach a
// connection's reactor binding; it is a case distinct from the
// connection/session/link/delivery walk.
type Transport struct {
	attachments *Record
	connection  *Connection
}

// NewTransport creates a transport bound to conn.
func NewTransport(conn *Connection) *Transport {
	return &Transport{attachments: newRecord(), connection: conn}
}

// Attachments returns the transport's attachments record.
func (t *Transport) Attachments() *Record { return t.attachments }

// Connection returns the bound connection.
func (t *Transport) Connection() *Connection { return t.connection }

// connectionOf walks delivery/link/session/connection up to the owning
// Connection, mirroring pni_object_connection in the original source.
func connectionOf(class api.EntityClass, context any) *Connection {
	switch class {
	case api.ClassDelivery:
		return context.(*Delivery).Link().Session().Connection()
	case api.ClassLink:
		return context.(*Link).Session().Connection()
	case api.ClassSession:
		return context.(*Session).Connection()
	case api.ClassConnection:
		return context.(*Connection)
	default:
		return nil
	}
}
