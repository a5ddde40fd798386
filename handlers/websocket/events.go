package websocket

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/zishang520/engine.io/v2/types"
	socketio "github.com/zishang520/socket.io/v2/socket"

	"nurinuri/core"
	"nurinuri/gallery"
)

const (
	// GalleryRoom receives every artwork event.
	GalleryRoom = "gallery"
	// ArtworkEvent is the socket.io event name used for gallery changes.
	ArtworkEvent = "artwork-event"
)

type ackInvoker func(err error, payload map[string]any)

// EventPayload is what clients receive for each gallery change.
type EventPayload struct {
	ID        string            `json:"id"`
	Seq       uint64            `json:"seq"`
	Kind      gallery.EventKind `json:"kind"`
	ArtworkID string            `json:"artworkId,omitempty"`
	ShapeID   string            `json:"shapeId,omitempty"`
	Artwork   *core.Artwork     `json:"artwork,omitempty"`
	At        time.Time         `json:"at"`
}

func newPayload(e gallery.Event) EventPayload {
	p := EventPayload{
		ID:      e.ID,
		Seq:     e.Seq,
		Kind:    e.Kind,
		Artwork: e.Artwork,
		At:      e.At,
	}
	if e.ArtworkID != uuid.Nil {
		p.ArtworkID = e.ArtworkID.String()
	}
	if e.ShapeID != nil {
		p.ShapeID = e.ShapeID.String()
	}
	return p
}

// roomsFor lists the rooms an event is delivered to.
func roomsFor(e gallery.Event) []socketio.Room {
	rooms := []socketio.Room{GalleryRoom}
	if e.ArtworkID != uuid.Nil {
		rooms = append(rooms, socketio.Room(e.ArtworkID.String()))
	}
	return rooms
}

// validRoom accepts the gallery room or an artwork id.
func validRoom(id string) bool {
	if id == GalleryRoom {
		return true
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// corsOrigin turns the configured origins into the engine.io form. Wildcard
// patterns collapse to "*".
func corsOrigin(origins []string) any {
	if len(origins) == 0 {
		return "*"
	}
	allowed := make([]any, 0, len(origins))
	for _, o := range origins {
		if strings.Contains(o, "*") {
			return "*"
		}
		allowed = append(allowed, o)
	}
	return allowed
}

// SetupSocketIO creates the socket.io server and forwards gallery events to
// it. The returned func stops forwarding.
func SetupSocketIO(g *gallery.Gallery, origins []string) (*socketio.Server, func()) {
	opts := socketio.DefaultServerOptions()
	opts.SetMaxHttpBufferSize(1000000)
	opts.SetPath("/socket.io")
	opts.SetAllowEIO3(true)
	opts.SetCors(&types.Cors{
		Origin:      corsOrigin(origins),
		Credentials: true,
	})
	srv := socketio.NewServer(nil, opts)

	//nolint:errcheck // Socket.IO event handlers do not return useful errors
	srv.On("connection", func(clients ...any) {
		socket, ok := clients[0].(*socketio.Socket)
		if !ok {
			return
		}
		me := socket.Id()
		log := logrus.WithField("socket_id", me)
		log.Debug("Socket connected")

		//nolint:errcheck // Socket.IO event handlers do not return useful errors
		socket.On("join-room", func(datas ...any) {
			ack, args := extractAck(datas)
			roomID, err := roomArg(args)
			if err != nil {
				respondWithAck(socket, ack, "join-room-ack", map[string]any{
					"status": "error",
					"error":  err.Error(),
				}, err)
				return
			}

			room := socketio.Room(roomID)
			socket.Join(room)
			log.WithField("room", roomID).Debug("Socket joined room")

			srv.In(room).FetchSockets()(func(users []*socketio.RemoteSocket, fetchErr error) {
				if fetchErr != nil {
					respondWithAck(socket, ack, "join-room-ack", map[string]any{
						"status": "error",
						"error":  fetchErr.Error(),
					}, fetchErr)
					return
				}
				respondWithAck(socket, ack, "join-room-ack", map[string]any{
					"status":     "ok",
					"room":       roomID,
					"user_count": len(users),
				}, nil)
			})
		})

		//nolint:errcheck // Socket.IO event handlers do not return useful errors
		socket.On("leave-room", func(datas ...any) {
			_, args := extractAck(datas)
			if roomID, err := roomArg(args); err == nil {
				socket.Leave(socketio.Room(roomID))
				log.WithField("room", roomID).Debug("Socket left room")
			}
		})

		//nolint:errcheck // Socket.IO event handlers do not return useful errors
		socket.On("disconnect", func(datas ...any) {
			log.Debug("Socket disconnected")
			socket.RemoveAllListeners("")
		})
	})

	cancel := g.Subscribe(func(e gallery.Event) {
		if err := srv.To(roomsFor(e)...).Emit(ArtworkEvent, newPayload(e)); err != nil {
			logrus.WithError(err).WithField("kind", e.Kind).Warn("Failed to emit artwork event")
		}
	})

	return srv, cancel
}

func roomArg(args []any) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("room id is required")
	}
	roomID, ok := args[0].(string)
	if !ok || !validRoom(roomID) {
		return "", fmt.Errorf("invalid room id")
	}
	return roomID, nil
}

// extractAck splits a trailing acknowledgement callback off the event args.
func extractAck(datas []any) (ack ackInvoker, args []any) {
	if len(datas) == 0 {
		return nil, datas
	}
	ack = wrapAck(datas[len(datas)-1])
	if ack == nil {
		return nil, datas
	}
	return ack, datas[:len(datas)-1]
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// wrapAck adapts whatever function type the transport hands us. Error-typed
// parameters get the error; the first other parameter gets the payload.
func wrapAck(candidate any) ackInvoker {
	if candidate == nil {
		return nil
	}
	value := reflect.ValueOf(candidate)
	if value.Kind() != reflect.Func {
		return nil
	}

	typ := value.Type()
	return func(err error, payload map[string]any) {
		args := buildAckArgs(typ, err, payload)
		if typ.IsVariadic() {
			value.CallSlice(args)
			return
		}
		value.Call(args)
	}
}

func buildAckArgs(typ reflect.Type, err error, payload map[string]any) []reflect.Value {
	args := make([]reflect.Value, typ.NumIn())
	sent := false
	for i := range args {
		target := typ.In(i)
		var v any
		switch {
		case target == errorType:
			if err != nil {
				v = err
			}
		case !sent:
			v, sent = payload, true
		}
		args[i] = coerceValue(v, target)
	}
	return args
}

func coerceValue(value any, target reflect.Type) reflect.Value {
	if value == nil {
		return reflect.Zero(target)
	}
	rv := reflect.ValueOf(value)
	switch {
	case rv.Type().AssignableTo(target):
		return rv
	case target.Kind() == reflect.Slice && target.Elem().Kind() == reflect.Interface:
		s := reflect.MakeSlice(target, 1, 1)
		s.Index(0).Set(rv)
		return s
	case target.Kind() == reflect.String:
		return reflect.ValueOf(fmt.Sprint(value)).Convert(target)
	}
	return reflect.Zero(target)
}

func respondWithAck(socket *socketio.Socket, ack ackInvoker, event string, payload map[string]any, ackErr error) {
	if ack != nil {
		ack(ackErr, payload)
	}
	if event != "" && payload != nil {
		_ = socket.Emit(event, payload)
	}
}
