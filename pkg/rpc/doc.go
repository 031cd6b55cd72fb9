// Package rpc implements a duplex request/response channel with
// caller-generated correlation ids.
//
// # Overview
//
// A [Client] turns a call into a request message
//
//	{"op":"step","args":{...},"tag":"layout","id":"<uuid>"}
//
// sends it over a [Transport] and blocks until a reply carrying the same
// tag and id arrives, or until the caller's context ends. A [Server] reads
// requests bearing its tag, dispatches them to a [Handler] in arrival
// order and replies with
//
//	{"tag":"layout","id":"<uuid>","result":{...}}
//
// or an "error" object holding a code and message.
//
// Many calls may be in flight at once; each is matched by id alone, so
// replies may arrive in any order.
//
// # Tags
//
// The tag (discriminator) lets several protocols share one transport.
// Messages with a foreign tag are ignored silently. A reply with our tag
// but no pending id is logged at warn level and reported through
// observability.Channel().OnUnmatchedReply, since it means either a reply
// that lost the race with its caller's deadline or a protocol bug.
//
// # Typed operations
//
// Operations are declared as [Method] values and registered on a [Mux]:
//
//	var Double = rpc.Method[int, int]{Name: "double"}
//
//	mux := rpc.NewMux()
//	rpc.Handle(mux, Double, func(ctx context.Context, x int) (int, error) { return 2 * x, nil })
//
//	n, err := rpc.Invoke(ctx, client, Double, 21)
//
// A request naming an operation the mux does not know is answered with an
// UNKNOWN_OP error.
//
// # Transports
//
//   - [NewPipe]: in-process pair
//   - [NewWebSocket]: one gorilla/websocket connection
//   - [NewRedis]: a pair of Redis pub/sub channels
package rpc
