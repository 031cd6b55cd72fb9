// Package server exposes a layout over HTTP.
//
// Routes:
//
//	GET  /healthz                  liveness
//	GET  /api/frame                smoothed positions [{id,x,y}]
//	GET  /api/snapshot             engine positions [{id,x,y}]
//	GET  /api/stats                animation counters
//	GET  /api/components           connected components [[id...]]
//	POST /api/graph                load a graph or link map
//	POST /api/nodes/{id}/position  drag a node: {"x":..,"y":..}
//	GET  /ws                       layout rpc over websocket
//	GET  /metrics                  Prometheus metrics
//
// Errors are returned as {"error":{"code":..,"message":..}} with a status
// derived from the code.
package server
