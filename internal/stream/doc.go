// Package stream serves a running simulation over websockets.
//
// A [Hub] owns one engine and advances it on a ticker. After each frame it
// encodes a [Frame] and offers it to every connected client; clients that
// fall behind lose frames instead of slowing the engine. Each client may
// ask for a lower frame rate with ?fps=N.
//
// Message format, one JSON object per websocket text message:
//
//	{"type":"metadata","scenario":"Solar system","bodies":["Sun",...],"speed_intervals":[0,1,...],"fps":20}
//	{"type":"frame","time":86400,"steps":24,"speed":86400,"running":true,"bodies":[...]}
//
// The metadata message always comes first. Clients steer the shared
// simulation by sending [Command] objects:
//
//	{"cmd":"pause"} {"cmd":"resume"} {"cmd":"speed","value":7}
package stream
