// Package link carries the tester protocol over byte streams.
package link

// The protocol is plain ASCII: one command per newline-terminated line from
// the host, and at most one newline-terminated response line back. Streams
// may be a serial port (the usual case, 115200 8N1), a websocket or stdio.
//
// Device side: Port reads lines and posts them into a framework.Loop as
// Requests, the loop replies through the same Port.
// Host side: Client writes command lines and matches response lines to
// outstanding commands in FIFO order.
