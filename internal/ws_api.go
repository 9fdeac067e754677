package internal

// wsOpcode matches the RFC6455 opcodes this client cares about. Unlike the
// teacher's WSMessageType (a wrapper over a third-party library's enum),
// this is the literal wire value written into frame byte 0's low nibble,
// since the frame is hand-built rather than delegated to a library.
type wsOpcode uint8

const (
	wsOpContinuation wsOpcode = 0x0
	wsOpText         wsOpcode = 0x1
	wsOpBinary       wsOpcode = 0x2
	wsOpClose        wsOpcode = 0x8
	wsOpPing         wsOpcode = 0x9
	wsOpPong         wsOpcode = 0xA
)

// WSStatusCode is a subset of RFC6455 close status codes.
type WSStatusCode uint16

const (
	WSStatusNormalClosure WSStatusCode = 1000
	WSStatusProtocolError WSStatusCode = 1002
)
