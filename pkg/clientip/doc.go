// Package clientip extracts the client address from an HTTP request.
//
// GetIP checks, in order: CF-Connecting-IP, DO-Connecting-IP, the leftmost
// X-Forwarded-For entry, X-Real-IP, then RemoteAddr. Those headers are client
// controlled unless a proxy overwrites them, so use RemoteIP when the service
// is reachable directly.
package clientip
