package server

import "errors"

var (
	ErrMissingAddress       = errors.New("server address is required")
	ErrIncompleteTLS        = errors.New("both TLS certificate and key files are required")
	ErrFailedLoadCert       = errors.New("failed to load certificate")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrListen               = errors.New("failed to listen")
	ErrHTTPServer           = errors.New("HTTP server error")
	ErrHTTPShutdown         = errors.New("HTTP shutdown error")
)
