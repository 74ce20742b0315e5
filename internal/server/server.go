package server

import (
	"context"
	"net"
	"net/http"
	"time"
)

type Server struct {
	http *http.Server
	ln   net.Listener
}

func New(addr string, h http.Handler) *Server {
	return &Server{http: &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

// Listen binds the address so Addr reports the real port before Start.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	return nil
}

// Addr is the bound address once Listen has run, the configured one before.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.http.Addr
}

// Start serves until Stop; it listens first if Listen was not called.
func (s *Server) Start() error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	return s.http.Serve(s.ln)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
