package handlers

import (
	"context"

	"github.com/stressfleet/stressfleet/internal/stressd"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newStressServer creates the stress HTTP server.
	newStressServer = func(binary string) *stressd.Server {
		return stressd.NewServer(stressd.NewManager(binary))
	}

	// listenAndServe runs the server.
	listenAndServe = func(s *stressd.Server, addr string) error {
		return s.ListenAndServe(addr)
	}
)

// Serve runs the stress HTTP service until the listener fails. An
// explicit listen address overrides the configured one.
func Serve(_ context.Context, configPath, listenAddr string) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}

	addr := cfg.Service.ListenAddr
	if listenAddr != "" {
		addr = listenAddr
	}

	server := newStressServer(cfg.Service.StressBinary)
	return listenAndServe(server, addr)
}
