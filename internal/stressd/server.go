package stressd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StressRequest is the body of POST /stress.
type StressRequest struct {
	CPU     int `json:"cpu"`
	Timeout int `json:"timeout"`
}

// StressResponse is the body returned after starting a stress run.
type StressResponse struct {
	Message   string `json:"message"`
	CPU       int    `json:"cpu"`
	Timeout   int    `json:"timeout"`
	ProcessID int    `json:"process_id"`
}

// Server is the HTTP front of the stress service.
type Server struct {
	manager *Manager
	metrics *metrics
	router  *mux.Router
}

// NewServer creates the HTTP server around the given process manager.
func NewServer(manager *Manager) *Server {
	s := &Server{
		manager: manager,
		metrics: newMetrics(manager),
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/stress", s.handleStart).Methods(http.MethodPost)
	r.HandleFunc("/stress", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/stress/{pid:[0-9]+}", s.handleStop).Methods(http.MethodDelete)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server on the given address until the listener
// fails.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("stressd listening on %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if req.CPU <= 0 || req.Timeout <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "cpu and timeout must be positive")
		return
	}

	pid, err := s.manager.Start(req.CPU, req.Timeout)
	if err != nil {
		var missing *BinaryMissingError
		if errors.As(err, &missing) {
			writeError(w, http.StatusInternalServerError,
				fmt.Sprintf("%s is not installed. Please install it: apt-get install %s",
					missing.Binary, missing.Binary))
			return
		}
		writeError(w, http.StatusInternalServerError,
			fmt.Sprintf("failed to start stress test: %v", err))
		return
	}

	s.metrics.started.Inc()
	log.Printf("started stress run: pid=%d cpu=%d timeout=%ds", pid, req.CPU, req.Timeout)

	writeJSON(w, http.StatusOK, StressResponse{
		Message:   fmt.Sprintf("CPU stress started with %d workers for %d seconds", req.CPU, req.Timeout),
		CPU:       req.CPU,
		Timeout:   req.Timeout,
		ProcessID: pid,
	})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	pid, err := strconv.Atoi(mux.Vars(r)["pid"])
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "process ID must be an integer")
		return
	}

	if err := s.manager.Stop(pid); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Stress process not found")
			return
		}
		writeError(w, http.StatusInternalServerError,
			fmt.Sprintf("failed to stop stress test: %v", err))
		return
	}

	s.metrics.stopped.Inc()
	log.Printf("stopped stress run: pid=%d", pid)

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Stress process %d stopped successfully", pid),
	})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	pids := s.manager.List()

	active := make([]map[string]int, 0, len(pids))
	for _, pid := range pids {
		active = append(active, map[string]int{"process_id": pid})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"active_stresses": active,
		"count":           len(active),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
