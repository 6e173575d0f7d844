// Package control exposes a running simulation batch over JSON-RPC: run
// progress and go-metrics counters, plus pause/unpause/stop. A long run can
// take minutes of wall-clock time, and this is the only way to observe or
// interrupt it without killing the process.
package control

import (
	"net"
	"net/http"

	"github.com/gorilla/rpc"
	jsonrpc "github.com/gorilla/rpc/json"
	"github.com/rcrowley/go-metrics"
)

// Controllable is the subset of a running batch a Service can drive:
// status reporting and pause/unpause/stop control.
type Controllable interface {
	Status() map[string]string
	Pause(paused bool)
	Stop()
}

// Service is a JSON-RPC front-end for a Controllable simulation batch.
type Service struct {
	Ctl      Controllable
	Registry metrics.Registry
	Addr     string
}

var methods = map[string]string{
	"status":  "Service.Status",
	"metrics": "Service.Metrics",
	"pause":   "Service.Pause",
	"unpause": "Service.Unpause",
	"stop":    "Service.Stop",
}

// ListenAndServe registers the JSON-RPC methods and blocks serving HTTP on
// s.Addr.
func (s *Service) ListenAndServe() error {
	srv := rpc.NewServer()
	srv.RegisterCodec(jsonrpc.NewCodec(), "application/json")
	if err := srv.RegisterService(s, ""); err != nil {
		return err
	}
	srv.RegisterCustomNames(methods)

	mux := http.NewServeMux()
	mux.Handle("/", srv)

	host, port, err := net.SplitHostPort(s.Addr)
	if err != nil {
		host, port = s.Addr, ""
	}
	return http.ListenAndServe(net.JoinHostPort(host, port), mux)
}

func (s *Service) Status(r *http.Request, args *struct{}, reply *map[string]string) error {
	*reply = s.Ctl.Status()
	return nil
}

func (s *Service) Metrics(r *http.Request, args *struct{}, reply *map[string]interface{}) error {
	out := make(map[string]interface{})
	s.Registry.Each(func(name string, i interface{}) {
		out[name] = snapshot(i)
	})
	*reply = out
	return nil
}

func (s *Service) Pause(r *http.Request, args *struct{}, reply *struct{}) error {
	s.Ctl.Pause(true)
	return nil
}

func (s *Service) Unpause(r *http.Request, args *struct{}, reply *struct{}) error {
	s.Ctl.Pause(false)
	return nil
}

func (s *Service) Stop(r *http.Request, args *struct{}, reply *struct{}) error {
	go s.Ctl.Stop()
	return nil
}

// snapshot extracts a JSON-friendly view out of a go-metrics instrument.
func snapshot(i interface{}) interface{} {
	switch m := i.(type) {
	case metrics.Meter:
		return map[string]interface{}{"count": m.Count(), "rate1": m.Rate1()}
	case metrics.Histogram:
		return map[string]interface{}{"count": m.Count(), "mean": m.Mean(), "max": m.Max(), "min": m.Min()}
	case metrics.Gauge:
		return map[string]interface{}{"value": m.Value()}
	default:
		return nil
	}
}
