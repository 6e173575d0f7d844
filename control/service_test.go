package control

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/rpc"
	jsonrpc "github.com/gorilla/rpc/json"
	"github.com/rcrowley/go-metrics"
)

type mockControllable struct {
	status     map[string]string
	pauseCalls []bool
	stopped    bool
}

func (m *mockControllable) Status() map[string]string { return m.status }
func (m *mockControllable) Pause(p bool) { m.pauseCalls = append(m.pauseCalls, p) }
func (m *mockControllable) Stop() { m.stopped = true }

func newTestServer(t *testing.T, ctl Controllable, registry metrics.Registry) (*httptest.Server, *Client) {
	t.Helper()
	svc := &Service{Ctl: ctl, Registry: registry}

	srv := rpc.NewServer()
	srv.RegisterCodec(jsonrpc.NewCodec(), "application/json")
	if err := srv.RegisterService(svc, ""); err != nil {
		t.Fatalf("RegisterService: %v", err)
	}
	srv.RegisterCustomNames(methods)

	ts := httptest.NewServer(srv)
	client := NewClient(ts.Listener.Addr().String(), time.Second)
	return ts, client
}

func TestServiceStatus(t *testing.T) {
	ctl := &mockControllable{status: map[string]string{"result": "OK"}}
	ts, client := newTestServer(t, ctl, metrics.NewRegistry())
	defer ts.Close()

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status["result"] != "OK" {
		t.Fatalf("expected result=OK, got %v", status)
	}
}

func TestServicePauseUnpauseStop(t *testing.T) {
	ctl := &mockControllable{}
	ts, client := newTestServer(t, ctl, metrics.NewRegistry())
	defer ts.Close()

	if err := client.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if err := client.Unpause(); err != nil {
		t.Fatalf("Unpause: %v", err)
	}
	if len(ctl.pauseCalls) != 2 || ctl.pauseCalls[0] != true || ctl.pauseCalls[1] != false {
		t.Fatalf("unexpected pause call sequence: %v", ctl.pauseCalls)
	}

	if err := client.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	// Stop is dispatched asynchronously server-side, so allow it to land
	// before asserting.
	for i := 0; i < 100 && !ctl.stopped; i++ {
		time.Sleep(time.Millisecond)
	}
	if !ctl.stopped {
		t.Fatalf("expected Stop to be called")
	}
}

func TestServiceMetrics(t *testing.T) {
	registry := metrics.NewRegistry()
	meter := metrics.NewMeter()
	meter.Mark(5)
	registry.Register("arrivals", meter)

	ctl := &mockControllable{}
	ts, client := newTestServer(t, ctl, registry)
	defer ts.Close()

	m, err := client.Metrics()
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	entry, ok := m["arrivals"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected an arrivals entry, got %v", m)
	}
	if count, ok := entry["count"].(float64); !ok || count != 5 {
		t.Fatalf("expected count=5, got %v", entry["count"])
	}
}
