package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tkoenig/sopnet/pkg/network"
	"github.com/tkoenig/sopnet/pkg/pipeline"
	"github.com/tkoenig/sopnet/pkg/sop"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	srv := httptest.NewServer(NewServer(runner, logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func networkDoc(t *testing.T) []byte {
	t.Helper()
	nt := network.New("api")
	for range 3 {
		nt.NewNode(network.KindInput)
	}
	for _, cover := range []string{"11-\n--1", "111", "110"} {
		n := nt.NewNode(network.KindLogic)
		for _, in := range []int{0, 1, 2} {
			if err := nt.AddFanin(n, in, false); err != nil {
				t.Fatalf("AddFanin: %v", err)
			}
		}
		n.SetCover(sop.MustParse(cover))
	}
	data, err := network.MarshalNetwork(nt)
	if err != nil {
		t.Fatalf("MarshalNetwork: %v", err)
	}
	return data
}

func postOptimize(t *testing.T, srv *httptest.Server, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(srv.URL+"/v1/optimize", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST /v1/optimize: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestOptimize(t *testing.T) {
	srv := newTestServer(t)
	resp := postOptimize(t, srv, map[string]any{
		"network": json.RawMessage(networkDoc(t)),
		"formats": []string{"json", "dot"},
	})

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body: %s", resp.StatusCode, body)
	}

	var got optimizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !got.Changed {
		t.Error("changed = false, want true")
	}
	if got.Stats.LiteralsBefore != 9 || got.Stats.LiteralsAfter != 8 {
		t.Errorf("literals %d -> %d, want 9 -> 8",
			got.Stats.LiteralsBefore, got.Stats.LiteralsAfter)
	}
	if got.NetworkHash == "" {
		t.Error("network_hash is empty")
	}
	if _, err := network.UnmarshalNetwork(got.Network); err != nil {
		t.Errorf("response network does not parse: %v", err)
	}
	if len(got.Artifacts["dot"]) == 0 {
		t.Error("missing dot artifact")
	}
}

func TestOptimize_BadRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing network", map[string]any{}, http.StatusBadRequest},
		{"malformed network", map[string]any{"network": json.RawMessage(`{"nodes": [{"id": -2}]}`)}, http.StatusBadRequest},
		{"unsupported format", map[string]any{
			"network": json.RawMessage(networkDoc(t)),
			"formats": []string{"png"},
		}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postOptimize(t, srv, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestOptimize_DeclinedNetwork(t *testing.T) {
	// An inverted fanin in a leading slot violates the optimizer's
	// structural preconditions.
	nt := network.New("declined")
	a := nt.NewNode(network.KindInput)
	b := nt.NewNode(network.KindInput)
	n := nt.NewNode(network.KindLogic)
	_ = nt.AddFanin(n, a.ID(), true)
	_ = nt.AddFanin(n, b.ID(), false)
	n.SetCover(sop.MustParse("11"))
	data, err := network.MarshalNetwork(nt)
	if err != nil {
		t.Fatalf("MarshalNetwork: %v", err)
	}

	srv := newTestServer(t)
	resp := postOptimize(t, srv, map[string]any{"network": json.RawMessage(data)})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}
