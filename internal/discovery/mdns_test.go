// ABOUTME: Tests for mDNS discovery
// ABOUTME: Tests manager construction, TXT record contents and entry conversion
package discovery

import (
	"net"
	"testing"

	"github.com/hashicorp/mdns"
)

func TestNewManager(t *testing.T) {
	config := Config{
		ServiceName: "Test Tone",
		Port:        8928,
		Path:        "/tone",
	}

	mgr := NewManager(config)
	if mgr == nil {
		t.Fatal("expected manager to be created")
	}
	mgr.Stop()
}

func TestTXTRecords(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/tone", "path=/tone"},
		{"", "path=/"},
	}

	for _, tt := range tests {
		mgr := NewManager(Config{ServiceName: "t", Port: 1, Path: tt.path})
		txt := mgr.txtRecords()
		if len(txt) == 0 || txt[0] != tt.expected {
			t.Errorf("path=%q: expected first record %q, got %v", tt.path, tt.expected, txt)
		}
	}
}

func TestBridgeFromEntry(t *testing.T) {
	entry := &mdns.ServiceEntry{
		Name:       "studio._resonate-tone._tcp.local.",
		AddrV4:     net.ParseIP("192.168.1.20"),
		Port:       8928,
		InfoFields: []string{"path=/tone", "format=f32le", "channels=2"},
	}

	bridge := bridgeFromEntry(entry)
	if bridge == nil {
		t.Fatal("expected bridge info")
	}
	if bridge.Host != "192.168.1.20" || bridge.Port != 8928 {
		t.Errorf("expected 192.168.1.20:8928, got %s:%d", bridge.Host, bridge.Port)
	}
	if bridge.URL() != "ws://192.168.1.20:8928/tone" {
		t.Errorf("expected ws://192.168.1.20:8928/tone, got %s", bridge.URL())
	}
}

func TestBridgeFromEntryDefaults(t *testing.T) {
	if bridgeFromEntry(&mdns.ServiceEntry{Name: "v6 only", Port: 1}) != nil {
		t.Error("expected nil for entry without IPv4 address")
	}

	bridge := bridgeFromEntry(&mdns.ServiceEntry{AddrV4: net.ParseIP("10.0.0.1"), Port: 80})
	if bridge.Path != "/" {
		t.Errorf("expected default path /, got %q", bridge.Path)
	}
}
