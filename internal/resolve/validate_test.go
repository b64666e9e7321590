package resolve

import "testing"

func TestIsValidHostAddr(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"192.168.1.10", true},
		{"10.0.0.1", true},
		{"example.com", true},
		{"staging.example.com", true},
		{"host-1.internal", true},
		{"localhost", true},
		{"123", true},
		{"", false},
		{"-bad.example.com", false},
		{"bad-.example.com", false},
		{"double..dot", false},
		{"under_score.example.com", false},
		{"spaces in.host", false},
		{"::1", false},
	}
	for _, tt := range tests {
		if got := IsValidHostAddr(tt.addr); got != tt.want {
			t.Errorf("IsValidHostAddr(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

func TestIsValidConnection(t *testing.T) {
	tests := []struct {
		conn string
		want bool
	}{
		{"user@example.com", true},
		{"deploy@192.168.0.5", true},
		{"a@b", true},
		{"user@host-1.internal", true},
		{"userexample.com", false},
		{"@example.com", false},
		{"user@", false},
		{"user@@example.com", false},
		{"us er@example.com", false},
		{"us\ter@example.com", false},
		{"us\ner@example.com", false},
		{"us\rer@example.com", false},
		{"us\u00a0er@example.com", false},
		{"us:er@example.com", false},
		{"user@-bad.example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidConnection(tt.conn); got != tt.want {
			t.Errorf("IsValidConnection(%q) = %v, want %v", tt.conn, got, tt.want)
		}
	}
}

func TestIsValidPort(t *testing.T) {
	for port, want := range map[int]bool{22: true, 1: true, 65535: true, 0: false, -1: false, 65536: false} {
		if got := IsValidPort(port); got != want {
			t.Errorf("IsValidPort(%d) = %v, want %v", port, got, want)
		}
	}
}
