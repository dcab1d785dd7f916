package httpproxy

import "testing"

func TestIsCacheableStatusLine(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"HTTP/1.0 200 OK\r\n\r\nbody", true},
		{"HTTP/1.1 200 OK\r\n\r\nbody", true},
		{"HTTP/1.1 200\r\n\r\nbody", true},
		{"HTTP/1.1 404 Not Found\r\n\r\n", false},
		{"HTTP/1.0 500 Internal Server Error\r\n\r\n", false},
		{"garbage", false},
	}
	for _, c := range cases {
		got := IsCacheableStatusLine([]byte(c.in))
		if got != c.want {
			t.Errorf("IsCacheableStatusLine(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
