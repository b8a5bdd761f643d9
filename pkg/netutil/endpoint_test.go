package netutil

import "testing"

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		want     string
		wantErr  bool
	}{
		{
			name:     "bare IP",
			endpoint: "192.168.1.1",
			want:     "https://192.168.1.1/api/",
		},
		{
			name:     "host and port",
			endpoint: "panorama.example.com:8443",
			want:     "https://panorama.example.com:8443/api/",
		},
		{
			name:     "full URL",
			endpoint: "http://127.0.0.1:51234",
			want:     "http://127.0.0.1:51234/api/",
		},
		{
			name:     "path and query replaced",
			endpoint: "https://panorama/php/login.php?x=1",
			want:     "https://panorama/api/",
		},
		{
			name:     "surrounding whitespace",
			endpoint: " 10.0.0.1 ",
			want:     "https://10.0.0.1/api/",
		},
		{
			name:     "empty string",
			endpoint: "",
			wantErr:  true,
		},
		{
			name:     "invalid port",
			endpoint: "localhost:abc",
			wantErr:  true,
		},
		{
			name:     "port out of range",
			endpoint: "localhost:70000",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := EndpointURL(tt.endpoint, "https", "/api/")
			if (err != nil) != tt.wantErr {
				t.Errorf("EndpointURL(%q) error = %v, wantErr %v", tt.endpoint, err, tt.wantErr)
				return
			}
			if !tt.wantErr && u.String() != tt.want {
				t.Errorf("EndpointURL(%q) = %q, want %q", tt.endpoint, u.String(), tt.want)
			}
		})
	}
}

func TestHostPort(t *testing.T) {
	for endpoint, want := range map[string]string{
		"10.0.0.1":             "10.0.0.1:443",
		"http://10.0.0.1":      "10.0.0.1:80",
		"https://[::1]:8443":   "[::1]:8443",
		"panorama.example.com": "panorama.example.com:443",
	} {
		u, err := EndpointURL(endpoint, "https", "/")
		if err != nil {
			t.Fatalf("EndpointURL(%q): %v", endpoint, err)
		}
		if got := HostPort(u); got != want {
			t.Errorf("HostPort(%q) = %q, want %q", endpoint, got, want)
		}
	}
}
