// Package panoramatest provides an in-process fake of the Panorama XML API
// endpoints used during bootstrap.
package panoramatest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const (
	Username = "admin"
	Password = "secret"
	APIKey   = "LUFRPT1fake=="
)

// Server is a stateful fake: generated keys are remembered and returned
// by subsequent show commands.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	// Keys holds existing vm-auth-keys, most recent first.
	Keys []string
	// NextKey is issued by the next generate command.
	NextKey string

	RejectShow        bool
	RejectGenerate    bool
	MalformedGenerate bool

	Keygens   int
	Shows     int
	Generates int
	Lifetimes []string
}

func New(t *testing.T) *Server {
	t.Helper()
	s := &Server{NextKey: "123456789012345"}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) Counts() (keygens, shows, generates int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Keygens, s.Shows, s.Generates
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.URL.Path != "/api/" {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/xml")

	switch r.Form.Get("type") {
	case "keygen":
		s.Keygens++
		if r.Form.Get("user") != Username || r.Form.Get("password") != Password {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `<response status = 'error' code = '403'><result><msg>Invalid Credential</msg></result></response>`)
			return
		}
		fmt.Fprintf(w, `<response status = 'success'><result><key>%s</key></result></response>`, APIKey)
	case "op":
		if r.Form.Get("key") != APIKey {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `<response status = 'error' code = '403'><result><msg>Invalid credentials.</msg></result></response>`)
			return
		}
		s.op(w, r.Form.Get("cmd"))
	default:
		fmt.Fprint(w, `<response status="error" code="400"><msg>Illegal value for parameter "type"</msg></response>`)
	}
}

func (s *Server) op(w http.ResponseWriter, cmd string) {
	switch {
	case strings.Contains(cmd, "<vm-auth-key><show>"):
		s.Shows++
		if s.RejectShow {
			fmt.Fprint(w, `<response status="error"><msg><line>show failed</line></msg></response>`)
			return
		}
		var entries strings.Builder
		for _, key := range s.Keys {
			fmt.Fprintf(&entries, `<entry><vm-auth-key>%s</vm-auth-key><expiry-time>2027/10/19 00:00:00</expiry-time></entry>`, key)
		}
		fmt.Fprintf(w, `<response status="success"><result><bootstrap-vm-auth-keys>%s</bootstrap-vm-auth-keys></result></response>`, entries.String())
	case strings.Contains(cmd, "<vm-auth-key><generate>"):
		s.Generates++
		lifetime := between(cmd, "<lifetime>", "</lifetime>")
		s.Lifetimes = append(s.Lifetimes, lifetime)
		if s.RejectGenerate {
			fmt.Fprint(w, `<response status="error"><msg><line>generate failed</line></msg></response>`)
			return
		}
		if s.MalformedGenerate {
			fmt.Fprint(w, `<response status="success"><result>key generated</result></response>`)
			return
		}
		s.Keys = append([]string{s.NextKey}, s.Keys...)
		fmt.Fprintf(w, `<response status="success"><result>VM auth key %s generated. Expires at: 2027/10/19 00:00:00</result></response>`, s.NextKey)
	default:
		fmt.Fprint(w, `<response status="error"><msg>unknown command</msg></response>`)
	}
}

func between(s, start, end string) string {
	_, after, ok := strings.Cut(s, start)
	if !ok {
		return ""
	}
	value, _, _ := strings.Cut(after, end)
	return value
}
