// Package panorama talks to a Panorama management endpoint over the PAN-OS
// XML API.
//
// A Connector establishes a Session, retrying under a retry.Policy until
// the endpoint accepts the credentials or the attempt budget is spent.
// Sessions run operational commands and return the raw response so that
// callers own the parsing of command-specific payloads.
package panorama

import (
	"context"
	"encoding/xml"
	"log/slog"
	"strings"

	"github.com/isometry/fwboot/pkg/utils"
)

const StatusSuccess = "success"

// Credentials used to obtain an API key.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", c.Username),
		slog.String("password", "[redacted]"),
	)
}

// Session runs operational commands against a connected endpoint.
type Session interface {
	Op(ctx context.Context, cmd string) (*Response, error)
}

// Dialer makes a single attempt at opening a session.
type Dialer interface {
	Dial(ctx context.Context, endpoint string, creds Credentials) (Session, error)
}

// Response is the envelope common to every XML API reply.
type Response struct {
	XMLName xml.Name `xml:"response"`
	Status  string   `xml:"status,attr"`
	Code    string   `xml:"code,attr"`

	Msg       string `xml:"msg"`
	ResultMsg string `xml:"result>msg"`

	Raw []byte `xml:"-"`
}

// ParseResponse decodes the envelope of a raw XML API reply.
func ParseResponse(raw []byte) (*Response, error) {
	resp := &Response{}
	if err := xml.Unmarshal(raw, resp); err != nil {
		return nil, err
	}
	resp.Raw = raw
	return resp, nil
}

// OK reports whether the endpoint flagged the command as successful.
func (r *Response) OK() bool {
	return r != nil && strings.EqualFold(strings.TrimSpace(r.Status), StatusSuccess)
}

// Message returns the endpoint's explanation, if any.
func (r *Response) Message() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(utils.Coalesce(r.Msg, r.ResultMsg))
}

func (r *Response) String() string {
	if r == nil {
		return ""
	}
	return string(r.Raw)
}
