package panorama

import (
	"context"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/mcuadros/go-defaults"

	"github.com/isometry/fwboot/pkg/netutil"
	"github.com/isometry/fwboot/pkg/utils"
)

const apiPath = "/api/"

// HTTPDialer opens XML API sessions by exchanging credentials for an API key.
type HTTPDialer struct {
	Scheme   string        `default:"https"`
	Insecure bool          `default:"true"`
	Timeout  time.Duration `default:"30s"`

	client *http.Client
}

// NewHTTPDialer returns a dialer for the default scheme. A zero timeout
// disables the per-request timeout.
func NewHTTPDialer(insecure bool, timeout time.Duration) *HTTPDialer {
	d := &HTTPDialer{}
	defaults.SetDefaults(d)
	d.Insecure = insecure
	d.Timeout = timeout
	return d
}

func (d *HTTPDialer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("scheme", d.Scheme),
		slog.Bool("insecure", d.Insecure),
		slog.Duration("timeout", d.Timeout),
	)
}

func (d *HTTPDialer) httpClient() *http.Client {
	if d.client != nil {
		return d.client
	}
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = d.Timeout
	if transport, ok := client.Transport.(*http.Transport); ok && d.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	d.client = client
	return client
}

// baseURL accepts a bare host, host:port or full URL.
func (d *HTTPDialer) baseURL(endpoint string) (*url.URL, error) {
	return netutil.EndpointURL(endpoint, utils.Coalesce(d.Scheme, "https"), apiPath)
}

type keygenResult struct {
	Key string `xml:"result>key"`
}

func (d *HTTPDialer) Dial(ctx context.Context, endpoint string, creds Credentials) (Session, error) {
	base, err := d.baseURL(endpoint)
	if err != nil {
		return nil, err
	}

	log := utils.ContextLogger(ctx, slog.String("context", "panorama"), slog.String("address", netutil.HostPort(base)))
	log.Debug("requesting api key", slog.String("username", creds.Username))

	s := &httpSession{client: d.httpClient(), url: base.String()}
	resp, err := s.post(ctx, url.Values{
		"type":     {"keygen"},
		"user":     {creds.Username},
		"password": {creds.Password},
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &AuthError{Username: creds.Username, Message: utils.Coalesce(resp.Message(), resp.Status)}
	}

	var result keygenResult
	if err := xml.Unmarshal(resp.Raw, &result); err != nil {
		return nil, fmt.Errorf("invalid keygen response: %w", err)
	}
	if result.Key == "" {
		return nil, fmt.Errorf("keygen response carried no key")
	}
	s.key = result.Key

	return s, nil
}

type httpSession struct {
	client *http.Client
	url    string
	key    string
}

// Op runs an operational command. Transport failures and unparseable
// envelopes are returned as errors; rejected commands are not, callers
// decide with Response.OK.
func (s *httpSession) Op(ctx context.Context, cmd string) (*Response, error) {
	return s.post(ctx, url.Values{
		"type": {"op"},
		"cmd":  {cmd},
		"key":  {s.key},
	})
}

func (s *httpSession) post(ctx context.Context, form url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	resp, err := ParseResponse(body)
	if err != nil {
		return nil, fmt.Errorf("unexpected response (HTTP %d): %w", res.StatusCode, err)
	}
	return resp, nil
}
