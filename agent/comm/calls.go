// Package comm is the HTTP transport of the edge agent. It sends plaintext
// JSON messages, makes best effort side channel calls like SSO triggers, and
// resolves shortened invitation URLs.
package comm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/findy-network/findy-edge-agent/agent/utils"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// errorMessageMaxLength is the maximum length of the response body we will
// include into the generated error message
const errorMessageMaxLength = 80

const (
	defaultRetries = 3

	// maxRedirects limits the hops Lengthen follows.
	maxRedirects = 10

	ContentType = "application/ssi-agent-wire"
)

// ErrTransport wraps all the network and HTTP status failures.
var ErrTransport = errors.New("transport failure")

// DefaultClient is used by the package level helpers.
var DefaultClient = NewClient()

type Client struct {
	http    *http.Client
	noRedir *http.Client
	retries uint64
	timeout time.Duration
}

type ClientOption func(c *Client)

// WithRetries sets how many times a failing POST is retried. 0 disables
// retries.
func WithRetries(n uint64) ClientOption {
	return func(c *Client) { c.retries = n }
}

// WithTimeout overrides utils.Settings.Timeout for this client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient sets the underlying client, e.g. httptest.Server.Client().
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
		noRedir := *hc
		noRedir.CheckRedirect = noRedirect
		c.noRedir = &noRedir
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:    &http.Client{},
		noRedir: &http.Client{CheckRedirect: noRedirect},
		retries: defaultRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func noRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

func (c *Client) Timeout() time.Duration {
	if c.timeout != 0 {
		return c.timeout
	}
	return utils.Settings.Timeout()
}

// Post sends the data to the URL and returns the response body. Network
// failures and 5xx responses are retried with exponential backoff.
func (c *Client) Post(ctx context.Context, urlStr string, data []byte) (rdata []byte, err error) {
	defer err2.Handle(&err, "call http post %s", urlStr)

	URL := try.To1(url.Parse(urlStr))

	op := func() (err error) {
		rdata, err = c.post(ctx, URL.String(), data)
		var se *statusError
		if errors.As(err, &se) && se.code < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		return err
	}
	var b backoff.BackOff = backoff.NewExponentialBackOff()
	b = backoff.WithContext(backoff.WithMaxRetries(b, c.retries), ctx)

	try.To(backoff.RetryNotify(op, b, func(err error, d time.Duration) {
		glog.Warningf("post %s failed: %v, retry after %v", urlStr, err, d)
	}))
	return rdata, nil
}

func (c *Client) post(ctx context.Context, urlStr string, data []byte) (_ []byte, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout())
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, urlStr, bytes.NewReader(data))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	request.Close = true // deferred response.Body.Close isn't always enough
	request.Header.Set("Content-Type", ContentType)

	response, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer closeBody(response)

	rdata, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return checkHTTPStatus(response, rdata)
}

// Get makes a GET request and returns the body. It isn't retried.
func (c *Client) Get(ctx context.Context, urlStr string) (data []byte, err error) {
	defer err2.Handle(&err, "call http get")

	ctx, cancel := context.WithTimeout(ctx, c.Timeout())
	defer cancel()

	request := try.To1(http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil))
	response, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer closeBody(response)

	data = try.To1(io.ReadAll(response.Body))
	return checkHTTPStatus(response, data)
}

// Lengthen resolves a shortened URL by following 301 and 302 redirects
// manually. It stops at the first Location which contains one of the
// markers, or when the server stops redirecting. Any failure returns the last
// known URL as it is.
func (c *Client) Lengthen(ctx context.Context, urlStr string, markers ...string) string {
	current := urlStr
	for i := 0; i < maxRedirects; i++ {
		next, ok := c.redirect(ctx, current)
		if !ok {
			return current
		}
		current = next
		for _, m := range markers {
			if strings.Contains(current, m) {
				return current
			}
		}
	}
	glog.Warningln("too many redirects:", urlStr)
	return current
}

func (c *Client) redirect(ctx context.Context, urlStr string) (location string, ok bool) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout())
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		glog.V(3).Infoln("lengthen, bad url:", err)
		return "", false
	}
	response, err := c.noRedir.Do(request)
	if err != nil {
		glog.V(3).Infoln("lengthen:", err)
		return "", false
	}
	defer closeBody(response)

	switch response.StatusCode {
	case http.StatusMovedPermanently, http.StatusFound:
		location = response.Header.Get("Location")
		if location == "" {
			return "", false
		}
		if loc, err := response.Location(); err == nil {
			location = loc.String()
		}
		return location, true
	}
	return "", false
}

func closeBody(response *http.Response) {
	closeErr := response.Body.Close()
	if closeErr != nil {
		glog.Warningln("body.Close: ", closeErr)
	}
}

type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string {
	return e.msg
}

func (e *statusError) Unwrap() error {
	return ErrTransport
}

// checkHTTPStatus checks the status code and gets the server message
func checkHTTPStatus(response *http.Response, data []byte) ([]byte, error) {
	if response.StatusCode >= http.StatusOK && response.StatusCode < http.StatusMultipleChoices {
		return data, nil
	}
	glog.Warning("http code:", response.Status)
	contentType := response.Header.Get("Content-type")
	// from our server: text/plain; charset=utf-8
	if strings.HasPrefix(contentType, "text/plain") {
		l := len(data)
		return nil, &statusError{
			code: response.StatusCode,
			msg:  fmt.Sprintf("%s: %s", response.Status, data[0:min(errorMessageMaxLength, l)]),
		}
	}
	return nil, &statusError{code: response.StatusCode, msg: response.Status}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
