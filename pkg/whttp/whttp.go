package whttp

import (
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

type WHTTPHeader struct {
	Name  string
	Value string
}

type WHTTPReq struct {
	URL     string
	Method  string
	Headers []WHTTPHeader
	Params  url.Values
}

type WHTTPRes struct {
	StatusCode int
	BodyString string
}

var proxyURL *url.URL

// SetupProxy makes every client built by NewClient route through the given
// HTTP proxy. Useful for debugging API traffic.
func SetupProxy(proxy string) error {
	parsed, err := url.Parse(proxy)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}
	proxyURL = parsed
	return nil
}

// NewClient builds the shared HTTP client. Retries are disabled: every API
// call is attempted exactly once per report run.
func NewClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = stdlog.New(io.Discard, "", 0)
	client.RetryMax = 0
	client.HTTPClient.Timeout = 30 * time.Second
	if proxyURL != nil {
		client.HTTPClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}
	return client
}

func SendHTTPRequest(wReq *WHTTPReq, client *retryablehttp.Client) (*WHTTPRes, error) {
	if client == nil {
		client = NewClient()
	}

	reqURL := wReq.URL
	if len(wReq.Params) > 0 {
		reqURL += "?" + wReq.Params.Encode()
	}

	req, err := retryablehttp.NewRequest(wReq.Method, reqURL, nil)
	if err != nil {
		return nil, err
	}

	// Set common headers
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:83.0) Gecko/20100101 Firefox/83.0")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en")

	// Set custom headers
	for _, h := range wReq.Headers {
		req.Header.Add(h.Name, h.Value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}
	resp.Body.Close()

	return &WHTTPRes{
		StatusCode: resp.StatusCode,
		BodyString: string(bodyBytes),
	}, nil
}
