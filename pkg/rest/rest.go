package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cordialsys/xbridge/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrorResponse is the json error body most indexers and oracles reply with
type ErrorResponse struct {
	Error      string `json:"error,omitempty"`
	Message    string `json:"message,omitempty"`
	HttpStatus int    `json:"-"`
}

func (e *ErrorResponse) String() string {
	msg := e.Error
	if msg == "" {
		msg = e.Message
	}
	return fmt.Sprintf("%s (%d)", msg, e.HttpStatus)
}

type Client struct {
	httpClient *http.Client
	baseUrl    string
	limiter    *rate.Limiter
	name       string
}

// NewClient uses a default timeout when httpClient is nil and no rate limit when limiter is nil
func NewClient(name string, baseUrl string, httpClient *http.Client, limiter *rate.Limiter) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Client{
		httpClient: httpClient,
		baseUrl:    strings.TrimSuffix(baseUrl, "/"),
		limiter:    limiter,
		name:       name,
	}
}

func (client *Client) Url(path string) string {
	return fmt.Sprintf("%s/%s", client.baseUrl, strings.TrimPrefix(path, "/"))
}

// Get decodes a json response into resp, or returns the raw body when resp is a *string
func (client *Client) Get(ctx context.Context, path string, resp interface{}) error {
	return client.do(ctx, http.MethodGet, path, "", nil, resp)
}

func (client *Client) Post(ctx context.Context, path string, contentType string, input []byte, resp interface{}) error {
	return client.do(ctx, http.MethodPost, path, contentType, input, resp)
}

func (client *Client) do(ctx context.Context, method string, path string, contentType string, input []byte, resp interface{}) error {
	url := client.Url(path)
	if err := client.limiter.Wait(ctx); err != nil {
		return errors.Networkf(err, "%s %s: failed to wait on limiter", client.name, method)
	}
	var body io.Reader
	if input != nil {
		body = bytes.NewReader(input)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	logrus.WithFields(logrus.Fields{
		"url":    url,
		"method": method,
		"body":   string(input),
	}).Trace(client.name + " request")

	res, err := client.httpClient.Do(req)
	if err != nil {
		return errors.Networkf(err, "%s %s %s failed", client.name, method, path)
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Networkf(err, "%s %s %s: could not read response", client.name, method, path)
	}
	logrus.WithFields(logrus.Fields{
		"url":    url,
		"status": res.StatusCode,
		"body":   string(respBody),
	}).Trace(client.name + " response")

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		var errResponse ErrorResponse
		if err := json.Unmarshal(respBody, &errResponse); err != nil || (errResponse.Error == "" && errResponse.Message == "") {
			return errors.Networkf(nil, "%s %s %s: code=%d %s", client.name, method, path, res.StatusCode, strings.TrimSpace(string(respBody)))
		}
		errResponse.HttpStatus = res.StatusCode
		return errors.Networkf(nil, "%s %s %s: %s", client.name, method, path, errResponse.String())
	}

	switch resp := resp.(type) {
	case nil:
		return nil
	case *string:
		*resp = strings.TrimSpace(string(respBody))
		return nil
	default:
		if err := json.Unmarshal(respBody, resp); err != nil {
			return errors.Networkf(err, "%s %s %s: invalid response", client.name, method, path)
		}
	}
	return nil
}
