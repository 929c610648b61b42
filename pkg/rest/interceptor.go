package rest

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

// HttpInterceptor passes response bodies through a Replacer while enabled
type HttpInterceptor struct {
	core         http.RoundTripper
	enabled      bool
	bodyReplacer Replacer
}

type Replacer func(req *http.Request, body []byte) []byte

func NewHttpInterceptor(bodyReplacer Replacer) *HttpInterceptor {
	return &HttpInterceptor{
		core:         http.DefaultTransport,
		enabled:      false,
		bodyReplacer: bodyReplacer,
	}
}

// TraceBodies logs every response body and leaves it unchanged
func TraceBodies(req *http.Request, body []byte) []byte {
	logrus.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
		"body":   string(body),
	}).Trace("http response")
	return body
}

func (i *HttpInterceptor) Enable() {
	i.enabled = true
}

func (i *HttpInterceptor) Disable() {
	i.enabled = false
}

func (i *HttpInterceptor) Enabled() bool {
	return i.enabled
}

func (i *HttpInterceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := i.core.RoundTrip(req)
	if err != nil || !i.enabled {
		return res, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	newBody := i.bodyReplacer(req, body)

	res.Body = io.NopCloser(bytes.NewReader(newBody))
	res.ContentLength = int64(len(newBody))
	res.Header.Set("Content-Length", fmt.Sprintf("%d", res.ContentLength))
	return res, nil
}
