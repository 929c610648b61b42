package config

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cordialsys/xbridge/errors"
	"github.com/sirupsen/logrus"
)

// Fetch downloads a shared config document (json). Failures are not retried.
func Fetch(ctx context.Context, httpClient *http.Client, url string) (Document, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	log := logrus.WithField("url", url)
	log.Trace("fetching shared config")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Document{}, err
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return Document{}, errors.Networkf(err, "failed to fetch shared config")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Document{}, errors.Networkf(err, "failed to read shared config")
	}
	if res.StatusCode != http.StatusOK {
		return Document{}, errors.Networkf(fmt.Errorf("code=%d", res.StatusCode), "failed to fetch shared config from %s", url)
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return Document{}, errors.Errorf(errors.ConfigurationError, "invalid shared config: %v", err)
	}
	log.WithField("domains", len(doc.Domains)).Debug("fetched shared config")
	return doc, nil
}
