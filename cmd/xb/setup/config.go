package setup

import (
	"context"
	"strconv"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/config"
	"github.com/cordialsys/xbridge/errors"
	"github.com/sirupsen/logrus"
)

// LoadConfig picks the first source given: --config, then a shared config url, then
// the config file search path merged over the embedded defaults.
func LoadConfig(ctx context.Context, args *Args) (*config.Config, error) {
	var doc config.Document
	var err error
	switch {
	case args.ConfigPath != "":
		doc, err = config.LoadFile(args.ConfigPath)
	case args.ConfigUrl != "":
		doc, err = config.Fetch(ctx, HttpClient(args), args.ConfigUrl)
	default:
		var defaults *config.Document
		if d, defaultsErr := config.Defaults(config.Environment(args.Environment)); defaultsErr == nil {
			defaults = &d
		} else {
			logrus.WithError(defaultsErr).Debug("no embedded defaults")
		}
		doc, err = config.RequireConfig("", defaults)
	}
	if err != nil {
		return nil, err
	}
	if err := OverrideRpc(&doc, args.Rpc); err != nil {
		return nil, err
	}
	return config.New(doc)
}

// OverrideRpc replaces the rpc of domains by id
func OverrideRpc(doc *config.Document, overrides map[string]string) error {
	for key, url := range overrides {
		id, err := strconv.ParseUint(key, 10, 8)
		if err != nil {
			return errors.Errorf(errors.ConfigurationError, "--rpc expects <domain id>=<url>, got %q", key)
		}
		applied := false
		for i := range doc.Domains {
			if doc.Domains[i].ID == xb.DomainID(id) {
				logrus.WithField("domain", id).Info("overriding rpc")
				doc.Domains[i].Rpc = config.NewRawSecret(url)
				applied = true
			}
		}
		if !applied {
			logrus.WithField("domain", id).Warn("could not find domain to apply rpc override to")
		}
	}
	return nil
}
