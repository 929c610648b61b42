package config

import (
	_ "embed"
	"fmt"
)

//go:embed defaults/local.yaml
var localData []byte

// Defaults returns the embedded document for an environment.
// Public networks have no embedded defaults and are fetched with Fetch.
func Defaults(env Environment) (Document, error) {
	switch env {
	case Local, "":
		return Parse(localData, "yaml")
	}
	return Document{}, fmt.Errorf("no embedded defaults for %q, set %s to a shared config url", env, "XBRIDGE_CONFIG_URL")
}

// Merge overlays domains from override onto base. Domains are matched by id and
// replaced as a whole; new domains are appended.
func Merge(base Document, override Document) Document {
	merged := Document{
		Environment:  base.Environment,
		FeeOracleUrl: base.FeeOracleUrl,
	}
	if override.Environment != "" {
		merged.Environment = override.Environment
	}
	if override.FeeOracleUrl != "" {
		merged.FeeOracleUrl = override.FeeOracleUrl
	}
	replaced := map[int]bool{}
	for _, domain := range base.Domains {
		next := domain
		for i, o := range override.Domains {
			if o.ID == domain.ID {
				next = o
				if next.Rpc == "" {
					next.Rpc = domain.Rpc
				}
				replaced[i] = true
			}
		}
		merged.Domains = append(merged.Domains, next.clone())
	}
	for i, o := range override.Domains {
		if !replaced[i] {
			merged.Domains = append(merged.Domains, o.clone())
		}
	}
	return merged
}
