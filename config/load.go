package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cordialsys/xbridge/config/constants"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var noSuchFile = "no such file"
var notFoundIn = "not found in"

func getViper() *viper.Viper {
	v := viper.New()
	// config file is xbridge.yaml
	v.SetConfigName("xbridge")
	v.SetConfigType("yaml")

	// If the config location env is set, use that.
	v.SetConfigFile(os.Getenv(constants.ConfigEnv))

	// otherwise, prioritize current path or parent
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	// Lastly, check home dir
	v.AddConfigPath(constants.DefaultHome)

	return v
}

// RequireConfig reads the config file found via XBRIDGE_CONFIG or the search path.
// If section is set only that section is treated as the document root.
// When no file exists the defaults are returned, and without defaults that is an error.
// A file that is found is merged over the defaults.
func RequireConfig(section string, defaults *Document) (Document, error) {
	v := getViper()
	err := v.ReadInConfig()
	if err != nil {
		msg := strings.ToLower(err.Error())
		if defaults != nil && (strings.Contains(msg, noSuchFile) || strings.Contains(msg, notFoundIn)) {
			logrus.WithError(err).Debug("no config file, using defaults")
			return *defaults, nil
		}
		return Document{}, fmt.Errorf("fatal error reading config file: %w", err)
	}
	logrus.WithField("file", v.ConfigFileUsed()).Debug("loaded config file")

	// viper does not support partial deserialization so we
	// have to re-serialize and parse again
	var settings map[string]interface{}
	if section != "" {
		settings = v.GetStringMap(section)
	} else {
		settings = v.AllSettings()
	}
	doc, err := fromMap(settings)
	if err != nil {
		return Document{}, err
	}
	if defaults != nil {
		return Merge(*defaults, doc), nil
	}
	return doc, nil
}

func fromMap(settings map[string]interface{}) (Document, error) {
	var doc Document
	bz, err := yaml.Marshal(settings)
	if err != nil {
		return doc, err
	}
	err = yaml.Unmarshal(bz, &doc)
	return doc, err
}

// Parse decodes a document. yaml and toml use snake_case keys,
// json uses the camelCase keys of the shared config format.
func Parse(bz []byte, format string) (Document, error) {
	var doc Document
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "yaml", "yml":
		err := yaml.Unmarshal(bz, &doc)
		return doc, err
	case "toml":
		settings := map[string]interface{}{}
		if err := toml.Unmarshal(bz, &settings); err != nil {
			return doc, err
		}
		return fromMap(settings)
	case "json":
		err := json.Unmarshal(bz, &doc)
		return doc, err
	}
	return doc, fmt.Errorf("unsupported config format %q", format)
}

// LoadFile parses a file using its extension as the format
func LoadFile(path string) (Document, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return Parse(bz, filepath.Ext(path))
}
