package constants

import (
	"os"
	"path/filepath"
)

const DefaultHomeEnv string = "XBRIDGE_HOME"
const ConfigEnv string = "XBRIDGE_CONFIG"
const ConfigUrlEnv string = "XBRIDGE_CONFIG_URL"

var DefaultHome string

func init() {
	if home := os.Getenv(DefaultHomeEnv); home != "" {
		DefaultHome = home
		return
	} else {
		// ~/.xbridge default
		userHomeDir, err := os.UserHomeDir()
		if err != nil {
			DefaultHome = "/data"
		} else {
			DefaultHome = filepath.Join(userHomeDir, ".xbridge")
		}
	}
}
