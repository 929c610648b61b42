package config_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/cordialsys/xbridge/config"
	vault "github.com/hashicorp/vault/api"
)

func (s *ConfigTestSuite) TestGetSecretEnv() {
	require := s.Require()
	s.T().Setenv("XBTEST", "mysecret")
	secret, err := config.GetSecret("env:XBTEST")
	require.NoError(err)
	require.Equal("mysecret", secret)
}

func (s *ConfigTestSuite) TestGetSecretRaw() {
	require := s.Require()
	secret, err := config.NewRawSecret("http://127.0.0.1:8545").Load()
	require.NoError(err)
	require.Equal("http://127.0.0.1:8545", secret)
	require.Equal(config.Raw, config.NewRawSecret("x").Type())
	require.True(config.HasTypePrefix("vault:a,b/c"))
	require.False(config.HasTypePrefix("http://127.0.0.1"))
}

func (s *ConfigTestSuite) TestGetSecretFileTrimmed() {
	require := s.Require()
	path := filepath.Join(s.T().TempDir(), "secret")
	require.NoError(os.WriteFile(path, []byte(" MY SECRET \n"), 0o600))

	sec, err := config.GetSecret("file:" + path)
	require.NoError(err)
	require.Equal("MY SECRET", sec)

	_, err = config.GetSecret("file:" + path + "-missing")
	require.Error(err)
}

func (s *ConfigTestSuite) TestGetSecretErrors() {
	require := s.Require()
	_, err := config.GetSecret("invalid")
	require.EqualError(err, "invalid secret source for: ***")
	_, err = config.GetSecret("invalid:value")
	require.EqualError(err, "invalid secret source for: ***")

	_, err = config.Secret("env:XBTEST_UNSET_VALUE").LoadNonEmpty()
	require.ErrorContains(err, "empty value")
}

type mockedVaultLoader struct {
	data map[string]interface{}
}

var _ config.VaultLoader = &mockedVaultLoader{}

func (l *mockedVaultLoader) LoadSecretData(path string) (*vault.Secret, error) {
	data, ok := l.data[path]
	if !ok {
		return &vault.Secret{}, errors.New("path not found")
	}
	return &vault.Secret{
		Data: data.(map[string]interface{}),
	}, nil
}

func (s *ConfigTestSuite) TestGetSecretVault() {
	require := s.Require()
	original := config.NewVaultClient
	defer func() { config.NewVaultClient = original }()
	config.NewVaultClient = func(cfg *vault.Config) (config.VaultLoader, error) {
		vaultRes := `{
			"secret/data/xbridge": {
				"data": {
					"rpc": "https://rpc.example"
				}
			}
		}`
		data := make(map[string]interface{})
		require.NoError(json.Unmarshal([]byte(vaultRes), &data))
		return &mockedVaultLoader{data: data}, nil
	}

	_, err := config.GetSecret("vault:wrong_args")
	require.ErrorContains(err, "vault secret has 2 comma separated arguments")

	_, err = config.GetSecret("vault:url,aaa")
	require.ErrorContains(err, "malformed vault secret")

	_, err = config.GetSecret("vault:url,aaa/secret")
	require.EqualError(err, "path not found")

	secret, err := config.Secret("vault:https://vault.example,secret/data/xbridge/rpc").Load()
	require.NoError(err)
	require.Equal("https://rpc.example", secret)

	secret, err = config.GetSecret("vault:https://vault.example,secret/data/xbridge/none")
	require.NoError(err)
	require.Equal("", secret)
}
