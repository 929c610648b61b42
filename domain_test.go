package xbridge_test

import (
	. "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/errors"
)

func (s *XbridgeTestSuite) TestParseDomainRef() {
	require := s.Require()
	domain := Domain{ID: 2, ChainID: 11155111, CaipID: "eip155:11155111"}

	vectors := []struct {
		input   string
		kind    DomainRefKind
		matches bool
	}{
		{"domain:2", DomainRefID, true},
		{"domain:3", DomainRefID, false},
		{"11155111", DomainRefChainID, true},
		{"1", DomainRefChainID, false},
		{"eip155:11155111", DomainRefCaipID, true},
		{"polkadot:91b171bb158e2d3848fa23a9f1c25182", DomainRefCaipID, false},
	}
	for _, v := range vectors {
		ref, err := ParseDomainRef(v.input)
		require.NoError(err, v.input)
		require.Equal(v.kind, ref.Kind, v.input)
		require.Equal(v.matches, ref.Matches(domain), v.input)
		require.Equal(v.input, ref.String())
	}

	for _, invalid := range []string{"", "domain:300", "domain:x", "sepolia"} {
		_, err := ParseDomainRef(invalid)
		require.Error(err, invalid)
		require.Equal(errors.ConfigurationError, errors.StatusOf(err), invalid)
	}

	require.False(DomainRef{}.Matches(domain))
	require.False(DomainByCaipID("").Matches(Domain{}))
}
