package xbridge_test

import (
	"encoding/json"
	"strings"

	. "github.com/cordialsys/xbridge"
	"gopkg.in/yaml.v3"
)

const usdcResourceID = "0x0000000000000000000000000000000000000000000000000000000000000300"

func (s *XbridgeTestSuite) TestParseResourceID() {
	require := s.Require()
	id, err := ParseResourceID(usdcResourceID)
	require.NoError(err)
	require.EqualValues(0x03, id[30])
	require.Equal(usdcResourceID, id.String())

	_, err = ParseResourceID("0x0300")
	require.ErrorContains(err, "expected 32 bytes")
	_, err = ParseResourceID("0xnothex")
	require.Error(err)
}

func (s *XbridgeTestSuite) TestResourceDecoding() {
	require := s.Require()
	var fromJson Resource
	err := json.Unmarshal([]byte(`{
		"resourceId": "`+usdcResourceID+`",
		"type": "fungible",
		"address": "0x1C7D4B196Cb0C7B01d743Fbc6116a902379C7238",
		"symbol": "USDC",
		"decimals": 6
	}`), &fromJson)
	require.NoError(err)
	require.Equal(ResourceFungible, fromJson.Type)
	require.EqualValues(6, fromJson.Decimals)

	var fromYaml Resource
	err = yaml.Unmarshal([]byte(strings.Join([]string{
		"resource_id: \"" + usdcResourceID + "\"",
		"type: fungible",
		"address: tb1pxmrzd94rs6v2zzf8q8wtxaeqyv8xkzjnjqv2x8ct06lrjpm6ukvqvvqyc3",
		"fee_settings:",
		"  type: basic",
		"  amount: 1000000",
	}, "\n")), &fromYaml)
	require.NoError(err)
	require.Equal(fromJson.ResourceID, fromYaml.ResourceID)
	require.NotNil(fromYaml.FeeSettings)
	require.Equal(FeeHandlerBasic, fromYaml.FeeSettings.Type)
	require.EqualValues(1000000, fromYaml.FeeSettings.Amount.Uint64())
}

func (s *XbridgeTestSuite) TestResourceRef() {
	require := s.Require()
	id, _ := ParseResourceID(usdcResourceID)
	usdc := Resource{ResourceID: id, Type: ResourceFungible, Address: "0x1C7D4B196Cb0C7B01d743Fbc6116a902379C7238", Symbol: "USDC"}
	other := Resource{Type: ResourceFungible, Symbol: "WETH"}

	byID, err := ParseResourceRef(usdcResourceID)
	require.NoError(err)
	require.True(byID.Matches(usdc))
	require.False(byID.Matches(other))

	byAddress := ResourceByPartial(Resource{Address: "0x1c7d4b196cb0c7b01d743fbc6116a902379c7238"})
	require.True(byAddress.Matches(usdc))
	require.False(byAddress.Matches(other))

	bySymbol := ResourceByPartial(Resource{Symbol: "weth"})
	require.True(bySymbol.Matches(other))

	// a partial carrying an id matches on the id only
	require.Equal(byID, ResourceByPartial(Resource{ResourceID: id, Symbol: "ignored"}))

	require.True(ResourceRef{}.IsZero())
	require.False(ResourceRef{}.Matches(usdc))
	require.False(ResourceByPartial(Resource{}).Matches(usdc))
}

func (s *XbridgeTestSuite) TestParseFeeHandlerType() {
	require := s.Require()
	require.Equal(FeeHandlerBasic, ParseFeeHandlerType("basic"))
	require.Equal(FeeHandlerPercentage, ParseFeeHandlerType(" Percentage "))
	require.Equal(FeeHandlerDynamic, ParseFeeHandlerType("twap"))
	require.Equal(FeeHandlerUndefined, ParseFeeHandlerType(""))
	require.Equal(FeeHandlerType("exotic"), ParseFeeHandlerType("exotic"))
}
