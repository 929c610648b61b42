package testutil

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	xb "github.com/cordialsys/xbridge"
	"github.com/cordialsys/xbridge/config"
)

func FromHex(s string) []byte {
	bz, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		panic(err)
	}
	return bz
}

func ResourceID(s string) xb.ResourceID {
	id, err := xb.ParseResourceID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func HumanToBlockchain(amount string, decimals int) xb.AmountBlockchain {
	h, err := xb.NewAmountHumanReadableFromStr(amount)
	if err != nil {
		panic(err)
	}
	return h.ToBlockchain(int32(decimals))
}

// LocalConfig is the embedded local environment, which tests treat as fixtures
func LocalConfig() *config.Config {
	doc, err := config.Defaults(config.Local)
	if err != nil {
		panic(err)
	}
	cfg, err := config.New(doc)
	if err != nil {
		panic(err)
	}
	return cfg
}

func JsonPrint(a any) {
	bz, _ := json.MarshalIndent(a, "", "  ")
	fmt.Println(string(bz))
}

func Ref[T any](s T) *T {
	return &s
}
