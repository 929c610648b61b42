package tx_test

import (
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/cordialsys/xbridge/chain/substrate/tx"
	"github.com/stretchr/testify/require"
)

func TestMortalEra(t *testing.T) {
	vectors := []struct {
		height uint64
		first  byte
		second byte
	}{
		{0, 0x0b, 0x00},
		{1, 0x1b, 0x00},
		{4100, 0x4b, 0x00},
		{4095, 0xfb, 0xff},
		{8192 + 16, 0x0b, 0x01},
	}
	for _, v := range vectors {
		era := tx.MortalEra(v.height)
		require.True(t, era.IsMortalEra)
		require.False(t, era.IsImmortalEra)
		require.Equal(t, types.MortalEra{First: v.first, Second: v.second}, era.AsMortalEra, "height %d", v.height)

		encoded, err := codec.Encode(era)
		require.NoError(t, err)
		require.Equal(t, []byte{v.first, v.second}, encoded)
	}
}
