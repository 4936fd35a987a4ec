// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"math"

	"github.com/ava-labs/avalanchego/codec"
	"github.com/ava-labs/avalanchego/codec/linearcodec"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

const (
	// CodecVersion is the current default codec version
	CodecVersion = 0

	// maxSliceLength bounds every slice in a record: code, storage entries
	// and each key or value.
	maxSliceLength = math.MaxInt32
	// maxRecordSize bounds the full encoded contract record. Code is held
	// well below it by Config.MaxCodeSize.
	maxRecordSize = math.MaxInt32
)

// Codecs do serialization and deserialization
var (
	Codec codec.Manager
)

func init() {
	c := linearcodec.NewCustomMaxLength(maxSliceLength)
	Codec = codec.NewManager(maxRecordSize)

	errs := wrappers.Errs{}
	errs.Add(
		Codec.RegisterCodec(CodecVersion, c),
	)
	if errs.Errored() {
		panic(errs.Err)
	}
}
