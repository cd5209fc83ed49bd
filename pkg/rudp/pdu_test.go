package rudp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := &PDU{Flags: FlagDATA, Sequence: 7, Payload: []byte("HELLO")}
	wire := Encode(p)

	got, err := Decode(wire)
	require.NoError(t, err)
	require.Equal(t, p.Flags, got.Flags)
	require.Equal(t, p.Sequence, got.Sequence)
	require.Equal(t, uint32(len(p.Payload)), got.Length)
	require.Equal(t, p.Payload, got.Payload)
}

func TestEncodeDecodeControlPDU(t *testing.T) {
	p := &PDU{Flags: FlagSYN, Sequence: 0}
	wire := Encode(p)

	got, err := Decode(wire)
	require.NoError(t, err)
	require.Equal(t, FlagSYN, got.Flags)
	require.Equal(t, uint32(0), got.Length)
}

func TestDecodeRejectsShortDatagram(t *testing.T) {
	_, err := Decode(make([]byte, headerSize-1))
	require.Error(t, err)
}

func TestDecodeRejectsDataWithZeroLength(t *testing.T) {
	p := &PDU{Flags: FlagDATA, Sequence: 0}
	wire := Encode(p)

	_, err := Decode(wire)
	require.Error(t, err)
}

func TestDecodeRejectsMalformedFinOnly(t *testing.T) {
	p := &PDU{Flags: FlagFIN, Sequence: 3} // must be -1 for FIN-only
	wire := Encode(p)

	_, err := Decode(wire)
	require.Error(t, err)
}

func TestDecodeAcceptsAckShadowingDataWithZeroLength(t *testing.T) {
	ack := ackFor(&PDU{Flags: FlagDATA | FlagFIN, Sequence: 4})
	wire := Encode(ack)

	got, err := Decode(wire)
	require.NoError(t, err)
	require.True(t, got.Flags.Has(FlagACK))
	require.True(t, got.Flags.Has(FlagDATA))
	require.True(t, got.Flags.Has(FlagFIN))
	require.Equal(t, int32(4), got.Sequence)
	require.Equal(t, uint32(0), got.Length)
}

func TestDecodeRejectsTruncatedPayload(t *testing.T) {
	p := &PDU{Flags: FlagDATA, Sequence: 0, Payload: []byte("HELLO")}
	wire := Encode(p)

	_, err := Decode(wire[:len(wire)-2])
	require.Error(t, err)
}

// TestChecksumSoundness flips a single bit in the payload and expects
// decode to reject the PDU, per the checksum-soundness testable property
// in SPEC_FULL.md §8.
func TestChecksumSoundness(t *testing.T) {
	p := &PDU{Flags: FlagDATA, Sequence: 0, Payload: []byte("the quick brown fox")}
	wire := Encode(p)

	mutated := make([]byte, len(wire))
	copy(mutated, wire)
	mutated[headerSize] ^= 0x01 // flip one bit of the first payload byte

	_, err := Decode(mutated)
	require.Error(t, err)
}

func TestChecksumAcceptsUnmodifiedPayload(t *testing.T) {
	p := &PDU{Flags: FlagDATA, Sequence: 0, Payload: []byte("the quick brown fox")}
	wire := Encode(p)

	_, err := Decode(wire)
	require.NoError(t, err)
}

func TestAckForMirrorsSequenceAndShadowFlags(t *testing.T) {
	data := &PDU{Flags: FlagDATA | FlagFIN, Sequence: 9, Payload: []byte{0x01}}
	ack := ackFor(data)

	require.Equal(t, int32(9), ack.Sequence)
	require.True(t, ack.Flags.Has(FlagACK))
	require.True(t, ack.Flags.Has(FlagDATA))
	require.True(t, ack.Flags.Has(FlagFIN))
}

func TestFlagStringFormatting(t *testing.T) {
	require.Equal(t, "SYN|ACK", (FlagSYN | FlagACK).String())
	require.Equal(t, "NONE", Flag(0).String())
}
