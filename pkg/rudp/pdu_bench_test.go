package rudp

import "testing"

func BenchmarkEncode(b *testing.B) {
	p := &PDU{Flags: FlagDATA, Sequence: 1, Payload: make([]byte, MaxPayload)}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Encode(p)
	}
}

func BenchmarkDecode(b *testing.B) {
	p := &PDU{Flags: FlagDATA, Sequence: 1, Payload: make([]byte, MaxPayload)}
	wire := Encode(p)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Decode(wire)
	}
}

func BenchmarkChecksum(b *testing.B) {
	data := make([]byte, MaxPayload)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Checksum(data)
	}
}
