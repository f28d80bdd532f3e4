package pow

import "encoding/hex"

// Header is the pre-image hashed into SipHash keys for a solve: opaque
// bytes up to whatever the caller's block format defines, with the
// trailing 4 bytes reserved for the nonce when Params.MutateNonce is set.
type Header []byte

// ParseHeader decodes a hex-encoded header string, as accepted on the
// command line.
func ParseHeader(s string) (Header, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return Header(b), nil
}

// String returns the header's hex encoding.
func (h Header) String() string {
	return hex.EncodeToString(h)
}
