package section

import (
	"github.com/goeet/eet/codec"
	"github.com/goeet/eet/errs"
	"github.com/goeet/eet/format"
)

// SignatureTrailer is appended after the payload region when a
// container is signed: the raw PKCS#7 signature and the signer's DER
// certificate, followed by their two lengths (sig_len, der_len) and
// closed off by SignMagic so a
// reader can detect a trailer is present by checking the file's last
// 4 bytes.
type SignatureTrailer struct {
	Signature []byte
	CertDER   []byte
}

// Bytes serializes t as signature, cert, sig_len, der_len, magic.
func (t SignatureTrailer) Bytes() []byte {
	buf := make([]byte, 0, len(t.Signature)+len(t.CertDER)+12)
	buf = append(buf, t.Signature...)
	buf = append(buf, t.CertDER...)
	buf = codec.AppendUint32(buf, uint32(len(t.Signature)))
	buf = codec.AppendUint32(buf, uint32(len(t.CertDER)))
	buf = codec.AppendUint32(buf, format.MagicSignature)

	return buf
}

// ParseSignatureTrailer reads a SignatureTrailer from the tail of a
// container's bytes: the magic and both lengths come from the last 12
// bytes of data, and any bytes before the trailer (such as the rest of
// the container) are ignored.
func ParseSignatureTrailer(data []byte) (SignatureTrailer, error) {
	if len(data) < 12 {
		return SignatureTrailer{}, errs.ErrInvalidHeaderSize
	}

	magic := codec.Uint32(data[len(data)-4:])
	if magic != format.MagicSignature {
		return SignatureTrailer{}, errs.ErrInvalidMagic
	}

	derLen := codec.Uint32(data[len(data)-8 : len(data)-4])
	sigLen := codec.Uint32(data[len(data)-12 : len(data)-8])

	need := int(sigLen) + int(derLen) + 12
	if len(data) < need {
		return SignatureTrailer{}, errs.ErrMalformedData
	}

	start := len(data) - need
	sig := data[start : start+int(sigLen)]
	der := data[start+int(sigLen) : start+int(sigLen)+int(derLen)]

	return SignatureTrailer{Signature: sig, CertDER: der}, nil
}

// TrailerPresent reports whether the last 4 bytes of data are
// MagicSignature, i.e. whether a SignatureTrailer follows the payload
// region.
func TrailerPresent(data []byte) bool {
	if len(data) < 4 {
		return false
	}

	return codec.Uint32(data[len(data)-4:]) == format.MagicSignature
}
