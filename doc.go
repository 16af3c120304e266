// Package cronto implements the server half of the cronto-v3 two-factor
// verification scheme: a service issues coloured 2D barcodes that a trusted
// client device scans, and the device's computed short numeric code, echoed
// back by the user, either activates a new client or authorizes a
// transaction carrying the exact message the user saw.
//
// # Overview
//
// The package is a pipeline invoked per operation:
//
//  1. primitive layer: CRC-24, HMAC-SHA-256, AES-CTR, a keyed derivation
//     function, and a CSPRNG capability (crc24.go, mac.go, aesctr.go,
//     kdf.go, random.go)
//  2. bit/symbol layer: a bit buffer for frame assembly, percent-escaping,
//     and base-40 symbol packing (bitbuffer.go, symbol.go, const.go)
//  3. code layer: the short numeric code derivation and its digit-position
//     shuffle (shortcode.go)
//  4. barcode frame layer: build_barcode, the 89-byte authenticated message
//     (frame.go)
//  5. barcode matrix layer: encode_barcode, which appends a CRC-24, runs
//     Reed-Solomon, interleaves 2-bit colour modules, and splices in the
//     fixed alignment pattern (matrix.go, reedsolomon.go)
//  6. protocol layer: StartActivation, ContinueActivation,
//     CompleteActivation, and Transaction (protocol.go)
//
// # Basic usage
//
//	ctx := &cronto.ServiceContext{
//	    ServiceID:  1,
//	    ServiceMAC: serviceMAC,
//	    ServiceKey: serviceKey,
//	    Random:     cronto.SystemRandomSource{},
//	}
//
//	pending, err := cronto.StartActivation(ctx, nil)
//	// display pending.Barcode, read back pending.Code from the user
//
//	state, err := cronto.ContinueActivation(ctx, pending)
//	// display state.Barcode, read back the second code
//
//	salt, err := cronto.CompleteActivation(ctx, pending.Key, state, code, cronto.StrictRejectMalformedCode)
//	// salt != nil: the account is enrolled; salt == nil, err == nil: wrong code
//
// # Scope
//
// This package is deliberately a pure cryptographic/encoding pipeline. It
// does not parse configuration files, render SVGs, spawn a barcode viewer,
// or talk to a network; those live in the render package and the caurus
// command-line front end (cmd/caurus). It also performs no logging of its
// own — callers that need audit trails should log around the calls using
// the CorrelationID returned on ActivationPending, ActivationState, and
// TransactionResult.
//
// # Security considerations
//
// Key derivation, HMAC, AES-CTR, and the final code comparison in
// CompleteActivation are implemented to avoid data-dependent branching on
// secret material; CompleteActivation in particular never returns an error
// that would distinguish "malformed code" from "wrong code" — both
// collapse to a nil salt with a nil error.
package cronto
