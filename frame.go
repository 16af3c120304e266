package cronto

// buildBarcode encrypts a 60-byte plaintext under encKey, assembles the
// 712-bit (89-byte) frame (version, type, service id, account, MAC
// placeholder, ciphertext), then overwrites the MAC placeholder with the
// truncated HMAC of the zero-MAC'd message computed under macKey.
//
// plaintext must already be exactly 60 bytes -- callers (protocol.go) are
// responsible for right-padding a raw byte payload or serializing a bit
// payload to that width, since the padding rule differs between the two
// payload shapes a caller can produce.
func buildBarcode(opType OperationType, account int, plaintext, encKey, macKey []byte, ctx *ServiceContext) ([]byte, error) {
	if len(plaintext) != 60 {
		return nil, NewProtocolError("build_barcode", "plaintext must be exactly 60 bytes")
	}
	if err := ValidateAccountNumber(account); err != nil {
		return nil, err
	}

	encrypted, err := aesCTREncrypt(encKey, plaintext, ctx)
	if err != nil {
		return nil, NewCryptoError("build_barcode", err)
	}
	if len(encrypted) != 76 {
		return nil, NewProtocolError("build_barcode", "encrypted payload is not 76 bytes")
	}

	bits := NewBitBuffer()
	bits.AppendUint(uint64(protocolVersion), 8)
	bits.AppendUint(uint64(opType), 4)
	bits.AppendUint(uint64(ctx.ServiceID), 6)
	bits.AppendUint(uint64(account), 25)
	bits.AppendBool(true)
	bits.AppendZeros(64)
	bits.AppendBytes(encrypted, 604)

	if bits.Len() != 712 {
		return nil, NewProtocolError("build_barcode", "assembled message is not 712 bits")
	}

	message := bits.Bytes()
	mac := hmacSHA256(macKey, message)
	bits.Overwrite(mac[:8], 44)

	return bits.Bytes(), nil
}

// frameNonce extracts the 16-byte AES-CTR nonce embedded in a frame: bits
// [108, 108+128), i.e. the first 16 bytes of the encrypted field that
// follows the 108-bit header (8+4+6+25+1+64).
func frameNonce(frame []byte) []byte {
	return sliceBits(frame, 108, 128)
}

// padPayloadBytes right-pads a raw byte payload to the 60-byte plaintext
// width buildBarcode requires, rejecting payloads over 59 bytes (the 60th
// byte of plaintext is always the zero pad byte).
func padPayloadBytes(payload []byte) ([]byte, error) {
	if err := ValidatePayloadLen(payload); err != nil {
		return nil, err
	}
	out := make([]byte, 60)
	copy(out, payload)
	return out, nil
}
