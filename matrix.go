package cronto

// encodeBarcode turns an 89-byte frame into the final colour module
// sequence: it appends a CRC-24 to the frame, Reed-Solomon encodes the
// resulting 92 bytes to 142, expands each byte into four 2-bit colour
// modules, forces the module at index 565 to blank, and splices in the
// fixed alignment pattern to produce the output sequence.
func encodeBarcode(frame []byte) ([]byte, error) {
	checked := append(append([]byte{}, frame...), crc24(frame)...)
	if err := ValidateFrameSize(len(checked)); err != nil {
		return nil, err
	}

	codeword := rsEncode(checked, eccSymbols, rsFCR)
	if len(codeword) != blockSize {
		return nil, NewProtocolError("encode_barcode", "Reed-Solomon codeword is not 142 bytes")
	}

	data := make([]byte, 0, blockSize*4)
	for _, b := range codeword {
		data = append(data, (b>>6)&0b11, (b>>4)&0b11, (b>>2)&0b11, b&0b11)
	}
	data[len(data)-3] = 0

	modules := make([]byte, 0, len(data)+alignmentModuleCount())
	pos := 0
	for _, entry := range alignmentTable {
		modules = append(modules, entry.pattern...)
		modules = append(modules, data[pos:pos+entry.take]...)
		pos += entry.take
	}

	return modules, nil
}

func alignmentModuleCount() int {
	n := 0
	for _, entry := range alignmentTable {
		n += len(entry.pattern)
	}
	return n
}
