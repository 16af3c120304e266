package cronto

import (
	"crypto/subtle"
	"encoding/binary"
	"strings"

	"github.com/google/uuid"
)

// StartActivation begins the device activation ceremony: it draws a
// fresh device id and key, builds the activation-start barcode frame
// under the service's own keys, and derives the 7-digit code the client
// device is expected to display. If account is nil, an account number is
// drawn uniformly from [0, 1024).
func StartActivation(ctx *ServiceContext, account *int) (*ActivationPending, error) {
	if err := ctx.Validate(); err != nil {
		return nil, err
	}

	acct, err := resolveAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	id, err := randomBytes(ctx, 16)
	if err != nil {
		return nil, err
	}
	key, err := randomBytes(ctx, 16)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, 33)
	payload = append(payload, key...)
	payload = append(payload, id...)
	payload = append(payload, 0x00)

	plaintext, err := padPayloadBytes(payload)
	if err != nil {
		return nil, err
	}
	frame, err := buildBarcode(OpActivationStart, acct, plaintext, ctx.ServiceKey, ctx.ServiceMAC, ctx)
	if err != nil {
		return nil, err
	}

	kres := derive(key, "KRES", "", 16)

	bData := NewBitBufferFromBytes(frame)
	bData.OverwriteZeros(44, bData.Len()-44)
	bData.AppendUint(2, 16)
	b := hmacSHA256(kres, bData.Bytes())

	code := codeValue(nil, b, 3, 2, 7)
	shuffled := shuffleCode(code, 7)

	modules, err := encodeBarcode(frame)
	if err != nil {
		return nil, err
	}

	return &ActivationPending{
		Account:       acct,
		ID:            id,
		Key:           key,
		Code:          shuffled,
		Barcode:       modules,
		CorrelationID: uuid.New(),
	}, nil
}

func resolveAccount(ctx *ServiceContext, account *int) (int, error) {
	if account == nil {
		v, err := ctx.Random.Uint(10)
		if err != nil {
			return 0, err
		}
		return int(v.Int64()), nil
	}
	if err := ValidateAccountNumber(*account); err != nil {
		return 0, err
	}
	return *account, nil
}

// ContinueActivation is the activation ceremony's second step: it draws
// the server's half of the account salt, builds the activation-continue
// frame under the pending device's own keys, and returns the state
// CompleteActivation needs alongside the barcode to render.
func ContinueActivation(ctx *ServiceContext, pending *ActivationPending) (*ActivationState, error) {
	if err := ctx.Validate(); err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, NewValidationError("pending", nil, "activation state cannot be nil")
	}
	if err := ValidateKeySize(pending.ID, 16, "pending.id"); err != nil {
		return nil, err
	}
	if err := ValidateKeySize(pending.Key, 16, "pending.key"); err != nil {
		return nil, err
	}

	saltServer, err := randomBytes(ctx, 16)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, 32)
	payload = append(payload, saltServer...)
	payload = append(payload, pending.ID...)

	accountKey := derive(pending.Key, "KENC", "", 16)
	accountMAC := derive(pending.Key, "KMAC", "", 16)

	plaintext, err := padPayloadBytes(payload)
	if err != nil {
		return nil, err
	}
	frame, err := buildBarcode(OpActivationContinue, pending.Account, plaintext, accountKey, accountMAC, ctx)
	if err != nil {
		return nil, err
	}

	modules, err := encodeBarcode(frame)
	if err != nil {
		return nil, err
	}

	return &ActivationState{
		SaltServer:    saltServer,
		Frame:         frame,
		Barcode:       modules,
		CorrelationID: uuid.New(),
	}, nil
}

// CompleteActivation is the activation ceremony's final step: it
// deshuffles the user-supplied code, recovers the code's embedded nonce
// seed, and recomputes the expected code under a constant-time
// comparison. On success it returns the account's final 18-byte salt; on
// failure it returns (nil, nil) -- a negative verification result, not an
// error, so a caller can't mistake "wrong code" for a system fault by
// checking only for a non-nil error.
func CompleteActivation(ctx *ServiceContext, key []byte, state *ActivationState, code string, strictness Strictness) ([]byte, error) {
	if err := ctx.Validate(); err != nil {
		return nil, err
	}
	if state == nil {
		return nil, NewValidationError("state", nil, "activation state cannot be nil")
	}
	if err := ValidateKeySize(key, 16, "key"); err != nil {
		return nil, err
	}
	if len(code) != 7 {
		return nil, NewValidationError("code", code, "must be exactly 7 digits")
	}

	submitted := deshuffleCode(code)
	a := frameNonce(state.Frame)

	c := codeC(submitted, a, 13, 7)
	if strictness == StrictRejectMalformedCode && c%8 != 2 {
		return nil, nil
	}
	seed := c / 8

	salt := make([]byte, 2, 18)
	binary.BigEndian.PutUint16(salt, uint16(seed))
	salt = append(salt, state.SaltServer...)

	kder := derive(key, "KDER", "", 16)
	kdres := derive(kder, "KDRES", string(salt), 16)

	cBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(cBytes, uint16(c))
	message := append(append([]byte{}, state.Frame...), cBytes...)
	b := hmacSHA256(kdres, message)

	expected := codeValue(a, b, 13, int(c), 7)

	if subtle.ConstantTimeEq(int32(expected), int32(submitted)) == 0 {
		return nil, nil
	}
	return salt, nil
}

// Transaction authorizes a single transaction: it normalizes and packs
// the styled message, builds a transaction barcode under the account's
// derived keys bound to its salt, and returns the 6-digit code alongside
// the barcode to render.
func Transaction(ctx *ServiceContext, account *Account, salt []byte, message StyledMessage) (*TransactionResult, error) {
	if err := ctx.Validate(); err != nil {
		return nil, err
	}
	if account == nil {
		return nil, NewValidationError("account", nil, "account cannot be nil")
	}
	if err := ValidateAccountNumber(account.Number); err != nil {
		return nil, err
	}
	if err := ValidateKeySize(account.Key, 16, "account.key"); err != nil {
		return nil, err
	}
	if err := ValidateKeySize(salt, 18, "salt"); err != nil {
		return nil, err
	}

	packed, err := packMessage(message)
	if err != nil {
		return nil, err
	}

	bits := NewBitBuffer()
	bits.AppendBool(false)
	bits.AppendZeros(11)
	bits.AppendBytes(packed, len(packed)*8)
	if err := ValidatePayloadBits(bits.Len()); err != nil {
		return nil, err
	}

	kenc := derive(account.Key, "KENC", "", 16)
	kmac := derive(account.Key, "KMAC", "", 16)
	kder := derive(account.Key, "KDER", "", 16)
	kdres := derive(kder, "KDRES", string(salt), 16)

	frame, err := buildBarcode(OpTransaction, account.Number, bits.Bytes(), kenc, kmac, ctx)
	if err != nil {
		return nil, err
	}

	a := frameNonce(frame)
	const c = 3
	cBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(cBytes, uint16(c))
	b := hmacSHA256(kdres, append(append([]byte{}, frame...), cBytes...))

	code := shuffleCode(codeValue(a, b, 2, c, 6), 6)

	modules, err := encodeBarcode(frame)
	if err != nil {
		return nil, err
	}

	return &TransactionResult{
		Code:          code,
		Barcode:       modules,
		CorrelationID: uuid.New(),
	}, nil
}

// packMessage normalizes a styled message for display: upper-case and
// percent-escape every cell, prefix a styled cell with "%%S", join cells
// within a row with "=", join rows with "&", then base-40 pack the result
// to the 58-byte target width.
func packMessage(message StyledMessage) ([]byte, error) {
	rows := make([]string, 0, len(message))
	for _, row := range message {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			text := escape(strings.ToUpper(cell.Text))
			if cell.Style != StyleNone {
				text = "%%" + string(rune(cell.Style)) + text
			}
			cells = append(cells, text)
		}
		rows = append(rows, strings.Join(cells, "="))
	}
	joined := strings.Join(rows, "&")
	return packPadString(joined, 3, ' ', 58)
}
