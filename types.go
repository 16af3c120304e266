package cronto

import "github.com/google/uuid"

// OperationType identifies the kind of barcode frame being built. It is
// carried in the frame's 4-bit type nibble (see frame.go).
type OperationType uint8

const (
	// OpTransaction authorizes a transaction with a displayed message.
	OpTransaction OperationType = 0
	// OpActivationStart is the first barcode of the activation ceremony.
	OpActivationStart OperationType = 1
	// OpActivationContinue is the second barcode of the activation ceremony.
	OpActivationContinue OperationType = 2
)

// protocolVersion is embedded in every frame's version byte.
const protocolVersion = 3

// Strictness controls whether CompleteActivation rejects a code whose
// recovered low bits don't match the expected marker.
type Strictness bool

const (
	// StrictRejectMalformedCode fails CompleteActivation when the code's
	// recovered low-order bits don't encode the expected marker.
	StrictRejectMalformedCode Strictness = true
	// LenientAcceptMalformedCode never enforces the marker, accepting any
	// code that otherwise verifies.
	LenientAcceptMalformedCode Strictness = false
)

// ServiceContext holds the identity and keys of the verifying party, plus
// its capability to draw random bytes. It is built once from configuration
// (configuration loading itself is a host concern, out of scope here) and
// is read-only for the lifetime of every operation it's passed to.
type ServiceContext struct {
	// ServiceID identifies the service to the client device. Must fit in
	// 6 bits (0-63).
	ServiceID uint8
	// ServiceMAC is the 16-byte key used to authenticate activation-start
	// barcodes.
	ServiceMAC []byte
	// ServiceKey is the 16-byte key used to encrypt activation-start
	// barcodes.
	ServiceKey []byte
	// Random is the CSPRNG capability used for nonces, ids, and keys.
	Random RandomSource
}

// Validate checks that the context's fixed-size fields and service id are
// well-formed.
func (c *ServiceContext) Validate() error {
	if c == nil {
		return NewValidationError("context", nil, "service context cannot be nil")
	}
	if c.ServiceID > 63 {
		return NewValidationError("service_id", c.ServiceID, "must fit in 6 bits (0-63)")
	}
	if err := ValidateKeySize(c.ServiceMAC, 16, "service_mac"); err != nil {
		return err
	}
	if err := ValidateKeySize(c.ServiceKey, 16, "service_key"); err != nil {
		return err
	}
	if c.Random == nil {
		return NewValidationError("random", nil, "random source cannot be nil")
	}
	return nil
}

// Account is a client device enrolled against a service, produced by a
// completed activation ceremony and consumed by Transaction.
type Account struct {
	// Number identifies the account within the service (0-1023).
	Number int
	// ID is the account's 16-byte device identifier.
	ID []byte
	// Key is the account's 16-byte master key, from which per-purpose
	// keys are derived (see kdf.go).
	Key []byte
	// Salt is the 18-byte salt bound to this account by
	// CompleteActivation, required by Transaction.
	Salt []byte
}

// ActivationPending is returned by StartActivation: the id and key the
// client will later confirm it holds, and the account number the barcode
// was issued for.
type ActivationPending struct {
	Account int
	ID      []byte
	Key     []byte
	// Code is the 7-digit code the client device is expected to display;
	// the host must read it back from the user and compare it itself
	// (StartActivation does not do this, since there's nothing secret
	// to protect yet -- it's the very first code of the ceremony).
	Code string
	// Barcode is the 2-bit colour module sequence to render.
	Barcode []byte
	// CorrelationID identifies this operation for the host's own logger or
	// tracer to key on. The core never logs itself; this is the handle it
	// hands back so the host can.
	CorrelationID uuid.UUID
}

// ActivationState is returned by ContinueActivation and consumed by
// CompleteActivation. SaltServer is folded into the account's final salt;
// Frame is the pre-matrix barcode frame needed to recompute the expected
// code.
type ActivationState struct {
	SaltServer    []byte
	Frame         []byte
	Barcode       []byte
	CorrelationID uuid.UUID
}

// TransactionResult is Transaction's return value: the short code the user
// transcribes, the barcode to render, and a correlation id for the host's
// own logging.
type TransactionResult struct {
	Code          string
	Barcode       []byte
	CorrelationID uuid.UUID
}

// Style marks a StyledMessage cell for display emphasis on the client.
type Style byte

const (
	// StyleNone renders the cell with no special emphasis.
	StyleNone  Style = 0
	StyleBold  Style = 'S'
	StyleBlack Style = 'K'
	StyleBlue  Style = 'B'
	StyleGreen Style = 'G'
	StyleRed   Style = 'R'
)

// Cell is one piece of text in a transaction message, with an optional
// display style.
type Cell struct {
	Text  string
	Style Style
}

// Row is an ordered list of cells rendered on one line, joined with "=".
type Row []Cell

// StyledMessage is the transaction message shown to the user, rendered as
// rows joined with "&" and cells within a row joined with "=".
type StyledMessage []Row

// PlainCell is a convenience constructor for an unstyled cell.
func PlainCell(text string) Cell {
	return Cell{Text: text}
}

// PlainRow builds a Row of unstyled cells from plain strings.
func PlainRow(cells ...string) Row {
	row := make(Row, len(cells))
	for i, c := range cells {
		row[i] = PlainCell(c)
	}
	return row
}
