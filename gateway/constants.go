package gateway

// ResponseStatus is the respstat field of a transaction response.
type ResponseStatus string

const (
	StatusApproved ResponseStatus = "A"
	StatusRetry    ResponseStatus = "B"
	StatusDeclined ResponseStatus = "C"
)

// CVVResponse is the cvvresp field.
type CVVResponse string

const (
	CVVValid        CVVResponse = "M"
	CVVInvalid      CVVResponse = "N"
	CVVNotProcessed CVVResponse = "P"
	// Merchant indicated the CVV is not present on the card.
	CVVNotPresent CVVResponse = "S"
	// Issuer is not certified or has not provided encryption keys.
	CVVNotCertified CVVResponse = "U"
	CVVNoResponse   CVVResponse = "X"
)

// AVSResult groups the avsresp codes.
type AVSResult int

const (
	AVSUnknown AVSResult = iota
	// Street address and postal code verified.
	AVSSuccessful
	// Only one of street address or postal code verified.
	AVSPartiallySuccessful
	AVSUnsuccessful
	// Verification failed to run or was not attempted.
	AVSUnattempted
)

var avsResults = map[string]AVSResult{
	"Y": AVSSuccessful, "X": AVSSuccessful, "F": AVSSuccessful, "D": AVSSuccessful,
	"A": AVSPartiallySuccessful, "Z": AVSPartiallySuccessful, "W": AVSPartiallySuccessful, "P": AVSPartiallySuccessful,
	"N": AVSUnsuccessful,
	"R": AVSUnattempted, "S": AVSUnattempted, "U": AVSUnattempted, "G": AVSUnattempted, "": AVSUnattempted,
}

// ClassifyAVS maps an avsresp code to its group.
func ClassifyAVS(code string) AVSResult {
	if result, ok := avsResults[code]; ok {
		return result
	}
	return AVSUnknown
}

func (r AVSResult) String() string {
	switch r {
	case AVSSuccessful:
		return "successful"
	case AVSPartiallySuccessful:
		return "partially_successful"
	case AVSUnsuccessful:
		return "unsuccessful"
	case AVSUnattempted:
		return "unattempted"
	default:
		return "unknown"
	}
}

// SettlementStatus is the setlstat field returned by inquire.
type SettlementStatus string

const (
	SettlementAuthorized       SettlementStatus = "Authorized"
	SettlementDeclined         SettlementStatus = "Declined"
	SettlementVoided           SettlementStatus = "Voided"
	SettlementQueuedForCapture SettlementStatus = "Queued for Capture"
	SettlementRejected         SettlementStatus = "Rejected"
	SettlementAccepted         SettlementStatus = "Accepted"
	SettlementZeroAmount       SettlementStatus = "Zero amount"
	SettlementFormatError      SettlementStatus = "Format error"
	SettlementTokenDecrypt     SettlementStatus = "Token Decrypt"
	// Vantiv only; PIN debit is settled outside the batch.
	SettlementPinDebit SettlementStatus = "Pin Debit"
	// First Data North and Rapid Connect only.
	SettlementUnderReview SettlementStatus = "Amount under review"
)

// CardType is the product field of a BIN lookup.
type CardType string

const (
	CardAmex       CardType = "A"
	CardDiscover   CardType = "D"
	CardMastercard CardType = "M"
	CardNonBranded CardType = "N"
	CardVisa       CardType = "V"
)
