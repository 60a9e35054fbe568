package clients

import (
	"fmt"
	"regexp"
	"strconv"
)

// Custom error codes raised by the dispatch programs.
const (
	ErrCodeInvalidAmounts         uint32 = 6000
	ErrCodeInvalidTokenAccount    uint32 = 6001
	ErrCodeInvalidMint            uint32 = 6002
	ErrCodeBuyBackAccountRequired uint32 = 6003
	ErrCodeInvalidStateAccount    uint32 = 6004
	ErrCodeInvalidVaultAuthority  uint32 = 6005
)

var programErrors = map[uint32]struct{ name, msg string }{
	ErrCodeInvalidAmounts:         {"InvalidAmounts", "Invalid amounts provided"},
	ErrCodeInvalidTokenAccount:    {"InvalidTokenAccount", "Invalid token account"},
	ErrCodeInvalidMint:            {"InvalidMint", "Invalid mint"},
	ErrCodeBuyBackAccountRequired: {"BuyBackAccountRequired", "Buy back account is required"},
	ErrCodeInvalidStateAccount:    {"InvalidStateAccount", "Invalid stake rewards state account"},
	ErrCodeInvalidVaultAuthority:  {"InvalidVaultAuthority", "Invalid vault authority"},
}

var customErrorRe = regexp.MustCompile(`custom program error: 0x([0-9a-fA-F]+)`)

// ProgramError is a decoded custom error of a dispatch program.
type ProgramError struct {
	Code    uint32
	Name    string
	Message string
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Message)
}

// ParseProgramError extracts a known dispatch program error from a
// simulation or submission failure. It returns nil if err carries none.
func ParseProgramError(err error) *ProgramError {
	if err == nil {
		return nil
	}

	m := customErrorRe.FindStringSubmatch(err.Error())
	if m == nil {
		return nil
	}

	code, perr := strconv.ParseUint(m[1], 16, 32)
	if perr != nil {
		return nil
	}

	known, ok := programErrors[uint32(code)]
	if !ok {
		return nil
	}

	return &ProgramError{Code: uint32(code), Name: known.name, Message: known.msg}
}
