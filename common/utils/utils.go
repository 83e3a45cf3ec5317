package utils

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common"
	"market/common/types"
)

// ParsePage Parsing pagination parameters, maximum 100 records, default return 10 records on page 1
func ParsePage(pagePtr, sizePtr *int) (int, int, error) {
	page, size := 1, 10
	if pagePtr != nil {
		if *pagePtr <= 0 {
			return 0, 0, fmt.Errorf("page must be greater than 0")
		}
		page = *pagePtr
	}
	if sizePtr != nil {
		if *sizePtr <= 0 || *sizePtr > 100 {
			return 0, 0, fmt.Errorf("page_size must be between 1 and 100")
		}
		size = *sizePtr
	}
	return page, size, nil
}

// ParseAddress verifies a 0x-prefixed hexadecimal account address and normalizes it to lowercase
func ParseAddress(hexAddr string) (types.Address, error) {
	if !common.IsHexAddress(hexAddr) {
		return "", fmt.Errorf("illegal address: %v", hexAddr)
	}
	return types.Address(strings.ToLower(common.HexToAddress(hexAddr).Hex())), nil
}

// dateMsg the admin message of the day, signatures are only valid on the UTC day they were made
func dateMsg() string {
	return time.Now().UTC().Format("20060102")
}

// SignDate signs the current UTC date, the result authenticates admin calls for one day
func SignDate(prv *secp256k1.PrivateKey) (string, error) {
	msg := dateMsg()
	msg = fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(msg), msg)
	sig, err := Sign(Keccak256([]byte(msg)), prv)
	if err != nil {
		return "", err
	}
	sig[64] += 27
	return "0x" + hex.EncodeToString(sig), nil
}

// VerifyDateSig checks that the signature over the current UTC date was made by addr
func VerifyDateSig(hexSig string, addr types.Address) bool {
	recovered, err := RecoverAddress(dateMsg(), hexSig)
	return err == nil && recovered == addr
}
