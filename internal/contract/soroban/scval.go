package soroban

import (
	"fmt"
	"strings"
	"unicode"

	"dappshell/internal/contract"

	"github.com/stellar/go/xdr"
)

// FunctionName converts a camelCase method name to the snake_case symbol
// Soroban contracts export.
func FunctionName(method string) string {
	var b strings.Builder
	for i, r := range method {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// scValToValue converts the scalar ScVal kinds to a Value
func scValToValue(val xdr.ScVal) contract.Value {
	switch val.Type {
	case xdr.ScValTypeScvVoid:
		return contract.Value{}
	case xdr.ScValTypeScvBool:
		b := val.MustB()
		return contract.Value{Raw: b, Display: fmt.Sprint(b)}
	case xdr.ScValTypeScvU32:
		v := uint32(val.MustU32())
		return contract.Value{Raw: v, Display: fmt.Sprint(v)}
	case xdr.ScValTypeScvI32:
		v := int32(val.MustI32())
		return contract.Value{Raw: v, Display: fmt.Sprint(v)}
	case xdr.ScValTypeScvU64:
		v := uint64(val.MustU64())
		return contract.Value{Raw: v, Display: fmt.Sprint(v)}
	case xdr.ScValTypeScvI64:
		v := int64(val.MustI64())
		return contract.Value{Raw: v, Display: fmt.Sprint(v)}
	case xdr.ScValTypeScvSymbol:
		s := string(val.MustSym())
		return contract.Value{Raw: s, Display: s}
	case xdr.ScValTypeScvString:
		s := string(val.MustStr())
		return contract.Value{Raw: s, Display: s}
	default:
		return contract.Value{Display: val.Type.String()}
	}
}
