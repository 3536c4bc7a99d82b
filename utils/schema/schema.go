package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jxskiss/base62"

	"github.com/shopmesh/shopmesh/internal/errs"
)

const (
	// NamePrefix keeps generated schema names valid Postgres identifiers even
	// when the encoded tenant identifier starts with a digit.
	NamePrefix = "_"
)

var (
	ErrEmptyTenantID      = errors.New("tenant ID cannot be empty")
	ErrEncodedNameLength  = errors.New("encoded schema name must be between 3 and 62 characters")
	ErrDecodingSchemaName = errors.New("error decoding schema name")
)

// EncodeName derives the tenant schema name from the tenant identifier using
// base62 encoding, prefixed with NamePrefix. The derivation is deterministic:
// the same tenant always maps to the same schema.
//
// Postgresql allows max 63 bytes for schema names; base62 output is ASCII so
// length equals byte size.
func EncodeName(tenantID string) (string, error) {
	if tenantID == "" {
		return "", ErrEmptyTenantID
	}

	encoded := base62.EncodeToString([]byte(tenantID))
	if len(encoded) < 3 || len(encoded) > 62 {
		return "", fmt.Errorf("%w got %d", ErrEncodedNameLength, len(encoded))
	}

	return NamePrefix + encoded, nil
}

// DecodeName recovers the tenant identifier from a schema name produced by
// EncodeName.
func DecodeName(encoded string) (string, error) {
	result := strings.TrimPrefix(encoded, NamePrefix)

	decodedBytes, err := base62.DecodeString(result)
	if err != nil {
		return "", errs.Wrap(ErrDecodingSchemaName, err)
	}

	return string(decodedBytes), nil
}
