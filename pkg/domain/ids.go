// Package domain holds the small shared identifier types used across modules.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "treasury/pkg/domain-errors"
)

// PrincipalID identifies an authenticated caller. Identity proofing happens
// upstream; by the time a PrincipalID reaches a service it is trusted.
type PrincipalID uuid.UUID

// ParsePrincipalID parses a string into a PrincipalID.
func ParsePrincipalID(s string) (PrincipalID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return PrincipalID{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid principal id")
	}
	return PrincipalID(u), nil
}

func (p PrincipalID) String() string { return uuid.UUID(p).String() }

// IsZero reports whether the principal ID is unset.
func (p PrincipalID) IsZero() bool { return p == PrincipalID{} }

// MarshalText lets PrincipalID serve as a JSON object key and text field.
func (p PrincipalID) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses the canonical UUID form.
func (p *PrincipalID) UnmarshalText(text []byte) error {
	u, err := uuid.ParseBytes(text)
	if err != nil {
		return err
	}
	*p = PrincipalID(u)
	return nil
}

// AssetID is an opaque asset-type code ("USD", "EUR", a token symbol). The
// engine never interprets it beyond equality; amounts are minor units of
// whatever the code denotes.
type AssetID string

const maxAssetIDLen = 32

// ParseAssetID normalizes and validates an asset code.
func ParseAssetID(s string) (AssetID, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "asset id is required")
	}
	if len(s) > maxAssetIDLen {
		return "", dErrors.New(dErrors.CodeBadRequest, "asset id too long")
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return "", dErrors.New(dErrors.CodeBadRequest, "asset id must be alphanumeric")
		}
	}
	return AssetID(s), nil
}

func (a AssetID) String() string { return string(a) }
