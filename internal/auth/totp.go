// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"encoding/base64"
	"fmt"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// Issuer is shown by authenticator apps next to the account name.
const Issuer = "AutoParc"

// Enrollment is a freshly generated TOTP secret with its QR code.
type Enrollment struct {
	Secret string `json:"secret"`
	QRCode string `json:"qrCode"` // base64 PNG
}

// NewEnrollment generates a TOTP secret for account (usually the email).
func NewEnrollment(account string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      Issuer,
		AccountName: account,
	})
	if err != nil {
		return nil, fmt.Errorf("totp generate: %w", err)
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}

	return &Enrollment{
		Secret: key.Secret(),
		QRCode: base64.StdEncoding.EncodeToString(png),
	}, nil
}

// ValidateCode checks a 6-digit code against secret for the current period.
func ValidateCode(code, secret string) bool {
	if code == "" || secret == "" {
		return false
	}
	return totp.Validate(code, secret)
}
