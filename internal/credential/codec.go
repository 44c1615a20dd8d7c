// Package credential decodes Basic authorization headers and hashes and
// verifies passwords with argon2id.
package credential

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

const basicPrefix = "Basic "

// HeaderErrorKind classifies why an authorization header was rejected.
type HeaderErrorKind int

const (
	NotBasicScheme HeaderErrorKind = iota + 1
	MalformedToken
	InvalidBase64
	InvalidUTF8
	MissingSeparator
)

func (k HeaderErrorKind) String() string {
	switch k {
	case NotBasicScheme:
		return "not basic scheme"
	case MalformedToken:
		return "malformed token"
	case InvalidBase64:
		return "invalid base64"
	case InvalidUTF8:
		return "invalid utf-8"
	case MissingSeparator:
		return "missing separator"
	default:
		return "unknown"
	}
}

// Base64Reason narrows an InvalidBase64 failure.
type Base64Reason int

const (
	InvalidByte Base64Reason = iota + 1
	InvalidLength
	InvalidLastSymbol
)

func (r Base64Reason) String() string {
	switch r {
	case InvalidByte:
		return "invalid byte"
	case InvalidLength:
		return "invalid length"
	case InvalidLastSymbol:
		return "invalid last symbol"
	default:
		return "unknown"
	}
}

// Base64Detail pinpoints a base64 failure. Index and Byte are unset for InvalidLength.
type Base64Detail struct {
	Reason Base64Reason
	Index  int
	Byte   byte
}

// HeaderError is returned by ParseBasic.
type HeaderError struct {
	Kind   HeaderErrorKind
	Base64 *Base64Detail
}

func (e *HeaderError) Error() string {
	if e.Kind == InvalidBase64 && e.Base64 != nil {
		if e.Base64.Reason == InvalidLength {
			return "authorization header: invalid base64: invalid length"
		}
		return fmt.Sprintf("authorization header: invalid base64: %s %q at offset %d",
			e.Base64.Reason, e.Base64.Byte, e.Base64.Index)
	}
	return "authorization header: " + e.Kind.String()
}

// Is matches another *HeaderError of the same kind, so callers can write
// errors.Is(err, &HeaderError{Kind: MissingSeparator}).
func (e *HeaderError) Is(target error) bool {
	var t *HeaderError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Base64 == nil || (e.Base64 != nil && *t.Base64 == *e.Base64))
}

// Credential is a username and plaintext password taken from a request.
type Credential struct {
	Username string
	Password string
}

// String keeps the password out of fmt output.
func (c Credential) String() string {
	return fmt.Sprintf("Credential{Username: %q, Password: <redacted>}", c.Username)
}

// LogValue keeps the password out of slog output.
func (c Credential) LogValue() slog.Value {
	return slog.GroupValue(slog.String("username", c.Username))
}

// EncodeBasic builds the header value ParseBasic accepts.
func EncodeBasic(username, password string) string {
	return basicPrefix + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// ParseBasic decodes `Basic <base64(username:password)>`. The first colon
// splits the pair; the password may contain more. Nothing is trimmed.
func ParseBasic(header string) (Credential, error) {
	token, ok := strings.CutPrefix(header, basicPrefix)
	if !ok {
		return Credential{}, &HeaderError{Kind: NotBasicScheme}
	}
	if token == "" || strings.Contains(token, " ") {
		return Credential{}, &HeaderError{Kind: MalformedToken}
	}

	raw, err := decodeStdBase64(token)
	if err != nil {
		return Credential{}, err
	}
	if !utf8.Valid(raw) {
		return Credential{}, &HeaderError{Kind: InvalidUTF8}
	}

	username, password, found := strings.Cut(string(raw), ":")
	if !found {
		return Credential{}, &HeaderError{Kind: MissingSeparator}
	}
	return Credential{Username: username, Password: password}, nil
}

const stdAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// decodeStdBase64 decodes padded standard base64, classifying failures by
// the leftmost invalid byte, then length, then non-canonical trailing bits.
func decodeStdBase64(s string) ([]byte, error) {
	padStart := len(s)
	for padStart > 0 && s[padStart-1] == '=' {
		padStart--
	}
	for i := 0; i < padStart; i++ {
		if strings.IndexByte(stdAlphabet, s[i]) < 0 {
			return nil, invalidBase64(InvalidByte, i, s[i])
		}
	}

	pad := len(s) - padStart
	if len(s)%4 != 0 || pad > 2 {
		return nil, &HeaderError{Kind: InvalidBase64, Base64: &Base64Detail{Reason: InvalidLength}}
	}

	if pad > 0 {
		last := padStart - 1
		value := strings.IndexByte(stdAlphabet, s[last])
		mask := 0x0f
		if pad == 1 {
			mask = 0x03
		}
		if value&mask != 0 {
			return nil, invalidBase64(InvalidLastSymbol, last, s[last])
		}
	}

	out, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		var corrupt base64.CorruptInputError
		if errors.As(err, &corrupt) && int(corrupt) < len(s) {
			return nil, invalidBase64(InvalidByte, int(corrupt), s[int(corrupt)])
		}
		return nil, &HeaderError{Kind: InvalidBase64, Base64: &Base64Detail{Reason: InvalidLength}}
	}
	return out, nil
}

func invalidBase64(reason Base64Reason, index int, b byte) *HeaderError {
	return &HeaderError{Kind: InvalidBase64, Base64: &Base64Detail{Reason: reason, Index: index, Byte: b}}
}
