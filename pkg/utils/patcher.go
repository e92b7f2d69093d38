package utils

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"
)

// Patch remembers which JSON keys a partial update actually carried, so that
// an absent key and an explicit null can be told apart.
type Patch struct {
	sent map[string]bool
}

func NewPatch(fields ...string) Patch {
	p := Patch{sent: make(map[string]bool, len(fields))}
	for _, f := range fields {
		p.sent[f] = true
	}
	return p
}

func (p *Patch) SetSentFields(fields map[string]bool) { p.sent = fields }

// Has reports whether the key was present in the request body.
func (p Patch) Has(field string) bool { return p.sent[field] }

// Sent reports whether a field should be applied: it has a value or was explicitly nulled.
func (p Patch) Sent(valid bool, field string) bool { return valid || p.sent[field] }

type patchTarget interface {
	SetSentFields(map[string]bool)
}

// BindPatch decodes the body into dst and records the keys that were sent.
func BindPatch(c echo.Context, dst patchTarget) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	c.Request().Body = io.NopCloser(bytes.NewReader(raw))

	var sentFields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sentFields); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return err
	}

	fields := make(map[string]bool, len(sentFields))
	for k := range sentFields {
		fields[k] = true
	}
	dst.SetSentFields(fields)
	return nil
}
