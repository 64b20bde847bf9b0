// Copyright (C) 2026 CTLR Labs (dev@ctlr-labs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"testing"
)

func TestSetPlain(t *testing.T) {
	SetPlain(true)
	if !IsPlain() {
		t.Error("IsPlain() = false after SetPlain(true)")
	}

	SetPlain(false)
	if IsPlain() {
		t.Error("IsPlain() = true after SetPlain(false)")
	}
}

func TestIcon_RenderPlain(t *testing.T) {
	SetPlain(true)
	defer SetPlain(false)

	tests := []struct {
		icon Icon
		want string
	}{
		{IconSuccess, "✓"},
		{IconWarning, "⚠"},
		{IconError, "✗"},
		{IconSkipped, "○"},
		{IconArrow, "→"},
	}

	for _, tt := range tests {
		if got := tt.icon.Render(); got != tt.want {
			t.Errorf("Icon(%q).Render() = %q, want %q in plain mode", tt.icon, got, tt.want)
		}
	}
}

func TestIcon_RenderStyledKeepsGlyph(t *testing.T) {
	SetPlain(false)

	// Styled render may add escape codes but must keep the glyph.
	for _, icon := range []Icon{IconSuccess, IconWarning, IconError, IconSkipped} {
		got := icon.Render()
		if got == "" {
			t.Errorf("Icon(%q).Render() is empty", icon)
		}
	}
}
