// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"fmt"
	"strings"
)

// Style selects the document variant produced by the slip renderer.
type Style string

const (
	// StyleRich is a standalone HTML document with inlined CSS and image.
	StyleRich Style = "rich"
	// StylePlain is a condensed line-oriented text for thermal printers.
	StylePlain Style = "plain"
)

// Channel selects where a rendered document is sent.
type Channel string

const (
	// ChannelBrowser opens the document as a data: URI in the default browser.
	ChannelBrowser Channel = "browser"
	// ChannelService hands a data: URI to the printer helper app scheme.
	ChannelService Channel = "service"
	// ChannelText hands percent-encoded text to the printer helper app scheme.
	ChannelText Channel = "text"
)

// Collation controls how name substrings are compared by the store.
type Collation string

const (
	// CollationEngine leaves comparison to the storage engine's LIKE.
	CollationEngine Collation = "engine"
	// CollationNoCase lower-cases both sides before comparing.
	CollationNoCase Collation = "nocase"
)

// ParseStyle maps a user-supplied name to a Style. "html" and "markup" are
// accepted as aliases.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rich", "html":
		return StyleRich, nil
	case "plain", "markup", "text":
		return StylePlain, nil
	}
	return "", fmt.Errorf("unknown slip style %q", s)
}

// ParseChannel maps a user-supplied name to a Channel.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "browser":
		return ChannelBrowser, nil
	case "service", "printer":
		return ChannelService, nil
	case "text", "raw":
		return ChannelText, nil
	}
	return "", fmt.Errorf("unknown print channel %q", s)
}

// ParseCollation maps a configuration value to a Collation.
func ParseCollation(s string) (Collation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "engine":
		return CollationEngine, nil
	case "nocase":
		return CollationNoCase, nil
	}
	return "", fmt.Errorf("unknown collation %q", s)
}

// DefaultStyle returns the document style that suits a channel.
func (c Channel) DefaultStyle() Style {
	if c == ChannelText {
		return StylePlain
	}
	return StyleRich
}
