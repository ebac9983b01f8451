// Copyright (c) 2026 Keymaster Team
// Voterslip - voter lookup and slip printing
// This source code is licensed under the MIT license found in the LICENSE file.

// Package dispatch hands a rendered slip to whatever will print it: the
// default browser, or a thermal-printer helper app registered for a custom
// URL scheme.
package dispatch

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"

	"github.com/toeirei/voterslip/internal/logging"
	"github.com/toeirei/voterslip/internal/model"
)

// DefaultScheme is the URL scheme of the RawBT print service.
const DefaultScheme = "rawbt"

var (
	// ErrCouldNotOpen is returned when the platform refused to open the URL.
	ErrCouldNotOpen = errors.New("could not open print target")
	// ErrUnknownChannel is returned for a channel outside the known set.
	ErrUnknownChannel = errors.New("unknown print channel")
)

// URLOpener launches a URL with the platform's registered handler.
type URLOpener interface {
	OpenURL(u string) error
}

// BrowserOpener opens URLs through the operating system.
type BrowserOpener struct{}

// OpenURL implements URLOpener.
func (BrowserOpener) OpenURL(u string) error {
	return browser.OpenURL(u)
}

// Options configures a Dispatcher.
type Options struct {
	// Scheme is the print service URL scheme. Defaults to DefaultScheme.
	Scheme string
	// Opener launches URLs. Defaults to BrowserOpener.
	Opener URLOpener
	// CopyOnFailure puts the URL on the clipboard when opening fails.
	CopyOnFailure bool
	// OnError is called with every dispatch failure.
	OnError func(error)
}

// Dispatcher turns documents into launchable URLs.
type Dispatcher struct {
	scheme        string
	opener        URLOpener
	copyOnFailure bool
	onError       func(error)
	// copyFn is swapped out in tests.
	copyFn func(string) error
}

// New returns a Dispatcher for opts.
func New(opts Options) *Dispatcher {
	d := &Dispatcher{
		scheme:        strings.TrimSuffix(strings.TrimSpace(opts.Scheme), ":"),
		opener:        opts.Opener,
		copyOnFailure: opts.CopyOnFailure,
		onError:       opts.OnError,
		copyFn:        clipboard.WriteAll,
	}
	if d.scheme == "" {
		d.scheme = DefaultScheme
	}
	if d.opener == nil {
		d.opener = BrowserOpener{}
	}
	return d
}

// Scheme returns the configured print service scheme.
func (d *Dispatcher) Scheme() string { return d.scheme }

// BuildURL encodes document for channel without launching anything.
func (d *Dispatcher) BuildURL(document string, channel model.Channel) (string, error) {
	return BuildURL(document, channel, d.scheme)
}

// BuildURL encodes document for channel using the given service scheme.
//
//	browser: data:text/html;base64,<b64>
//	service: <scheme>:data:text/html;base64,<b64>
//	text:    <scheme>:<percent-encoded text>
func BuildURL(document string, channel model.Channel, scheme string) (string, error) {
	if scheme == "" {
		scheme = DefaultScheme
	}
	switch channel {
	case model.ChannelBrowser:
		return htmlDataURI(document), nil
	case model.ChannelService:
		return scheme + ":" + htmlDataURI(document), nil
	case model.ChannelText:
		return scheme + ":" + escapeText(document), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownChannel, channel)
	}
}

// escapeText percent-encodes every byte outside the unreserved set, spaces
// included, so the payload survives both path and form decoding.
func escapeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func htmlDataURI(document string) string {
	return "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(document))
}

// Dispatch builds the URL for channel and asks the platform to open it.
// A launch failure never escapes as a panic; it is returned wrapping
// ErrCouldNotOpen and reported through OnError.
func (d *Dispatcher) Dispatch(document string, channel model.Channel) error {
	u, err := d.BuildURL(document, channel)
	if err != nil {
		d.report(err)
		return err
	}
	logging.Debugf("dispatch %s: %d byte URL", channel, len(u))

	if err = d.open(u); err == nil {
		return nil
	}
	err = fmt.Errorf("%w: %v", ErrCouldNotOpen, err)
	if d.copyOnFailure && d.copyFn != nil {
		if cerr := d.copyFn(u); cerr != nil {
			logging.Warnf("copy print URL to clipboard: %v", cerr)
		} else {
			logging.Infof("print URL copied to clipboard")
		}
	}
	d.report(err)
	return err
}

func (d *Dispatcher) open(u string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("opener panicked: %v", r)
		}
	}()
	return d.opener.OpenURL(u)
}

func (d *Dispatcher) report(err error) {
	logging.Warnf("dispatch: %v", err)
	if d.onError != nil {
		d.onError(err)
	}
}
