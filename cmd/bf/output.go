package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/and161185/blogfront/internal/errs"
)

// errShown marks a failure the user has already been told about.
var errShown = errors.New("already reported")

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

// clip shortens s to n runes for table cells.
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// report turns expected failures into a notification and errShown.
// Validation messages are shown as-is; fetch failures get title and desc.
func (a *app) report(err error, title, desc string) error {
	var ve *errs.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errs.ErrUnauthorized):
		return err
	case errors.As(err, &ve):
		a.console.Error(ve.Message, "")
		return errShown
	case errors.Is(err, errs.ErrFetch):
		a.log.Debug("request failed", zap.Error(err))
		a.console.Error(title, desc)
		return errShown
	default:
		return err
	}
}

// notFound reports ErrNotFound with the page's not-found message; other
// failures go through report under loadTitle.
func (a *app) notFound(err error, loadTitle, title, desc string) error {
	if errors.Is(err, errs.ErrNotFound) {
		a.console.Error(title, desc)
		return errShown
	}
	return a.report(err, loadTitle, "Please try again later.")
}
