package fetcher

import "fmt"

// UnsupportedFormatError reports a requested output format the export
// endpoint integration does not handle. Only PNG is supported; the URL
// builder itself is format-agnostic, the restriction is deliberate.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q (only %q is supported)", e.Format, FormatPNG)
}

// DownloadError reports a transport or HTTP failure. StatusCode is zero
// when the request never reached the server.
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// DecodeError reports a response body that is not a valid image, distinct
// from DownloadError so callers can tell "unreachable" from "reachable but
// wrong content".
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
